package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrEmailTaken         ErrCode = "EMAIL_ALREADY_REGISTERED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden       ErrCode = "FORBIDDEN"
	ErrTeacherOnly     ErrCode = "TEACHER_ACCESS_ONLY"
	ErrNotAttemptOwner ErrCode = "NOT_ATTEMPT_OWNER"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation      ErrCode = "VALIDATION_ERROR"
	ErrInvalidID       ErrCode = "INVALID_ID"
	ErrInvalidPayload  ErrCode = "INVALID_PAYLOAD"
	ErrInvalidFilter   ErrCode = "INVALID_FILTER_INPUT"
	ErrInvalidMode     ErrCode = "INVALID_AGGREGATION_MODE"
	ErrInvalidQuestion ErrCode = "INVALID_QUESTION"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound         ErrCode = "NOT_FOUND"
	ErrClassNotFound    ErrCode = "CLASS_NOT_FOUND"
	ErrStudentNotFound  ErrCode = "STUDENT_NOT_FOUND"
	ErrExamNotFound     ErrCode = "EXAM_NOT_FOUND"
	ErrQuestionNotFound ErrCode = "QUESTION_NOT_FOUND"
	ErrEmptyCustomExam  ErrCode = "EMPTY_CUSTOM_EXAM"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "E-mail ou senha inválidos."
	case ErrEmailTaken:
		return "Este e-mail já está cadastrado."
	case ErrTokenRequired:
		return "Token de autenticação obrigatório."
	case ErrTokenInvalid:
		return "Token de autenticação inválido ou expirado."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "Você não tem permissão para acessar este recurso."
	case ErrTeacherOnly:
		return "Recurso disponível apenas para professores."
	case ErrNotAttemptOwner:
		return "Esta tentativa pertence a outro usuário."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Falha na validação. Verifique os dados enviados."
	case ErrInvalidID:
		return "Formato de ID inválido."
	case ErrInvalidPayload:
		return "Corpo da requisição inválido."
	case ErrInvalidFilter:
		return "Parâmetro numérico de filtro inválido; ele foi ignorado."
	case ErrInvalidMode:
		return "Modo de agregação inválido. Use 'all' ou 'latest'."
	case ErrInvalidQuestion:
		return "Questão inválida: a resposta deve ser uma das alternativas."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Recurso não encontrado."
	case ErrClassNotFound:
		return "Turma não encontrada."
	case ErrStudentNotFound:
		return "Aluno não encontrado."
	case ErrExamNotFound:
		return "Simulado não encontrado."
	case ErrQuestionNotFound:
		return "Questão não encontrada no banco."
	case ErrEmptyCustomExam:
		return "O simulado personalizado precisa de ao menos uma questão."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Muitas requisições. Tente novamente em instantes."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Erro interno do servidor."
	default:
		return "Ocorreu um erro inesperado."
	}
}
