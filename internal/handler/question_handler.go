package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/qbank"
	"github.com/gabarita/gabarita-backend/internal/response"
	"github.com/gabarita/gabarita-backend/internal/service"
	"github.com/gabarita/gabarita-backend/internal/validator"
)

// QuestionHandler handles the browsable bank, imports and custom exams.
type QuestionHandler struct {
	questionService *service.QuestionService
	log             zerolog.Logger
}

// NewQuestionHandler creates a new QuestionHandler.
func NewQuestionHandler(questionService *service.QuestionService, log zerolog.Logger) *QuestionHandler {
	return &QuestionHandler{
		questionService: questionService,
		log:             log.With().Str("component", "question_handler").Logger(),
	}
}

// Browse godoc
// GET /api/v1/questions?exam=&subjects=&themes=&yearMin=&page=&pageSize=
// Filters the bank. Non-numeric year/page values are ignored and reported
// as warnings.
func (h *QuestionHandler) Browse(c *gin.Context) {
	f, problems := qbank.ParseQuery(c.Request.URL.Query())

	page, err := h.questionService.Browse(c.Request.Context(), f)
	if err != nil {
		failInternal(c, h.log, err)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, page,
		response.NewPagination(page.Page, page.PageSize, page.Total),
		filterWarnings(problems)...)
}

// Facets godoc
// GET /api/v1/questions/facets
// Returns the distinct values offered by the filter UI.
func (h *QuestionHandler) Facets(c *gin.Context) {
	facets, err := h.questionService.Facets(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, facets)
}

// Import godoc
// POST /api/v1/questions/import
// Upserts questions into one exam. Every answer must be one of its options.
func (h *QuestionHandler) Import(c *gin.Context) {
	var req model.ImportQuestionsRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	questions := make([]model.Question, len(req.Questions))
	for i := range req.Questions {
		questions[i] = req.Questions[i].ToQuestion(req.ExamID)
	}

	n, err := h.questionService.Import(c.Request.Context(), req.ExamID, questions)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidQuestion,
				map[string]string{"detail": err.Error()})
			return
		}
		failInternal(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, gin.H{"exam_id": req.ExamID, "imported": n})
}

// CreateCustomExam godoc
// POST /api/v1/custom-exams
// Assembles an exam from question references or from a bank filter.
func (h *QuestionHandler) CreateCustomExam(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req model.CreateCustomExamRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	exam, problems, err := h.questionService.CreateCustomExam(c.Request.Context(), claims.UserID, &req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCustomExam):
			response.Fail(c, http.StatusUnprocessableEntity, response.ErrEmptyCustomExam)
		case errors.Is(err, qbank.ErrInvalidFilterInput):
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidFilter,
				map[string]string{"filter": err.Error()})
		default:
			failInternal(c, h.log, err)
		}
		return
	}

	response.SuccessWithWarnings(c, http.StatusCreated,
		gin.H{"exam": exam, "simuladoId": exam.ExamID()},
		filterWarnings(problems)...)
}

// ListCustomExams godoc
// GET /api/v1/custom-exams
// Lists the caller's custom exams.
func (h *QuestionHandler) ListCustomExams(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	exams, err := h.questionService.ListCustomExams(c.Request.Context(), claims.UserID)
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, exams)
}
