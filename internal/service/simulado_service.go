package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/scoring"
)

// Domain Errors
var (
	ErrExamNotFound    = errors.New("exam not found")
	ErrNotAttemptOwner = errors.New("attempt belongs to another user")
)

// FeaturedExamID is the bank exam shown under its official name. Class
// reports default to it when no exam is named.
const FeaturedExamID = "1"

// SimuladoService serves exam papers, grades submissions and keeps the
// attempt history.
type SimuladoService struct {
	bank     QuestionBank
	attempts AttemptStore
	customs  CustomExamStore
	now      func() time.Time
	log      zerolog.Logger
}

// NewSimuladoService creates a new SimuladoService.
func NewSimuladoService(
	bank QuestionBank,
	attempts AttemptStore,
	customs CustomExamStore,
	log zerolog.Logger,
) *SimuladoService {
	return &SimuladoService{
		bank:     bank,
		attempts: attempts,
		customs:  customs,
		now:      func() time.Time { return time.Now().UTC().Truncate(time.Microsecond) },
		log:      log.With().Str("component", "simulado_service").Logger(),
	}
}

// ExamName is the display name of a bank exam.
func ExamName(examID string) string {
	if examID == FeaturedExamID {
		return "ENEM 2024 – Dia 1"
	}
	return "Simulado " + examID
}

// List returns every bank exam with its question count.
func (s *SimuladoService) List(ctx context.Context) ([]model.Simulado, error) {
	ids, err := s.bank.ExamIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list exam ids: %w", err)
	}

	out := make([]model.Simulado, 0, len(ids))
	for _, id := range ids {
		questions, err := s.bank.ListByExam(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("list exam %s: %w", id, err)
		}
		out = append(out, model.Simulado{ID: id, Name: ExamName(id), Total: len(questions)})
	}
	return out, nil
}

// Paper returns the exam without answers. A bank exam with no questions
// yields an empty paper.
func (s *SimuladoService) Paper(ctx context.Context, examID string) (*model.SimuladoPaper, error) {
	name, questions, err := s.resolve(ctx, examID)
	if err != nil {
		return nil, err
	}
	return &model.SimuladoPaper{
		ExamID:    examID,
		Name:      name,
		Questions: model.ForStudents(questions),
	}, nil
}

// Submit grades answers against the exam and appends the attempt. Grading an
// exam with no questions stores a zero-score attempt.
func (s *SimuladoService) Submit(ctx context.Context, userID uuid.UUID, examID string, answers map[string]any) (*model.Attempt, error) {
	_, questions, err := s.resolve(ctx, examID)
	if err != nil {
		return nil, err
	}

	result := scoring.Grade(questions, scoring.NewSubmission(answers))
	attempt := model.NewAttempt(userID, examID, s.now(), result)

	if err := s.attempts.Append(ctx, attempt); err != nil {
		return nil, fmt.Errorf("append attempt: %w", err)
	}

	s.log.Info().
		Str("exam_id", examID).
		Str("user_id", userID.String()).
		Int("correct", result.Correct).
		Int("total", result.Total).
		Float64("score", result.Score).
		Msg("Submission graded")
	return attempt, nil
}

// History lists a user's attempts, newest first.
func (s *SimuladoService) History(ctx context.Context, userID uuid.UUID) ([]model.AttemptSummary, error) {
	attempts, err := s.attempts.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}

	out := make([]model.AttemptSummary, len(attempts))
	for i := range attempts {
		out[i] = attempts[i].Summary()
	}
	return out, nil
}

// Attempt returns the full review of one attempt. Only its owner may read it.
func (s *SimuladoService) Attempt(ctx context.Context, userID, attemptID uuid.UUID) (*model.Attempt, error) {
	a, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, ErrNotAttemptOwner
	}
	return a, nil
}

// resolve loads the name and answer-bearing questions of a bank or custom exam.
func (s *SimuladoService) resolve(ctx context.Context, examID string) (string, []model.Question, error) {
	if !model.IsCustomExamID(examID) {
		questions, err := s.bank.ListByExam(ctx, examID)
		if err != nil {
			return "", nil, fmt.Errorf("list questions: %w", err)
		}
		return ExamName(examID), questions, nil
	}

	id, err := uuid.Parse(examID[len(model.CustomExamPrefix):])
	if err != nil {
		return "", nil, ErrExamNotFound
	}
	exam, err := s.customs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", nil, ErrExamNotFound
		}
		return "", nil, fmt.Errorf("get custom exam: %w", err)
	}

	questions, err := ResolveRefs(ctx, s.bank, exam.Refs)
	if err != nil {
		return "", nil, err
	}
	// Refs may span exams whose question ids collide.
	for i := range questions {
		questions[i].ID = model.QuestionRef{ExamID: questions[i].ExamID, QuestionID: questions[i].ID}.Key()
	}
	return exam.Name, questions, nil
}

// ResolveRefs loads referenced questions in ref order. References to
// questions no longer in the bank are skipped.
func ResolveRefs(ctx context.Context, bank QuestionBank, refs []model.QuestionRef) ([]model.Question, error) {
	byExam := make(map[string][]model.Question)
	out := make([]model.Question, 0, len(refs))
	for _, ref := range refs {
		questions, ok := byExam[ref.ExamID]
		if !ok {
			var err error
			questions, err = bank.ListByExam(ctx, ref.ExamID)
			if err != nil {
				return nil, fmt.Errorf("list exam %s: %w", ref.ExamID, err)
			}
			byExam[ref.ExamID] = questions
		}
		for i := range questions {
			if questions[i].ID == ref.QuestionID {
				q := questions[i]
				q.ExamID = ref.ExamID
				out = append(out, q)
				break
			}
		}
	}
	return out, nil
}
