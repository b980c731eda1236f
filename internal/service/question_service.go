package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/qbank"
)

// Domain Errors
var (
	ErrEmptyCustomExam = errors.New("custom exam has no questions")
	ErrInvalidQuestion = errors.New("invalid question")
)

// QuestionPage is one page of the browsable bank, answers stripped.
type QuestionPage struct {
	Total    int                        `json:"total"`
	Page     int                        `json:"page"`
	PageSize int                        `json:"pageSize"`
	Items    []model.QuestionForStudent `json:"items"`
}

// QuestionService handles bank browsing, imports and custom exam assembly.
type QuestionService struct {
	bank    QuestionBank
	customs CustomExamStore
	log     zerolog.Logger
}

// NewQuestionService creates a new QuestionService.
func NewQuestionService(bank QuestionBank, customs CustomExamStore, log zerolog.Logger) *QuestionService {
	return &QuestionService{
		bank:    bank,
		customs: customs,
		log:     log.With().Str("component", "question_service").Logger(),
	}
}

// Browse filters the bank and returns one page without answer keys.
func (s *QuestionService) Browse(ctx context.Context, f qbank.Filter) (*QuestionPage, error) {
	bank, err := s.bank.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}

	res := qbank.Apply(bank, f)
	return &QuestionPage{
		Total:    res.Total,
		Page:     res.Page,
		PageSize: res.PageSize,
		Items:    model.ForStudents(res.Items),
	}, nil
}

// Facets returns the distinct values the filter UI offers.
func (s *QuestionService) Facets(ctx context.Context) (*qbank.Facets, error) {
	bank, err := s.bank.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bank: %w", err)
	}
	facets := qbank.CollectFacets(bank)
	return &facets, nil
}

// Import validates and upserts questions into examID. Nothing is written
// when any question is invalid.
func (s *QuestionService) Import(ctx context.Context, examID string, questions []model.Question) (int, error) {
	for i := range questions {
		questions[i].ExamID = examID
		if err := qbank.Validate(&questions[i]); err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidQuestion, questions[i].ID, err)
		}
	}
	if err := s.bank.Upsert(ctx, examID, questions); err != nil {
		return 0, fmt.Errorf("upsert questions: %w", err)
	}

	s.log.Info().Str("exam_id", examID).Int("count", len(questions)).Msg("Questions imported")
	return len(questions), nil
}

// ImportRaw normalizes historical record shapes and upserts the valid ones.
// Rejected records are reported and do not stop the import.
func (s *QuestionService) ImportRaw(ctx context.Context, examID string, records []map[string]any) (int, []error, error) {
	questions, problems := qbank.NormalizeAll(records, examID)
	for _, p := range problems {
		s.log.Warn().Err(p).Str("exam_id", examID).Msg("Question rejected")
	}
	if len(questions) == 0 {
		return 0, problems, nil
	}

	if err := s.bank.Upsert(ctx, examID, questions); err != nil {
		return 0, problems, fmt.Errorf("upsert questions: %w", err)
	}

	s.log.Info().
		Str("exam_id", examID).
		Int("imported", len(questions)).
		Int("rejected", len(problems)).
		Msg("Questions imported")
	return len(questions), problems, nil
}

// CreateCustomExam assembles an exam from explicit refs or, when none are
// given, from the questions matching a filter query string. Only references
// are stored; answers stay in the bank.
func (s *QuestionService) CreateCustomExam(ctx context.Context, ownerID uuid.UUID, req *model.CreateCustomExamRequest) (*model.CustomExam, []error, error) {
	var (
		refs     []model.QuestionRef
		problems []error
	)

	if len(req.Refs) > 0 {
		found, err := ResolveRefs(ctx, s.bank, req.Refs)
		if err != nil {
			return nil, nil, err
		}
		refs = refsOf(found)
	} else {
		values, err := url.ParseQuery(req.Filter)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: filter: %v", qbank.ErrInvalidFilterInput, err)
		}
		var f qbank.Filter
		f, problems = qbank.ParseQuery(values)

		bank, err := s.bank.All(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("load bank: %w", err)
		}
		matched := qbank.Match(bank, f)

		limit := req.Limit
		if limit <= 0 {
			limit = qbank.DefaultPageSize
		}
		if limit > qbank.MaxPageSize {
			limit = qbank.MaxPageSize
		}
		if len(matched) > limit {
			matched = matched[:limit]
		}
		refs = refsOf(matched)
	}

	if len(refs) == 0 {
		return nil, problems, ErrEmptyCustomExam
	}

	exam := &model.CustomExam{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      req.Name,
		Refs:      refs,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.customs.Create(ctx, exam); err != nil {
		return nil, problems, fmt.Errorf("create custom exam: %w", err)
	}

	s.log.Info().
		Str("exam_id", exam.ExamID()).
		Str("owner_id", ownerID.String()).
		Int("questions", len(refs)).
		Msg("Custom exam created")
	return exam, problems, nil
}

// ListCustomExams returns the custom exams created by ownerID.
func (s *QuestionService) ListCustomExams(ctx context.Context, ownerID uuid.UUID) ([]model.CustomExam, error) {
	return s.customs.ListByOwner(ctx, ownerID)
}

func refsOf(questions []model.Question) []model.QuestionRef {
	refs := make([]model.QuestionRef, len(questions))
	for i, q := range questions {
		refs[i] = model.QuestionRef{ExamID: q.ExamID, QuestionID: q.ID}
	}
	return refs
}
