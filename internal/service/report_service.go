package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/scoring"
)

// ReportService builds cohort reports for a teacher's classes.
type ReportService struct {
	classes  ClassStore
	users    UserStore
	attempts AttemptStore
	log      zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(classes ClassStore, users UserStore, attempts AttemptStore, log zerolog.Logger) *ReportService {
	return &ReportService{
		classes:  classes,
		users:    users,
		attempts: attempts,
		log:      log.With().Str("component", "report_service").Logger(),
	}
}

// ClassReport aggregates the attempts of the class roster at examID. It is
// recomputed on every call; an empty roster or no attempts yields a zero report.
func (s *ReportService) ClassReport(ctx context.Context, teacherID, classID uuid.UUID, examID string, mode model.AggregationMode) (*model.CohortReport, error) {
	if _, err := s.classes.GetForTeacher(ctx, classID, teacherID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}

	studentIDs, err := s.classes.StudentIDs(ctx, classID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}

	var (
		attempts []model.Attempt
		roster   scoring.Roster
	)
	if len(studentIDs) > 0 {
		names, err := s.users.NamesByIDs(ctx, studentIDs)
		if err != nil {
			return nil, fmt.Errorf("load roster names: %w", err)
		}
		roster = scoring.Roster(names)

		attempts, err = s.attempts.ListByExam(ctx, examID, studentIDs)
		if err != nil {
			return nil, fmt.Errorf("list attempts: %w", err)
		}
	}

	report := scoring.Aggregate(examID, attempts, roster, mode)

	s.log.Debug().
		Str("class_id", classID.String()).
		Str("exam_id", examID).
		Str("mode", string(report.Mode)).
		Int("attempts", len(attempts)).
		Msg("Class report computed")
	return &report, nil
}
