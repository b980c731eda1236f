package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// AttemptStore implements service.AttemptStore. Rows are only ever inserted.
type AttemptStore struct {
	db *sql.DB
}

const attemptColumns = `id, user_id, exam_id, created_at, score, total, correct, by_area, by_content, per_question`

// Append stores a new attempt; an id collision is an error, never an overwrite.
func (s *AttemptStore) Append(ctx context.Context, a *model.Attempt) error {
	byArea, err := toJSON(nonNilStats(a.ByArea))
	if err != nil {
		return err
	}
	byContent, err := toJSON(nonNilStats(a.ByContent))
	if err != nil {
		return err
	}
	perQuestion := a.PerQuestion
	if perQuestion == nil {
		perQuestion = []model.QuestionOutcome{}
	}
	perQuestionJSON, err := toJSON(perQuestion)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO attempts (`+attemptColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.UserID.String(), a.ExamID, toUnix(a.Timestamp), a.Score,
		a.TotalQuestions, a.CorrectCount, byArea, byContent, perQuestionJSON,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// GetByID returns one attempt with its per-question review.
func (s *AttemptStore) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE id = ?`, id.String())
	a, err := scanAttempt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return a, nil
}

// ListByUser returns the attempts of userID, newest first.
func (s *AttemptStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Attempt, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE user_id = ?
		 ORDER BY created_at DESC, rowid DESC`, userID.String())
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

// ListByExam returns attempts at examID by userIDs, oldest first.
func (s *AttemptStore) ListByExam(ctx context.Context, examID string, userIDs []uuid.UUID) ([]model.Attempt, error) {
	if len(userIDs) == 0 {
		return []model.Attempt{}, nil
	}
	in, args := inClause(userIDs)
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE exam_id = ? AND user_id IN `+in+`
		 ORDER BY created_at, rowid`, append([]any{examID}, args...)...)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAttempt(row scanner) (*model.Attempt, error) {
	var (
		a                              model.Attempt
		createdAt                      int64
		byArea, byContent, perQuestion string
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.ExamID, &createdAt, &a.Score, &a.TotalQuestions,
		&a.CorrectCount, &byArea, &byContent, &perQuestion); err != nil {
		return nil, err
	}
	a.Timestamp = fromUnix(createdAt)
	if err := fromJSON(byArea, &a.ByArea); err != nil {
		return nil, fmt.Errorf("decode by_area: %w", err)
	}
	if err := fromJSON(byContent, &a.ByContent); err != nil {
		return nil, fmt.Errorf("decode by_content: %w", err)
	}
	if err := fromJSON(perQuestion, &a.PerQuestion); err != nil {
		return nil, fmt.Errorf("decode per_question: %w", err)
	}
	return &a, nil
}

func scanAttempts(rows *sql.Rows) ([]model.Attempt, error) {
	defer rows.Close()

	attempts := []model.Attempt{}
	for rows.Next() {
		a, err := scanAttempt(rows)
		if err != nil {
			return nil, err
		}
		attempts = append(attempts, *a)
	}
	return attempts, rows.Err()
}

func nonNilStats(s []model.GroupStat) []model.GroupStat {
	if s == nil {
		return []model.GroupStat{}
	}
	return s
}
