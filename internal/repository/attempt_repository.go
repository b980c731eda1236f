package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// AttemptRepository handles attempt data access. Attempts are insert-only.
type AttemptRepository struct {
	pool *pgxpool.Pool
}

// NewAttemptRepository creates a new AttemptRepository.
func NewAttemptRepository(pool *pgxpool.Pool) *AttemptRepository {
	return &AttemptRepository{pool: pool}
}

const attemptColumns = `id, user_id, exam_id, created_at, score, total, correct, by_area, by_content, per_question`

// Append inserts a new attempt. An id collision is an error, never an overwrite.
func (r *AttemptRepository) Append(ctx context.Context, a *model.Attempt) error {
	byArea, err := json.Marshal(nonNilStats(a.ByArea))
	if err != nil {
		return err
	}
	byContent, err := json.Marshal(nonNilStats(a.ByContent))
	if err != nil {
		return err
	}
	perQuestion := a.PerQuestion
	if perQuestion == nil {
		perQuestion = []model.QuestionOutcome{}
	}
	perQuestionJSON, err := json.Marshal(perQuestion)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (`+attemptColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.ID, a.UserID, a.ExamID, a.Timestamp, a.Score, a.TotalQuestions, a.CorrectCount,
		byArea, byContent, perQuestionJSON,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// GetByID retrieves one attempt with its per-question review.
func (r *AttemptRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+attemptColumns+` FROM attempts WHERE id = $1`, id)
	a, err := scanAttempt(row)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

// ListByUser retrieves a user's attempts, newest first.
func (r *AttemptRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Attempt, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE user_id = $1
		 ORDER BY created_at DESC, seq DESC`, userID)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

// ListByExam retrieves attempts at examID by any of userIDs, oldest first.
func (r *AttemptRepository) ListByExam(ctx context.Context, examID string, userIDs []uuid.UUID) ([]model.Attempt, error) {
	if len(userIDs) == 0 {
		return []model.Attempt{}, nil
	}
	rows, err := r.pool.Query(ctx,
		`SELECT `+attemptColumns+` FROM attempts WHERE exam_id = $1 AND user_id = ANY($2)
		 ORDER BY created_at, seq`, examID, userIDs)
	if err != nil {
		return nil, err
	}
	return scanAttempts(rows)
}

func scanAttempt(row pgx.Row) (*model.Attempt, error) {
	var (
		a                              model.Attempt
		byArea, byContent, perQuestion []byte
	)
	if err := row.Scan(&a.ID, &a.UserID, &a.ExamID, &a.Timestamp, &a.Score, &a.TotalQuestions,
		&a.CorrectCount, &byArea, &byContent, &perQuestion); err != nil {
		return nil, err
	}
	a.Timestamp = a.Timestamp.UTC()
	if err := json.Unmarshal(byArea, &a.ByArea); err != nil {
		return nil, fmt.Errorf("decode by_area: %w", err)
	}
	if err := json.Unmarshal(byContent, &a.ByContent); err != nil {
		return nil, fmt.Errorf("decode by_content: %w", err)
	}
	if err := json.Unmarshal(perQuestion, &a.PerQuestion); err != nil {
		return nil, fmt.Errorf("decode per_question: %w", err)
	}
	return &a, nil
}

func scanAttempts(rows pgx.Rows) ([]model.Attempt, error) {
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
