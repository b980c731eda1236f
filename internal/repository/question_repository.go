package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// QuestionRepository handles question bank data access.
type QuestionRepository struct {
	pool *pgxpool.Pool
}

// NewQuestionRepository creates a new QuestionRepository.
func NewQuestionRepository(pool *pgxpool.Pool) *QuestionRepository {
	return &QuestionRepository{pool: pool}
}

const questionColumns = `exam_id, id, area, content, subtheme, origin, difficulty, year, tags, text, options, answer, images`

// ExamIDs returns the ids of exams that have questions, sorted.
func (r *QuestionRepository) ExamIDs(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT exam_id FROM questions ORDER BY exam_id`)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}

// ListByExam retrieves all questions for a given exam, ordered by position.
func (r *QuestionRepository) ListByExam(ctx context.Context, examID string) ([]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE exam_id = $1 ORDER BY position`, examID)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

// All retrieves the whole bank keyed by exam id.
func (r *QuestionRepository) All(ctx context.Context) (map[string][]model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions ORDER BY exam_id, position`)
	if err != nil {
		return nil, err
	}
	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}

	bank := make(map[string][]model.Question)
	for _, q := range questions {
		bank[q.ExamID] = append(bank[q.ExamID], q)
	}
	return bank, nil
}

// Get retrieves one question with its answer key.
func (r *QuestionRepository) Get(ctx context.Context, examID, questionID string) (*model.Question, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE exam_id = $1 AND id = $2`, examID, questionID)
	if err != nil {
		return nil, err
	}
	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, notFound(pgx.ErrNoRows)
	}
	return &questions[0], nil
}

// Upsert inserts new questions after the existing ones and replaces the
// fields of questions already stored. All statements run in one batch
// inside a transaction.
func (r *QuestionRepository) Upsert(ctx context.Context, examID string, questions []model.Question) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var next int
	if err := tx.QueryRow(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM questions WHERE exam_id = $1`, examID,
	).Scan(&next); err != nil {
		return fmt.Errorf("next position: %w", err)
	}

	batch := &pgx.Batch{}
	for i := range questions {
		q := &questions[i]
		batch.Queue(
			`INSERT INTO questions (exam_id, id, position, area, content, subtheme, origin, difficulty, year, tags, text, options, answer, images)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
			 ON CONFLICT (exam_id, id) DO UPDATE SET
			   area = EXCLUDED.area, content = EXCLUDED.content, subtheme = EXCLUDED.subtheme,
			   origin = EXCLUDED.origin, difficulty = EXCLUDED.difficulty, year = EXCLUDED.year,
			   tags = EXCLUDED.tags, text = EXCLUDED.text, options = EXCLUDED.options,
			   answer = EXCLUDED.answer, images = EXCLUDED.images, updated_at = CURRENT_TIMESTAMP`,
			examID, q.ID, next+i, q.Area, q.Content, q.Subtheme, q.Origin, q.Difficulty, q.Year,
			nonNil(q.Tags), q.Text, nonNil(q.Options), q.Answer, nonNil(q.Images),
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("upsert questions: %w", err)
	}
	return tx.Commit(ctx)
}

func scanQuestions(rows pgx.Rows) ([]model.Question, error) {
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var q model.Question
		if err := rows.Scan(&q.ExamID, &q.ID, &q.Area, &q.Content, &q.Subtheme, &q.Origin,
			&q.Difficulty, &q.Year, &q.Tags, &q.Text, &q.Options, &q.Answer, &q.Images); err != nil {
			return nil, err
		}
		if len(q.Tags) == 0 {
			q.Tags = nil
		}
		if len(q.Images) == 0 {
			q.Images = nil
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
