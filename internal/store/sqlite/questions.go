package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// QuestionStore implements service.QuestionBank.
type QuestionStore struct {
	db *sql.DB
}

const questionColumns = `exam_id, id, area, content, subtheme, origin, difficulty, year, tags, text, options, answer, images`

// ExamIDs returns the ids of exams that have questions, sorted.
func (s *QuestionStore) ExamIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT DISTINCT exam_id FROM questions ORDER BY exam_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListByExam returns the questions of examID in insertion order.
func (s *QuestionStore) ListByExam(ctx context.Context, examID string) ([]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE exam_id = ? ORDER BY position`, examID)
	if err != nil {
		return nil, err
	}
	return scanQuestions(rows)
}

// All returns the whole bank keyed by exam id.
func (s *QuestionStore) All(ctx context.Context) (map[string][]model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
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

// Get returns one question with its answer key.
func (s *QuestionStore) Get(ctx context.Context, examID, questionID string) (*model.Question, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+questionColumns+` FROM questions WHERE exam_id = ? AND id = ?`, examID, questionID)
	if err != nil {
		return nil, err
	}
	questions, err := scanQuestions(rows)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, service.ErrNotFound
	}
	return &questions[0], nil
}

// Upsert inserts new questions after the existing ones and replaces the
// fields of questions already stored, in one transaction.
func (s *QuestionStore) Upsert(ctx context.Context, examID string, questions []model.Question) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var next int
	err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(position), -1) + 1 FROM questions WHERE exam_id = ?`, examID,
	).Scan(&next)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("next position: %w", err)
	}

	for i := range questions {
		q := &questions[i]
		tags, err := toJSON(nonNil(q.Tags))
		if err != nil {
			return err
		}
		options, err := toJSON(nonNil(q.Options))
		if err != nil {
			return err
		}
		images, err := toJSON(nonNil(q.Images))
		if err != nil {
			return err
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO questions (exam_id, id, position, area, content, subtheme, origin, difficulty, year, tags, text, options, answer, images)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT (exam_id, id) DO UPDATE SET
			   area = excluded.area, content = excluded.content, subtheme = excluded.subtheme,
			   origin = excluded.origin, difficulty = excluded.difficulty, year = excluded.year,
			   tags = excluded.tags, text = excluded.text, options = excluded.options,
			   answer = excluded.answer, images = excluded.images`,
			examID, q.ID, next+i, q.Area, q.Content, q.Subtheme, q.Origin, q.Difficulty, q.Year,
			tags, q.Text, options, q.Answer, images,
		)
		if err != nil {
			return fmt.Errorf("upsert question %s: %w", q.ID, err)
		}
	}
	return tx.Commit()
}

func scanQuestions(rows *sql.Rows) ([]model.Question, error) {
	defer rows.Close()

	questions := []model.Question{}
	for rows.Next() {
		var (
			q                     model.Question
			year                  sql.NullInt64
			tags, options, images string
		)
		if err := rows.Scan(&q.ExamID, &q.ID, &q.Area, &q.Content, &q.Subtheme, &q.Origin,
			&q.Difficulty, &year, &tags, &q.Text, &options, &q.Answer, &images); err != nil {
			return nil, err
		}
		if year.Valid {
			y := int(year.Int64)
			q.Year = &y
		}
		if err := fromJSON(tags, &q.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		if err := fromJSON(options, &q.Options); err != nil {
			return nil, fmt.Errorf("decode options: %w", err)
		}
		if err := fromJSON(images, &q.Images); err != nil {
			return nil, fmt.Errorf("decode images: %w", err)
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
