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

// CustomExamStore implements service.CustomExamStore.
type CustomExamStore struct {
	db *sql.DB
}

// Create inserts e with its question references.
func (s *CustomExamStore) Create(ctx context.Context, e *model.CustomExam) error {
	refs, err := toJSON(e.Refs)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO custom_exams (id, owner_id, name, refs, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID.String(), e.OwnerID.String(), e.Name, refs, toUnix(e.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert custom exam: %w", err)
	}
	return nil
}

// GetByID returns one custom exam.
func (s *CustomExamStore) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomExam, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, refs, created_at FROM custom_exams WHERE id = ?`, id.String())
	e, err := scanCustomExam(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// ListByOwner returns ownerID's custom exams, newest first.
func (s *CustomExamStore) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.CustomExam, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, refs, created_at FROM custom_exams WHERE owner_id = ?
		 ORDER BY created_at DESC, rowid DESC`, ownerID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	exams := []model.CustomExam{}
	for rows.Next() {
		e, err := scanCustomExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, *e)
	}
	return exams, rows.Err()
}

func scanCustomExam(row scanner) (*model.CustomExam, error) {
	var (
		e         model.CustomExam
		refs      string
		createdAt int64
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &refs, &createdAt); err != nil {
		return nil, err
	}
	if err := fromJSON(refs, &e.Refs); err != nil {
		return nil, fmt.Errorf("decode refs: %w", err)
	}
	e.CreatedAt = fromUnix(createdAt)
	return &e, nil
}
