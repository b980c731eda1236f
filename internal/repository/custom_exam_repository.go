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

// CustomExamRepository handles custom exam data access.
type CustomExamRepository struct {
	pool *pgxpool.Pool
}

// NewCustomExamRepository creates a new CustomExamRepository.
func NewCustomExamRepository(pool *pgxpool.Pool) *CustomExamRepository {
	return &CustomExamRepository{pool: pool}
}

// Create inserts a custom exam with its question references.
func (r *CustomExamRepository) Create(ctx context.Context, e *model.CustomExam) error {
	refs, err := json.Marshal(e.Refs)
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO custom_exams (id, owner_id, name, refs, created_at) VALUES ($1, $2, $3, $4, $5)`,
		e.ID, e.OwnerID, e.Name, refs, e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert custom exam: %w", err)
	}
	return nil
}

// GetByID retrieves one custom exam.
func (r *CustomExamRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.CustomExam, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, owner_id, name, refs, created_at FROM custom_exams WHERE id = $1`, id)
	e, err := scanCustomExam(row)
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

// ListByOwner retrieves the custom exams of an owner, newest first.
func (r *CustomExamRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.CustomExam, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, owner_id, name, refs, created_at FROM custom_exams
		 WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
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

func scanCustomExam(row pgx.Row) (*model.CustomExam, error) {
	var (
		e    model.CustomExam
		refs []byte
	)
	if err := row.Scan(&e.ID, &e.OwnerID, &e.Name, &refs, &e.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(refs, &e.Refs); err != nil {
		return nil, fmt.Errorf("decode refs: %w", err)
	}
	return &e, nil
}
