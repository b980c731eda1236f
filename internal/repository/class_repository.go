package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// ClassRepository handles class and roster data access.
type ClassRepository struct {
	pool *pgxpool.Pool
}

// NewClassRepository creates a new ClassRepository.
func NewClassRepository(pool *pgxpool.Pool) *ClassRepository {
	return &ClassRepository{pool: pool}
}

// Create inserts a new class.
func (r *ClassRepository) Create(ctx context.Context, c *model.Class) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO classes (id, name, teacher_id, created_at) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.TeacherID, c.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

// ListByTeacher retrieves the classes of a teacher, oldest first.
func (r *ClassRepository) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Class, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes
		 WHERE teacher_id = $1 ORDER BY created_at, name`, teacherID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var c model.Class
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt); err != nil {
			return nil, err
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetForTeacher retrieves a class only when teacherID owns it.
func (r *ClassRepository) GetForTeacher(ctx context.Context, classID, teacherID uuid.UUID) (*model.Class, error) {
	c := &model.Class{}
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes WHERE id = $1 AND teacher_id = $2`,
		classID, teacherID,
	).Scan(&c.ID, &c.Name, &c.TeacherID, &c.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

// AddStudent enrolls a student; enrolling twice is a no-op.
func (r *ClassRepository) AddStudent(ctx context.Context, classID, studentID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO class_students (class_id, student_id) VALUES ($1, $2)
		 ON CONFLICT (class_id, student_id) DO NOTHING`,
		classID, studentID,
	)
	return err
}

// StudentIDs retrieves the roster of a class in enrollment order.
func (r *ClassRepository) StudentIDs(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT student_id FROM class_students WHERE class_id = $1 ORDER BY added_at, student_id`, classID)
	if err != nil {
		return nil, err
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, err
	}
	if ids == nil {
		ids = []uuid.UUID{}
	}
	return ids, nil
}
