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

// ClassStore implements service.ClassStore.
type ClassStore struct {
	db *sql.DB
}

// Create inserts a class.
func (s *ClassStore) Create(ctx context.Context, c *model.Class) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO classes (id, name, teacher_id, created_at) VALUES (?, ?, ?, ?)`,
		c.ID.String(), c.Name, c.TeacherID.String(), toUnix(c.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert class: %w", err)
	}
	return nil
}

// ListByTeacher returns the classes of teacherID, oldest first.
func (s *ClassStore) ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Class, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes WHERE teacher_id = ?
		 ORDER BY created_at, rowid`, teacherID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	classes := []model.Class{}
	for rows.Next() {
		var (
			c         model.Class
			createdAt int64
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.TeacherID, &createdAt); err != nil {
			return nil, err
		}
		c.CreatedAt = fromUnix(createdAt)
		classes = append(classes, c)
	}
	return classes, rows.Err()
}

// GetForTeacher returns the class only when teacherID owns it.
func (s *ClassStore) GetForTeacher(ctx context.Context, classID, teacherID uuid.UUID) (*model.Class, error) {
	var (
		c         model.Class
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, teacher_id, created_at FROM classes WHERE id = ? AND teacher_id = ?`,
		classID.String(), teacherID.String(),
	).Scan(&c.ID, &c.Name, &c.TeacherID, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	c.CreatedAt = fromUnix(createdAt)
	return &c, nil
}

// AddStudent enrolls studentID; enrolling twice is a no-op.
func (s *ClassStore) AddStudent(ctx context.Context, classID, studentID uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO class_students (class_id, student_id) VALUES (?, ?)
		 ON CONFLICT (class_id, student_id) DO NOTHING`,
		classID.String(), studentID.String(),
	)
	return err
}

// StudentIDs returns the roster of classID.
func (s *ClassStore) StudentIDs(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT student_id FROM class_students WHERE class_id = ? ORDER BY rowid`, classID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []uuid.UUID{}
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
