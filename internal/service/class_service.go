package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Domain Errors
var (
	ErrClassNotFound   = errors.New("class not found")
	ErrStudentNotFound = errors.New("student not found")
)

// ClassService manages a teacher's classes and their rosters.
type ClassService struct {
	classes ClassStore
	users   UserStore
	log     zerolog.Logger
}

// NewClassService creates a new ClassService.
func NewClassService(classes ClassStore, users UserStore, log zerolog.Logger) *ClassService {
	return &ClassService{
		classes: classes,
		users:   users,
		log:     log.With().Str("component", "class_service").Logger(),
	}
}

// Create creates a class owned by teacherID.
func (s *ClassService) Create(ctx context.Context, teacherID uuid.UUID, name string) (*model.Class, error) {
	class := &model.Class{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		TeacherID: teacherID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.classes.Create(ctx, class); err != nil {
		return nil, fmt.Errorf("create class: %w", err)
	}
	return class, nil
}

// List retrieves the classes of teacherID.
func (s *ClassService) List(ctx context.Context, teacherID uuid.UUID) ([]model.Class, error) {
	return s.classes.ListByTeacher(ctx, teacherID)
}

// AddStudent enrolls the student account registered under email. Adding a
// student twice is a no-op.
func (s *ClassService) AddStudent(ctx context.Context, teacherID, classID uuid.UUID, email string) (*model.User, error) {
	if _, err := s.classes.GetForTeacher(ctx, classID, teacherID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrClassNotFound
		}
		return nil, fmt.Errorf("get class: %w", err)
	}

	student, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, fmt.Errorf("get student: %w", err)
	}
	if student.Role != model.RoleStudent {
		return nil, ErrStudentNotFound
	}

	if err := s.classes.AddStudent(ctx, classID, student.ID); err != nil {
		return nil, fmt.Errorf("add student: %w", err)
	}

	s.log.Info().
		Str("class_id", classID.String()).
		Str("student_id", student.ID.String()).
		Msg("Student enrolled")
	return student, nil
}
