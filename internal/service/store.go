package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Store errors shared by both storage backends.
var (
	ErrNotFound   = errors.New("not found")
	ErrEmailTaken = errors.New("email already registered")
)

// QuestionBank reads and writes bank questions grouped by exam id.
type QuestionBank interface {
	// ExamIDs returns every exam id that has at least one question, sorted.
	ExamIDs(ctx context.Context) ([]string, error)
	// ListByExam returns the questions of one exam in bank order.
	ListByExam(ctx context.Context, examID string) ([]model.Question, error)
	All(ctx context.Context) (map[string][]model.Question, error)
	Get(ctx context.Context, examID, questionID string) (*model.Question, error)
	// Upsert inserts or replaces questions of examID, keeping the given order
	// for new questions.
	Upsert(ctx context.Context, examID string, questions []model.Question) error
}

// AttemptStore is append-only: attempts are never updated or deduplicated.
type AttemptStore interface {
	Append(ctx context.Context, a *model.Attempt) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Attempt, error)
	// ListByUser returns a user's attempts, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Attempt, error)
	// ListByExam returns attempts at examID by any of userIDs, oldest first.
	ListByExam(ctx context.Context, examID string, userIDs []uuid.UUID) ([]model.Attempt, error)
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, u *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error)
}

// ClassStore persists classes and their rosters.
type ClassStore interface {
	Create(ctx context.Context, c *model.Class) error
	ListByTeacher(ctx context.Context, teacherID uuid.UUID) ([]model.Class, error)
	// GetForTeacher returns ErrNotFound when the class does not belong to teacherID.
	GetForTeacher(ctx context.Context, classID, teacherID uuid.UUID) (*model.Class, error)
	// AddStudent is idempotent.
	AddStudent(ctx context.Context, classID, studentID uuid.UUID) error
	StudentIDs(ctx context.Context, classID uuid.UUID) ([]uuid.UUID, error)
}

// CustomExamStore persists assembled exams.
type CustomExamStore interface {
	Create(ctx context.Context, e *model.CustomExam) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.CustomExam, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]model.CustomExam, error)
}
