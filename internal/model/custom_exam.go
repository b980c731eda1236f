package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionRef points at an existing bank question without copying it.
type QuestionRef struct {
	ExamID     string `json:"exam_id" binding:"required"`
	QuestionID string `json:"question_id" binding:"required"`
}

// Key identifies the question inside a custom exam paper and its submissions.
func (r QuestionRef) Key() string {
	return r.ExamID + "/" + r.QuestionID
}

// CustomExam is an exam assembled from references into the question bank.
// Correctness data is resolved from the bank at grading time.
type CustomExam struct {
	ID        uuid.UUID     `json:"id"`
	OwnerID   uuid.UUID     `json:"owner_id"`
	Name      string        `json:"name"`
	Refs      []QuestionRef `json:"questions"`
	CreatedAt time.Time     `json:"created_at"`
}

// ExamID is the id under which attempts at this custom exam are stored.
func (e *CustomExam) ExamID() string {
	return CustomExamPrefix + e.ID.String()
}

// CreateCustomExamRequest builds a custom exam either from explicit refs or
// from a bank filter (query string syntax), capped at Limit questions.
type CreateCustomExamRequest struct {
	Name   string        `json:"name" binding:"required,min=1,max=255"`
	Refs   []QuestionRef `json:"questions" binding:"omitempty,max=200,dive"`
	Filter string        `json:"filter" binding:"omitempty,max=2000"`
	Limit  int           `json:"limit" binding:"omitempty,min=1,max=200"`
}
