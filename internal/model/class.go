package model

import (
	"time"

	"github.com/google/uuid"
)

// Class represents a teacher's group of students ("turma").
type Class struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TeacherID uuid.UUID `json:"teacher_id"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateClassRequest is the payload for creating a class.
type CreateClassRequest struct {
	Name string `json:"name" binding:"required,min=1,max=255"`
}

// AddStudentRequest is the payload for enrolling a student into a class.
type AddStudentRequest struct {
	StudentEmail string `json:"studentEmail" binding:"required,email"`
}
