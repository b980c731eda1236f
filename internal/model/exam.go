package model

import "strings"

// CustomExamPrefix marks exam ids that belong to learner or teacher assembled exams.
const CustomExamPrefix = "custom:"

// Simulado is a listing entry for an exam available to sit.
type Simulado struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// SimuladoPaper is the exam payload sent to students (no correct answers).
type SimuladoPaper struct {
	ExamID    string               `json:"exam_id"`
	Name      string               `json:"name"`
	Questions []QuestionForStudent `json:"questions"`
}

// IsCustomExamID reports whether examID refers to a custom exam.
func IsCustomExamID(examID string) bool {
	return strings.HasPrefix(examID, CustomExamPrefix)
}

// SubmitRequest is the payload for submitting answers. Values are coerced to
// strings so malformed submissions never fail binding.
type SubmitRequest struct {
	Answers map[string]any `json:"answers"`
}
