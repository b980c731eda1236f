package model

import (
	"time"

	"github.com/google/uuid"
)

// QuestionOutcome is the graded result for a single question.
type QuestionOutcome struct {
	QuestionID    string  `json:"id"`
	Area          string  `json:"area"`
	Content       string  `json:"content"`
	Chosen        *string `json:"chosen"`
	CorrectAnswer string  `json:"correct"`
	IsHit         bool    `json:"hit"`
}

// GroupStat summarizes accuracy within one grouping key. Area-keyed stats
// serialize the key as "area", content-keyed ones as "content".
type GroupStat struct {
	Area       string `json:"area,omitempty"`
	Content    string `json:"content,omitempty"`
	Total      int    `json:"total"`
	Correct    int    `json:"correct"`
	Percentage int    `json:"pct"`
}

// GradedResult is the outcome of grading one submission against one exam.
type GradedResult struct {
	Score       float64           `json:"score"`
	Total       int               `json:"total"`
	Correct     int               `json:"correct"`
	ByArea      []GroupStat       `json:"byArea"`
	ByContent   []GroupStat       `json:"byContent"`
	PerQuestion []QuestionOutcome `json:"perQuestion"`
}

// Attempt is one persisted, immutable graded submission.
type Attempt struct {
	ID             uuid.UUID         `json:"id"`
	UserID         uuid.UUID         `json:"user_id"`
	ExamID         string            `json:"exam_id"`
	Timestamp      time.Time         `json:"timestamp"`
	Score          float64           `json:"score"`
	TotalQuestions int               `json:"total"`
	CorrectCount   int               `json:"correct"`
	ByArea         []GroupStat       `json:"byArea"`
	ByContent      []GroupStat       `json:"byContent"`
	PerQuestion    []QuestionOutcome `json:"perQuestion"`
}

// NewAttempt stamps a graded result with identity and time.
func NewAttempt(userID uuid.UUID, examID string, at time.Time, r GradedResult) *Attempt {
	// Version 7 ids grow with creation order, which breaks timestamp ties.
	id, err := uuid.NewV7()
	if err != nil {
		id = uuid.New()
	}
	return &Attempt{
		ID:             id,
		UserID:         userID,
		ExamID:         examID,
		Timestamp:      at,
		Score:          r.Score,
		TotalQuestions: r.Total,
		CorrectCount:   r.Correct,
		ByArea:         r.ByArea,
		ByContent:      r.ByContent,
		PerQuestion:    r.PerQuestion,
	}
}

// AttemptSummary is an attempt listing entry without the per-question review.
type AttemptSummary struct {
	ID             uuid.UUID   `json:"id"`
	ExamID         string      `json:"exam_id"`
	Timestamp      time.Time   `json:"timestamp"`
	Score          float64     `json:"score"`
	TotalQuestions int         `json:"total"`
	CorrectCount   int         `json:"correct"`
	ByArea         []GroupStat `json:"byArea"`
	ByContent      []GroupStat `json:"byContent"`
}

// Summary drops the per-question outcomes.
func (a *Attempt) Summary() AttemptSummary {
	return AttemptSummary{
		ID:             a.ID,
		ExamID:         a.ExamID,
		Timestamp:      a.Timestamp,
		Score:          a.Score,
		TotalQuestions: a.TotalQuestions,
		CorrectCount:   a.CorrectCount,
		ByArea:         a.ByArea,
		ByContent:      a.ByContent,
	}
}
