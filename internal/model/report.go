package model

import "github.com/google/uuid"

// AggregationMode selects which attempts of a student enter a cohort report.
type AggregationMode string

const (
	// AggregationAll keeps every attempt, one student entry per attempt.
	AggregationAll AggregationMode = "all"
	// AggregationLatest keeps only each student's newest attempt.
	AggregationLatest AggregationMode = "latest"
)

// ParseAggregationMode maps a query value to a mode. Empty means all.
func ParseAggregationMode(s string) (AggregationMode, bool) {
	switch AggregationMode(s) {
	case "", AggregationAll:
		return AggregationAll, true
	case AggregationLatest:
		return AggregationLatest, true
	}
	return "", false
}

// StudentScore is one row of a cohort report.
type StudentScore struct {
	StudentID   uuid.UUID `json:"student_id"`
	StudentName string    `json:"student"`
	Score       int       `json:"score"`
}

// CohortReport is the teacher-facing rollup of many attempts at one exam.
// It is computed on demand and never persisted.
type CohortReport struct {
	ExamID       string          `json:"simuladoId"`
	Mode         AggregationMode `json:"mode"`
	AverageScore int             `json:"average"`
	ByArea       []GroupStat     `json:"byArea"`
	ByContent    []GroupStat     `json:"byContent"`
	PerStudent   []StudentScore  `json:"students"`
}
