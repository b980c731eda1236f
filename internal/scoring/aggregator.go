package scoring

import (
	"math"
	"sort"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/google/uuid"
)

// DefaultStudentName is shown for attempts whose user is missing from the roster.
const DefaultStudentName = "Aluno"

// Roster maps user id to display name.
type Roster map[uuid.UUID]string

// Name returns the display name for id, or DefaultStudentName.
func (r Roster) Name(id uuid.UUID) string {
	if name, ok := r[id]; ok && name != "" {
		return name
	}
	return DefaultStudentName
}

// SelectAttempts applies mode to attempts. AggregationLatest keeps each user's
// newest attempt (by timestamp, then by the larger attempt id on a tie) and
// preserves the relative order of the kept attempts.
func SelectAttempts(attempts []model.Attempt, mode model.AggregationMode) []model.Attempt {
	if mode != model.AggregationLatest {
		return attempts
	}

	latest := make(map[uuid.UUID]int, len(attempts))
	for i := range attempts {
		j, ok := latest[attempts[i].UserID]
		if !ok || newer(&attempts[i], &attempts[j]) {
			latest[attempts[i].UserID] = i
		}
	}

	out := make([]model.Attempt, 0, len(latest))
	for i := range attempts {
		if latest[attempts[i].UserID] == i {
			out = append(out, attempts[i])
		}
	}
	return out
}

// newer reports whether a supersedes b for the same student.
func newer(a, b *model.Attempt) bool {
	if !a.Timestamp.Equal(b.Timestamp) {
		return a.Timestamp.After(b.Timestamp)
	}
	return a.ID.String() > b.ID.String()
}

// Aggregate combines graded attempts into a cohort report.
//
// Group stats are built by summing every attempt's total/correct counters per
// key and only then computing the percentage. Groups are ordered by key so the
// report does not depend on the order of attempts. Picking which attempts
// belong to the cohort is the caller's job; mode is applied via SelectAttempts.
func Aggregate(examID string, attempts []model.Attempt, roster Roster, mode model.AggregationMode) model.CohortReport {
	if mode == "" {
		mode = model.AggregationAll
	}
	selected := SelectAttempts(attempts, mode)

	byArea := newTally(groupByArea)
	byContent := newTally(groupByContent)
	scores := make([]float64, 0, len(selected))
	students := make([]model.StudentScore, 0, len(selected))

	for i := range selected {
		a := &selected[i]
		for _, g := range a.ByArea {
			byArea.add(g.Area, g.Total, g.Correct)
		}
		for _, g := range a.ByContent {
			byContent.add(g.Content, g.Total, g.Correct)
		}
		scores = append(scores, a.Score)
		students = append(students, model.StudentScore{
			StudentID:   a.UserID,
			StudentName: roster.Name(a.UserID),
			Score:       int(math.Round(a.Score)),
		})
	}

	return model.CohortReport{
		ExamID:       examID,
		Mode:         mode,
		AverageScore: int(math.Round(mean(scores))),
		ByArea:       byArea.sortedStats(),
		ByContent:    byContent.sortedStats(),
		PerStudent:   students,
	}
}

// mean sums in ascending order so permuting the input cannot change the result.
func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)
	sum := 0.0
	for _, x := range sorted {
		sum += x
	}
	return sum / float64(len(sorted))
}
