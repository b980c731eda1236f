package scoring

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Submission maps question id to the chosen option label.
type Submission map[string]string

// NewSubmission coerces loosely typed answers (as decoded from JSON) into a
// Submission. Nil values become empty strings; nothing is rejected.
func NewSubmission(raw map[string]any) Submission {
	s := make(Submission, len(raw))
	for id, v := range raw {
		switch x := v.(type) {
		case nil:
			s[id] = ""
		case string:
			s[id] = x
		case json.Number:
			s[id] = x.String()
		default:
			s[id] = fmt.Sprint(x)
		}
	}
	return s
}

// Grade scores submission against the ordered questions of one exam.
//
// Per-area and per-content groups appear in the order their key is first met.
// A question without content is grouped under its area. An empty exam yields a
// zero result with Total 0.
func Grade(questions []model.Question, submission Submission) model.GradedResult {
	byArea := newTally(groupByArea)
	byContent := newTally(groupByContent)
	perQuestion := make([]model.QuestionOutcome, 0, len(questions))
	correct := 0

	for i := range questions {
		q := &questions[i]
		submitted := submission[q.ID]
		hit := strings.TrimSpace(submitted) == strings.TrimSpace(q.Answer)

		var chosen *string
		if submitted != "" {
			v := submitted
			chosen = &v
		}
		perQuestion = append(perQuestion, model.QuestionOutcome{
			QuestionID:    q.ID,
			Area:          q.Area,
			Content:       q.Content,
			Chosen:        chosen,
			CorrectAnswer: q.Answer,
			IsHit:         hit,
		})

		point := 0
		if hit {
			point = 1
			correct++
		}
		byArea.add(q.Area, 1, point)

		key := q.Content
		if key == "" {
			key = q.Area
		}
		byContent.add(key, 1, point)
	}

	denominator := len(questions)
	if denominator == 0 {
		denominator = 1
	}

	return model.GradedResult{
		Score:       100 * float64(correct) / float64(denominator),
		Total:       len(questions),
		Correct:     correct,
		ByArea:      byArea.stats(),
		ByContent:   byContent.stats(),
		PerQuestion: perQuestion,
	}
}
