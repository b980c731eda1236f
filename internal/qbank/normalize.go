package qbank

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Ingestion errors.
var (
	ErrMissingID          = errors.New("question has no id")
	ErrMissingArea        = errors.New("question has no area")
	ErrMissingAnswer      = errors.New("question has no answer key")
	ErrNoOptions          = errors.New("question has no options")
	ErrAnswerNotInOptions = errors.New("answer is not one of the options")
)

// Candidate source keys per canonical field, in priority order. They cover the
// shapes the bank has been stored in over time (English API fields, the
// Portuguese keys of the PDF extraction pipeline, and a few spellings between).
var (
	candID         = []string{"id", "question_id", "questionId"}
	candExamID     = []string{"exam_id", "examId", "sim_id", "simulado"}
	candArea       = []string{"area", "subject", "matéria", "materia", "disciplina"}
	candContent    = []string{"content", "theme", "tema", "topic"}
	candSubtheme   = []string{"subtheme", "subtema"}
	candOrigin     = []string{"origin", "examType", "exam_type", "prova", "vestibular"}
	candDifficulty = []string{"difficulty", "dificuldade"}
	candYear       = []string{"year", "ano"}
	candTags       = []string{"tags"}
	candText       = []string{"text", "question_text"}
	candOptions    = []string{"options", "alternativas"}
	candAnswer     = []string{"answer", "correta", "gabarito", "correct_option"}
	candImages     = []string{"images", "imagens"}
)

// optionLabel matches "A) ...", "(B) ...", "c. ...", "D - ...".
var optionLabel = regexp.MustCompile(`^\(?([A-Ja-j])\s*[\).:\-]\s*`)

// Normalize resolves one raw question record into the canonical model. For
// each field the first non-empty candidate key wins. examID is used when the
// record does not name its own exam.
func Normalize(raw map[string]any, examID string) (model.Question, error) {
	q := model.Question{
		ID:         pickString(raw, candID),
		ExamID:     pickString(raw, candExamID),
		Area:       pickString(raw, candArea),
		Content:    pickString(raw, candContent),
		Subtheme:   pickString(raw, candSubtheme),
		Origin:     pickString(raw, candOrigin),
		Difficulty: pickString(raw, candDifficulty),
		Year:       pickInt(raw, candYear),
		Tags:       pickList(raw, candTags),
		Text:       pickString(raw, candText),
		Images:     pickList(raw, candImages),
	}
	if examID != "" {
		q.ExamID = examID
	}

	// The extraction pipeline splits the support text from the prompt.
	if q.Text == "" {
		var parts []string
		for _, k := range []string{"texto", "enunciado"} {
			if s := pickString(raw, []string{k}); s != "" {
				parts = append(parts, s)
			}
		}
		q.Text = strings.Join(parts, "\n\n")
	}

	for i, opt := range pickList(raw, candOptions) {
		q.Options = append(q.Options, labelOf(opt, i))
	}
	if answer := pickString(raw, candAnswer); answer != "" {
		q.Answer = labelOf(answer, -1)
	}

	if err := Validate(&q); err != nil {
		return q, err
	}
	return q, nil
}

// NormalizeAll normalizes every record, skipping the invalid ones. Each
// skipped record is reported with its position.
func NormalizeAll(records []map[string]any, examID string) ([]model.Question, []error) {
	questions := make([]model.Question, 0, len(records))
	var problems []error
	for i, raw := range records {
		q, err := Normalize(raw, examID)
		if err != nil {
			problems = append(problems, fmt.Errorf("record %d (%s): %w", i, q.ID, err))
			continue
		}
		questions = append(questions, q)
	}
	return questions, problems
}

// Validate checks the invariants every stored question must satisfy.
func Validate(q *model.Question) error {
	switch {
	case q.ID == "":
		return ErrMissingID
	case q.Area == "":
		return ErrMissingArea
	case len(q.Options) == 0:
		return ErrNoOptions
	case q.Answer == "":
		return ErrMissingAnswer
	case !q.HasOption(q.Answer):
		return ErrAnswerNotInOptions
	}
	return nil
}

// labelOf extracts the option label from an option entry. Entries that are
// already a bare label are kept; long entries without a recognizable label
// are labelled by position (A, B, ...) when pos is not negative.
func labelOf(entry string, pos int) string {
	entry = strings.TrimSpace(entry)
	if m := optionLabel.FindStringSubmatch(entry); m != nil {
		return strings.ToUpper(m[1])
	}
	if len(entry) <= 2 || pos < 0 {
		return entry
	}
	return string(rune('A' + pos))
}

func pickString(raw map[string]any, keys []string) string {
	for _, k := range keys {
		if s := stringOf(raw[k]); s != "" {
			return s
		}
	}
	return ""
}

func pickInt(raw map[string]any, keys []string) *int {
	for _, k := range keys {
		switch v := raw[k].(type) {
		case float64:
			n := int(v)
			return &n
		case int:
			return &v
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return &n
			}
		}
	}
	return nil
}

func pickList(raw map[string]any, keys []string) []string {
	for _, k := range keys {
		var out []string
		switch v := raw[k].(type) {
		case []any:
			for _, item := range v {
				if s := stringOf(item); s != "" {
					out = append(out, s)
				}
			}
		case []string:
			out = NormalizeList(v)
		case string:
			out = NormalizeList([]string{v})
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

func stringOf(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case map[string]any:
		// Options stored as {"letra": "A", "texto": "..."}.
		return pickString(x, []string{"label", "letra", "letter"})
	default:
		return strings.TrimSpace(fmt.Sprint(x))
	}
}
