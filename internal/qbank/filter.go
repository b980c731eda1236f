// Package qbank selects, paginates and ingests questions of the question bank.
package qbank

import (
	"sort"
	"strings"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// ScopeAll flattens every exam's questions together.
const ScopeAll = "all"

// Paging defaults and bounds.
const (
	DefaultPage     = 1
	DefaultPageSize = 30
	MaxPageSize     = 200
)

// Filter selects questions from a bank. Every field is optional; an empty set
// or blank string places no constraint on that field.
type Filter struct {
	ExamScope    string
	ExamTypes    []string
	Subjects     []string
	Themes       []string
	Subthemes    []string
	Difficulties []string
	YearMin      *int
	YearMax      *int
	Tags         []string
	Search       string

	// Page and PageSize of zero mean default.
	Page     int
	PageSize int
}

// Result is one page of matching questions.
type Result struct {
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"pageSize"`
	Items    []model.Question `json:"items"`
}

// Apply filters bank (keyed by exam id) and returns the requested page.
// With ScopeAll (or no scope) exams are visited in exam id order and every
// question is tagged with its exam id.
func Apply(bank map[string][]model.Question, f Filter) Result {
	matched := Match(bank, f)
	page, size := f.paging()

	// Compare in pages before multiplying so huge page numbers cannot overflow.
	start := len(matched)
	if pages := (len(matched) + size - 1) / size; page-1 < pages {
		start = (page - 1) * size
	}
	end := len(matched)
	if len(matched)-start > size {
		end = start + size
	}

	return Result{
		Total:    len(matched),
		Page:     page,
		PageSize: size,
		Items:    matched[start:end],
	}
}

// Match returns every question of bank selected by f, ignoring pagination.
func Match(bank map[string][]model.Question, f Filter) []model.Question {
	p := f.compile()

	var examIDs []string
	scope := strings.TrimSpace(f.ExamScope)
	if scope == "" || scope == ScopeAll {
		examIDs = make([]string, 0, len(bank))
		for id := range bank {
			examIDs = append(examIDs, id)
		}
		sort.Strings(examIDs)
	} else {
		examIDs = []string{scope}
	}

	matched := make([]model.Question, 0)
	for _, examID := range examIDs {
		for _, q := range bank[examID] {
			if q.ExamID == "" {
				q.ExamID = examID
			}
			if p.matches(&q) {
				matched = append(matched, q)
			}
		}
	}
	return matched
}

func (f Filter) paging() (page, size int) {
	page = f.Page
	if page < 1 {
		page = DefaultPage
	}
	size = f.PageSize
	switch {
	case size == 0:
		size = DefaultPageSize
	case size < 1:
		size = 1
	case size > MaxPageSize:
		size = MaxPageSize
	}
	return page, size
}

type predicate struct {
	examTypes    set
	subjects     set
	themes       set
	subthemes    set
	difficulties set
	tags         []string
	yearMin      *int
	yearMax      *int
	search       string
}

func (f Filter) compile() predicate {
	return predicate{
		examTypes:    newSet(f.ExamTypes),
		subjects:     newSet(f.Subjects),
		themes:       newSet(f.Themes),
		subthemes:    newSet(f.Subthemes),
		difficulties: newSet(f.Difficulties),
		tags:         NormalizeList(f.Tags),
		yearMin:      f.YearMin,
		yearMax:      f.YearMax,
		search:       strings.ToLower(strings.TrimSpace(f.Search)),
	}
}

func (p *predicate) matches(q *model.Question) bool {
	if !p.examTypes.allows(q.Origin) ||
		!p.subjects.allows(q.Area) ||
		!p.themes.allows(q.Content) ||
		!p.subthemes.allows(q.Subtheme) ||
		!p.difficulties.allows(q.Difficulty) {
		return false
	}

	if q.Year != nil {
		if p.yearMin != nil && *q.Year < *p.yearMin {
			return false
		}
		if p.yearMax != nil && *q.Year > *p.yearMax {
			return false
		}
	}

	for _, tag := range p.tags {
		if !q.HasTag(tag) {
			return false
		}
	}

	if p.search != "" && !strings.Contains(strings.ToLower(q.Text), p.search) {
		return false
	}
	return true
}

// set is a membership filter; a nil set allows everything.
type set map[string]struct{}

func newSet(values []string) set {
	values = NormalizeList(values)
	if len(values) == 0 {
		return nil
	}
	s := make(set, len(values))
	for _, v := range values {
		s[v] = struct{}{}
	}
	return s
}

func (s set) allows(v string) bool {
	if s == nil {
		return true
	}
	_, ok := s[strings.TrimSpace(v)]
	return ok
}

// NormalizeList splits comma-separated entries, trims them and drops empty
// ones. Both []string{"a", "b"} and []string{"a, b"} yield [a b].
func NormalizeList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}
