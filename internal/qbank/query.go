package qbank

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidFilterInput matches every *InvalidFilterInputError.
var ErrInvalidFilterInput = errors.New("invalid filter input")

// InvalidFilterInputError reports a numeric filter parameter that did not parse.
// The parameter is treated as absent.
type InvalidFilterInputError struct {
	Field string
	Value string
}

func (e *InvalidFilterInputError) Error() string {
	return fmt.Sprintf("invalid filter input: %s=%q is not a number", e.Field, e.Value)
}

// Is makes errors.Is(err, ErrInvalidFilterInput) succeed.
func (e *InvalidFilterInputError) Is(target error) bool {
	return target == ErrInvalidFilterInput
}

// Recognized query keys. The first key of each group is canonical; the rest
// are aliases accepted from older clients.
var (
	keysExam         = []string{"exam", "examScope", "simulado"}
	keysExamTypes    = []string{"examTypes", "examType", "origin", "origins"}
	keysSubjects     = []string{"subjects", "areas", "subject", "area"}
	keysThemes       = []string{"themes", "theme", "contents", "content"}
	keysSubthemes    = []string{"subthemes", "subtheme"}
	keysDifficulties = []string{"difficulties", "difficulty"}
	keysTags         = []string{"tags", "tag"}
	keysSearch       = []string{"search", "q"}
	keysPageSize     = []string{"pageSize", "page_size", "per_page"}
)

// ParseQuery builds a Filter from query parameters. List parameters accept
// repeated keys, comma-separated values, or both. Non-numeric yearMin,
// yearMax, page and pageSize are dropped and reported in the returned slice.
func ParseQuery(values url.Values) (Filter, []error) {
	var problems []error

	f := Filter{
		ExamScope:    first(values, keysExam),
		ExamTypes:    list(values, keysExamTypes),
		Subjects:     list(values, keysSubjects),
		Themes:       list(values, keysThemes),
		Subthemes:    list(values, keysSubthemes),
		Difficulties: list(values, keysDifficulties),
		Tags:         list(values, keysTags),
		Search:       first(values, keysSearch),
	}

	intParam := func(field string, keys []string) *int {
		raw := first(values, keys)
		if raw == "" {
			return nil
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			problems = append(problems, &InvalidFilterInputError{Field: field, Value: raw})
			return nil
		}
		return &n
	}

	f.YearMin = intParam("yearMin", []string{"yearMin", "year_min"})
	f.YearMax = intParam("yearMax", []string{"yearMax", "year_max"})

	if p := intParam("page", []string{"page"}); p != nil {
		f.Page = *p
	}
	if ps := intParam("pageSize", keysPageSize); ps != nil {
		f.PageSize = *ps
		if f.PageSize == 0 {
			f.PageSize = 1
		}
	}

	return f, problems
}

func first(values url.Values, keys []string) string {
	for _, k := range keys {
		for _, v := range values[k] {
			if trimmed := strings.TrimSpace(v); trimmed != "" {
				return trimmed
			}
		}
	}
	return ""
}

func list(values url.Values, keys []string) []string {
	var out []string
	for _, k := range keys {
		out = append(out, NormalizeList(values[k])...)
	}
	return out
}
