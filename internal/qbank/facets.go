package qbank

import (
	"sort"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// Facets lists the distinct values available for each filter field.
type Facets struct {
	Exams        []string `json:"exams"`
	ExamTypes    []string `json:"examTypes"`
	Subjects     []string `json:"subjects"`
	Themes       []string `json:"themes"`
	Subthemes    []string `json:"subthemes"`
	Difficulties []string `json:"difficulties"`
	Tags         []string `json:"tags"`
	YearMin      *int     `json:"yearMin,omitempty"`
	YearMax      *int     `json:"yearMax,omitempty"`
}

// CollectFacets scans the whole bank.
func CollectFacets(bank map[string][]model.Question) Facets {
	exams := make(map[string]struct{}, len(bank))
	origins := map[string]struct{}{}
	areas := map[string]struct{}{}
	themes := map[string]struct{}{}
	subthemes := map[string]struct{}{}
	difficulties := map[string]struct{}{}
	tags := map[string]struct{}{}

	var f Facets
	for examID, questions := range bank {
		exams[examID] = struct{}{}
		for i := range questions {
			q := &questions[i]
			addNonEmpty(origins, q.Origin)
			addNonEmpty(areas, q.Area)
			addNonEmpty(themes, q.Content)
			addNonEmpty(subthemes, q.Subtheme)
			addNonEmpty(difficulties, q.Difficulty)
			for _, t := range q.Tags {
				addNonEmpty(tags, t)
			}
			if q.Year != nil {
				if f.YearMin == nil || *q.Year < *f.YearMin {
					y := *q.Year
					f.YearMin = &y
				}
				if f.YearMax == nil || *q.Year > *f.YearMax {
					y := *q.Year
					f.YearMax = &y
				}
			}
		}
	}

	f.Exams = sortedKeys(exams)
	f.ExamTypes = sortedKeys(origins)
	f.Subjects = sortedKeys(areas)
	f.Themes = sortedKeys(themes)
	f.Subthemes = sortedKeys(subthemes)
	f.Difficulties = sortedKeys(difficulties)
	f.Tags = sortedKeys(tags)
	return f
}

func addNonEmpty(m map[string]struct{}, v string) {
	if v != "" {
		m[v] = struct{}{}
	}
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
