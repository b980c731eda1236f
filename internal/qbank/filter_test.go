package qbank

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"testing"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func sampleBank() map[string][]model.Question {
	return map[string][]model.Question{
		"2": {
			{ID: "1", Area: "Matemática", Content: "Geometria", Origin: "FUVEST", Difficulty: "difícil", Year: intPtr(2019), Tags: []string{"plana", "área"}, Text: "Calcule a ÁREA do triângulo", Options: []string{"A", "B"}, Answer: "A"},
			{ID: "2", Area: "Matemática", Content: "Álgebra", Origin: "ENEM", Difficulty: "fácil", Text: "Resolva a equação", Options: []string{"A", "B"}, Answer: "B"},
		},
		"1": {
			{ID: "1", Area: "Linguagens", Content: "Inglês", Origin: "ENEM", Difficulty: "média", Year: intPtr(2024), Tags: []string{"leitura"}, Text: "Read the text", Options: []string{"A", "B"}, Answer: "A"},
			{ID: "2", Area: "Matemática", Content: "Geometria", Subtheme: "Espacial", Origin: "ENEM", Difficulty: "média", Year: intPtr(2024), Tags: []string{"área", "plana"}, Text: "Volume do cilindro", Options: []string{"A", "B"}, Answer: "B"},
			{ID: "3", Area: "Ciências da Natureza", Origin: "", Year: intPtr(2010), Text: "Cinemática", Options: []string{"A", "B"}, Answer: "A"},
		},
	}
}

func ids(items []model.Question) []string {
	out := make([]string, len(items))
	for i, q := range items {
		out[i] = q.ExamID + "/" + q.ID
	}
	return out
}

func TestApply_Facets(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "no filter flattens all exams in id order", filter: Filter{}, want: []string{"1/1", "1/2", "1/3", "2/1", "2/2"}},
		{name: "explicit all scope", filter: Filter{ExamScope: ScopeAll}, want: []string{"1/1", "1/2", "1/3", "2/1", "2/2"}},
		{name: "single exam", filter: Filter{ExamScope: "2"}, want: []string{"2/1", "2/2"}},
		{name: "unknown exam", filter: Filter{ExamScope: "99"}, want: []string{}},
		{name: "origin", filter: Filter{ExamTypes: []string{"FUVEST"}}, want: []string{"2/1"}},
		{name: "subject set", filter: Filter{Subjects: []string{"Linguagens", "Ciências da Natureza"}}, want: []string{"1/1", "1/3"}},
		{name: "theme", filter: Filter{Themes: []string{"Geometria"}}, want: []string{"1/2", "2/1"}},
		{name: "subtheme", filter: Filter{Subthemes: []string{"Espacial"}}, want: []string{"1/2"}},
		{name: "difficulty", filter: Filter{Difficulties: []string{"média"}}, want: []string{"1/1", "1/2"}},
		{name: "year min skips questions without year", filter: Filter{YearMin: intPtr(2020)}, want: []string{"1/1", "1/2", "2/2"}},
		{name: "year range", filter: Filter{YearMin: intPtr(2015), YearMax: intPtr(2020)}, want: []string{"2/1", "2/2"}},
		{name: "tags require all", filter: Filter{Tags: []string{"plana", "área"}}, want: []string{"1/2", "2/1"}},
		{name: "tags none match", filter: Filter{Tags: []string{"plana", "leitura"}}, want: []string{}},
		{name: "search is case insensitive", filter: Filter{Search: "área"}, want: []string{"2/1"}},
		{name: "empty origin fails non-empty filter", filter: Filter{ExamScope: "1", ExamTypes: []string{"ENEM"}}, want: []string{"1/1", "1/2"}},
		{name: "combined", filter: Filter{Subjects: []string{"Matemática"}, ExamTypes: []string{"ENEM"}, Tags: []string{"área"}}, want: []string{"1/2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(sampleBank(), tt.filter)
			assert.Equal(t, tt.want, ids(got.Items))
			assert.Equal(t, len(tt.want), got.Total)
		})
	}
}

func TestApply_BlankFacetEqualsUnset(t *testing.T) {
	bank := sampleBank()
	want := Apply(bank, Filter{})

	blanks := []Filter{
		{Subjects: []string{}},
		{Subjects: []string{""}},
		{Subjects: []string{"  ", ","}},
		{Tags: []string{" "}},
		{Search: "   "},
		{ExamScope: " "},
		{ExamTypes: []string{" , "}, Themes: []string{""}, Difficulties: []string{"\t"}},
	}
	for i, f := range blanks {
		got := Apply(bank, f)
		assert.Equal(t, ids(want.Items), ids(got.Items), "case %d", i)
	}
}

func TestApply_Pagination(t *testing.T) {
	bank := map[string][]model.Question{"1": {}}
	for i := 1; i <= 45; i++ {
		bank["1"] = append(bank["1"], model.Question{ID: fmt.Sprintf("%02d", i), Area: "Mat", Options: []string{"A"}, Answer: "A"})
	}

	tests := []struct {
		name      string
		page      int
		pageSize  int
		wantPage  int
		wantSize  int
		wantFirst string
		wantLen   int
	}{
		{name: "defaults", wantPage: 1, wantSize: 30, wantFirst: "1/01", wantLen: 30},
		{name: "second default page", page: 2, wantPage: 2, wantSize: 30, wantFirst: "1/31", wantLen: 15},
		{name: "past the end", page: 9, pageSize: 10, wantPage: 9, wantSize: 10, wantLen: 0},
		{name: "negative page", page: -3, pageSize: 10, wantPage: 1, wantSize: 10, wantFirst: "1/01", wantLen: 10},
		{name: "size clamped up", pageSize: -5, wantPage: 1, wantSize: 1, wantFirst: "1/01", wantLen: 1},
		{name: "size clamped down", pageSize: 1000, wantPage: 1, wantSize: 200, wantFirst: "1/01", wantLen: 45},
		{name: "huge page", page: math.MaxInt, pageSize: 200, wantPage: math.MaxInt, wantSize: 200, wantLen: 0},
		{name: "last partial page", page: 5, pageSize: 10, wantPage: 5, wantSize: 10, wantFirst: "1/41", wantLen: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Apply(bank, Filter{Page: tt.page, PageSize: tt.pageSize})
			assert.Equal(t, 45, got.Total)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantSize, got.PageSize)
			require.Len(t, got.Items, tt.wantLen)
			if tt.wantLen > 0 {
				assert.Equal(t, tt.wantFirst, ids(got.Items)[0])
			}
		})
	}
}

func TestParseQuery(t *testing.T) {
	v := url.Values{}
	v.Set("exam", "1")
	v.Add("subjects", "Matemática, Linguagens")
	v.Add("subjects", " Ciências ")
	v.Add("tags", "a")
	v.Add("tags", "b,,c")
	v.Set("yearMin", "2010")
	v.Set("yearMax", "20x")
	v.Set("page", "abc")
	v.Set("pageSize", "500")
	v.Set("search", "  cilindro ")

	f, problems := ParseQuery(v)

	assert.Equal(t, "1", f.ExamScope)
	assert.Equal(t, []string{"Matemática", "Linguagens", "Ciências"}, f.Subjects)
	assert.Equal(t, []string{"a", "b", "c"}, f.Tags)
	require.NotNil(t, f.YearMin)
	assert.Equal(t, 2010, *f.YearMin)
	assert.Nil(t, f.YearMax)
	assert.Equal(t, 0, f.Page)
	assert.Equal(t, 500, f.PageSize)
	assert.Equal(t, "cilindro", f.Search)

	require.Len(t, problems, 2)
	for _, err := range problems {
		assert.ErrorIs(t, err, ErrInvalidFilterInput)
	}
	var fie *InvalidFilterInputError
	require.ErrorAs(t, problems[0], &fie)
	assert.Equal(t, "yearMax", fie.Field)
	assert.Equal(t, "20x", fie.Value)

	got := Apply(sampleBank(), f)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, MaxPageSize, got.PageSize)
}

func TestParseQuery_Aliases(t *testing.T) {
	v, err := url.ParseQuery("simulado=2&origin=ENEM&area=Matemática&theme=Álgebra&difficulty=fácil&per_page=0")
	require.NoError(t, err)

	f, problems := ParseQuery(v)

	assert.Empty(t, problems)
	assert.Equal(t, "2", f.ExamScope)
	assert.Equal(t, []string{"ENEM"}, f.ExamTypes)
	assert.Equal(t, []string{"Matemática"}, f.Subjects)
	assert.Equal(t, []string{"Álgebra"}, f.Themes)
	assert.Equal(t, []string{"fácil"}, f.Difficulties)
	assert.Equal(t, 1, f.PageSize)
	assert.Equal(t, []string{"2/2"}, ids(Apply(sampleBank(), f).Items))
}

func TestParseQuery_HugePageIsAnEmptyPage(t *testing.T) {
	f, problems := ParseQuery(url.Values{
		"page":     {strconv.Itoa(math.MaxInt)},
		"pageSize": {"200"},
	})
	require.Empty(t, problems)

	var got Result
	require.NotPanics(t, func() { got = Apply(sampleBank(), f) })
	assert.Equal(t, math.MaxInt, got.Page)
	assert.Empty(t, got.Items)
	assert.Positive(t, got.Total)
}

func TestCollectFacets(t *testing.T) {
	f := CollectFacets(sampleBank())

	assert.Equal(t, []string{"1", "2"}, f.Exams)
	assert.Equal(t, []string{"ENEM", "FUVEST"}, f.ExamTypes)
	assert.Equal(t, []string{"Ciências da Natureza", "Linguagens", "Matemática"}, f.Subjects)
	assert.Equal(t, []string{"leitura", "plana", "área"}, f.Tags)
	require.NotNil(t, f.YearMin)
	require.NotNil(t, f.YearMax)
	assert.Equal(t, 2010, *f.YearMin)
	assert.Equal(t, 2024, *f.YearMax)
}
