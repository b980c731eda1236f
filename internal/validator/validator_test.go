package validator

import (
	"testing"

	govalidator "github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabarita/gabarita-backend/internal/model"
)

func newValidate() *govalidator.Validate {
	v := govalidator.New()
	v.SetTagName("binding")
	Register(v)
	return v
}

func TestQuestionAnswerMustBeAnOption(t *testing.T) {
	v := newValidate()

	ok := model.CreateQuestionRequest{
		ID: "q1", Area: "Matemática", Text: "2+2?",
		Options: []string{"A", "B", "C"}, Answer: "B",
	}
	require.NoError(t, v.Struct(ok))

	bad := ok
	bad.Answer = "E"
	err := v.Struct(bad)
	require.Error(t, err)

	fields := TranslateErrors(err)
	assert.Contains(t, fields, "answer")
}

func TestImportReportsNestedFieldPath(t *testing.T) {
	v := newValidate()

	req := model.ImportQuestionsRequest{
		ExamID: "1",
		Questions: []model.CreateQuestionRequest{
			{ID: "q1", Area: "Matemática", Text: "x", Options: []string{"A", "B"}, Answer: "A"},
			{ID: "q2", Area: "Matemática", Text: "y", Options: []string{"A", "B"}, Answer: "Z"},
		},
	}
	fields := TranslateErrors(v.Struct(req))
	assert.Contains(t, fields, "questions[1].answer")
}

func TestTranslateNonValidationError(t *testing.T) {
	fields := TranslateErrors(assert.AnError)
	assert.Equal(t, assert.AnError.Error(), fields["detail"])
}
