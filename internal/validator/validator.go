package validator

import (
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/pt_BR"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	ptbr_translations "github.com/go-playground/validator/v10/translations/pt_BR"

	"github.com/gabarita/gabarita-backend/internal/model"
)

// trans is the singleton Brazilian Portuguese translator for validation errors.
var trans ut.Translator

// Setup registers the validator with pt-BR translations on Gin's binding engine.
// Call once during application startup.
func Setup() {
	if v, ok := binding.Validator.Engine().(*govalidator.Validate); ok {
		Register(v)
	}
}

// Register configures v with JSON field names, translations and the
// question struct rules. Exposed for callers validating outside Gin.
func Register(v *govalidator.Validate) {
	// Use JSON tag name for field names in error messages.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	ptLocale := pt_BR.New()
	uni := ut.New(ptLocale, ptLocale)
	trans, _ = uni.GetTranslator("pt_BR")
	ptbr_translations.RegisterDefaultTranslations(v, trans)

	v.RegisterStructValidation(questionAnswerInOptions, model.CreateQuestionRequest{})
	v.RegisterTranslation("answer_in_options", trans,
		func(ut ut.Translator) error {
			return ut.Add("answer_in_options", "{0} deve ser uma das alternativas", true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			t, _ := ut.T("answer_in_options", fe.Field())
			return t
		},
	)
}

// questionAnswerInOptions rejects questions whose answer key is not an option.
func questionAnswerInOptions(sl govalidator.StructLevel) {
	req := sl.Current().Interface().(model.CreateQuestionRequest)
	if req.Answer == "" || len(req.Options) == 0 {
		return
	}
	for _, o := range req.Options {
		if o == req.Answer {
			return
		}
	}
	sl.ReportError(req.Answer, "answer", "Answer", "answer_in_options", "")
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name → human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			if trans == nil {
				fields[fieldPath(fe)] = fe.Error()
				continue
			}
			fields[fieldPath(fe)] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// fieldPath keeps the index of nested items ("questions[3].answer") so bulk
// imports point at the offending record.
func fieldPath(fe govalidator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
