package router_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/handler"
	"github.com/gabarita/gabarita-backend/internal/router"
	"github.com/gabarita/gabarita-backend/internal/service"
	"github.com/gabarita/gabarita-backend/internal/store/sqlite"
	"github.com/gabarita/gabarita-backend/internal/validator"
)

type envelope struct {
	Data     json.RawMessage `json:"data"`
	Warnings []struct {
		Code string `json:"code"`
	} `json:"warnings"`
	Error *struct {
		Code   string            `json:"code"`
		Fields map[string]string `json:"fields"`
	} `json:"error"`
	Pagination *struct {
		TotalItems int `json:"total_items"`
	} `json:"pagination"`
}

type api struct {
	t      *testing.T
	engine *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	validator.Setup()

	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		GinMode:         gin.TestMode,
		JWTSecret:       "test-secret",
		JWTExpiry:       time.Hour,
		BcryptCost:      4,
		SubmitRateLimit: 100,
	}
	log := zerolog.Nop()
	bank := db.Questions()

	authService := service.NewAuthService(cfg, db.Users(), log)
	handlers := &router.Handlers{
		Health:   handler.NewHealthHandler(nil, config.StorageSQLite, log),
		Auth:     handler.NewAuthHandler(authService, log),
		Simulado: handler.NewSimuladoHandler(service.NewSimuladoService(bank, db.Attempts(), db.CustomExams(), log), log),
		Question: handler.NewQuestionHandler(service.NewQuestionService(bank, db.CustomExams(), log), log),
		Class: handler.NewClassHandler(
			service.NewClassService(db.Classes(), db.Users(), log),
			service.NewReportService(db.Classes(), db.Users(), db.Attempts(), log),
			log,
		),
	}

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return &api{t: t, engine: router.SetupRouter(ctx, authService, handlers, cfg)}
}

func (a *api) call(method, path, token string, body any) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func (a *api) register(name, email, role string) string {
	a.t.Helper()
	code, env := a.call(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": email, "password": "segredo123", "role": role,
	})
	require.Equal(a.t, http.StatusCreated, code)
	var res struct {
		Token string `json:"token"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &res))
	return res.Token
}

func TestHealth(t *testing.T) {
	a := newAPI(t)
	code, _ := a.call(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
}

func TestSubmitAndReportOverHTTP(t *testing.T) {
	a := newAPI(t)
	teacher := a.register("Prof. Carla", "carla@escola.br", "teacher")
	ana := a.register("Ana", "ana@escola.br", "student")

	// Students cannot import questions.
	importBody := gin.H{
		"exam_id": "1",
		"questions": []gin.H{
			{"id": "Q1", "area": "Matemática", "content": "Álgebra", "text": "2x=4", "options": []string{"A", "B", "C"}, "answer": "B"},
			{"id": "Q2", "area": "Matemática", "content": "Geometria", "text": "lado 2", "options": []string{"A", "B", "C", "D"}, "answer": "C"},
		},
	}
	code, _ := a.call(http.MethodPost, "/api/v1/questions/import", ana, importBody)
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(http.MethodPost, "/api/v1/questions/import", teacher, importBody)
	require.Equal(t, http.StatusCreated, code)

	// An answer outside the options is a validation error.
	code, env := a.call(http.MethodPost, "/api/v1/questions/import", teacher, gin.H{
		"exam_id":   "1",
		"questions": []gin.H{{"id": "Q9", "area": "Matemática", "text": "x", "options": []string{"A", "B"}, "answer": "E"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Contains(t, env.Error.Fields, "questions[0].answer")

	// The paper never carries the answer key.
	code, env = a.call(http.MethodGet, "/api/v1/simulados/1", ana, nil)
	require.Equal(t, http.StatusOK, code)
	assert.NotContains(t, string(env.Data), `"answer"`)

	code, env = a.call(http.MethodPost, "/api/v1/simulados/1/submit", ana, gin.H{
		"answers": gin.H{"Q1": "B", "Q2": 4, "extra": true},
	})
	require.Equal(t, http.StatusCreated, code)
	var attempt struct {
		ID      string  `json:"id"`
		Score   float64 `json:"score"`
		Correct int     `json:"correct"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &attempt))
	assert.Equal(t, 50.0, attempt.Score)
	assert.Equal(t, 1, attempt.Correct)

	code, _ = a.call(http.MethodGet, "/api/v1/me/attempts/"+attempt.ID, ana, nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = a.call(http.MethodGet, "/api/v1/me/attempts/"+attempt.ID, teacher, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = a.call(http.MethodGet, "/api/v1/me/attempts/not-a-uuid", ana, nil)
	assert.Equal(t, http.StatusBadRequest, code)

	// Teacher builds a class and reads the report.
	code, env = a.call(http.MethodPost, "/api/v1/classes", teacher, gin.H{"name": "3º A"})
	require.Equal(t, http.StatusCreated, code)
	var class struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &class))

	code, _ = a.call(http.MethodPost, "/api/v1/classes", ana, gin.H{"name": "x"})
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = a.call(http.MethodPost, "/api/v1/classes/"+class.ID+"/students", teacher, gin.H{"studentEmail": "ana@escola.br"})
	require.Equal(t, http.StatusOK, code)

	code, env = a.call(http.MethodGet, "/api/v1/classes/"+class.ID+"/report?simulado=1", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	var report struct {
		Average  int `json:"average"`
		Students []struct {
			Student string `json:"student"`
			Score   int    `json:"score"`
		} `json:"students"`
		ByArea []struct {
			Area string `json:"area"`
			Pct  int    `json:"pct"`
		} `json:"byArea"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &report))
	assert.Equal(t, 50, report.Average)
	require.Len(t, report.Students, 1)
	assert.Equal(t, "Ana", report.Students[0].Student)
	require.Len(t, report.ByArea, 1)
	assert.Equal(t, 50, report.ByArea[0].Pct)

	// Without simulado the report covers the featured exam "1".
	code, env = a.call(http.MethodGet, "/api/v1/classes/"+class.ID+"/report", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	var defaulted struct {
		ExamID  string `json:"simuladoId"`
		Average int    `json:"average"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &defaulted))
	assert.Equal(t, "1", defaulted.ExamID)
	assert.Equal(t, 50, defaulted.Average)

	code, _ = a.call(http.MethodGet, "/api/v1/classes/"+class.ID+"/report?simulado=1&mode=best", teacher, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestBrowseReportsBadNumbersAsWarnings(t *testing.T) {
	a := newAPI(t)
	teacher := a.register("Prof", "prof@escola.br", "teacher")

	code, _ := a.call(http.MethodPost, "/api/v1/questions/import", teacher, gin.H{
		"exam_id": "2",
		"questions": []gin.H{
			{"id": "1", "area": "Natureza", "text": "x", "options": []string{"A", "B"}, "answer": "A", "year": 2023},
		},
	})
	require.Equal(t, http.StatusCreated, code)

	code, env := a.call(http.MethodGet, "/api/v1/questions?exam=all&yearMin=abc&subjects=,%20,", teacher, nil)
	require.Equal(t, http.StatusOK, code)
	require.Len(t, env.Warnings, 1)
	assert.Equal(t, "INVALID_FILTER_INPUT", env.Warnings[0].Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 1, env.Pagination.TotalItems)
	assert.NotContains(t, string(env.Data), `"answer"`)
}

func TestAuthErrors(t *testing.T) {
	a := newAPI(t)
	a.register("Ana", "ana@escola.br", "student")

	code, env := a.call(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": "Ana 2", "email": "ANA@escola.br", "password": "segredo123", "role": "student",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "EMAIL_ALREADY_REGISTERED", env.Error.Code)

	code, _ = a.call(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@escola.br", "password": "errada"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, env = a.call(http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "X", "email": "bad", "password": "1", "role": "admin"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error.Fields, "role")

	code, _ = a.call(http.MethodGet, "/api/v1/simulados", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}
