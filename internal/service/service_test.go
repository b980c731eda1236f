package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/service"
	"github.com/gabarita/gabarita-backend/internal/store/sqlite"
)

type env struct {
	db        *sqlite.DB
	auth      *service.AuthService
	simulados *service.SimuladoService
	questions *service.QuestionService
	classes   *service.ClassService
	reports   *service.ReportService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := sqlite.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		JWTSecret:  "test-secret",
		JWTExpiry:  time.Hour,
		BcryptCost: bcrypt.MinCost,
	}
	log := zerolog.Nop()
	bank := db.Questions()

	return &env{
		db:        db,
		auth:      service.NewAuthService(cfg, db.Users(), log),
		simulados: service.NewSimuladoService(bank, db.Attempts(), db.CustomExams(), log),
		questions: service.NewQuestionService(bank, db.CustomExams(), log),
		classes:   service.NewClassService(db.Classes(), db.Users(), log),
		reports:   service.NewReportService(db.Classes(), db.Users(), db.Attempts(), log),
	}
}

func (e *env) seedBank(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	_, err := e.questions.Import(ctx, "1", []model.Question{
		{ID: "Q1", Area: "Matemática", Content: "Álgebra", Origin: "ENEM", Text: "Quanto é 2x = 4?", Options: []string{"A", "B", "C"}, Answer: "B", Tags: []string{"enem"}},
		{ID: "Q2", Area: "Matemática", Content: "Geometria", Origin: "ENEM", Text: "Área do quadrado de lado 2?", Options: []string{"A", "B", "C", "D"}, Answer: "C"},
		{ID: "Q3", Area: "Linguagens", Content: "", Origin: "ENEM", Text: "Figura de linguagem?", Options: []string{"A", "B"}, Answer: "A"},
	})
	require.NoError(t, err)
	_, err = e.questions.Import(ctx, "2", []model.Question{
		{ID: "Q1", Area: "Natureza", Content: "Física", Origin: "FUVEST", Text: "Velocidade média?", Options: []string{"A", "B"}, Answer: "A"},
	})
	require.NoError(t, err)
}

func (e *env) register(t *testing.T, name, email string, role model.Role) *model.User {
	t.Helper()
	res, err := e.auth.Register(context.Background(), &model.RegisterRequest{
		Name: name, Email: email, Password: "segredo123", Role: role,
	})
	require.NoError(t, err)
	return &res.User
}
