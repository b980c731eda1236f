// Package store opens the persistence backend selected by configuration.
package store

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/config"
	"github.com/gabarita/gabarita-backend/internal/database"
	"github.com/gabarita/gabarita-backend/internal/repository"
	"github.com/gabarita/gabarita-backend/internal/service"
	"github.com/gabarita/gabarita-backend/internal/store/sqlite"
)

// Stores groups the persistence backends the services depend on.
type Stores struct {
	Questions   service.QuestionBank
	Attempts    service.AttemptStore
	Users       service.UserStore
	Classes     service.ClassStore
	CustomExams service.CustomExamStore

	close func()
}

// Close releases the underlying connection pool or database handle.
func (s *Stores) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open connects the driver named by cfg.StorageDriver.
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*Stores, error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		pool, err := database.NewPostgresPool(ctx, cfg, log)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Questions:   repository.NewQuestionRepository(pool),
			Attempts:    repository.NewAttemptRepository(pool),
			Users:       repository.NewUserRepository(pool),
			Classes:     repository.NewClassRepository(pool),
			CustomExams: repository.NewCustomExamRepository(pool),
			close:       pool.Close,
		}, nil

	case config.StorageSQLite:
		db, err := sqlite.Open(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath).Msg("SQLite opened")
		return &Stores{
			Questions:   db.Questions(),
			Attempts:    db.Attempts(),
			Users:       db.Users(),
			Classes:     db.Classes(),
			CustomExams: db.CustomExams(),
			close:       func() { db.Close() },
		}, nil
	}
	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}
