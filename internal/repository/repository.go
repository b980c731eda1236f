// Package repository implements the service stores on PostgreSQL via pgx.
package repository

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/gabarita/gabarita-backend/internal/service"
)

var (
	_ service.QuestionBank    = (*QuestionRepository)(nil)
	_ service.AttemptStore    = (*AttemptRepository)(nil)
	_ service.UserStore       = (*UserRepository)(nil)
	_ service.ClassStore      = (*ClassRepository)(nil)
	_ service.CustomExamStore = (*CustomExamRepository)(nil)
)

// notFound maps pgx.ErrNoRows to service.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return service.ErrNotFound
	}
	return err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
