package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// UserStore implements service.UserStore.
type UserStore struct {
	db *sql.DB
}

// Create inserts u. A duplicate email returns service.ErrEmailTaken.
func (s *UserStore) Create(ctx context.Context, u *model.User) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role, password_hash, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		u.ID.String(), u.Name, u.Email, string(u.Role), u.PasswordHash, toUnix(u.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return service.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// GetByEmail looks a user up by (already lowercased) email.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return s.get(ctx, `SELECT id, name, email, role, password_hash, created_at FROM users WHERE email = ?`, email)
}

// GetByID looks a user up by id.
func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	return s.get(ctx, `SELECT id, name, email, role, password_hash, created_at FROM users WHERE id = ?`, id.String())
}

// NamesByIDs returns the display names of the given users. Unknown ids are absent.
func (s *UserStore) NamesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]string, error) {
	names := make(map[uuid.UUID]string, len(ids))
	if len(ids) == 0 {
		return names, nil
	}

	in, args := inClause(ids)
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users WHERE id IN `+in, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   uuid.UUID
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		names[id] = name
	}
	return names, rows.Err()
}

func (s *UserStore) get(ctx context.Context, query string, arg any) (*model.User, error) {
	var (
		u         model.User
		role      string
		createdAt int64
	)
	err := s.db.QueryRowContext(ctx, query, arg).
		Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, service.ErrNotFound
		}
		return nil, err
	}
	u.Role = model.Role(role)
	u.CreatedAt = fromUnix(createdAt)
	return &u, nil
}
