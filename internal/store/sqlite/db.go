// Package sqlite implements the service stores on an embedded SQLite
// database (pure Go driver). It backs STORAGE_DRIVER=sqlite and the tests.
package sqlite

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/gabarita/gabarita-backend/internal/service"
)

var (
	_ service.QuestionBank    = (*QuestionStore)(nil)
	_ service.AttemptStore    = (*AttemptStore)(nil)
	_ service.UserStore       = (*UserStore)(nil)
	_ service.ClassStore      = (*ClassStore)(nil)
	_ service.CustomExamStore = (*CustomExamStore)(nil)
)

//go:embed schema.sql
var schema string

// DB owns the connection shared by every store of this package.
type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the
// schema. Use ":memory:" for a throwaway database.
func Open(path string) (*DB, error) {
	dsn := path
	if path != ":memory:" {
		dsn = path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// One connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &DB{db: db}, nil
}

// Close closes the database connection.
func (d *DB) Close() error {
	return d.db.Close()
}

// Questions returns the question bank store.
func (d *DB) Questions() *QuestionStore { return &QuestionStore{db: d.db} }

// Attempts returns the attempt store.
func (d *DB) Attempts() *AttemptStore { return &AttemptStore{db: d.db} }

// Users returns the user store.
func (d *DB) Users() *UserStore { return &UserStore{db: d.db} }

// Classes returns the class store.
func (d *DB) Classes() *ClassStore { return &ClassStore{db: d.db} }

// CustomExams returns the custom exam store.
func (d *DB) CustomExams() *CustomExamStore { return &CustomExamStore{db: d.db} }

func isUniqueViolation(err error) bool {
	var se *sqlitedrv.Error
	if !errors.As(err, &se) {
		return false
	}
	return se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE || se.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
}

func toJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func fromJSON(s string, dst any) error {
	if s == "" {
		return nil
	}
	return json.Unmarshal([]byte(s), dst)
}

func toUnix(t time.Time) int64 { return t.UTC().UnixNano() }

func fromUnix(n int64) time.Time { return time.Unix(0, n).UTC() }

// inClause returns "(?, ?, ...)" and the matching args.
func inClause(ids []uuid.UUID) (string, []any) {
	marks := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		marks[i] = "?"
		args[i] = id.String()
	}
	return "(" + strings.Join(marks, ", ") + ")", args
}
