// Package migrations embeds the PostgreSQL schema migrations.
package migrations

import "embed"

// FS holds every *.sql migration.
//
//go:embed *.sql
var FS embed.FS
