package migrations

import "embed"

// FS contains the embedded SQLite migrations for the store schema.
//
//go:embed *.sql
var FS embed.FS
