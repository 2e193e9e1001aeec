// Package migrations holds the goose SQL migrations, embedded so the server
// binary can apply them without access to the source tree.
package migrations

import "embed"

// FS contains all migration files.
//
//go:embed *.sql
var FS embed.FS
