// Package migrations holds the embedded SQL migrations of the session catalog.
package migrations

import "embed"

// Files exposes the compiled-in migration SQL files.
//
//go:embed *.sql
var Files embed.FS
