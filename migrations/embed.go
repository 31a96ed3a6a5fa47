// Package migrations contiene el esquema SQL versionado que aplica cmd/migrate con goose.
package migrations

import "embed"

//go:embed *.sql
var EmbedMigrations embed.FS
