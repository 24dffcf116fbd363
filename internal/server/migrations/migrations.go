// Package migrations embeds the goose SQL migrations of the Postgres store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
