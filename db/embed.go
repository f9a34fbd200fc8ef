// Package db embeds the SQL migration files shipped with the binary.
package db

import "embed"

// MigrationsFS holds the SQL migrations applied by the migrate subcommand.
//
//go:embed migrations/*.sql
var MigrationsFS embed.FS
