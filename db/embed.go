// Package db embeds the goose SQL migrations so the binaries do not depend on
// the working directory.
package db

import "embed"

// MigrationsDir is the directory of Migrations holding the SQL files.
const MigrationsDir = "migrations"

//go:embed migrations/*.sql
var Migrations embed.FS
