// Package migrations holds the Postgres schema for surveys and responses.
// Each migration file registers itself; bun derives the version from the file name.
package migrations

import (
	"github.com/uptrace/bun/migrate"
)

var Migrations = migrate.NewMigrations()
