package db

import "embed"

// MigrationFS embeds the plugin's own SQL migrations from internal/db/migrations.
// Host tables (challenges, users, teams) are never migrated here.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
