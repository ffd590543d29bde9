// migrate applies the plugin's own migrations (zync_config, zync_audit_logs); run with go run ./cmd/migrate.
package main

import (
	"flag"
	"fmt"
	"os"

	"zync/backend/internal/config"
	"zync/backend/internal/db/migrate"
	"zync/backend/internal/logging"
)

func main() {
	direction := flag.String("direction", "up", "Migration direction: up or down")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log := logging.New(cfg.LogLevel, cfg.LogJSON, os.Stderr).Named("migrate")

	if err := migrate.Run(cfg.DatabaseURL, *direction); err != nil {
		log.Error("migration failed", "direction", *direction, "error", err)
		os.Exit(1)
	}
	log.Info("migrations applied", "direction", *direction, "table", migrate.MigrationsTable)
}
