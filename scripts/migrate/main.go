// Command migrate creates the school_snapshots table. The whole school
// document lives in one JSONB row per school, so this is the only schema
// the API needs.
package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/escolar-mx/secundaria-api/pkg/config"
	"github.com/escolar-mx/secundaria-api/pkg/database"
)

const schema = `
CREATE TABLE IF NOT EXISTS school_snapshots (
    school_id  TEXT PRIMARY KEY,
    revision   TEXT NOT NULL,
    state      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);`

func main() {
	var timeout time.Duration
	flag.DurationVar(&timeout, "timeout", 30*time.Second, "migration timeout")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	log.Printf("school_snapshots ready on %s/%s", cfg.Database.Host, cfg.Database.Name)
}
