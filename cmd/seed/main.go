// seed creates the schedules table if needed and inserts a handful of
// pending records due one minute out, for exercising the sweeper against
// a local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/pdutra/ec2-chatops/internal/infrastructure/postgres"
)

const schema = `
	CREATE TABLE IF NOT EXISTS schedules (
		id           UUID PRIMARY KEY,
		instance_id  TEXT        NOT NULL,
		action       TEXT        NOT NULL,
		scheduled_at TIMESTAMPTZ NOT NULL,
		requester    TEXT        NOT NULL DEFAULT '',
		status       TEXT        NOT NULL DEFAULT 'pending',
		created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_schedules_status_due
		ON schedules (status, scheduled_at);`

type scheduleSpec struct {
	instanceID string
	action     string
}

var seeds = []scheduleSpec{
	{"i-0seed00000000001", "start"},
	{"i-0seed00000000002", "stop"},
	{"i-0seed00000000003", "start"},
	// Unknown action: the sweeper should settle this one as error.
	{"i-0seed00000000004", "reboot"},
}

func main() {
	ctx := context.Background()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL is not set")
	}

	pool, err := postgres.NewPool(ctx, dbURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, schema); err != nil {
		log.Fatalf("create schema: %v", err)
	}

	scheduledAt := time.Now().UTC().Add(time.Minute)

	var ids []string
	for _, spec := range seeds {
		id := uuid.NewString()
		_, err := pool.Exec(ctx, `
			INSERT INTO schedules (id, instance_id, action, scheduled_at, requester, status)
			VALUES ($1, $2, $3, $4, 'seed@test.local', 'pending')`,
			id, spec.instanceID, spec.action, scheduledAt,
		)
		if err != nil {
			log.Fatalf("insert schedule for %s: %v", spec.instanceID, err)
		}
		ids = append(ids, id)
	}

	fmt.Println("Seed complete")
	fmt.Println()
	fmt.Printf("  Schedules created: %d\n", len(ids))
	fmt.Printf("  Due at:            %s  (~1 minute from now)\n", scheduledAt.Format(time.RFC3339))
	fmt.Println()
	fmt.Println("  IDs:")
	for _, id := range ids {
		fmt.Printf("    %s\n", id)
	}
	fmt.Println()
	fmt.Println("Run the sweeper and watch these settle:")
	fmt.Println()
	fmt.Println("  go run ./cmd/sweeper")
}
