package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	sessionsfetch "github.com/Apurer/dog-finder/internal/domains/sessions/adapters/external/fetchapi"
	sessionspostgres "github.com/Apurer/dog-finder/internal/domains/sessions/adapters/persistence/postgres"
	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
	platformpostgres "github.com/Apurer/dog-finder/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	db, cleanup := platformpostgres.ConnectAndMigrate(ctx, strings.TrimSpace(os.Getenv("POSTGRES_DSN")), logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot purge sessions")
	}

	// Purging never reaches the dog service, so the connector stays unconfigured.
	sessions := sessionapp.NewService(
		sessionspostgres.NewSessionStore(db),
		sessionspostgres.NewItemStore(db),
		sessionsfetch.NewConnector("", nil),
		sessionapp.WithLogger(logger),
	)
	count, err := sessions.PurgeExpired(ctx)
	if err != nil {
		log.Fatalf("failed to purge sessions: %v", err)
	}
	log.Printf("session purge completed, %d sessions removed", count)
}
