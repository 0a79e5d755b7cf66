package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	dogfinderserver "github.com/Apurer/dog-finder/go"

	fetchclient "github.com/Apurer/dog-finder/internal/clients/http/fetchapi"
	dogsobs "github.com/Apurer/dog-finder/internal/domains/dogs/adapters/observability"
	sessionsfetch "github.com/Apurer/dog-finder/internal/domains/sessions/adapters/external/fetchapi"
	sessionsmemory "github.com/Apurer/dog-finder/internal/domains/sessions/adapters/memory"
	sessionspostgres "github.com/Apurer/dog-finder/internal/domains/sessions/adapters/persistence/postgres"
	sessionapp "github.com/Apurer/dog-finder/internal/domains/sessions/application"
	sessionports "github.com/Apurer/dog-finder/internal/domains/sessions/ports"
	platformobservability "github.com/Apurer/dog-finder/internal/platform/observability"
	platformpostgres "github.com/Apurer/dog-finder/internal/platform/postgres"
)

const serviceName = "dog-finder-portal"

// Run boots the portal HTTP API with observability, session storage, and the
// dog service connector wired. It returns when ctx is cancelled or the server
// fails.
func Run(ctx context.Context) error {
	instruments, shutdown, err := platformobservability.Init(ctx, platformobservability.ConfigFromEnv(serviceName))
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	repo, items, cleanupStore := buildSessionStorage(ctx, cfg, logger)
	defer cleanupStore()

	httpClient := &http.Client{
		Timeout:   cfg.FetchAPITimeout,
		Transport: fetchclient.NewTransport(nil),
	}
	connector := sessionsfetch.NewConnector(cfg.FetchAPIBaseURL, httpClient,
		dogsobs.WithLogger(logger),
		dogsobs.WithTracer(instruments.Tracer("internal.dogs.catalog")),
		dogsobs.WithMeter(instruments.Meter("internal.dogs.catalog")),
	)
	sessions := sessionapp.NewService(repo, items, connector,
		sessionapp.WithLogger(logger),
		sessionapp.WithTTL(cfg.SessionTTL),
		sessionapp.WithPageSize(cfg.SearchPageSize),
	)
	if cfg.SessionPurgeIntervalMinute > 0 {
		go purgeLoop(ctx, sessions, time.Duration(cfg.SessionPurgeIntervalMinute)*time.Minute, logger)
	}

	cookie := dogfinderserver.SessionCookie{Secure: cfg.SessionCookieSecure, MaxAge: cfg.SessionTTL}
	errs := dogfinderserver.NewErrorResponder(logger, cookie)
	handlers := dogfinderserver.ApiHandleFunctions{
		SessionAPI:   dogfinderserver.NewSessionAPI(sessions, cookie, errs),
		BreedsAPI:    dogfinderserver.NewBreedsAPI(errs),
		SearchAPI:    dogfinderserver.NewSearchAPI(errs),
		FavoritesAPI: dogfinderserver.NewFavoritesAPI(errs),
		MatchAPI:     dogfinderserver.NewMatchAPI(errs),
	}
	router := dogfinderserver.NewRouter(handlers,
		dogfinderserver.RequireSession(sessions, errs),
		otelgin.Middleware(serviceName),
	)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Dog finder portal listening",
			slog.String("addr", server.Addr),
			slog.String("upstream", cfg.FetchAPIBaseURL),
		)
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("Dog finder portal exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("Dog finder portal shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

func buildSessionStorage(ctx context.Context, cfg Config, logger *slog.Logger) (sessionports.Repository, sessionports.ItemStore, func()) {
	db, cleanup := platformpostgres.ConnectAndMigrate(ctx, cfg.PostgresDSN, logger)
	if db == nil {
		return sessionsmemory.NewSessionStore(), sessionsmemory.NewItemStore(), cleanup
	}
	logger.Info("session storage configured with postgres")
	return sessionspostgres.NewSessionStore(db), sessionspostgres.NewItemStore(db), cleanup
}

func purgeLoop(ctx context.Context, sessions *sessionapp.Service, every time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := sessions.PurgeExpired(ctx); err != nil {
				logger.Warn("session purge failed", slog.String("error", err.Error()))
			}
		}
	}
}
