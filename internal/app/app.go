package app

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/uptrace/opentelemetry-go-extra/otelsql"
	"github.com/uptrace/opentelemetry-go-extra/otelsqlx"

	"github.com/adimehta/auction-tracker/internal/config"
	"github.com/adimehta/auction-tracker/internal/infrastructure/repository/postgres"
	"github.com/adimehta/auction-tracker/internal/infrastructure/webhook"
	"github.com/adimehta/auction-tracker/internal/interfaces/httpapi"
	"github.com/adimehta/auction-tracker/internal/platform/logging"
	"github.com/adimehta/auction-tracker/internal/platform/resilience"
	"github.com/adimehta/auction-tracker/internal/usecase"
)

// NewHTTPServer wires repositories, services and the router into a ready
// http.Server. The returned cleanup closes the database pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(), error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.HTTPAddr == "" {
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	db, err := openDB(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}

	teamRepo := postgres.NewTeamRepository(db)
	playerRepo := postgres.NewPlayerRepository(db)
	settingsRepo := postgres.NewSettingsRepository(db)
	reportRepo := postgres.NewReportRepository(db)

	var publisher usecase.AuctionEventPublisher
	if cfg.WebhookEnabled {
		publisher = webhook.NewNotifier(webhook.NotifierConfig{
			Enabled:    true,
			URL:        cfg.WebhookURL,
			Secret:     cfg.WebhookSecret,
			Timeout:    cfg.WebhookTimeout,
			MaxRetries: cfg.WebhookMaxRetries,
			CircuitBreaker: resilience.CircuitBreakerConfig{
				Enabled:          cfg.WebhookCircuitEnabled,
				FailureThreshold: cfg.WebhookCircuitFailureCount,
				OpenTimeout:      cfg.WebhookCircuitOpenTimeout,
				HalfOpenMaxReq:   cfg.WebhookCircuitHalfOpenMax,
			},
		}, logger)
	}

	handler := httpapi.NewHandler(
		usecase.NewTeamService(teamRepo, playerRepo),
		usecase.NewPlayerService(playerRepo, publisher),
		usecase.NewStatsService(reportRepo, teamRepo),
		usecase.NewSettingsService(settingsRepo),
		usecase.NewAuditService(teamRepo, playerRepo, cfg.AuditWorkerCount),
		logger,
	)
	router := httpapi.NewRouter(handler, logger, cfg.CORSAllowedOrigins, cfg.InternalJobToken)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	cleanup := func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Error("close database pool", "error", closeErr)
		}
	}

	return server, cleanup, nil
}

func openDB(cfg config.Config) (*sqlx.DB, error) {
	dbURL := normalizeDBURL(cfg.DBURL, cfg.DBDisablePreparedBinary)

	db, err := otelsqlx.Connect("postgres", dbURL,
		otelsql.WithDBSystem("postgresql"),
		otelsql.WithDBName(dbNameFromURL(dbURL)),
		otelsql.WithQueryFormatter(formatDBQueryForTrace),
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}

// formatDBQueryForTrace collapses runs of whitespace so multi-line queries
// read as one line in span attributes.
func formatDBQueryForTrace(query string) string {
	return strings.Join(strings.Fields(query), " ")
}
