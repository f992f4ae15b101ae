package bootstrap

import (
	"context"
	"database/sql"
	"fmt"

	analyticsinadapter "spacedrep/internal/modules/analytics/adapter/in"
	analyticsoutadapter "spacedrep/internal/modules/analytics/adapter/out"
	analyticsdomain "spacedrep/internal/modules/analytics/domain"
	analyticsservice "spacedrep/internal/modules/analytics/service"
	analyticsusecase "spacedrep/internal/modules/analytics/usecase"
	reviewinadapter "spacedrep/internal/modules/review/adapter/in"
	reviewoutadapter "spacedrep/internal/modules/review/adapter/out"
	reviewservice "spacedrep/internal/modules/review/service"
	reviewusecase "spacedrep/internal/modules/review/usecase"
	sessioninadapter "spacedrep/internal/modules/session/adapter/in"
	sessionoutadapter "spacedrep/internal/modules/session/adapter/out"
	sessionout "spacedrep/internal/modules/session/port/out"
	sessionservice "spacedrep/internal/modules/session/service"
	sessionusecase "spacedrep/internal/modules/session/usecase"
	topicinadapter "spacedrep/internal/modules/topic/adapter/in"
	topicoutadapter "spacedrep/internal/modules/topic/adapter/out"
	topicservice "spacedrep/internal/modules/topic/service"
	topicusecase "spacedrep/internal/modules/topic/usecase"
	"spacedrep/internal/platform/clock"
	"spacedrep/internal/platform/config"
	"spacedrep/internal/platform/id"
	"spacedrep/internal/platform/logger"
	"spacedrep/internal/platform/sqlitedb"
	"spacedrep/internal/platform/tx"
	"spacedrep/internal/platform/watch"
)

type App struct {
	TopicCLI     topicinadapter.CLIHandler
	ReviewCLI    reviewinadapter.CLIHandler
	SessionCLI   sessioninadapter.CLIHandler
	AnalyticsCLI analyticsinadapter.CLIHandler

	db  *sql.DB
	log *logger.Logger
}

// Options overrides the process clock, ids and logger. Zero values use the
// system clock, random UUIDs and a no-op logger.
type Options struct {
	Clock clock.Clock
	IDs   id.Generator
	Log   *logger.Logger
}

func New(ctx context.Context, cfg config.Config, opts Options) (*App, error) {
	if opts.Clock == nil {
		opts.Clock = clock.SystemClock{}
	}
	if opts.IDs == nil {
		opts.IDs = id.UUID{}
	}
	if opts.Log == nil {
		opts.Log = logger.NewNop()
	}
	log := opts.Log

	db, err := sqlitedb.Open(ctx, cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	hub := watch.NewHub(log)

	topicUC := topicusecase.NewInteractor(topicservice.NewTopicService(
		opts.Clock, opts.IDs, topicoutadapter.NewSQLiteTopicStore(db, hub), log,
	))

	var journal sessionout.SessionJournal
	if cfg.Journal {
		journal = sessionoutadapter.NewVaultSessionJournal(cfg.VaultPath)
	}
	sessionUC := sessionusecase.NewInteractor(sessionservice.NewSessionService(
		opts.Clock, opts.IDs, sessionoutadapter.NewSQLiteSessionStore(db, hub), journal, log,
	))

	reviewUC := reviewusecase.NewInteractor(reviewservice.NewReviewService(reviewservice.Deps{
		Clock:      opts.Clock,
		IDs:        opts.IDs,
		Store:      reviewoutadapter.NewSQLiteReviewStore(db, hub),
		Topics:     reviewoutadapter.NewTopicCatalogAdapter(topicUC),
		Sessions:   reviewoutadapter.NewSessionProgressAdapter(sessionUC),
		Forecaster: reviewoutadapter.NewFSRSForecaster(),
		Tx:         tx.NewSQLManager(db),
		Log:        log,
	}))

	analyticsUC := analyticsusecase.NewInteractor(analyticsservice.NewAnalyticsService(
		opts.Clock,
		analyticsoutadapter.NewSQLiteHistoryReader(db),
		analyticsservice.Options{
			Stats: analyticsdomain.StatsOptions{
				MinCategoryReviews: cfg.CategoryMinReviews,
				CategoryLimit:      cfg.CategoryLimit,
			},
			HistoryDays: cfg.HistoryDays,
		},
		log,
	))

	log.Debug("app wired", "vault", cfg.VaultPath, "db", cfg.DBPath, "journal", cfg.Journal)
	return &App{
		TopicCLI:     topicinadapter.NewCLIHandler(topicUC),
		ReviewCLI:    reviewinadapter.NewCLIHandler(reviewUC),
		SessionCLI:   sessioninadapter.NewCLIHandler(sessionUC),
		AnalyticsCLI: analyticsinadapter.NewCLIHandler(analyticsUC),
		db:           db,
		log:          log,
	}, nil
}

func (a *App) Close() error {
	a.log.Sync()
	if err := a.db.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}
	return nil
}
