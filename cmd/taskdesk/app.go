package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskdesk/internal/api"
	"github.com/phrazzld/taskdesk/internal/config"
	"github.com/phrazzld/taskdesk/internal/platform/mailer"
	"github.com/phrazzld/taskdesk/internal/platform/metrics"
	"github.com/phrazzld/taskdesk/internal/platform/postgres"
	"github.com/phrazzld/taskdesk/internal/service"
	"github.com/phrazzld/taskdesk/internal/service/auth"
	"github.com/phrazzld/taskdesk/internal/store"
)

// application holds the shared dependencies of the server so they can be
// wired once and closed together.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	userStore store.UserStore
	taskStore store.TaskStore

	sessions auth.SessionService
	sender   mailer.Sender
	metrics  *metrics.Recorder

	assignments service.AssignmentService
	statuses    service.StatusService
	queries     service.QueryService
}

// newApplication wires stores, services and the notification sender around
// an open database.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) (*application, error) {
	sender, err := newSender(cfg.Mail, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail sender: %w", err)
	}

	app, err := assembleApplication(
		cfg,
		logger,
		postgres.NewPostgresUserStore(db, logger),
		postgres.NewPostgresTaskStore(db, logger),
		store.NewDBTransactor(db),
		sender,
	)
	if err != nil {
		return nil, err
	}
	app.db = db
	return app, nil
}

// assembleApplication builds the services on top of already constructed
// stores and sender.
func assembleApplication(
	cfg *config.Config,
	logger *slog.Logger,
	userStore store.UserStore,
	taskStore store.TaskStore,
	tx store.Transactor,
	sender mailer.Sender,
) (*application, error) {
	app := &application{
		config:    cfg,
		logger:    logger,
		userStore: userStore,
		taskStore: taskStore,
		sender:    sender,
		metrics:   metrics.New(),
	}

	var err error
	app.sessions, err = auth.NewSessionService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session service: %w", err)
	}

	app.assignments, err = service.NewAssignmentService(tx, taskStore, userStore, sender, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment service: %w", err)
	}

	app.statuses, err = service.NewStatusService(taskStore, app.metrics, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create status service: %w", err)
	}

	app.queries, err = service.NewQueryService(taskStore, userStore, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create query service: %w", err)
	}

	logger.Info("application initialized",
		slog.Bool("mail_enabled", cfg.Mail.Enabled),
		slog.Int("session_lifetime_minutes", cfg.Auth.SessionLifetimeMinutes))
	return app, nil
}

func newSender(cfg config.MailConfig, logger *slog.Logger) (mailer.Sender, error) {
	if !cfg.Enabled {
		logger.Warn("mail delivery disabled; assignments will report partial")
		return mailer.NewDisabledSender(logger), nil
	}
	return mailer.NewSMTPSender(cfg, logger)
}

// routes collects what setupRouter mounts for app.
func (app *application) routes() *routerDeps {
	deps := &routerDeps{
		logger:     app.logger,
		sessions:   app.sessions,
		metrics:    app.metrics,
		loginRate:  app.config.Auth.LoginRatePerMinute,
		trustProxy: app.config.Server.TrustProxyHeaders,
		auth: api.NewAuthHandler(
			app.userStore,
			app.sessions,
			auth.NewBcryptVerifier(),
			app.metrics,
			app.config.Auth.CookieSecure,
			app.logger,
		),
		tasks: api.NewTaskHandler(app.assignments, app.statuses, app.queries, app.logger),
		users: api.NewUserHandler(app.queries, app.logger),
		pages: api.NewPageHandler(app.queries, app.logger),
	}
	if app.db != nil {
		deps.health = app.db.PingContext
	}
	return deps
}

// Run serves HTTP until ctx is cancelled.
func (app *application) Run(ctx context.Context) error {
	if err := startHTTPServer(ctx, app.config.Server.Port, setupRouter(app.routes()), app.logger); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// cleanup releases the database pool.
func (app *application) cleanup() {
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
