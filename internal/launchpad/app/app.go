package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/launchpad/internal/launchpad/http"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/notify"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/service"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store/drivers/postgres"
	"github.com/aussiebroadwan/launchpad/internal/launchpad/store/drivers/sqlite"
	"github.com/aussiebroadwan/launchpad/pkg/cryptox"
	"github.com/aussiebroadwan/launchpad/pkg/jwtx"
	"github.com/aussiebroadwan/launchpad/pkg/slogx"
)

// BuildVersion is overridden at build time via -ldflags.
var BuildVersion = "v0.1.0"

// Audience is the aud claim on every access token launchpad issues.
const Audience = "launchpad"

// Application holds the launchpad service and everything it depends on.
type Application struct {
	cfg    Config
	logger *slog.Logger

	db         store.Store
	keyManager *jwtx.KeyManager
	mailer     notify.Mailer

	userService         *service.UserService
	tokenService        *service.TokenService
	startupService      *service.StartupService
	inviteService       *service.InviteService
	trackerService      *service.TrackerService
	milestoneService    *service.MilestoneService
	feedbackService     *service.FeedbackService
	housekeepingService *service.HousekeepingService

	server *http.Server
	router *httpapi.Router
}

// New creates an Application with all dependencies initialised.
func New(cfg Config) (*Application, error) {
	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "launchpad",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	if err := cryptox.LoadPepper(cfg.PepperFile); err != nil {
		return nil, fmt.Errorf("failed to load pepper: %w", err)
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	km, err := jwtx.NewEphemeralKeyManager(jwtx.KeyManagerOptions{
		Issuer:   cfg.Issuer,
		Audience: []string{Audience},
	})
	if err != nil {
		_ = app.db.Close()
		return nil, fmt.Errorf("failed to initialize JWT keys: %w", err)
	}
	app.keyManager = km
	app.logger.Info("ephemeral signing key generated; tokens do not survive restarts")

	if err := app.initMailer(context.Background()); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler exposes the HTTP handler, mainly for tests.
func (app *Application) Handler() http.Handler { return app.router }

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	app.housekeepingService.Start()

	app.logger.Info("launchpad starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		app.housekeepingService.Stop()
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown drains in-flight requests, stops background work and closes the
// database.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down launchpad...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("launchpad stopped")
	return nil
}

func (app *Application) initDatabase() error {
	var (
		db  store.Store
		err error
	)
	switch app.cfg.DatabaseDriver {
	case "postgres":
		db, err = postgres.NewStore(app.cfg.DatabaseURL)
	default:
		db, err = sqlite.NewStore(app.cfg.DatabaseFile)
	}
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied", "driver", app.cfg.DatabaseDriver)
	return nil
}

func (app *Application) initMailer(ctx context.Context) error {
	switch app.cfg.MailDriver {
	case "ses":
		ses, err := notify.NewSES(ctx, app.cfg.SESRegion, app.cfg.MailFrom, app.cfg.MailFromName)
		if err != nil {
			return fmt.Errorf("failed to initialize SES mailer: %w", err)
		}
		app.mailer = ses
	case "smtp":
		app.mailer = &notify.SMTP{
			Host:     app.cfg.SMTPHost,
			Port:     app.cfg.SMTPPort,
			User:     app.cfg.SMTPUser,
			Password: app.cfg.SMTPPassword,
			From:     app.cfg.MailFrom,
			FromName: app.cfg.MailFromName,
		}
	default:
		app.mailer = notify.NoEmail{}
	}

	app.logger.Info("invite mailer configured", "driver", app.cfg.MailDriver)
	return nil
}

func (app *Application) initServices() {
	app.userService = &service.UserService{Store: app.db}
	app.tokenService = &service.TokenService{
		Keys:     app.keyManager,
		Issuer:   app.cfg.Issuer,
		Audience: []string{Audience},
		TTL:      app.cfg.AccessTokenTTL,
	}
	app.startupService = &service.StartupService{Store: app.db}
	app.inviteService = &service.InviteService{
		Store:   app.db,
		Mailer:  app.mailer,
		BaseURL: app.cfg.BaseURL,
		TTL:     app.cfg.InviteTTL,
	}
	app.trackerService = &service.TrackerService{Store: app.db}
	app.milestoneService = &service.MilestoneService{Store: app.db}
	app.feedbackService = &service.FeedbackService{Store: app.db}

	app.housekeepingService = service.NewHousekeepingService(
		app.db,
		app.logger,
		app.cfg.HousekeepingInterval,
		app.cfg.InviteRetention,
	)
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		app.keyManager.KeySet,
		app.keyManager.Verifier,
		BuildVersion,
		app.db,
		app.logger,
		app.cfg.RateLimit.Profiles(),
	)

	router.UserService = app.userService
	router.TokenService = app.tokenService
	router.StartupService = app.startupService
	router.InviteService = app.inviteService
	router.TrackerService = app.trackerService
	router.MilestoneService = app.milestoneService
	router.FeedbackService = app.feedbackService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
