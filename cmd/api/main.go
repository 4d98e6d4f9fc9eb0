package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"

	"github.com/medialist/medialist-go/internal/config"
	"github.com/medialist/medialist-go/internal/handler"
	"github.com/medialist/medialist-go/internal/logging"
	"github.com/medialist/medialist-go/internal/oauth"
	"github.com/medialist/medialist-go/internal/repository"
	"github.com/medialist/medialist-go/internal/server"
)

const (
	pruneInterval   = time.Hour
	limiterInterval = 10 * time.Minute
	limiterMaxIdle  = 30 * time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file found, using environment variables")
	}

	configFlag := &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to an optional TOML configuration file",
		Sources: cli.EnvVars("CONFIG_FILE"),
	}

	app := &cli.Command{
		Name:   "medialist",
		Usage:  "Media list server with Google sign-in",
		Flags:  []cli.Flag{configFlag},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Run the HTTP server",
				Action: serve,
			},
			{
				Name:   "migrate",
				Usage:  "Apply database migrations and exit",
				Action: migrate,
			},
			{
				Name:  "sessions",
				Usage: "Session maintenance",
				Commands: []*cli.Command{
					{
						Name:   "prune",
						Usage:  "Delete expired sessions",
						Action: pruneSessions,
					},
				},
			},
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration, installs the logger and opens the database.
func setup(ctx context.Context, cmd *cli.Command) (config.Config, *slog.Logger, *sql.DB, repository.Dialect, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return config.Config{}, nil, nil, "", err
	}

	logger := logging.Setup(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.InsecureSessionSecret {
		logger.Warn("SESSION_SECRET not set, using the built-in development secret")
	}

	dialect, err := repository.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return config.Config{}, nil, nil, "", err
	}

	db, err := repository.Open(ctx, dialect, cfg.Database.DSN)
	if err != nil {
		return config.Config{}, nil, nil, "", fmt.Errorf("open database: %w", err)
	}
	logger.Info("database ready", "driver", dialect)

	return cfg, logger, db, dialect, nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, db, dialect, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var provider handler.Provider
	if cfg.OAuthConfigured() {
		provider = oauth.NewGoogleProvider(ctx, oauth.Config{
			ClientID:     cfg.Google.ClientID,
			ClientSecret: cfg.Google.ClientSecret,
			RedirectURL:  cfg.CallbackURL(),
		})
		logger.Info("google oauth configured", "callback_url", cfg.CallbackURL())
	} else {
		logger.Warn("google oauth not configured, login is disabled")
	}

	app, err := server.New(cfg, db, dialect, provider, logger)
	if err != nil {
		return err
	}

	go runMaintenance(ctx, app, logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           app.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "env", cfg.Env, "base_url", cfg.BaseURL)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced shutdown: %w", err)
	}

	logger.Info("server stopped")
	return nil
}

// runMaintenance prunes expired sessions and idle rate limiter entries until
// ctx is done.
func runMaintenance(ctx context.Context, app *server.Server, logger *slog.Logger) {
	pruneTicker := time.NewTicker(pruneInterval)
	defer pruneTicker.Stop()
	limiterTicker := time.NewTicker(limiterInterval)
	defer limiterTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-pruneTicker.C:
			n, err := app.Sessions().PruneExpired(ctx)
			if err != nil {
				logger.Error("prune sessions", "error", err)
				continue
			}
			if n > 0 {
				logger.Info("pruned expired sessions", "count", n)
			}
		case <-limiterTicker.C:
			app.RateLimiter().Cleanup(limiterMaxIdle)
		}
	}
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	_, logger, db, _, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("migrations applied")
	return nil
}

func pruneSessions(ctx context.Context, cmd *cli.Command) error {
	cfg, logger, db, dialect, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	app, err := server.New(cfg, db, dialect, nil, logger)
	if err != nil {
		return err
	}

	n, err := app.Sessions().PruneExpired(ctx)
	if err != nil {
		return err
	}
	logger.Info("pruned expired sessions", "count", n)
	return nil
}
