package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/SscSPs/campus_coin_ledger/internal/adapters/mailrelay"
	"github.com/SscSPs/campus_coin_ledger/internal/adapters/qrcode"
	portssvc "github.com/SscSPs/campus_coin_ledger/internal/core/ports/services"
	"github.com/SscSPs/campus_coin_ledger/internal/core/services"
	"github.com/SscSPs/campus_coin_ledger/internal/platform/config"
	"github.com/SscSPs/campus_coin_ledger/internal/repositories/database/pgsql"
	"github.com/SscSPs/campus_coin_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "campuscoin",
	Short:        "Campus coin ledger service",
	SilenceUsage: true,
}

// newLogger builds the JSON base logger at the configured level and installs it as default.
func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)
	return logger
}

// app is what every command needs: configuration, a logger and an open pool.
type app struct {
	cfg    *config.Config
	logger *slog.Logger
	pool   *pgxpool.Pool
}

func bootstrap(ctx context.Context, migrate bool) (*app, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg.LogLevel)

	if migrate {
		logger.Info("Running database migrations...")
		if _, err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			return nil, err
		}
	}

	pool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		return nil, err
	}
	logger.Info("Database connection pool established.")

	return &app{cfg: cfg, logger: logger, pool: pool}, nil
}

// newDispatcher wires the notification queue to the mail relay, or to the log
// when no relay is configured.
func (a *app) newDispatcher() *services.NotificationDispatcher {
	var notifier portssvc.Notifier = &mailrelay.LogNotifier{Logger: a.logger}
	if a.cfg.MailRelayURL != "" {
		notifier = mailrelay.NewClient(a.cfg.MailRelayURL, a.cfg.MailRelayToken, a.cfg.MailFrom, a.cfg.MailTimeout)
	}
	return services.NewNotificationDispatcher(notifier, a.cfg.NotifyQueueSize, a.cfg.NotifyWorkers, a.logger)
}

func (a *app) newServices(dispatcher *services.NotificationDispatcher) *portssvc.ServiceContainer {
	repos := pgsql.NewRepositoryProvider(a.pool)
	return services.NewServiceContainer(a.cfg, repos, dispatcher, qrcode.NewRenderer())
}
