package cli

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

	"github.com/spf13/cobra"

	"github.com/splitr/splitr/internal/auth"
	"github.com/splitr/splitr/internal/balance"
	"github.com/splitr/splitr/internal/config"
	"github.com/splitr/splitr/internal/events"
	"github.com/splitr/splitr/internal/events/kafka"
	"github.com/splitr/splitr/internal/server"
	"github.com/splitr/splitr/internal/storage/sqlstore"
	"github.com/splitr/splitr/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("config", "c", "", "Path to a TOML config file")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Splitr server",
	Long: `Run the Connect API server. Settings come from the optional TOML file
given with --config, overridden by environment variables (JWT_SECRET,
DB_DRIVER, DB_PATH, DB_DSN, KAFKA_BROKERS and friends).`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	logging.SetupWith(os.Stderr, logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlstore.Open(cfg.Storage.Driver, cfg.StorageDSN())
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	slog.Info("Storage initialized", "driver", store.Driver())

	if n, err := store.PurgeExpiredTokens(ctx, time.Now().Unix()); err != nil {
		slog.Warn("Failed to purge expired tokens", "error", err)
	} else if n > 0 {
		slog.Info("Purged expired revoked tokens", "count", n)
	}

	publisher := newPublisher(cfg.Events)
	defer publisher.Close()

	srv := server.New(store, server.Options{
		JWTManager:     auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.TokenTTL()),
		Engine:         balance.NewEngine(store, cfg.BalanceOptions()),
		Publisher:      publisher,
		Rounding:       cfg.Rounding(),
		Logger:         slog.Default(),
		MetricsEnabled: cfg.Metrics.Enabled,
		StaticPath:     cfg.Server.StaticPath,
		AllowedOrigins: cfg.Server.AllowedOrigins,
	})
	httpServer := srv.HTTPServer(cfg.Server.Addr)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Server.Addr,
			"rounding", cfg.Balance.Rounding, "simplify_debts", cfg.Balance.SimplifyDebts)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

// newPublisher returns a Kafka publisher when brokers are configured and
// logs events otherwise.
func newPublisher(cfg config.EventsConfig) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{}
	}
	slog.Info("Publishing ledger events to Kafka", "brokers", cfg.KafkaBrokers, "topic", cfg.Topic)
	return kafka.NewPublisher(cfg.KafkaBrokers, cfg.Topic)
}
