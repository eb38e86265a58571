// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/trace"

	"github.com/carterperez-dev/neolab-storefront/internal/config"
	"github.com/carterperez-dev/neolab-storefront/internal/core"
	"github.com/carterperez-dev/neolab-storefront/internal/dataservice"
	"github.com/carterperez-dev/neolab-storefront/internal/session"
)

const shutdownTimeout = 5 * time.Second

type flags struct {
	configPath string
	noLatency  bool
	email      string
}

// app is everything a command needs, built once before it runs.
type app struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *core.Telemetry
	registry  *prometheus.Registry
	backend   dataservice.Service
	storage   session.CartStorage
	store     *session.Store
	redis     *redis.Client
	span      trace.Span
	out       io.Writer
}

func main() {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)

	err := run(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	a := &app{out: os.Stdout}
	defer a.close()

	return newRootCmd(a).ExecuteContext(ctx)
}

func newRootCmd(a *app) *cobra.Command {
	var f flags

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "NeoLab storefront session and catalog CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.start(cmd, f)
		},
	}

	root.PersistentFlags().StringVar(&f.configPath, "config", "", "path to config file")
	root.PersistentFlags().BoolVar(&f.noLatency, "no-latency", false, "disable simulated data service latency")
	root.PersistentFlags().StringVar(&f.email, "email", "", "log in with this email before running the command")

	root.AddCommand(
		newCatalogCmd(a),
		newProductCmd(a),
		newCartCmd(a),
		newWishlistCmd(a),
		newCheckoutCmd(a),
		newProfileCmd(a),
		newAdminCmd(a),
		newHealthCmd(a),
		newMetricsCmd(a),
		newDemoCmd(a),
	)

	return root
}

//nolint:funlen // bootstrap code is inherently verbose
func (a *app) start(cmd *cobra.Command, f flags) error {
	ctx := cmd.Context()

	cfg, err := config.Load(f.configPath)
	if err != nil {
		return err
	}
	if f.noLatency {
		cfg.Latency.NoLatency()
	}
	a.cfg = cfg

	a.logger = setupLogger(cfg.Log)
	slog.SetDefault(a.logger)

	a.logger.Debug("starting storefront",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"cart_backend", cfg.Cart.Backend,
	)

	a.telemetry, err = core.NewTelemetry(ctx, cfg)
	if err != nil {
		return err
	}

	ctx, a.span = a.telemetry.Tracer.Start(ctx, cmd.CommandPath())
	cmd.SetContext(ctx)
	a.logger.Debug("command started",
		"command", cmd.CommandPath(),
		"trace_id", core.TraceIDFromContext(ctx),
	)

	a.registry = prometheus.NewRegistry()
	a.registry.MustRegister(collectors.NewGoCollector())

	memory := dataservice.NewMemory(dataservice.Options{
		Latency: dataservice.LatencyFromConfig(cfg.Latency),
	})

	a.backend, err = dataservice.NewInstrumented(
		dataservice.NewGuard(memory),
		a.telemetry.Tracer,
		a.registry,
	)
	if err != nil {
		return err
	}

	a.storage, err = a.openStorage(ctx)
	if err != nil {
		return err
	}

	a.store = session.New(ctx, a.backend, a.storage, a.logger)

	if f.email != "" {
		if _, ok := a.store.Login(ctx, f.email); !ok {
			return fmt.Errorf("login as %s failed", f.email)
		}
	}

	return nil
}

func (a *app) openStorage(ctx context.Context) (session.CartStorage, error) {
	cart := a.cfg.Cart

	switch cart.Backend {
	case config.CartBackendMemory:
		return session.NewMemoryStorage(), nil
	case config.CartBackendRedis:
		client, err := core.NewRedisClient(ctx, a.cfg.Redis)
		if err != nil {
			return nil, err
		}
		a.redis = client
		a.logger.Debug("redis connected", "pool_size", a.cfg.Redis.PoolSize)
		return session.NewRedisStorage(client, cart.KeyPrefix, cart.Slot, cart.TTL), nil
	default:
		return session.NewFileStorage(cart.Dir, cart.Slot), nil
	}
}

func (a *app) close() {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if a.span != nil {
		a.span.End()
	}

	if a.telemetry != nil {
		if err := a.telemetry.Shutdown(ctx); err != nil {
			a.logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.logger.Error("redis close error", "error", err)
		}
	}
}

// setupLogger writes to stderr so command output on stdout stays clean.
func setupLogger(cfg config.LogConfig) *slog.Logger {
	var handler slog.Handler

	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{Level: level}

	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}
