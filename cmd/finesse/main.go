package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/okian/finesse/internal/adapters/boundary"
	"github.com/okian/finesse/internal/adapters/http/api"
	"github.com/okian/finesse/internal/adapters/http/swagger"
	"github.com/okian/finesse/internal/adapters/storage"
	"github.com/okian/finesse/internal/adapters/ws"
	"github.com/okian/finesse/internal/app"
	"github.com/okian/finesse/internal/config"
	"github.com/okian/finesse/internal/store/auth"
	"github.com/okian/finesse/internal/store/trials"
	"github.com/okian/finesse/internal/store/user"
	"github.com/okian/finesse/pkg/logger"
	"github.com/okian/finesse/pkg/metrics"
	"github.com/okian/finesse/pkg/report"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

func main() {
	if err := logger.Init(); err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to load config:", err)
		os.Exit(1)
	}

	if err := run(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "server failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	if cfg.LogFormat != "" {
		if err := logger.Init(logger.WithFormat(cfg.LogFormat)); err != nil {
			return fmt.Errorf("logger: %w", err)
		}
	}
	log := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := report.Init(cfg.SentryDSN, cfg.SentryEnvironment); err != nil {
		log.Warn(ctx, "error reporting disabled", logger.Error(err))
	}
	defer report.Flush(0)

	kv, err := openStorage(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := kv.close(); err != nil {
			log.Warn(ctx, "closing storage", logger.Error(err))
		}
	}()

	mock := newBoundary(cfg)
	hub := ws.NewHub(ws.WithTokenVerifier(func(token string) error {
		_, err := mock.ParseToken(token)
		return err
	}))
	go hub.Run(ctx)

	a := newApp(cfg, mock, kv, hub)
	if err := a.Start(ctx); err != nil {
		return fmt.Errorf("start app: %w", err)
	}
	if err := a.Restore(ctx); err != nil {
		log.Warn(ctx, "could not restore persisted state", logger.Error(err))
	}

	metrics.StartRuntimeCollector(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newMux(ctx, a, hub),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("storage", cfg.StorageBackend),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			_ = a.Stop(context.Background())
			return fmt.Errorf("http server: %w", err)
		}
	}
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}
	if err := a.Stop(shutdownCtx); err != nil {
		log.Error(ctx, "app shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
	return nil
}

// stores holds the plain and secure key-value stores picked by config.
type stores struct {
	state  storage.KV
	secure storage.KV
	close  func() error
}

func openStorage(ctx context.Context, cfg *config.Config) (stores, error) {
	noop := func() error { return nil }

	switch cfg.StorageBackend {
	case config.BackendMemory:
		return stores{state: storage.NewMemory(), secure: storage.NewMemory(), close: noop}, nil
	case config.BackendFile:
		plain, err := storage.NewFile(cfg.DataDir)
		if err != nil {
			return stores{}, err
		}
		secure, err := storage.NewFile(cfg.SecureDir, storage.Secure())
		if err != nil {
			return stores{}, err
		}
		return stores{state: plain, secure: secure, close: noop}, nil
	case config.BackendRedis:
		r, err := storage.NewRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, storage.WithPrefix(cfg.RedisPrefix))
		if err != nil {
			return stores{}, err
		}
		return stores{state: r, secure: r.Namespace("secure:"), close: r.Close}, nil
	default:
		return stores{}, fmt.Errorf("%w: unknown storage_backend %q", config.ErrInvalidConfig, cfg.StorageBackend)
	}
}

func newBoundary(cfg *config.Config) *boundary.Mock {
	return boundary.NewMock(
		boundary.WithLatency(cfg.BoundaryLatency()),
		boundary.WithTokenSecret(cfg.TokenSecret),
		boundary.WithTokenTTL(cfg.TokenTTL()),
		boundary.WithBcryptCost(cfg.BcryptCost),
	)
}

func newApp(cfg *config.Config, api boundary.Boundary, kv stores, hub *ws.Hub) *app.App {
	return app.New(
		auth.New(api, auth.WithStorage(kv.state), auth.WithSecureStorage(kv.secure)),
		user.New(api, user.WithStorage(kv.state)),
		trials.New(api, trials.WithStorage(kv.state)),
		app.WithSink(hub),
		app.WithQueueSize(cfg.EventQueueSize),
		app.WithWorkerCount(cfg.WorkerCount),
	)
}

func newMux(ctx context.Context, a *app.App, hub *ws.Hub) *http.ServeMux {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)

	stats := api.StatsFunc(func() map[string]any {
		s := a.GetStats()
		s["wsClients"] = hub.ClientCount()
		return s
	})
	api.NewServer(api.Dependencies{
		Auth:    a.Auth,
		Profile: a.User,
		Trials:  a.Trials,
		Session: a,
		Stats:   stats,
	}).Register(ctx, mux)

	mux.Handle("GET /ws", hub)
	return mux
}
