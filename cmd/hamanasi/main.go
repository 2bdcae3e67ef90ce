package main

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/csrf"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/erazemk/hamanasi/internal/api"
	"github.com/erazemk/hamanasi/internal/backend"
	"github.com/erazemk/hamanasi/internal/bids"
	"github.com/erazemk/hamanasi/internal/booking"
	"github.com/erazemk/hamanasi/internal/cache"
	"github.com/erazemk/hamanasi/internal/config"
	"github.com/erazemk/hamanasi/internal/dashboard"
	"github.com/erazemk/hamanasi/internal/db"
	"github.com/erazemk/hamanasi/internal/inventory"
	"github.com/erazemk/hamanasi/internal/routing"
	"github.com/erazemk/hamanasi/internal/store"
	"github.com/erazemk/hamanasi/internal/web"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger sends INFO/WARN to stdout and ERROR to stderr, and every level
// to logPath as well when it is set. The returned func closes the file.
func setupLogger(logPath string) (func(), error) {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}

	cleanup := func() {}
	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

func main() {
	cfg, err := config.Load(os.Args[1:], os.Stdout)
	if errors.Is(err, flag.ErrHelp) {
		os.Exit(0)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	closeLog, err := setupLogger(cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	if err := run(cfg); err != nil {
		slog.Error("fatal", "error", err)
		closeLog()
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	database, err := db.Open(cfg.DB)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	if err := db.EnsureSchema(database); err != nil {
		return fmt.Errorf("ensuring database schema: %w", err)
	}
	slog.Info("database ready", "path", cfg.DB)

	draftSecret, err := store.GetSecret(ctx, database, store.DraftSecretKey)
	if err != nil {
		return err
	}
	csrfKey, err := loadCSRFKey(ctx, database, cfg.CSRFKey)
	if err != nil {
		return err
	}

	var names cache.MoverNames = cache.Noop{}
	if cfg.RedisAddr != "" {
		client, err := cache.Connect(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer client.Close()
		names = cache.NewRedis(client, cache.DefaultTTL)
		slog.Info("mover name cache enabled", "redis", cfg.RedisAddr)
	}

	routes, err := routing.NewGoogle(cfg.MapsAPIKey)
	if err != nil {
		return err
	}
	if cfg.MapsAPIKey == "" {
		slog.Warn("no maps API key configured; route calculation is disabled")
	}

	wizard := booking.NewService(database, routes, loc)

	proxy, err := api.NewProxy(cfg.BackendURL)
	if err != nil {
		return err
	}
	webRouter, err := web.NewRouter(web.Deps{
		DB:            database,
		Backend:       backend.NewClient(cfg.BackendURL, nil),
		Wizard:        wizard,
		Bids:          bids.NewService(database, bids.NewResolver(names)),
		Dashboards:    dashboard.NewService(loc),
		Inventory:     inventory.NewManager(cfg.DefaultPropertyID),
		DraftSecret:   draftSecret,
		SecureCookies: cfg.SecureCookies,
	})
	if err != nil {
		return fmt.Errorf("setting up web router: %w", err)
	}

	// The backend passthrough and the frontend's own JSON endpoints take
	// priority; pages handle the rest.
	mux := http.NewServeMux()
	mux.Handle("/api/", proxy)
	mux.Handle("/ui/", api.NewRouter(routes, wizard, draftSecret))
	mux.Handle("/", webRouter)

	protect := csrf.Protect(csrfKey,
		csrf.Secure(cfg.SecureCookies),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
	)
	handler := protect(mux)
	if !cfg.SecureCookies {
		handler = plaintext(handler)
	}
	handler = otelhttp.NewHandler(api.LoggingMiddleware(handler), "hamanasi")

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Graceful shutdown on SIGINT/SIGTERM.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-quit
		slog.Info("shutdown signal received", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			slog.Error("server forced to shutdown", "error", err)
		}
	}()

	slog.Info("server started", "addr", cfg.Addr, "backend", cfg.BackendURL, "timezone", loc.String())
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server error: %w", err)
	}

	slog.Info("server stopped, closing database")
	return nil
}

// loadCSRFKey decodes the configured key, or falls back to one generated
// and kept in the database so tokens survive restarts.
func loadCSRFKey(ctx context.Context, database *sql.DB, configured string) ([]byte, error) {
	encoded := configured
	if encoded == "" {
		var err error
		encoded, err = store.GetSecret(ctx, database, store.CSRFSecretKey)
		if err != nil {
			return nil, err
		}
	}
	key, err := hex.DecodeString(encoded)
	if err != nil || len(key) != 32 {
		return nil, errors.New("csrf_key must be 64 hex characters")
	}
	return key, nil
}

// plaintext marks requests as served over plain HTTP so the CSRF check
// does not demand a TLS referer.
func plaintext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	})
}
