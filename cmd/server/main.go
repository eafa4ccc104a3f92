package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/duosplit/internal/app"
	"github.com/mmynk/duosplit/internal/auth"
	"github.com/mmynk/duosplit/internal/config"
	"github.com/mmynk/duosplit/internal/middleware"
	"github.com/mmynk/duosplit/internal/service"
	"github.com/mmynk/duosplit/internal/session"
	"github.com/mmynk/duosplit/internal/storage"
	"github.com/mmynk/duosplit/pkg/api/apiconnect"
	"github.com/mmynk/duosplit/pkg/logging"
)

const (
	cacheMaxAge    = 7 * 24 * time.Hour
	pruneInterval  = time.Hour
	shutdownPeriod = 10 * time.Second
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	logging.SetupWith(logging.Options{
		Level: logging.ParseLevel(cfg.LogLevel),
		JSON:  strings.EqualFold(cfg.LogFormat, "json"),
	})

	stack, err := app.Build(cfg, prometheus.DefaultRegisterer)
	if err != nil {
		slog.Error("Failed to initialize recognition", "error", err)
		os.Exit(1)
	}
	defer stack.Close()

	tokens, err := auth.NewSessionTokens(cfg.SessionSecret, cfg.SessionTTL)
	if err != nil {
		slog.Error("Failed to initialize session tokens", "error", err)
		os.Exit(1)
	}
	if cfg.SessionSecret == "" {
		slog.Warn("SESSION_SECRET not set, tokens will not survive a restart")
	}

	sessions := session.NewManager(stack.Pipeline)
	billService := service.NewBillService(sessions, tokens, service.Options{
		PointWidth:  cfg.PointWidth,
		PointHeight: cfg.PointHeight,
	})

	interceptors := connect.WithInterceptors(
		middleware.RequireSession(tokens, service.OpenProcedures()...),
		middleware.LoggingInterceptor(),
	)

	mux := http.NewServeMux()
	billPath, billHandler := apiconnect.NewBillServiceHandler(billService, interceptors)
	mux.Handle(billPath, billHandler)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if stack.Cache != nil {
		go pruneLoop(ctx, stack.Cache)
	}

	// Add logging and CORS middleware
	loggedHandler := loggingMiddleware(corsMiddleware(mux))

	// Wrap with h2c for HTTP/2 without TLS (required for Connect)
	h2cHandler := h2c.NewHandler(loggedHandler, &http2.Server{})

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{Addr: addr, Handler: h2cHandler}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownPeriod)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
		}
	}()

	slog.Info("Connect server starting",
		"address", addr,
		"url", fmt.Sprintf("http://localhost%s", addr),
		"remote_fallback", stack.Pipeline.HasFallback(),
	)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Server stopped")
}

// pruneLoop drops recognition cache entries older than cacheMaxAge.
func pruneLoop(ctx context.Context, cache storage.RecognitionCache) {
	ticker := time.NewTicker(pruneInterval)
	defer ticker.Stop()
	for {
		n, err := cache.Prune(ctx, time.Now().Add(-cacheMaxAge))
		if err != nil {
			slog.Warn("Failed to prune OCR cache", "error", err)
		} else if n > 0 {
			slog.Debug("Pruned OCR cache", "removed", n)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// loggingMiddleware logs all incoming requests
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		slog.Debug("Request received",
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"user_agent", r.UserAgent(),
		)

		next.ServeHTTP(w, r)

		slog.Info("Request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// corsMiddleware adds CORS headers for browser access
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version, Connect-Timeout-Ms")
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
