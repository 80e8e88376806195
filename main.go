package main

import (
	"context"
	"crypto/tls"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/username/pricedash/backend/src/config"
	"github.com/username/pricedash/backend/src/database"
	"github.com/username/pricedash/backend/src/handlers"
	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/services"
	"github.com/username/pricedash/backend/src/utils"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Pricing dashboard backend starting...")

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	db := database.InitDB(config.Cfg.DatabasePath)
	defer db.Close()

	resultCache := cache.New(config.Cfg.ResultCacheTTL, services.CacheCleanupInterval)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := services.NewMetrics(registry)

	analysisService := services.NewAnalysisService(db, resultCache, metrics, nil)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if config.Cfg.InboxDir != "" {
		inbox, err := services.NewInboxWatcher(config.Cfg.InboxDir, analysisService)
		if err != nil {
			logger.L.Error("Failed to create inbox watcher", "dir", config.Cfg.InboxDir, "error", err)
			os.Exit(1)
		}
		if err := inbox.Start(ctx); err != nil {
			logger.L.Error("Failed to start inbox watcher", "dir", config.Cfg.InboxDir, "error", err)
			os.Exit(1)
		}
		defer inbox.Stop()
	}

	retention, err := services.StartRetentionJob(ctx, analysisService, config.Cfg.RetentionSchedule, config.Cfg.RetentionDays)
	if err != nil {
		logger.L.Error("Invalid retention schedule", "schedule", config.Cfg.RetentionSchedule, "error", err)
		os.Exit(1)
	}
	if retention != nil {
		defer func() { <-retention.Stop().Done() }()
	}

	uploadHandler := handlers.NewUploadHandler(analysisService, config.Cfg.MaxUploadSizeBytes, config.Cfg.SanitizeOutput)
	analysisHandler := handlers.NewAnalysisHandler(analysisService, config.Cfg.SanitizeOutput)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(proxyHeadersMiddleware)
	r.Use(handlers.NewCORSMiddleware(config.Cfg.AllowedOrigins))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.SendJSON(w, map[string]string{"message": "Pricing dashboard backend is running"}, http.StatusOK)
	})
	r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(handlers.NewRateLimitMiddleware(config.Cfg.RateLimitRPS, config.Cfg.RateLimitBurst))
		r.Mount("/", handlers.NewAPIRouter(uploadHandler, analysisHandler))
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/api/") {
			utils.SendJSONError(w, "not found", http.StatusNotFound)
			return
		}
		http.NotFound(w, r)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		stdlog.Fatalf("Server error: %v", err)
	}
	logger.L.Info("Server stopped")
}
