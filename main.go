package main

import (
	"encoding/json"
	stdlog "log"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/patrickmn/go-cache"
	"github.com/username/corpinsights/backend/src/config"
	"github.com/username/corpinsights/backend/src/database"
	"github.com/username/corpinsights/backend/src/handlers"
	"github.com/username/corpinsights/backend/src/logger"
	"github.com/username/corpinsights/backend/src/parsers/spreadsheet"
	"github.com/username/corpinsights/backend/src/processors"
	"github.com/username/corpinsights/backend/src/services"
	"golang.org/x/time/rate"
)

var limiter = rate.NewLimiter(rate.Every(100*time.Millisecond), 30)

func rateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow() {
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			logger.L.Warn("Rate limit exceeded", "path", r.URL.Path)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func enableCORS(next http.Handler) http.Handler {
	allowedOrigins := make(map[string]bool, len(config.Cfg.AllowedOrigins))
	for _, origin := range config.Cfg.AllowedOrigins {
		allowedOrigins[origin] = true
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowedOrigins[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Accept-Encoding")
		} else if origin == "" {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("CorpInsights backend server starting...")

	if err := os.MkdirAll(config.Cfg.UploadDir, 0o755); err != nil {
		logger.L.Error("Failed to create upload directory", "dir", config.Cfg.UploadDir, "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations(config.Cfg.DatabasePath)

	resultCache := cache.New(services.DefaultCacheExpiration, services.CacheCleanupInterval)

	parser := spreadsheet.NewParser()
	normalizer := processors.NewNormalizer()
	aggregator := processors.NewAggregator()

	analysisService := services.NewAnalysisService(
		parser,
		normalizer,
		aggregator,
		config.Cfg.UploadDir,
		resultCache,
		config.Cfg.ResultCacheTTL,
	)

	uploadHandler := handlers.NewUploadHandler(analysisService)
	insightHandler := handlers.NewInsightHandler(analysisService)
	downloadHandler := handlers.NewDownloadHandler(analysisService)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(handlers.ContextualLoggerMiddleware)
	r.Use(enableCORS)
	r.Use(rateLimitMiddleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "CorpInsights Backend is running"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/upload", uploadHandler.HandleUpload)
		r.Get("/insights/{sessionID}", insightHandler.HandleGetInsights)
		r.Get("/insights/{sessionID}/view", insightHandler.HandleViewInsights)
		r.Get("/download/{sessionID}", downloadHandler.HandleDownload)
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	logger.L.Info("Server starting", "address", serverAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		stdlog.Fatalf("Failed to start server: %v", err)
	}
}
