package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"flatrate/internal/domain/classify"
	"flatrate/internal/domain/entries"
	"flatrate/internal/domain/presets"
	"flatrate/internal/domain/weeks"
	"flatrate/internal/platform/blob"
	"flatrate/internal/platform/config"
	"flatrate/internal/platform/db"
	"flatrate/internal/platform/metrics"
	authhandler "flatrate/internal/transport/http/handlers/auth"
	classifyhandler "flatrate/internal/transport/http/handlers/classify"
	entrieshandler "flatrate/internal/transport/http/handlers/entries"
	exportshandler "flatrate/internal/transport/http/handlers/exports"
	presetshandler "flatrate/internal/transport/http/handlers/presets"
	rollupshandler "flatrate/internal/transport/http/handlers/rollups"
	weekshandler "flatrate/internal/transport/http/handlers/weeks"
	"flatrate/internal/transport/http/middleware"
)

func Run() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config invalid: %v", err)
	}

	ctx := context.Background()
	pool, err := db.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}
	defer pool.Close()

	if cfg.RunMigrations {
		if err := db.Migrate(ctx, pool, "migrations"); err != nil {
			log.Fatalf("migrations failed: %v", err)
		}
	}
	if cfg.RunSeed {
		if err := db.Seed(ctx, pool, cfg); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	}

	blobs, err := blob.New(ctx, cfg)
	if err != nil {
		log.Fatalf("blob store init failed: %v", err)
	}

	collector := metrics.New()

	entryStore := entries.NewStore(pool)
	presetStore := presets.NewStore(pool)
	ruleStore := classify.NewStore(pool)
	weekStore := weeks.NewStore(pool)
	entryService := entries.NewService(entryStore, presetStore, ruleStore, blobs, cfg.UndoWindow)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logger(collector))
	router.Use(middleware.Recoverer)
	router.Use(middleware.SecureHeaders(cfg.IsProd()))
	router.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	router.Use(middleware.Auth(cfg.JWTSecret))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pool.Ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.Route("/api/v1", func(r chi.Router) {
		authHandler := authhandler.NewHandler(pool, cfg.JWTSecret)
		r.Post("/auth/login", authHandler.HandleLogin)
		r.Post("/auth/refresh", authHandler.HandleRefresh)
		r.Post("/auth/logout", authHandler.HandleLogout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireUser)

			entrieshandler.NewHandler(entryService, collector).RegisterRoutes(r)
			presetshandler.NewHandler(presetStore).RegisterRoutes(r)
			weekshandler.NewHandler(weekStore, blobs).RegisterRoutes(r)
			classifyhandler.NewHandler(ruleStore).RegisterRoutes(r)
			rollupshandler.NewHandler(entryService, weekStore).RegisterRoutes(r)
			exportshandler.NewHandler(entryService, weekStore, blobs, collector).RegisterRoutes(r)
		})
	})

	if cfg.MetricsEnabled {
		router.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			if err := json.NewEncoder(w).Encode(collector.Snapshot()); err != nil {
				log.Printf("metrics write failed: %v", err)
			}
		})
	}

	// Local blob keys resolve to /proofs/ URLs; serve them when the local
	// provider is active.
	if local, ok := blobs.(interface{ Dir() string }); ok {
		fileServer := http.StripPrefix("/proofs/", http.FileServer(http.Dir(local.Dir())))
		router.Get("/proofs/*", fileServer.ServeHTTP)
	}

	log.Printf("flat-rate server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		log.Fatalf("server failed: %v", err)
	}
}
