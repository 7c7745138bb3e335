package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/nvaldez/bookshelf/internal/auth"
	"github.com/nvaldez/bookshelf/internal/config"
	"github.com/nvaldez/bookshelf/internal/handlers"
	"github.com/nvaldez/bookshelf/internal/logging"
	"github.com/nvaldez/bookshelf/internal/middleware"
	"github.com/nvaldez/bookshelf/internal/store"
	"github.com/nvaldez/bookshelf/internal/utils"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		// Not fatal: login answers with a configuration error instead.
		logger.Warn("JWT_SECRET not set, token issuance will fail")
	}

	db, err := store.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer db.Close()

	if cfg.MigrationsDir != "" {
		if err := store.RunMigrations(db, cfg.MigrationsDir); err != nil {
			logger.Fatal("migrations", zap.Error(err))
		}
		logger.Info("migrations applied")
	}

	st := store.New(db)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := auth.NewService(st, issuer, logger)
	h := handlers.NewHandler(authSvc, st, st, logger)

	r := chi.NewRouter()
	r.Use(middleware.RequestLog(logger))

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := st.Ping(req.Context()); err != nil {
			utils.JSONError(w, http.StatusServiceUnavailable, "db unreachable")
			return
		}
		utils.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// Public
	r.Post("/api/registro", h.Auth.Register)
	r.Post("/api/login", h.Auth.Login)
	r.Get("/api/usuarios", h.Auth.ListUsers)

	// Protected
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(issuer, logger))

		r.Get("/api/libros", h.Books.List)
		r.Post("/api/libros", h.Books.Create)
		r.Put("/api/libros/{id}", h.Books.Update)
		r.Delete("/api/libros/{id}", h.Books.Delete)
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Info("server exited")
}
