package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/joho/godotenv"

	"github.com/vaughan-dsouza/AcadGo/internal/auth"
	"github.com/vaughan-dsouza/AcadGo/internal/config"
	"github.com/vaughan-dsouza/AcadGo/internal/db"
	"github.com/vaughan-dsouza/AcadGo/internal/handlers"
	"github.com/vaughan-dsouza/AcadGo/internal/logger"
	"github.com/vaughan-dsouza/AcadGo/internal/middleware"
)

func main() {
	// .env is optional, env vars win in production
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.New(0).Fatal("invalid configuration", "error", err.Error())
	}

	log := logger.New(cfg.LogLevel)

	conn, err := db.Connect(context.Background(), cfg.Database)
	if err != nil {
		log.Fatal("db connect", "error", err.Error())
	}
	defer conn.Close()

	store := auth.NewStore(conn, cfg.BcryptCost)
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL)
	authmw := middleware.NewAuth(tokens, log)

	h := handlers.NewHandler(conn, store, tokens, log)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: h.Routes(authmw),
	}

	go func() {
		log.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("listen", "error", err.Error())
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("server forced to shutdown", "error", err.Error())
	}

	log.Info("server exited")
}
