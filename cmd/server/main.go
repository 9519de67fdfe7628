package main

import (
	"context"
	"net"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/mwarner/learnlog/internal/auth"
	"github.com/mwarner/learnlog/internal/config"
	"github.com/mwarner/learnlog/internal/database"
	"github.com/mwarner/learnlog/internal/handlers"
	"github.com/mwarner/learnlog/internal/middleware"
	"github.com/mwarner/learnlog/internal/render"
	"github.com/mwarner/learnlog/internal/routes"
	"github.com/mwarner/learnlog/internal/services"
	"github.com/mwarner/learnlog/internal/store"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found")
	}
	cfg := config.Load()

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()
	log.Info().Str("path", cfg.DatabasePath).Msg("database ready")

	journal := store.New(db)
	sessions := services.NewSessionStore()
	authSvc := auth.NewService(journal, sessions, log)

	if err := authSvc.Seed(context.Background(), cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to seed initial user")
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse templates")
	}

	h := handlers.New(journal, sessions, authSvc, renderer, log, cfg)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.SecurityHeaders)
	r.Use(chimw.Recoverer)
	r.Use(middleware.CurrentUser(sessions, journal, cfg.SessionCookie, log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		if err := db.Health(); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("OK"))
	})

	routes.SetupRoutes(r, h)

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	log.Info().Str("addr", addr).Msg("learning journal listening")
	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
