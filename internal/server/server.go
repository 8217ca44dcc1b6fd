// Package server is the composition root: it opens the database, builds the
// services and handlers, and maps them onto routes.
//
// ROUTES:
//
//	GET  /healthz                    database ping
//	POST /api/register               create an account
//	POST /api/login                  issue a token (JSON + cookie)
//	GET  /api/me                     current user (token required)
//	GET  /api/profile                profile + daily_target
//	PUT  /api/profile                update profile
//	GET  /api/search-food?q=         local + Edamam search, combo queries
//	POST /api/log-food               log a food, returns the streak
//	GET  /api/daily-logs             today's food log
//	GET  /api/stats                  last 7 daily calorie totals
//	GET  /api/habits                 today's habits
//	POST /api/habits                 create a habit for today
//	PUT  /api/habits/{id}            set completed
//	GET  /api/journal                journal, newest first
//	POST /api/journal                write an entry
//	GET  /api/meal-plan              today's plan, generated on first read
//	POST /api/meal-plan/{id}/eat     mark a plan item eaten
//	GET  /auth/github/login          start GitHub sign-in (when configured)
//	GET  /auth/github/callback       finish GitHub sign-in
//	POST /auth/logout                clear the token cookie
//	GET  /*                          static frontend
//
// Every /api route runs behind OptionalAuth: requests without a valid token
// act as the guest account.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/sakif/vitaltrack/internal/auth"
	"github.com/sakif/vitaltrack/internal/config"
	"github.com/sakif/vitaltrack/internal/edamam"
	"github.com/sakif/vitaltrack/internal/handler"
	"github.com/sakif/vitaltrack/internal/middleware"
	sqliteRepo "github.com/sakif/vitaltrack/internal/repository/sqlite"
	"github.com/sakif/vitaltrack/internal/service"
)

// Server owns the router and the database connection.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
	tokens *auth.TokenService
}

// New opens the database, tops up the food catalog and wires every route.
// The caller must call Start or Close to release the database.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	tokens, err := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("creating token service: %w", err)
	}

	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	seeded, err := db.SeedCatalog(ctx, false)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("seeding food catalog: %w", err)
	}
	if seeded > 0 {
		logger.Info("food catalog seeded", slog.Int("inserted", seeded))
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
		tokens: tokens,
	}
	s.setupRoutes()
	return s, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the database.
func (s *Server) Close() error {
	return s.db.Close()
}

func (s *Server) setupRoutes() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(chimiddleware.Timeout(60 * time.Second))
	s.router.Use(cors.Handler(corsOptions(s.config.Server.CORSAllowedOrigins)))

	// === Services ===
	// A nil lookup keeps search on the local catalog.
	var lookup service.FoodLookup
	if client := edamam.New(edamam.Config(s.config.Edamam)); client.Configured() {
		lookup = client
	} else {
		s.logger.Warn("EDAMAM_APP_ID/EDAMAM_APP_KEY not set, food search is local only")
	}

	authService := service.NewAuthService(s.db, s.tokens, auth.NewPasswordService(), s.logger)
	profileService := service.NewProfileService(s.db, s.logger)
	foodService := service.NewFoodService(s.db, lookup, s.logger)
	habitService := service.NewHabitService(s.db, s.logger)
	journalService := service.NewJournalService(s.db, s.logger)
	mealPlanService := service.NewMealPlanService(s.db, s.db, profileService, s.logger)

	// === Handlers ===
	var github handler.GitHubExchanger
	if gh := s.config.GitHub; gh.Enabled() {
		github = auth.NewGitHubProvider(gh.ClientID, gh.ClientSecret, gh.CallbackURL)
	}
	authHandler := handler.NewAuthHandler(authService, github, s.tokens.TTL(), s.logger)
	profileHandler := handler.NewProfileHandler(profileService, s.logger)
	foodHandler := handler.NewFoodHandler(foodService, s.logger)
	habitHandler := handler.NewHabitHandler(habitService, s.logger)
	journalHandler := handler.NewJournalHandler(journalService, s.logger)
	mealPlanHandler := handler.NewMealPlanHandler(mealPlanService, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(auth.OptionalAuth(s.tokens))

		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.With(auth.RequireAuth(s.tokens)).Get("/me", authHandler.HandleMe)

		r.Get("/profile", profileHandler.HandleGet)
		r.Put("/profile", profileHandler.HandleUpdate)

		r.Get("/search-food", foodHandler.HandleSearch)
		r.Post("/log-food", foodHandler.HandleLogFood)
		r.Get("/daily-logs", foodHandler.HandleDailyLogs)
		r.Get("/stats", foodHandler.HandleStats)

		r.Get("/habits", habitHandler.HandleList)
		r.Post("/habits", habitHandler.HandleCreate)
		r.Put("/habits/{id}", habitHandler.HandleSetCompleted)

		r.Get("/journal", journalHandler.HandleList)
		r.Post("/journal", journalHandler.HandleCreate)

		r.Get("/meal-plan", mealPlanHandler.HandleToday)
		r.Post("/meal-plan/{id}/eat", mealPlanHandler.HandleEat)
	})

	s.router.Route("/auth", func(r chi.Router) {
		if github != nil {
			r.Get("/github/login", authHandler.HandleGitHubLogin)
			r.Get("/github/callback", authHandler.HandleGitHubCallback)
		}
		r.Post("/logout", authHandler.HandleLogout)
	})

	if dir := s.config.Server.StaticDir; dir != "" {
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			s.router.Handle("/*", http.FileServer(http.Dir(dir)))
		} else {
			s.logger.Warn("static directory not found, frontend disabled", slog.String("dir", dir))
		}
	}
}

// corsOptions allows credentials only for an explicit origin list. Browsers
// reject a credentialed response whose allowed origin is "*".
func corsOptions(origins []string) cors.Options {
	return cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !slices.Contains(origins, "*"),
		MaxAge:           300,
	}
}

// Start serves until SIGINT or SIGTERM, then drains in-flight requests for
// up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 70 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Server.Port)),
			slog.String("database", s.config.DBPath),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
