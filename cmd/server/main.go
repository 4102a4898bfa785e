package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"teampulse-backend/internal/config"
	"teampulse-backend/internal/database"
	"teampulse-backend/internal/handlers"
	customMiddleware "teampulse-backend/internal/middleware"
	"teampulse-backend/internal/notify"
	"teampulse-backend/internal/repository"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env (ignore error in production — env vars set directly)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	// Connect to MongoDB
	if err := database.Connect(cfg.Database.URI, cfg.Database.Name); err != nil {
		log.Fatalf("❌ Failed to connect to MongoDB: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepo()
	sessionRepo := repository.NewSessionRepo()
	feedbackRepo := repository.NewFeedbackRepo()

	// Ensure indexes
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := userRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create user indexes: %v", err)
	}
	if err := sessionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create session indexes: %v", err)
	}
	if err := feedbackRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("⚠️  Warning: failed to create feedback indexes: %v", err)
	}

	// Notifier: Resend-backed when configured, server log otherwise
	var notifier notify.Notifier
	if cfg.Email.APIKey != "" && cfg.Email.NotifyEmail != "" {
		notifier = notify.NewEmailNotifier(cfg.Email.APIKey, cfg.Email.FromEmail, cfg.Email.NotifyEmail)
	} else {
		notifier = notify.NewLogNotifier()
	}

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(userRepo, sessionRepo, cfg.Auth.JWTSecret, cfg.Auth.SessionTTL, cfg.HTTP.Prod)
	userHandler := handlers.NewUserHandler(userRepo, feedbackRepo)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackRepo, userRepo, notifier)

	// Setup chi router
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.HTTP.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok","service":"teampulse-backend"}`))
	})

	r.Route("/api", func(r chi.Router) {
		// Public routes (no auth required)
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Get("/users/managers", userHandler.GetManagers)

		// Protected routes (session required)
		r.Group(func(r chi.Router) {
			r.Use(customMiddleware.SessionAuth(cfg.Auth.JWTSecret, sessionRepo, userRepo))

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Get("/users/all", userHandler.GetAllUsers)
			r.Get("/users/manager", userHandler.GetMyManager)
			r.Get("/users/team", userHandler.GetTeam)
			r.Get("/users/{id}", userHandler.GetUser)
			r.Put("/users/{id}/assign-manager", userHandler.AssignSelfAsManager)
			r.Put("/users/{id}/change-manager/{managerId}", userHandler.ChangeManager)

			r.Post("/feedback/create", feedbackHandler.CreateFeedback)
			r.Post("/feedback/acknowledge", feedbackHandler.AcknowledgeFeedback)
			r.Get("/feedback/received", feedbackHandler.GetReceivedFeedback)
			r.Get("/feedback/given", feedbackHandler.GetGivenFeedback)
			r.Get("/feedback/summary", feedbackHandler.GetFeedbackSummary)
			r.Get("/feedback/history/{userId}", feedbackHandler.GetFeedbackHistory)
		})
	})

	// Start server
	log.Printf("🚀 TeamPulse backend starting on port %s", cfg.HTTP.Port)
	if err := http.ListenAndServe(":"+cfg.HTTP.Port, r); err != nil {
		log.Fatalf("❌ Server failed: %v", err)
	}
}
