package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prepmate/auth-service/internal/config"
	"github.com/prepmate/auth-service/internal/database"
	"github.com/prepmate/auth-service/internal/mailer"
	postgresrepo "github.com/prepmate/auth-service/internal/repository/postgres"
	"github.com/prepmate/auth-service/internal/service"
	"github.com/prepmate/auth-service/internal/token"
	"github.com/prepmate/auth-service/internal/transport/http/handlers"
	"github.com/prepmate/auth-service/internal/transport/http/middleware"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	var logger *zap.Logger
	var err error
	if cfg.Env == "development" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	if cfg.JWTSecret == "" {
		if cfg.Env != "development" {
			logger.Fatal("JWT_SECRET is required")
		}
		cfg.JWTSecret = "dev-secret-change-me"
		logger.Warn("JWT_SECRET not set, using development fallback")
	}

	// Database
	pool, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()
	logger.Info("connected to database")

	// Collaborators
	userRepo := postgresrepo.NewUserRepo(pool)
	codec := token.NewCodec(cfg.JWTSecret)
	brevo := mailer.NewBrevo(cfg.BrevoAPIKey, cfg.MailFromEmail, cfg.MailFromName, cfg.VerifyURL)
	if !brevo.IsConfigured() {
		logger.Warn("mailer not configured, verification emails will fail")
	}

	// Services
	authService := service.NewAuthService(userRepo, codec, brevo, cfg.TokenTTL, cfg.RequireVerifiedEmail, logger)

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, logger)

	// Routes
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ok"}`))
	})
	mux.HandleFunc("POST /api/v1/auth/register", authHandler.Register)
	mux.HandleFunc("POST /api/v1/auth/login", authHandler.Login)
	mux.HandleFunc("POST /api/v1/auth/token", authHandler.Token)
	mux.HandleFunc("POST /api/v1/auth/send-verification-email", authHandler.SendVerificationEmail)
	mux.HandleFunc("GET /api/v1/auth/verify-token", authHandler.VerifyToken)

	handler := middleware.CORS(middleware.RequestLogger(logger)(mux))

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}
}
