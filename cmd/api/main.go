package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/tips-admin-api/internal/config"
	"github.com/tips-admin-api/internal/infrastructure/dynamo"
	"github.com/tips-admin-api/internal/infrastructure/google"
	jwtinfra "github.com/tips-admin-api/internal/infrastructure/jwt"
	"github.com/tips-admin-api/internal/infrastructure/smtp"
	"github.com/tips-admin-api/internal/infrastructure/sns"
	transporthttp "github.com/tips-admin-api/internal/transport/http"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading from environment")
	}

	cfg := config.Load()
	level := slog.LevelInfo
	if cfg.Development() {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		log.Fatalf("dynamodb client: %v", err)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	// Sessions cannot be resolved without the signing keys.
	jwtProvider, err := jwtinfra.NewProvider(cfg)
	if err != nil {
		log.Fatalf("jwt provider: %v", err)
	}

	deps := &transporthttp.Deps{
		UserRepo:         dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users),
		SessionRepo:      dynamo.NewSessionRepo(dynamoClient, cfg.DynamoTables.Sessions),
		VerificationRepo: dynamo.NewVerificationRepo(dynamoClient, cfg.DynamoTables.UserVerifications),
		RecordRepo:       dynamo.NewRecordRepo(dynamoClient, cfg.DynamoTables.Resources),
		Mailer:           smtp.NewMailer(cfg),
		Tokens:           jwtProvider,
		Ready: func(ctx context.Context) error {
			return dynamo.Ping(ctx, dynamoClient, cfg.DynamoTables)
		},
	}

	// SNS SMS sender (optional; phone codes fail without it).
	if sender, err := sns.NewSender(ctx, cfg); err == nil {
		deps.SMSSender = sender
	} else {
		slog.Warn("SNS sender not available", "err", err)
	}

	if cfg.GoogleClientID != "" {
		deps.GoogleVerifier = google.NewVerifier(cfg.GoogleClientID, cfg.GoogleHostedDomain)
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      transporthttp.NewRouter(ctx, cfg, deps),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("forced shutdown: %v", err)
	}
	slog.Info("server stopped")
}
