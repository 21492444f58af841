package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/go-clinic-api/internal/application/appointment"
	"github.com/go-clinic-api/internal/application/auth"
	"github.com/go-clinic-api/internal/application/session"
	"github.com/go-clinic-api/internal/application/user"
	"github.com/go-clinic-api/internal/config"
	"github.com/go-clinic-api/internal/infrastructure/dynamo"
	jwtinfra "github.com/go-clinic-api/internal/infrastructure/jwt"
	redisinfra "github.com/go-clinic-api/internal/infrastructure/redis"
	"github.com/go-clinic-api/internal/infrastructure/smtp"
	"github.com/go-clinic-api/internal/infrastructure/sns"
	"github.com/go-clinic-api/internal/pkg/logging"
	transporthttp "github.com/go-clinic-api/internal/transport/http"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.Load()
	slog.SetDefault(logging.New(cfg.LogLevel))
	if envErr != nil {
		slog.Info("no .env file found, reading from environment")
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Bootstrap DynamoDB tables (creates them if they don't exist).
	dynamoClient, err := dynamo.NewClient(ctx, cfg)
	if err != nil {
		slog.Error("dynamodb client", "err", err)
		os.Exit(1)
	}
	dynamo.Bootstrap(ctx, dynamoClient, cfg.DynamoTables)

	jwtProvider, err := jwtinfra.NewProvider(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		slog.Error("jwt provider", "err", err)
		os.Exit(1)
	}

	mailer := smtp.NewMailer(cfg)

	// SNS is optional; booking works without SMS confirmations.
	smsSender, err := sns.NewSender(ctx, cfg)
	if err != nil {
		slog.Warn("SNS sender not available", "err", err)
	}

	// Redis is optional; without it OTP mail is not throttled.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		if c, err := redisinfra.NewClient(ctx, cfg.RedisURL); err == nil {
			redisClient = c
			defer redisClient.Close()
		} else {
			slog.Warn("redis not available, OTP throttling disabled", "err", err)
		}
	}
	limiter := redisinfra.NewOTPLimiter(redisClient, cfg.OTPCooldown, cfg.OTPWindow, cfg.OTPMaxPerWindow)

	userRepo := dynamo.NewUserRepo(dynamoClient, cfg.DynamoTables.Users, cfg.DynamoTables.UserUniques)
	otpRepo := dynamo.NewRegistrationOTPRepo(dynamoClient, cfg.DynamoTables.RegistrationOTPs)
	apptRepo := dynamo.NewAppointmentRepo(dynamoClient, cfg.DynamoTables.Appointments)

	deps := &transporthttp.Deps{
		AuthService: auth.NewService(auth.ServiceDeps{
			UserRepo:       userRepo,
			OTPRepo:        otpRepo,
			Mailer:         mailer,
			Throttle:       limiter,
			AllowedDomains: cfg.AllowedEmailDomains,
			OTPTTL:         cfg.OTPTTL,
		}),
		SessionService: session.NewService(userRepo, jwtProvider),
		UserService:    user.NewService(userRepo, nil),
		AppointmentService: appointment.NewService(appointment.ServiceDeps{
			Repo:      apptRepo,
			SMSSender: smsSender,
		}),
		JWTProvider: jwtProvider,
	}

	router := transporthttp.NewRouter(cfg, deps)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.AppPort, "env", cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "err", err)
		return
	}
	slog.Info("server stopped")
}
