package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	_ "go.uber.org/automaxprocs"

	"github.com/noah-isme/gema-project-evaluator/internal/config"
	"github.com/noah-isme/gema-project-evaluator/internal/database"
	"github.com/noah-isme/gema-project-evaluator/internal/events"
	"github.com/noah-isme/gema-project-evaluator/internal/handler"
	"github.com/noah-isme/gema-project-evaluator/internal/middleware"
	"github.com/noah-isme/gema-project-evaluator/internal/router"
	"github.com/noah-isme/gema-project-evaluator/internal/service"
	"github.com/noah-isme/gema-project-evaluator/internal/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).Level(cfg.LogLevel).With().Timestamp().Str("app", cfg.AppName).Logger()

	runner := service.NewRunner(cfg, logger)
	remote := service.NewRemoteEvaluator(runner, config.NewEnvCredentials(cfg.Provider), logger)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.NATSURL != "" {
		conn, err := events.Connect(cfg.NATSURL, logger)
		if err != nil {
			logger.Warn().Err(err).Msg("evaluation events disabled")
		} else {
			defer conn.Drain()
			publisher = events.NewNATSPublisher(conn, cfg.NATSSubject)
		}
	}

	var limiterStorage fiber.Storage
	if cfg.RedisURL != "" {
		redisClient, err := database.ConnectRedis(context.Background(), cfg.RedisURL, 5*time.Second)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable, rate limiting in memory")
		} else {
			defer redisClient.Close()
			limiterStorage = middleware.NewRedisStorage(redisClient, "project_evaluator:limiter:")
		}
	}

	evaluationService := service.NewEvaluationService(remote, publisher, logger)
	mode := evaluationService.Mode()
	logger.Info().
		Bool("remote", mode.Remote).
		Str("provider", mode.Provider).
		AnErr("reason", mode.Reason).
		Msg("evaluation mode resolved")

	page, err := view.NewPage()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load page template")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, validate, view.NewMarkdownRenderer(), page, cfg.AppName, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RemoteTimeout + 30*time.Second,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: cfg.AccessLog})
	router.Register(app, cfg, router.Dependencies{
		EvaluationHandler: evaluationHandler,
		EvaluationService: evaluationService,
		EvaluationLimiter: middleware.RateLimit("evaluate", cfg.RateLimitMax, cfg.RateLimitWindow, limiterStorage),
		ExposeMetrics:     true,
	})

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress()).Msg("listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, logger)
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
