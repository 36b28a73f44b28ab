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

	"github.com/graderly/grader-api/internal/config"
	"github.com/graderly/grader-api/internal/database"
	"github.com/graderly/grader-api/internal/handler"
	"github.com/graderly/grader-api/internal/middleware"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/internal/router"
	"github.com/graderly/grader-api/internal/service"
	"github.com/graderly/grader-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.Rubric{},
		&models.Criterion{},
		&models.Paper{},
		&models.Prompt{},
		&models.Evaluation{},
		&models.FeedbackEntry{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	graders := ai.NewFactory(ai.FactoryConfig{
		Provider:      cfg.AIProvider,
		OllamaEnabled: cfg.OllamaEnabled,
		OllamaBaseURL: cfg.OllamaBaseURL,
		OllamaModel:   cfg.OllamaModel,
		OllamaTimeout: cfg.OllamaTimeout,
		OpenAIAPIKey:  cfg.OpenAIAPIKey,
		OpenAIModel:   cfg.OpenAIModel,
	}, logger)

	paperRepo := repository.NewPaperRepository(db)
	rubricRepo := repository.NewRubricRepository(db)
	promptRepo := repository.NewPromptRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	paperService := service.NewPaperService(paperRepo, rubricRepo, validate, logger)
	rubricService := service.NewRubricService(rubricRepo, validate, logger)
	promptService := service.NewPromptService(promptRepo, validate, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, paperRepo, rubricRepo, promptRepo, feedbackRepo, graders, validate, logger)
	feedbackService := service.NewFeedbackService(feedbackRepo, evaluationRepo, rubricRepo, validate, logger)
	metricsService := service.NewMetricsService(evaluationRepo, graders, logger)

	paperHandler := handler.NewPaperHandler(paperService, logger)
	rubricHandler := handler.NewRubricHandler(rubricService, logger)
	promptHandler := handler.NewPromptHandler(promptService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, feedbackService, logger)
	metricsHandler := handler.NewMetricsHandler(metricsService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		PaperHandler:      paperHandler,
		RubricHandler:     rubricHandler,
		PromptHandler:     promptHandler,
		EvaluationHandler: evaluationHandler,
		MetricsHandler:    metricsHandler,
		Graders:           graders,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
