package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/graderly/grader-api/internal/config"
	"github.com/graderly/grader-api/internal/handler"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/internal/router"
	"github.com/graderly/grader-api/internal/service"
	"github.com/graderly/grader-api/pkg/ai"
)

// newTestApp wires the full HTTP stack against a per-test sqlite database
// with the stub grading backend.
func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Rubric{},
		&models.Criterion{},
		&models.Paper{},
		&models.Prompt{},
		&models.Evaluation{},
		&models.FeedbackEntry{},
	))

	logger := zerolog.Nop()
	validate := validator.New()
	graders := ai.NewFactory(ai.FactoryConfig{}, logger)

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

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Grader API", AppEnv: "test"}, router.Dependencies{
		PaperHandler:      handler.NewPaperHandler(paperService, logger),
		RubricHandler:     handler.NewRubricHandler(rubricService, logger),
		PromptHandler:     handler.NewPromptHandler(promptService, logger),
		EvaluationHandler: handler.NewEvaluationHandler(evaluationService, feedbackService, logger),
		MetricsHandler:    handler.NewMetricsHandler(metricsService, logger),
		Graders:           graders,
	})

	return app
}

func doRequest(t *testing.T, app *fiber.App, method, path string, payload any) *http.Response {
	t.Helper()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

type apiEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, resp *http.Response) apiEnvelope {
	t.Helper()

	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var envelope apiEnvelope
	require.NoError(t, json.Unmarshal(raw, &envelope))
	return envelope
}

func decodeData(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	envelope := decodeEnvelope(t, resp)
	require.True(t, envelope.Success, "expected a success envelope, got %q", envelope.Message)
	require.NoError(t, json.Unmarshal(envelope.Data, out))
}

func resourcePath(base string, id float64, suffix string) string {
	return fmt.Sprintf("%s/%d%s", base, int(id), suffix)
}

func createRubric(t *testing.T, app *fiber.App, scoringType string) map[string]any {
	t.Helper()

	payload := map[string]any{
		"name":         "Essay Rubric",
		"scoring_type": scoringType,
		"criteria": []map[string]any{
			{"name": "Thesis", "order": 0},
			{"name": "Grammar", "order": 1},
		},
	}
	if scoringType == models.ScoringTypeNumerical {
		payload["criteria"] = []map[string]any{
			{"name": "Thesis", "order": 0, "min_score": 0, "max_score": 10},
		}
	}

	resp := doRequest(t, app, http.MethodPost, "/api/v1/rubrics", payload)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var rubric map[string]any
	decodeData(t, resp, &rubric)
	return rubric
}

func createPaper(t *testing.T, app *fiber.App, rubricID float64) map[string]any {
	t.Helper()

	resp := doRequest(t, app, http.MethodPost, "/api/v1/papers", map[string]any{
		"title":     "Essay One",
		"content":   "A reasonably long essay body for grading.",
		"rubric_id": rubricID,
	})
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var paper map[string]any
	decodeData(t, resp, &paper)
	return paper
}
