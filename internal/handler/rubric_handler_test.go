package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/graderly/grader-api/internal/models"
)

func TestRubricCreateAndGet(t *testing.T) {
	app := newTestApp(t)

	rubric := createRubric(t, app, models.ScoringTypeYesNo)
	criteria := rubric["criteria"].([]any)
	require.Len(t, criteria, 2)
	require.Equal(t, "Thesis", criteria[0].(map[string]any)["name"])

	resp := doRequest(t, app, http.MethodGet, resourcePath("/api/v1/rubrics", rubric["id"].(float64), ""), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var loaded map[string]any
	decodeData(t, resp, &loaded)
	require.Equal(t, "Essay Rubric", loaded["name"])
}

func TestRubricCreateNumericalWithoutBounds(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/rubrics", map[string]any{
		"name":         "Points",
		"scoring_type": models.ScoringTypeNumerical,
		"criteria":     []map[string]any{{"name": "Thesis"}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)

	envelope := decodeEnvelope(t, resp)
	require.Contains(t, envelope.Message, "min_score")
}

func TestRubricCreateUnknownScoringType(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodPost, "/api/v1/rubrics", map[string]any{
		"name":         "Letters",
		"scoring_type": "letter_grade",
		"criteria":     []map[string]any{{"name": "Thesis"}},
	})
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRubricDeleteLastCriterion(t *testing.T) {
	app := newTestApp(t)

	rubric := createRubric(t, app, models.ScoringTypeYesNo)
	rubricID := rubric["id"].(float64)
	criteria := rubric["criteria"].([]any)
	firstID := criteria[0].(map[string]any)["id"].(float64)
	secondID := criteria[1].(map[string]any)["id"].(float64)

	resp := doRequest(t, app, http.MethodDelete, criterionPath(rubricID, firstID), nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp = doRequest(t, app, http.MethodDelete, criterionPath(rubricID, secondID), nil)
	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func TestRubricUpdateCriterion(t *testing.T) {
	app := newTestApp(t)

	rubric := createRubric(t, app, models.ScoringTypeYesNo)
	rubricID := rubric["id"].(float64)
	criterionID := rubric["criteria"].([]any)[0].(map[string]any)["id"].(float64)

	resp := doRequest(t, app, http.MethodPut, criterionPath(rubricID, criterionID), map[string]any{
		"name": "Argument",
	})
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var criterion map[string]any
	decodeData(t, resp, &criterion)
	require.Equal(t, "Argument", criterion["name"])
}

func TestRubricDeleteMissing(t *testing.T) {
	app := newTestApp(t)

	resp := doRequest(t, app, http.MethodDelete, "/api/v1/rubrics/404", nil)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func criterionPath(rubricID, criterionID float64) string {
	return resourcePath(resourcePath("/api/v1/rubrics", rubricID, "/criteria"), criterionID, "")
}
