package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/middleware"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/internal/scoring"
	"github.com/graderly/grader-api/internal/service"
	"github.com/graderly/grader-api/internal/utils"
	"github.com/graderly/grader-api/pkg/ai"
	"github.com/graderly/grader-api/pkg/sanitize"
)

func parseUintParam(c *fiber.Ctx, key string) (uint, error) {
	value, err := strconv.ParseUint(strings.TrimSpace(c.Params(key)), 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(value), nil
}

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func pageFilter(c *fiber.Ctx) (repository.PageFilter, error) {
	skip, err := parseQueryInt(c, "skip")
	if err != nil || skip < 0 {
		return repository.PageFilter{}, errors.New("invalid skip")
	}
	limit, err := parseQueryInt(c, "limit")
	if err != nil || limit < 0 {
		return repository.PageFilter{}, errors.New("invalid limit")
	}
	return repository.PageFilter{Skip: skip, Limit: limit}, nil
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

// respondError maps domain errors onto HTTP statuses: missing entities to
// 404, rejected input to 422, backend outages to 502, everything else to a
// logged 500.
func respondError(c *fiber.Ctx, logger *zerolog.Logger, err error) error {
	var notFoundErr *service.NotFoundError
	if errors.As(err, &notFoundErr) {
		return utils.SendError(c, fiber.StatusNotFound, notFoundErr.Error())
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, validationErrs.Error())
	}

	var scoringErr *scoring.ValidationError
	if errors.As(err, &scoringErr) {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, scoringErr.Detail)
	}

	var sanitizeErr *sanitize.Error
	if errors.As(err, &sanitizeErr) {
		return utils.SendError(c, fiber.StatusUnprocessableEntity, sanitizeErr.Error())
	}

	switch {
	case errors.Is(err, service.ErrMissingPlaceholder),
		errors.Is(err, service.ErrCriterionMismatch),
		errors.Is(err, service.ErrLastCriterion),
		errors.Is(err, service.ErrScoreBounds):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, ai.ErrBackendUnavailable):
		logger.Error().Err(err).Msg("grading backend unavailable")
		return utils.SendError(c, fiber.StatusBadGateway, "grading backend unavailable")
	}

	logger.Error().Err(err).Msg("request failed")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
