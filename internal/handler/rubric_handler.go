package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/service"
	"github.com/graderly/grader-api/internal/utils"
)

// RubricHandler exposes rubric and criterion endpoints.
type RubricHandler struct {
	service service.RubricService
	logger  zerolog.Logger
}

// NewRubricHandler constructs a rubric handler.
func NewRubricHandler(service service.RubricService, logger zerolog.Logger) *RubricHandler {
	return &RubricHandler{
		service: service,
		logger:  logger.With().Str("component", "rubric_handler").Logger(),
	}
}

// Register wires rubric routes.
func (h *RubricHandler) Register(router fiber.Router) {
	router.Get("/", h.list)
	router.Post("/", h.create)
	router.Get("/:id", h.get)
	router.Put("/:id", h.update)
	router.Delete("/:id", h.delete)
	router.Put("/:id/criteria/:criterionId", h.updateCriterion)
	router.Delete("/:id/criteria/:criterionId", h.deleteCriterion)
}

func (h *RubricHandler) list(c *fiber.Ctx) error {
	filter, err := pageFilter(c)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	rubrics, err := h.service.List(c.Context(), filter)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "rubrics retrieved", rubrics)
}

func (h *RubricHandler) get(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid rubric id")
	}

	rubric, err := h.service.Get(c.Context(), id)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "rubric retrieved", rubric)
}

func (h *RubricHandler) create(c *fiber.Ctx) error {
	var req dto.RubricCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rubric, err := h.service.Create(c.Context(), req)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "rubric created", rubric)
}

func (h *RubricHandler) update(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid rubric id")
	}

	var req dto.RubricUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	rubric, err := h.service.Update(c.Context(), id, req)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "rubric updated", rubric)
}

func (h *RubricHandler) delete(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid rubric id")
	}

	if err := h.service.Delete(c.Context(), id); err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "rubric deleted", nil)
}

func (h *RubricHandler) updateCriterion(c *fiber.Ctx) error {
	rubricID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid rubric id")
	}
	criterionID, err := parseUintParam(c, "criterionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid criterion id")
	}

	var req dto.CriterionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	criterion, err := h.service.UpdateCriterion(c.Context(), rubricID, criterionID, req)
	if err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "criterion updated", criterion)
}

func (h *RubricHandler) deleteCriterion(c *fiber.Ctx) error {
	rubricID, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid rubric id")
	}
	criterionID, err := parseUintParam(c, "criterionId")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid criterion id")
	}

	if err := h.service.DeleteCriterion(c.Context(), rubricID, criterionID); err != nil {
		return respondError(c, requestLogger(h.logger, c), err)
	}

	return utils.SendSuccess(c, "criterion deleted", nil)
}
