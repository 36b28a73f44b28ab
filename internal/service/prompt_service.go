package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/dto"
	"github.com/graderly/grader-api/internal/models"
	"github.com/graderly/grader-api/internal/repository"
	"github.com/graderly/grader-api/pkg/sanitize"
)

const promptTemplateMinLength = 10

// defaultPromptTemplate seeds version 1 when an evaluation arrives before
// any prompt exists.
const defaultPromptTemplate = "You are an experienced grader. Grade the following paper against the rubric.\n\n" +
	"Paper:\n{{paper_content}}\n\nRubric:\n{{rubric}}\n\n" +
	"Score every criterion and briefly explain each score."

// PromptService manages the append-only chain of prompt versions.
type PromptService interface {
	List(ctx context.Context, filter repository.PageFilter) ([]dto.PromptResponse, error)
	Get(ctx context.Context, id uint) (dto.PromptResponse, error)
	Create(ctx context.Context, req dto.PromptCreateRequest) (dto.PromptResponse, error)
	Update(ctx context.Context, id uint, req dto.PromptUpdateRequest) (dto.PromptResponse, error)
	Activate(ctx context.Context, id uint) (dto.PromptResponse, error)
}

type promptService struct {
	prompts   repository.PromptRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewPromptService constructs the prompt service.
func NewPromptService(prompts repository.PromptRepository, validator *validator.Validate, logger zerolog.Logger) PromptService {
	return &promptService{
		prompts:   prompts,
		validator: validator,
		logger:    logger.With().Str("component", "prompt_service").Logger(),
	}
}

// DefaultPrompt builds the active version-1 prompt used when the first
// evaluation is created before any prompt exists.
func DefaultPrompt() models.Prompt {
	return models.Prompt{
		Version:      1,
		TemplateText: defaultPromptTemplate,
		IsActive:     true,
	}
}

func (s *promptService) List(ctx context.Context, filter repository.PageFilter) ([]dto.PromptResponse, error) {
	prompts, err := s.prompts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return dto.NewPromptResponseSlice(prompts), nil
}

func (s *promptService) Get(ctx context.Context, id uint) (dto.PromptResponse, error) {
	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return dto.PromptResponse{}, notFound("prompt", id, err)
	}

	return dto.NewPromptResponse(prompt), nil
}

func (s *promptService) Create(ctx context.Context, req dto.PromptCreateRequest) (dto.PromptResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PromptResponse{}, err
	}

	template, err := sanitize.Text("template_text", req.TemplateText, promptTemplateMinLength, 0)
	if err != nil {
		return dto.PromptResponse{}, err
	}
	if err := checkPlaceholders(template); err != nil {
		return dto.PromptResponse{}, err
	}

	var version int
	if req.ParentVersionID != nil {
		parent, err := s.prompts.GetByID(ctx, *req.ParentVersionID)
		if err != nil {
			return dto.PromptResponse{}, notFound("prompt", *req.ParentVersionID, err)
		}
		version = parent.Version + 1
	} else {
		highest, err := s.prompts.HighestVersion(ctx)
		if err != nil {
			return dto.PromptResponse{}, err
		}
		version = highest + 1
	}

	// A fresh version becomes active unless the caller opts out.
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	prompt := models.Prompt{
		Version:         version,
		TemplateText:    template,
		ParentVersionID: req.ParentVersionID,
		IsActive:        active,
	}
	if err := s.prompts.Create(ctx, &prompt); err != nil {
		return dto.PromptResponse{}, err
	}

	s.logger.Info().Uint("prompt_id", prompt.ID).Int("version", prompt.Version).Bool("active", prompt.IsActive).Msg("prompt version created")

	return dto.NewPromptResponse(prompt), nil
}

func (s *promptService) Update(ctx context.Context, id uint, req dto.PromptUpdateRequest) (dto.PromptResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.PromptResponse{}, err
	}

	prompt, err := s.prompts.GetByID(ctx, id)
	if err != nil {
		return dto.PromptResponse{}, notFound("prompt", id, err)
	}

	if req.TemplateText != nil {
		template, err := sanitize.Text("template_text", *req.TemplateText, promptTemplateMinLength, 0)
		if err != nil {
			return dto.PromptResponse{}, err
		}
		if err := checkPlaceholders(template); err != nil {
			return dto.PromptResponse{}, err
		}
		prompt.TemplateText = template
	}
	if req.IsActive != nil {
		prompt.IsActive = *req.IsActive
	}

	if err := s.prompts.Update(ctx, &prompt); err != nil {
		return dto.PromptResponse{}, err
	}

	return dto.NewPromptResponse(prompt), nil
}

func (s *promptService) Activate(ctx context.Context, id uint) (dto.PromptResponse, error) {
	prompt, err := s.prompts.Activate(ctx, id)
	if err != nil {
		return dto.PromptResponse{}, notFound("prompt", id, err)
	}

	s.logger.Info().Uint("prompt_id", prompt.ID).Int("version", prompt.Version).Msg("prompt activated")

	return dto.NewPromptResponse(prompt), nil
}

func checkPlaceholders(template string) error {
	if !strings.Contains(template, models.PlaceholderPaperContent) || !strings.Contains(template, models.PlaceholderRubric) {
		return ErrMissingPlaceholder
	}
	return nil
}
