package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/graderly/grader-api/internal/models"
)

// OllamaConfig defines configuration for the Ollama-backed grader.
type OllamaConfig struct {
	BaseURL string
	Model   string
	Timeout time.Duration
	Logger  zerolog.Logger
}

// OllamaGrader grades papers through a local Ollama generation endpoint.
// The exchange is a single synchronous call: POST {model, prompt,
// stream:false} to /api/generate, read the "response" text back.
type OllamaGrader struct {
	cfg    OllamaConfig
	client *http.Client
	logger zerolog.Logger
}

// NewOllamaGrader constructs the remote grader with a bounded timeout.
func NewOllamaGrader(cfg OllamaConfig) *OllamaGrader {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "http://localhost:11434"
	}
	if cfg.Model == "" {
		cfg.Model = "llama3.1:8b"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}

	return &OllamaGrader{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		logger: cfg.Logger.With().Str("component", "ollama_grader").Logger(),
	}
}

// Name identifies the provider.
func (g *OllamaGrader) Name() string { return ProviderOllama }

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
}

// Grade issues the generation call and decodes the model's answer. Any
// transport failure, non-2xx status, or malformed body is reported as
// ErrBackendUnavailable with the original cause attached; the raw answer
// text is preserved when it is not valid JSON.
func (g *OllamaGrader) Grade(ctx context.Context, paperContent string, rubric RubricDescriptor) (Response, error) {
	start := time.Now()
	response, err := g.grade(ctx, paperContent, rubric)
	gradeDuration.WithLabelValues(ProviderOllama).Observe(time.Since(start).Seconds())
	if err != nil {
		gradeFailures.WithLabelValues(ProviderOllama).Inc()
		g.logger.Error().Err(err).Str("model", g.cfg.Model).Msg("ollama grading failed")
		return Response{}, err
	}

	return response, nil
}

func (g *OllamaGrader) grade(ctx context.Context, paperContent string, rubric RubricDescriptor) (Response, error) {
	payload, err := json.Marshal(ollamaGenerateRequest{
		Model:  g.cfg.Model,
		Prompt: buildGradingPrompt(paperContent, rubric),
		Stream: false,
	})
	if err != nil {
		return Response{}, fmt.Errorf("%w: encode request: %v", ErrBackendUnavailable, err)
	}

	url := strings.TrimSuffix(g.cfg.BaseURL, "/") + "/api/generate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return Response{}, fmt.Errorf("%w: build request: %v", ErrBackendUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return Response{}, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Response{}, fmt.Errorf("%w: unexpected status %d", ErrBackendUnavailable, resp.StatusCode)
	}

	var body ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Response{}, fmt.Errorf("%w: decode response: %v", ErrBackendUnavailable, err)
	}

	answer := strings.TrimSpace(body.Response)
	var structured Response
	if err := json.Unmarshal([]byte(answer), &structured); err == nil && len(structured.Evaluations) > 0 {
		return structured, nil
	}

	return Response{RawText: answer}, nil
}

func buildGradingPrompt(paperContent string, rubric RubricDescriptor) string {
	builder := strings.Builder{}
	builder.WriteString("You are grading a student paper against the rubric \"")
	builder.WriteString(rubric.Name)
	builder.WriteString("\" (scoring type: ")
	builder.WriteString(rubric.ScoringType)
	builder.WriteString(").\n\nCriteria:\n")

	for _, criterion := range rubric.Criteria {
		builder.WriteString(fmt.Sprintf("- [%d] %s", criterion.ID, criterion.Name))
		if criterion.Description != "" {
			builder.WriteString(": ")
			builder.WriteString(criterion.Description)
		}
		builder.WriteString(" (")
		builder.WriteString(scoreInstruction(rubric.ScoringType, criterion))
		builder.WriteString(")\n")
	}

	builder.WriteString("\nRespond with a JSON object of the form {\"evaluations\": [{\"criterion_id\": <id>, \"score\": <score>, \"reasoning\": <why>}]}.\n")
	builder.WriteString("\nPaper:\n")
	builder.WriteString(paperContent)

	return builder.String()
}

func scoreInstruction(scoringType string, criterion CriterionDescriptor) string {
	switch scoringType {
	case models.ScoringTypeMeets:
		return "score with \"meets\" or \"does_not_meet\""
	case models.ScoringTypeNumerical:
		lo, hi := stubDefaultMin, stubDefaultMax
		if criterion.MinScore != nil {
			lo = *criterion.MinScore
		}
		if criterion.MaxScore != nil {
			hi = *criterion.MaxScore
		}
		return fmt.Sprintf("score with an integer between %d and %d", lo, hi)
	default:
		return "score with \"yes\" or \"no\""
	}
}
