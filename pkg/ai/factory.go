package ai

import (
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	// ProviderStub names the deterministic in-process grader.
	ProviderStub = "stub"
	// ProviderOllama names the local Ollama HTTP grader.
	ProviderOllama = "ollama"
	// ProviderOpenAI names the OpenAI chat-completion grader.
	ProviderOpenAI = "openai"
)

// FactoryConfig carries the provider selection knobs and per-provider settings.
type FactoryConfig struct {
	Provider      string
	OllamaEnabled bool
	OllamaBaseURL string
	OllamaModel   string
	OllamaTimeout time.Duration
	OpenAIAPIKey  string
	OpenAIModel   string
}

// Factory resolves the grader to use for a single evaluation request.
type Factory struct {
	cfg    FactoryConfig
	logger zerolog.Logger
}

// NewFactory builds a grader factory.
func NewFactory(cfg FactoryConfig, logger zerolog.Logger) *Factory {
	return &Factory{cfg: cfg, logger: logger}
}

// Grader picks a provider. Precedence: the explicit request override, then
// the configured provider name, then the Ollama enable flag, then the stub.
func (f *Factory) Grader(override string) (Grader, error) {
	name := strings.ToLower(strings.TrimSpace(override))
	if name == "" {
		name = strings.ToLower(strings.TrimSpace(f.cfg.Provider))
	}
	if name == "" && f.cfg.OllamaEnabled {
		name = ProviderOllama
	}

	switch name {
	case ProviderOllama:
		return NewOllamaGrader(OllamaConfig{
			BaseURL: f.cfg.OllamaBaseURL,
			Model:   f.cfg.OllamaModel,
			Timeout: f.cfg.OllamaTimeout,
			Logger:  f.logger,
		}), nil
	case ProviderOpenAI:
		return NewOpenAIGrader(OpenAIConfig{
			APIKey: f.cfg.OpenAIAPIKey,
			Model:  f.cfg.OpenAIModel,
			Logger: f.logger,
		})
	default:
		return NewStubGrader(), nil
	}
}

// ActiveProvider reports which provider a request without an override would
// use. Exposed for the health and metrics endpoints.
func (f *Factory) ActiveProvider() string {
	grader, err := f.Grader("")
	if err != nil {
		return ProviderStub
	}
	return grader.Name()
}
