package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"

	"liftlog/workout-tracker/internal/domain"
)

const DefaultOpenAIModel = "gpt-4o-mini"

// OpenAIConfig configures the chat-completion classifier.
type OpenAIConfig struct {
	BaseURL string // empty uses the public OpenAI endpoint
	APIKey  string
	Model   string
	Timeout time.Duration
	Limiter *rate.Limiter
	Logger  *slog.Logger
}

// OpenAI classifies through any OpenAI-compatible chat endpoint, using the same
// prompt and response-text rules as Gemini.
type OpenAI struct {
	client  *openai.Client
	model   string
	limiter *rate.Limiter
	logger  *slog.Logger
}

func NewOpenAI(cfg OpenAIConfig) *OpenAI {
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	cfg.Logger.Info("initializing openai classifier", "model", cfg.Model)
	return &OpenAI{
		client:  openai.NewClientWithConfig(clientCfg),
		model:   cfg.Model,
		limiter: cfg.Limiter,
		logger:  cfg.Logger,
	}
}

func (o *OpenAI) Classify(ctx context.Context, name string) ([]domain.DetailedMuscle, error) {
	if o.limiter != nil {
		if err := o.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", ErrRequestFailed, err)
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: BuildPrompt(name)},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return nil, &StatusError{Code: apiErr.HTTPStatusCode, Body: apiErr.Message}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return nil, &StatusError{Code: reqErr.HTTPStatusCode, Body: reqErr.Error()}
		}
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if len(resp.Choices) == 0 {
		return nil, ErrMissingContent
	}

	muscles, err := ParseMuscleList(resp.Choices[0].Message.Content)
	if err != nil {
		o.logger.Warn("openai classifier text was not a muscle list", "exercise", name, "error", err)
		return nil, err
	}
	return muscles, nil
}
