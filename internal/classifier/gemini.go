package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"liftlog/workout-tracker/internal/domain"
)

const (
	DefaultGeminiURL = "https://generativelanguage.googleapis.com/v1/models/gemini-1.5-flash:generateContent"
	DefaultTimeout   = 30 * time.Second
)

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents []geminiContent `json:"contents"`
}

type geminiResponse struct {
	Candidates []struct {
		Content *struct {
			Parts []struct {
				Text *string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// candidateText walks candidates[0].content.parts[0].text.
func (r *geminiResponse) candidateText() (string, bool) {
	if len(r.Candidates) == 0 || r.Candidates[0].Content == nil {
		return "", false
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == nil {
		return "", false
	}
	return *parts[0].Text, true
}

// GeminiConfig configures the REST classifier.
type GeminiConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
	// Limiter throttles outgoing requests; nil means unlimited.
	Limiter    *rate.Limiter
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Gemini calls a generateContent endpoint and parses the first candidate's text.
type Gemini struct {
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	httpClient *http.Client
	logger     *slog.Logger
}

// NewGemini builds the remote classifier. An empty BaseURL uses DefaultGeminiURL;
// a zero Timeout uses DefaultTimeout.
func NewGemini(cfg GeminiConfig) *Gemini {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultGeminiURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = &http.Client{Timeout: cfg.Timeout}
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Gemini{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		limiter:    cfg.Limiter,
		httpClient: cfg.HTTPClient,
		logger:     cfg.Logger,
	}
}

// Classify performs a single request. Zero recognised muscles is not an error.
func (g *Gemini) Classify(ctx context.Context, name string) ([]domain.DetailedMuscle, error) {
	endpoint, err := g.endpoint()
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(geminiRequest{
		Contents: []geminiContent{{Parts: []geminiPart{{Text: BuildPrompt(name)}}}},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: encode request: %v", ErrRequestFailed, err)
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limit wait: %v", ErrRequestFailed, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrRequestFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		g.logger.Warn("gemini classifier returned non-200", "status", resp.StatusCode, "body", truncate(string(respBody), 512))
		return nil, &StatusError{Code: resp.StatusCode, Body: string(respBody)}
	}

	if !json.Valid(respBody) {
		return nil, ErrMalformedBody
	}
	// Valid JSON of the wrong shape means the candidate path is absent.
	var parsed geminiResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingContent, err)
	}
	text, ok := parsed.candidateText()
	if !ok {
		return nil, ErrMissingContent
	}

	muscles, err := ParseMuscleList(text)
	if err != nil {
		g.logger.Warn("gemini classifier text was not a muscle list", "exercise", name, "error", err)
		return nil, err
	}
	return muscles, nil
}

func (g *Gemini) endpoint() (string, error) {
	u, err := url.Parse(g.baseURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidURL, g.baseURL)
	}
	q := u.Query()
	q.Set("key", g.apiKey)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
