package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"liftlog/workout-tracker/internal/domain"
)

func candidateBody(text string) string {
	b, _ := json.Marshal(map[string]any{
		"candidates": []any{
			map[string]any{"content": map[string]any{"parts": []any{map[string]any{"text": text}}}},
		},
	})
	return string(b)
}

func newGeminiServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestGemini_SendsContractRequest(t *testing.T) {
	var got geminiRequest
	var key string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		key = r.URL.Query().Get("key")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(candidateBody(`["Upper Chest", "Anterior Deltoids", "Triceps"]`)))
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{BaseURL: srv.URL + "/v1/models/test:generateContent", APIKey: "secret"})
	muscles, err := g.Classify(context.Background(), "Incline Bench Press")

	require.NoError(t, err)
	assert.Equal(t, []domain.DetailedMuscle{domain.UpperChest, domain.AnteriorDeltoids, domain.Triceps}, muscles)
	assert.Equal(t, "secret", key)
	require.Len(t, got.Contents, 1)
	require.Len(t, got.Contents[0].Parts, 1)
	assert.Contains(t, got.Contents[0].Parts[0].Text, `"Incline Bench Press"`)
}

func TestGemini_FencedTextWithUnknownLabels(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, candidateBody("```json\n[\"Lats\", \"Rhomboids\", \"Biceps\"]\n```"))

	muscles, err := NewGemini(GeminiConfig{BaseURL: srv.URL}).Classify(context.Background(), "Pull-ups")

	require.NoError(t, err)
	assert.Equal(t, []domain.DetailedMuscle{domain.Lats, domain.Biceps}, muscles)
}

func TestGemini_NothingRecognisedIsNotAnError(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, candidateBody(`["Rhomboids"]`))

	muscles, err := NewGemini(GeminiConfig{BaseURL: srv.URL}).Classify(context.Background(), "Mystery")

	require.NoError(t, err)
	assert.Empty(t, muscles)
}

func TestGemini_FailureKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"non-200", http.StatusTooManyRequests, `{"error":"quota"}`, ErrRequestFailed},
		{"invalid json body", http.StatusOK, `<html>oops</html>`, ErrMalformedBody},
		{"no candidates", http.StatusOK, `{"candidates":[]}`, ErrMissingContent},
		{"no content", http.StatusOK, `{"candidates":[{}]}`, ErrMissingContent},
		{"no parts", http.StatusOK, `{"candidates":[{"content":{"parts":[]}}]}`, ErrMissingContent},
		{"no text", http.StatusOK, `{"candidates":[{"content":{"parts":[{}]}}]}`, ErrMissingContent},
		{"candidates not a list", http.StatusOK, `{"candidates":{}}`, ErrMissingContent},
		{"top level array", http.StatusOK, `[]`, ErrMissingContent},
		{"text is null literal", http.StatusOK, candidateBody("null"), ErrUnparseableList},
		{"text not an array", http.StatusOK, candidateBody("I think it works the chest."), ErrUnparseableList},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newGeminiServer(t, tt.status, tt.body)
			_, err := NewGemini(GeminiConfig{BaseURL: srv.URL}).Classify(context.Background(), "Squat")
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
		})
	}
}

func TestGemini_StatusErrorCarriesCode(t *testing.T) {
	srv := newGeminiServer(t, http.StatusServiceUnavailable, "down")

	_, err := NewGemini(GeminiConfig{BaseURL: srv.URL}).Classify(context.Background(), "Squat")

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.Code)
}

func TestGemini_InvalidURL(t *testing.T) {
	for _, base := range []string{"://missing-scheme", "not a url"} {
		_, err := NewGemini(GeminiConfig{BaseURL: base}).Classify(context.Background(), "Squat")
		assert.True(t, errors.Is(err, ErrInvalidURL), "base %q got %v", base, err)
	}
}

func TestGemini_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	g := NewGemini(GeminiConfig{BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	start := time.Now()
	_, err := g.Classify(context.Background(), "Squat")

	assert.True(t, errors.Is(err, ErrRequestFailed))
	assert.Less(t, time.Since(start), 900*time.Millisecond)
}

func TestGemini_LimiterHonoursContext(t *testing.T) {
	srv := newGeminiServer(t, http.StatusOK, candidateBody(`["Quads"]`))
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	g := NewGemini(GeminiConfig{BaseURL: srv.URL, Limiter: limiter})

	_, err := g.Classify(context.Background(), "Squat")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = g.Classify(ctx, "Squat")
	assert.True(t, errors.Is(err, ErrRequestFailed))
}
