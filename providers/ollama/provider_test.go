package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Rohit-roe/coursegen/llm"
	"github.com/Rohit-roe/coursegen/types"
)

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	return New(Config{BaseURL: baseURL}, zaptest.NewLogger(t))
}

func TestChat(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(chatResponse{
			Model:           gotReq.Model,
			Message:         chatMessage{Role: "assistant", Content: `{"title": "Go Course"}`},
			Done:            true,
			PromptEvalCount: 120,
			EvalCount:       45,
		})
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	resp, err := p.Chat(context.Background(), &llm.ChatRequest{
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Return ONLY valid JSON."},
			{Role: llm.RoleUser, Content: "Build a Go course outline."},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, `{"title": "Go Course"}`, resp.Content)
	assert.Equal(t, 165, resp.Usage.TotalTokens)

	// Request carries config defaults when the caller leaves them unset.
	assert.Equal(t, DefaultModel, gotReq.Model)
	assert.False(t, gotReq.Stream)
	assert.Equal(t, float32(DefaultTemperature), gotReq.Options.Temperature)
	assert.Equal(t, DefaultNumPredict, gotReq.Options.NumPredict)
	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
}

func TestChatUpstreamErrors(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantCode  types.ErrorCode
		retryable bool
	}{
		{
			name:      "rate limited",
			status:    http.StatusTooManyRequests,
			body:      `{"error": "too many requests"}`,
			wantCode:  types.ErrRateLimited,
			retryable: true,
		},
		{
			name:     "model missing",
			status:   http.StatusNotFound,
			body:     `{"error": "model 'nope' not found"}`,
			wantCode: types.ErrModelNotFound,
		},
		{
			name:     "bad request",
			status:   http.StatusBadRequest,
			body:     `{"error": "invalid options"}`,
			wantCode: types.ErrInvalidRequest,
		},
		{
			name:      "internal error",
			status:    http.StatusInternalServerError,
			body:      `{"error": "boom"}`,
			wantCode:  types.ErrUpstreamError,
			retryable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			p := newTestProvider(t, srv.URL)
			_, err := p.Chat(context.Background(), &llm.ChatRequest{
				Messages: []llm.Message{{Role: llm.RoleUser, Content: "hi"}},
			})
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, types.GetErrorCode(err))
			assert.Equal(t, tt.retryable, types.IsRetryable(err))
		})
	}
}

func TestListModels(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/tags", r.URL.Path)
		w.Write([]byte(`{"models": [{"name": "deepseek-r1:1.5b", "size": 1117322768}, {"name": "llama3.2:3b"}]}`))
	}))
	defer srv.Close()

	p := newTestProvider(t, srv.URL)
	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	require.Len(t, models, 2)
	assert.Equal(t, "deepseek-r1:1.5b", models[0].Name)
	assert.Equal(t, int64(1117322768), models[0].Size)
}

func TestHealthCheck(t *testing.T) {
	t.Run("healthy", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"models": []}`))
		}))
		defer srv.Close()

		p := newTestProvider(t, srv.URL)
		status, err := p.HealthCheck(context.Background())
		require.NoError(t, err)
		assert.True(t, status.Healthy)
	})

	t.Run("unreachable", func(t *testing.T) {
		p := newTestProvider(t, "http://127.0.0.1:1")
		status, err := p.HealthCheck(context.Background())
		require.Error(t, err)
		assert.False(t, status.Healthy)
	})
}

func TestMapErrorProperties(t *testing.T) {
	params := gopter.DefaultTestParameters()
	params.MinSuccessfulTests = 200
	properties := gopter.NewProperties(params)

	statusGen := gen.IntRange(400, 599)

	properties.Property("status is always preserved", prop.ForAll(
		func(status int) bool {
			return mapError(status, "msg").HTTPStatus == status
		},
		statusGen,
	))

	properties.Property("rate limit code only on 429", prop.ForAll(
		func(status int) bool {
			isRL := mapError(status, "msg").Code == types.ErrRateLimited
			return isRL == (status == http.StatusTooManyRequests)
		},
		statusGen,
	))

	properties.Property("retryable exactly for 429, timeouts, and 5xx", prop.ForAll(
		func(status int) bool {
			want := status == http.StatusTooManyRequests ||
				status == http.StatusRequestTimeout ||
				status >= 500
			return mapError(status, "msg").Retryable == want
		},
		statusGen,
	))

	properties.TestingRun(t)
}
