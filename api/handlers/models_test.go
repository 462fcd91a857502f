package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/Rohit-roe/coursegen/llm"
	"github.com/Rohit-roe/coursegen/types"
)

type fakeProvider struct {
	models []llm.Model
	err    error
}

func (f *fakeProvider) Chat(context.Context, *llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, types.NewError(types.ErrInternalError, "not implemented")
}

func (f *fakeProvider) ListModels(context.Context) ([]llm.Model, error) {
	return f.models, f.err
}

func (f *fakeProvider) HealthCheck(context.Context) (*llm.HealthStatus, error) {
	return &llm.HealthStatus{Healthy: f.err == nil}, f.err
}

func (f *fakeProvider) Name() string { return "fake" }

func TestHandleListModels(t *testing.T) {
	provider := &fakeProvider{
		models: []llm.Model{
			{Name: "deepseek-r1:1.5b", Size: 1117322768, ModifiedAt: time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)},
			{Name: "llama3.2:3b", Size: 2019393189},
		},
	}
	h := NewModelsHandler(provider, "deepseek-r1:1.5b", zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleListModels(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)

	data, ok := resp.Data.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deepseek-r1:1.5b", data["default_model"])

	models, ok := data["models"].([]any)
	require.True(t, ok)
	require.Len(t, models, 2)

	first, ok := models[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "deepseek-r1:1.5b", first["name"])
	assert.Equal(t, "2025-06-01T00:00:00Z", first["modified_at"])
}

func TestHandleListModelsEmpty(t *testing.T) {
	h := NewModelsHandler(&fakeProvider{}, "deepseek-r1:1.5b", zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleListModels(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, string(types.ErrServiceUnavailable), resp.Error.Code)
}

func TestHandleListModelsUpstreamError(t *testing.T) {
	provider := &fakeProvider{
		err: types.NewError(types.ErrUpstreamError, "connection refused").
			WithHTTPStatus(http.StatusBadGateway),
	}
	h := NewModelsHandler(provider, "deepseek-r1:1.5b", zaptest.NewLogger(t))

	rec := httptest.NewRecorder()
	h.HandleListModels(rec, httptest.NewRequest(http.MethodGet, "/api/models", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}
