package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rohit-roe/coursegen/llm"
	"github.com/Rohit-roe/coursegen/types"
)

// ModelsHandler serves model discovery.
type ModelsHandler struct {
	provider     llm.Provider
	defaultModel string
	logger       *zap.Logger
}

// NewModelsHandler creates a models handler.
func NewModelsHandler(provider llm.Provider, defaultModel string, logger *zap.Logger) *ModelsHandler {
	return &ModelsHandler{
		provider:     provider,
		defaultModel: defaultModel,
		logger:       logger.With(zap.String("component", "models_handler")),
	}
}

// HandleListModels handles GET /api/models. An empty model list means
// the backend has nothing installed and the service cannot generate.
func (h *ModelsHandler) HandleListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.provider.ListModels(r.Context())
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	if len(models) == 0 {
		WriteErrorMessage(w, http.StatusServiceUnavailable, types.ErrServiceUnavailable,
			"no models installed on the inference backend", h.logger)
		return
	}

	infos := make([]types.ModelInfo, 0, len(models))
	for _, m := range models {
		info := types.ModelInfo{Name: m.Name, Size: m.Size}
		if !m.ModifiedAt.IsZero() {
			info.ModifiedAt = m.ModifiedAt.Format(time.RFC3339)
		}
		infos = append(infos, info)
	}

	WriteSuccess(w, map[string]any{
		"models":        infos,
		"default_model": h.defaultModel,
	})
}
