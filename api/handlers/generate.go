package handlers

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/Rohit-roe/coursegen/types"
)

// CourseGenerator runs the three generation phases.
type CourseGenerator interface {
	Outline(ctx context.Context, req *types.CourseRequest) (map[string]any, error)
	WeekDetails(ctx context.Context, req *types.WeekDetailsRequest) (map[string]any, error)
	DayDetails(ctx context.Context, req *types.DayDetailsRequest) (map[string]any, error)
}

// GenerateHandler serves the generation endpoints.
type GenerateHandler struct {
	generator CourseGenerator
	logger    *zap.Logger
}

// NewGenerateHandler creates a generation handler.
func NewGenerateHandler(generator CourseGenerator, logger *zap.Logger) *GenerateHandler {
	return &GenerateHandler{
		generator: generator,
		logger:    logger.With(zap.String("component", "generate_handler")),
	}
}

// HandleOutline handles POST /api/generate/outline.
func (h *GenerateHandler) HandleOutline(w http.ResponseWriter, r *http.Request) {
	var req types.CourseRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if strings.TrimSpace(req.Goal) == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"goal must not be empty", h.logger)
		return
	}

	data, err := h.generator.Outline(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, data)
}

// HandleWeekDetails handles POST /api/generate/week.
func (h *GenerateHandler) HandleWeekDetails(w http.ResponseWriter, r *http.Request) {
	var req types.WeekDetailsRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if strings.TrimSpace(req.Goal) == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"goal must not be empty", h.logger)
		return
	}
	if req.WeekNumber < 1 {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"week_number must be positive", h.logger)
		return
	}
	if strings.TrimSpace(req.WeekTitle) == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"week_title must not be empty", h.logger)
		return
	}

	data, err := h.generator.WeekDetails(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, data)
}

// HandleDayDetails handles POST /api/generate/day.
func (h *GenerateHandler) HandleDayDetails(w http.ResponseWriter, r *http.Request) {
	var req types.DayDetailsRequest
	if err := DecodeJSONBody(w, r, &req, h.logger); err != nil {
		return
	}

	if strings.TrimSpace(req.Goal) == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"goal must not be empty", h.logger)
		return
	}
	if strings.TrimSpace(req.DayTitle) == "" {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"day_title must not be empty", h.logger)
		return
	}
	if req.DayNumber < 1 {
		WriteErrorMessage(w, http.StatusBadRequest, types.ErrInvalidRequest,
			"day_number must be positive", h.logger)
		return
	}

	data, err := h.generator.DayDetails(r.Context(), &req)
	if err != nil {
		WriteError(w, err, h.logger)
		return
	}

	WriteSuccess(w, data)
}
