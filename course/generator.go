// Package course orchestrates the three generation phases: outline,
// week breakdown, and day details. Each phase renders a prompt, calls
// the inference provider with retry, recovers a structured record from
// the raw response, and merges defaults for keys the model omitted.
package course

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Rohit-roe/coursegen/internal/metrics"
	"github.com/Rohit-roe/coursegen/llm"
	"github.com/Rohit-roe/coursegen/llm/retry"
	"github.com/Rohit-roe/coursegen/llm/tokenizer"
	"github.com/Rohit-roe/coursegen/repair"
	"github.com/Rohit-roe/coursegen/search"
	"github.com/Rohit-roe/coursegen/types"
)

const (
	maxDayResources   = 4
	enrichConcurrency = 4
)

// Searcher resolves learning resources for day enrichment.
type Searcher interface {
	YouTube(ctx context.Context, query string, maxResults int) []types.Resource
	Web(ctx context.Context, query string, maxResults int) []types.Resource
}

// Generator runs the generation phases against an inference provider.
type Generator struct {
	provider  llm.Provider
	retryer   retry.Retryer
	searcher  Searcher
	estimator *tokenizer.Estimator
	collector *metrics.Collector
	logger    *zap.Logger
}

// NewGenerator creates a course generator. collector may be nil.
func NewGenerator(provider llm.Provider, searcher Searcher, collector *metrics.Collector, logger *zap.Logger) *Generator {
	policy := retry.DefaultRetryPolicy()
	policy.RetryIf = types.IsRetryable

	return &Generator{
		provider:  provider,
		retryer:   retry.NewBackoffRetryer(policy, logger),
		searcher:  searcher,
		estimator: tokenizer.NewEstimator(),
		collector: collector,
		logger:    logger.With(zap.String("component", "course")),
	}
}

// Outline generates the weekly course outline.
func (g *Generator) Outline(ctx context.Context, req *types.CourseRequest) (map[string]any, error) {
	data, err := g.generate(ctx, "outline", req.Model, outlinePrompt(req.Goal))
	if err != nil {
		return nil, err
	}

	if _, ok := data["prerequisites"]; !ok {
		data["prerequisites"] = []any{}
	}
	weeks, ok := data["weeks"].([]any)
	if !ok {
		weeks = []any{}
		data["weeks"] = weeks
	}
	for _, w := range weeks {
		week, ok := w.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := week["concepts"]; !ok {
			week["concepts"] = []any{}
		}
		if _, ok := week["focus"]; !ok {
			week["focus"] = "theory"
		}
	}
	data["duration_weeks"] = len(weeks)

	return data, nil
}

// WeekDetails generates the daily breakdown for one week.
func (g *Generator) WeekDetails(ctx context.Context, req *types.WeekDetailsRequest) (map[string]any, error) {
	prompt := weekDetailsPrompt(req.Goal, req.WeekNumber, req.WeekTitle, req.Concepts)
	data, err := g.generate(ctx, "week", req.Model, prompt)
	if err != nil {
		return nil, err
	}

	days, ok := data["days"].([]any)
	if !ok {
		days = []any{}
		data["days"] = days
	}
	for _, d := range days {
		day, ok := d.(map[string]any)
		if !ok {
			continue
		}
		if _, ok := day["concepts"]; !ok {
			day["concepts"] = []any{}
		}
		day["is_generated"] = true
	}

	return data, nil
}

// DayDetails generates content for one day and resolves its resource
// queries into concrete links.
func (g *Generator) DayDetails(ctx context.Context, req *types.DayDetailsRequest) (map[string]any, error) {
	taskType := req.TaskType
	if taskType == "" {
		taskType = "theory"
	}
	duration := req.DurationMinutes
	if duration == 0 {
		duration = 60
	}

	prompt := dayDetailsPrompt(req.Goal, req.DayTitle, req.DayNumber, duration, taskType)
	data, err := g.generate(ctx, "day", req.Model, prompt)
	if err != nil {
		return nil, err
	}

	g.enrichResources(ctx, req.DayTitle, data)

	return data, nil
}

// generate runs one prompt through the provider and recovers a
// structured record from the response.
func (g *Generator) generate(ctx context.Context, phase, model, prompt string) (map[string]any, error) {
	logger := g.logger.With(
		zap.String("phase", phase),
		zap.String("generation_id", uuid.NewString()),
	)

	messages := []llm.Message{
		{Role: llm.RoleSystem, Content: systemPrompt},
		{Role: llm.RoleUser, Content: prompt},
	}

	if g.estimator != nil {
		if estimate, err := g.estimator.CountMessages(messages); err == nil {
			logger.Debug("prompt prepared", zap.Int("estimated_prompt_tokens", estimate))
		}
	}

	start := time.Now()
	result, err := g.retryer.DoWithResult(ctx, func() (any, error) {
		return g.provider.Chat(ctx, &llm.ChatRequest{
			Model:    model,
			Messages: messages,
		})
	})
	if err != nil {
		g.recordLLM(model, "error", time.Since(start))
		logger.Error("inference call failed", zap.Error(err))
		return nil, err
	}

	resp := result.(*llm.ChatResponse)
	g.recordLLM(resp.Model, "success", time.Since(start))
	if g.collector != nil {
		g.collector.RecordLLMTokens(resp.Model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)
	}

	data, strategy, err := repair.Recover(resp.Content)
	if err != nil {
		code := types.ErrUnrecoverableStructure
		if repair.IsNoStructureFound(err) {
			code = types.ErrNoStructureFound
		}
		if g.collector != nil {
			g.collector.RecordRepairFailure(string(code))
		}
		logger.Error("response recovery failed", zap.Error(err))
		return nil, types.NewError(code, "model produced unusable output").
			WithCause(err).
			WithHTTPStatus(http.StatusBadGateway)
	}

	if g.collector != nil {
		g.collector.RecordRepairOutcome(strategy)
	}
	if strategy != "" {
		logger.Warn("recovered truncated model response", zap.String("strategy", strategy))
	}

	return data, nil
}

// enrichResources replaces the model's resource search queries with
// concrete links, resolving queries concurrently.
func (g *Generator) enrichResources(ctx context.Context, dayTitle string, data map[string]any) {
	entries, ok := data["resources"].([]any)
	if !ok {
		return
	}
	if len(entries) > maxDayResources {
		entries = entries[:maxDayResources]
	}

	resolved := make([]*types.Resource, len(entries))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(enrichConcurrency)
	for i, entry := range entries {
		eg.Go(func() error {
			spec, _ := entry.(map[string]any)
			query, _ := spec["title"].(string)
			if query == "" {
				query = dayTitle
			}
			source, _ := spec["source"].(string)

			var found []types.Resource
			if source == "youtube" {
				g.recordSearch("youtube")
				found = g.searcher.YouTube(egCtx, query+" tutorial", 1)
			} else {
				g.recordSearch("web")
				found = g.searcher.Web(egCtx, query+" tutorial", 1)
			}
			if len(found) > 0 {
				resolved[i] = &found[0]
			}
			return nil
		})
	}
	eg.Wait()

	final := make([]types.Resource, 0, len(resolved))
	for _, r := range resolved {
		if r != nil {
			final = append(final, *r)
		}
	}
	data["resources"] = search.Dedupe(final)
}

func (g *Generator) recordLLM(model, outcome string, duration time.Duration) {
	if g.collector == nil {
		return
	}
	if model == "" {
		model = "default"
	}
	g.collector.RecordLLMRequest(model, outcome, duration)
}

func (g *Generator) recordSearch(source string) {
	if g.collector != nil {
		g.collector.RecordSearch(source)
	}
}
