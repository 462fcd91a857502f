package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/Rohit-roe/coursegen/types"
)

// invidiousVideo is the subset of the Invidious search result we use.
type invidiousVideo struct {
	VideoID     string `json:"videoId"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// YouTube searches for videos via the configured Invidious instances,
// trying each in order until one returns results. When every instance
// fails it returns a single constructed YouTube search link, so the
// result list is never empty.
func (s *Service) YouTube(ctx context.Context, query string, maxResults int) []types.Resource {
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	if cached, ok := s.fromCache(ctx, "youtube", query); ok {
		return cached
	}

	for _, instance := range s.cfg.InvidiousInstances {
		resources, err := s.searchInstance(ctx, instance, query, maxResults)
		if err != nil {
			s.logger.Warn("invidious instance failed",
				zap.String("instance", instance),
				zap.String("query", query),
				zap.Error(err),
			)
			continue
		}
		if len(resources) == 0 {
			continue
		}

		s.logger.Info("youtube search succeeded",
			zap.String("instance", instance),
			zap.String("query", query),
			zap.Int("results", len(resources)),
		)
		s.toCache(ctx, "youtube", query, resources)
		return resources
	}

	s.logger.Warn("all invidious instances failed, returning search link",
		zap.String("query", query))

	return []types.Resource{youtubeFallback(query)}
}

func (s *Service) searchInstance(ctx context.Context, instance, query string, maxResults int) ([]types.Resource, error) {
	endpoint := fmt.Sprintf("%s/api/v1/search?%s", strings.TrimRight(instance, "/"), url.Values{
		"q":       {query},
		"type":    {"video"},
		"sort_by": {"relevance"},
	}.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var videos []invidiousVideo
	if err := json.NewDecoder(resp.Body).Decode(&videos); err != nil {
		return nil, err
	}

	if len(videos) > maxResults {
		videos = videos[:maxResults]
	}

	resources := make([]types.Resource, 0, len(videos))
	for _, v := range videos {
		title := v.Title
		if title == "" {
			title = "Untitled"
		}
		resources = append(resources, types.Resource{
			Title:       title,
			URL:         fmt.Sprintf("https://www.youtube.com/watch?v=%s", v.VideoID),
			Source:      "youtube",
			Thumbnail:   fmt.Sprintf("https://i.ytimg.com/vi/%s/mqdefault.jpg", v.VideoID),
			Description: truncateDescription(v.Description),
		})
	}
	return resources, nil
}

func youtubeFallback(query string) types.Resource {
	return types.Resource{
		Title:       fmt.Sprintf("Search YouTube: %s", query),
		URL:         fmt.Sprintf("https://www.youtube.com/results?search_query=%s", strings.ReplaceAll(query, " ", "+")),
		Source:      "youtube",
		Description: fmt.Sprintf("Search YouTube for: %s", query),
	}
}
