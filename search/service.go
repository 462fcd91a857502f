// Package search finds learning resources for generated course content:
// YouTube videos through public Invidious instances and web articles
// through DuckDuckGo's HTML endpoint. Both searches degrade to a
// constructed search link rather than failing, so enrichment never
// blocks course generation.
package search

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Rohit-roe/coursegen/internal/cache"
	"github.com/Rohit-roe/coursegen/types"
)

// DefaultInvidiousInstances are public Invidious mirrors tried in
// order.
var DefaultInvidiousInstances = []string{
	"https://vid.puffyan.us",
	"https://invidious.fdn.fr",
	"https://invidious.privacyredirect.com",
	"https://inv.nadeko.net",
}

// DefaultDuckDuckGoURL is the no-JavaScript DuckDuckGo endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

const (
	defaultTimeout    = 15 * time.Second
	defaultMaxResults = 3
	descriptionLimit  = 200
)

// Config configures the search service.
type Config struct {
	InvidiousInstances []string      `yaml:"invidious_instances"`
	DuckDuckGoURL      string        `yaml:"duckduckgo_url"`
	Timeout            time.Duration `yaml:"timeout"`
	CacheTTL           time.Duration `yaml:"cache_ttl"`
}

// DefaultConfig returns the stock search configuration.
func DefaultConfig() Config {
	return Config{
		InvidiousInstances: DefaultInvidiousInstances,
		DuckDuckGoURL:      DefaultDuckDuckGoURL,
		Timeout:            defaultTimeout,
		CacheTTL:           15 * time.Minute,
	}
}

// Service performs resource searches with an optional Redis cache.
type Service struct {
	cfg    Config
	client *http.Client
	cache  *cache.Manager
	logger *zap.Logger
}

// NewService creates a search service. cacheMgr may be nil, in which
// case every search goes to the network.
func NewService(cfg Config, cacheMgr *cache.Manager, logger *zap.Logger) *Service {
	if len(cfg.InvidiousInstances) == 0 {
		cfg.InvidiousInstances = DefaultInvidiousInstances
	}
	if cfg.DuckDuckGoURL == "" {
		cfg.DuckDuckGoURL = DefaultDuckDuckGoURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Service{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		cache:  cacheMgr,
		logger: logger.With(zap.String("component", "search")),
	}
}

// cacheKey builds the cache key for one search kind and query.
func cacheKey(kind, query string) string {
	return fmt.Sprintf("search:%s:%s", kind, query)
}

// fromCache loads cached results; a nil cache or any error is a miss.
func (s *Service) fromCache(ctx context.Context, kind, query string) ([]types.Resource, bool) {
	if s.cache == nil {
		return nil, false
	}

	var resources []types.Resource
	if err := s.cache.GetJSON(ctx, cacheKey(kind, query), &resources); err != nil {
		if !cache.IsCacheMiss(err) {
			s.logger.Warn("cache lookup failed", zap.String("query", query), zap.Error(err))
		}
		return nil, false
	}
	return resources, true
}

func (s *Service) toCache(ctx context.Context, kind, query string, resources []types.Resource) {
	if s.cache == nil {
		return
	}
	if err := s.cache.SetJSON(ctx, cacheKey(kind, query), resources, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("cache store failed", zap.String("query", query), zap.Error(err))
	}
}

// Dedupe removes resources that share a URL, keeping first occurrence
// order.
func Dedupe(resources []types.Resource) []types.Resource {
	seen := make(map[string]struct{}, len(resources))
	out := make([]types.Resource, 0, len(resources))
	for _, r := range resources {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		out = append(out, r)
	}
	return out
}

// truncateDescription caps a description at the storage limit without
// splitting a rune.
func truncateDescription(s string) string {
	if len(s) <= descriptionLimit {
		return s
	}
	runes := []rune(s)
	if len(runes) <= descriptionLimit {
		return s
	}
	return string(runes[:descriptionLimit])
}
