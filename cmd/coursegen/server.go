package main

import (
	"context"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Rohit-roe/coursegen/api/handlers"
	"github.com/Rohit-roe/coursegen/config"
	"github.com/Rohit-roe/coursegen/course"
	"github.com/Rohit-roe/coursegen/internal/cache"
	"github.com/Rohit-roe/coursegen/internal/metrics"
	"github.com/Rohit-roe/coursegen/internal/server"
	"github.com/Rohit-roe/coursegen/internal/telemetry"
	"github.com/Rohit-roe/coursegen/llm"
	"github.com/Rohit-roe/coursegen/providers/ollama"
	"github.com/Rohit-roe/coursegen/search"
)

// Server wires the service together and owns its lifecycle.
type Server struct {
	cfg    *config.Config
	logger *zap.Logger

	httpManager    *server.Manager
	metricsManager *server.Manager

	provider      llm.Provider
	cacheManager  *cache.Manager
	collector     *metrics.Collector
	otelProviders *telemetry.Providers

	healthHandler   *handlers.HealthHandler
	modelsHandler   *handlers.ModelsHandler
	generateHandler *handlers.GenerateHandler

	rateLimiterCancel context.CancelFunc
}

// NewServer creates a server from loaded configuration.
func NewServer(cfg *config.Config, logger *zap.Logger, otelProviders *telemetry.Providers) *Server {
	return &Server{
		cfg:           cfg,
		logger:        logger,
		otelProviders: otelProviders,
	}
}

// Start builds all components and begins serving.
func (s *Server) Start() error {
	s.collector = metrics.NewCollector(prometheus.DefaultRegisterer)

	if err := s.initComponents(); err != nil {
		return fmt.Errorf("failed to init components: %w", err)
	}

	if err := s.startHTTPServer(); err != nil {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	if err := s.startMetricsServer(); err != nil {
		return fmt.Errorf("failed to start metrics server: %w", err)
	}

	s.logger.Info("all servers started",
		zap.Int("http_port", s.cfg.Server.HTTPPort),
		zap.Int("metrics_port", s.cfg.Server.MetricsPort),
	)

	return nil
}

func (s *Server) initComponents() error {
	// Optional Redis search cache. A missing Redis is not fatal.
	if s.cfg.Cache.Enabled {
		mgr, err := cache.NewManager(cache.Config{
			Addr:         s.cfg.Cache.Addr,
			Password:     s.cfg.Cache.Password,
			DB:           s.cfg.Cache.DB,
			DefaultTTL:   s.cfg.Cache.DefaultTTL,
			PoolSize:     s.cfg.Cache.PoolSize,
			MinIdleConns: s.cfg.Cache.MinIdleConns,
		}, s.logger)
		if err != nil {
			s.logger.Warn("cache unavailable, searches will not be cached", zap.Error(err))
		} else {
			s.cacheManager = mgr
		}
	}

	provider := ollama.New(ollama.Config{
		BaseURL:     s.cfg.Ollama.BaseURL,
		Model:       s.cfg.Ollama.Model,
		Timeout:     s.cfg.Ollama.Timeout,
		Temperature: float32(s.cfg.Ollama.Temperature),
		NumPredict:  s.cfg.Ollama.NumPredict,
	}, s.logger)
	s.provider = provider

	searcher := search.NewService(search.Config{
		InvidiousInstances: s.cfg.Search.InvidiousInstances,
		DuckDuckGoURL:      s.cfg.Search.DuckDuckGoURL,
		Timeout:            s.cfg.Search.Timeout,
		CacheTTL:           s.cfg.Search.CacheTTL,
	}, s.cacheManager, s.logger)

	generator := course.NewGenerator(provider, searcher, s.collector, s.logger)

	s.healthHandler = handlers.NewHealthHandler(s.logger, &providerCheck{provider: provider})
	s.modelsHandler = handlers.NewModelsHandler(provider, s.cfg.Ollama.Model, s.logger)
	s.generateHandler = handlers.NewGenerateHandler(generator, s.logger)

	return nil
}

// providerCheck adapts the inference provider to the health check
// interface.
type providerCheck struct {
	provider llm.Provider
}

func (c *providerCheck) Name() string { return c.provider.Name() }

func (c *providerCheck) Check(ctx context.Context) error {
	status, err := c.provider.HealthCheck(ctx)
	if err != nil {
		return err
	}
	if !status.Healthy {
		return fmt.Errorf("provider unhealthy: %s", status.Message)
	}
	return nil
}

func (s *Server) startHTTPServer() error {
	mux := http.NewServeMux()

	mux.HandleFunc("/{$}", s.healthHandler.HandleVersion)
	mux.HandleFunc("/health", s.healthHandler.HandleHealth)
	mux.HandleFunc("/healthz", s.healthHandler.HandleHealthz)
	mux.HandleFunc("/ready", s.healthHandler.HandleReady)
	mux.HandleFunc("/version", s.healthHandler.HandleVersion)

	mux.HandleFunc("GET /api/models", s.modelsHandler.HandleListModels)
	mux.HandleFunc("POST /api/generate/outline", s.generateHandler.HandleOutline)
	mux.HandleFunc("POST /api/generate/week", s.generateHandler.HandleWeekDetails)
	mux.HandleFunc("POST /api/generate/day", s.generateHandler.HandleDayDetails)

	rateLimiterCtx, cancel := context.WithCancel(context.Background())
	s.rateLimiterCancel = cancel

	handler := Chain(mux,
		Recovery(s.logger),
		RequestID(),
		SecurityHeaders(),
		OTelTracing(),
		RequestLogger(s.logger),
		MetricsMiddleware(s.collector),
		CORS(s.cfg.Server.AllowedOrigins),
		RateLimiter(rateLimiterCtx, s.cfg.Server.RateLimitRPS, s.cfg.Server.RateLimitBurst),
	)

	s.httpManager = server.NewManager(handler, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.HTTPPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		IdleTimeout:     2 * s.cfg.Server.ReadTimeout,
		MaxHeaderBytes:  1 << 20,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	return s.httpManager.Start()
}

func (s *Server) startMetricsServer() error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	s.metricsManager = server.NewManager(mux, server.Config{
		Addr:            fmt.Sprintf(":%d", s.cfg.Server.MetricsPort),
		ReadTimeout:     s.cfg.Server.ReadTimeout,
		WriteTimeout:    s.cfg.Server.WriteTimeout,
		ShutdownTimeout: s.cfg.Server.ShutdownTimeout,
	}, s.logger)

	return s.metricsManager.Start()
}

// WaitForShutdown blocks until a termination signal, then shuts down.
func (s *Server) WaitForShutdown() {
	if s.httpManager != nil {
		s.httpManager.WaitForShutdown()
	}
	s.Shutdown()
}

// Shutdown stops all components gracefully.
func (s *Server) Shutdown() {
	s.logger.Info("starting graceful shutdown")

	ctx := context.Background()

	if s.rateLimiterCancel != nil {
		s.rateLimiterCancel()
	}

	if s.httpManager != nil {
		if err := s.httpManager.Shutdown(ctx); err != nil {
			s.logger.Error("HTTP server shutdown error", zap.Error(err))
		}
	}

	if s.metricsManager != nil {
		if err := s.metricsManager.Shutdown(ctx); err != nil {
			s.logger.Error("metrics server shutdown error", zap.Error(err))
		}
	}

	if s.cacheManager != nil {
		if err := s.cacheManager.Close(); err != nil {
			s.logger.Error("cache shutdown error", zap.Error(err))
		}
	}

	if s.otelProviders != nil {
		if err := s.otelProviders.Shutdown(ctx); err != nil {
			s.logger.Error("telemetry shutdown error", zap.Error(err))
		}
	}

	s.logger.Info("graceful shutdown completed")
}
