package config

import "time"

// DefaultConfig returns the full default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server:    DefaultServerConfig(),
		Ollama:    DefaultOllamaConfig(),
		Search:    DefaultSearchConfig(),
		Cache:     DefaultCacheConfig(),
		Log:       DefaultLogConfig(),
		Telemetry: DefaultTelemetryConfig(),
	}
}

// DefaultServerConfig returns the default server configuration. The
// write timeout exceeds the inference timeout so slow generations are
// not cut off by the HTTP layer.
func DefaultServerConfig() ServerConfig {
	return ServerConfig{
		HTTPPort:        8000,
		MetricsPort:     9091,
		ReadTimeout:     30 * time.Second,
		WriteTimeout:    320 * time.Second,
		ShutdownTimeout: 15 * time.Second,
		RateLimitRPS:    10,
		RateLimitBurst:  20,
		AllowedOrigins:  []string{"*"},
	}
}

// DefaultOllamaConfig returns the default inference configuration.
func DefaultOllamaConfig() OllamaConfig {
	return OllamaConfig{
		BaseURL:     "http://localhost:11434",
		Model:       "deepseek-r1:1.5b",
		Timeout:     300 * time.Second,
		Temperature: 0.7,
		NumPredict:  32768,
		MaxRetries:  3,
	}
}

// DefaultSearchConfig returns the default search configuration.
func DefaultSearchConfig() SearchConfig {
	return SearchConfig{
		InvidiousInstances: []string{
			"https://vid.puffyan.us",
			"https://invidious.fdn.fr",
			"https://invidious.privacyredirect.com",
			"https://inv.nadeko.net",
		},
		DuckDuckGoURL: "https://html.duckduckgo.com/html/",
		Timeout:       15 * time.Second,
		CacheTTL:      15 * time.Minute,
	}
}

// DefaultCacheConfig returns the default cache configuration. The
// cache is opt-in; without Redis the service searches live every time.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Enabled:      false,
		Addr:         "localhost:6379",
		DB:           0,
		DefaultTTL:   15 * time.Minute,
		PoolSize:     10,
		MinIdleConns: 2,
	}
}

// DefaultLogConfig returns the default logging configuration.
func DefaultLogConfig() LogConfig {
	return LogConfig{
		Level:            "info",
		Format:           "json",
		OutputPaths:      []string{"stdout"},
		EnableCaller:     true,
		EnableStacktrace: false,
	}
}

// DefaultTelemetryConfig returns the default telemetry configuration.
func DefaultTelemetryConfig() TelemetryConfig {
	return TelemetryConfig{
		Enabled:      false,
		OTLPEndpoint: "localhost:4317",
		ServiceName:  "coursegen",
		SampleRate:   0.1,
	}
}
