package config

// ServiceConfig is the quote service's full configuration.
type ServiceConfig struct {
	// http configs
	Port int    `toml:"port" mapstructure:"port"`
	Host string `toml:"host" mapstructure:"host"`

	// CORS configs
	AllowedOrigins []string `toml:"allowed_origins" mapstructure:"allowed_origins"`

	// rate limiting configs
	RatePerMinute         int `toml:"rate_per_minute" mapstructure:"rate_per_minute"`
	MaxConcurrentRequests int `toml:"max_concurrent_requests" mapstructure:"max_concurrent_requests"`

	// metrics
	EnableMetrics bool `toml:"enable_metrics" mapstructure:"enable_metrics"`

	// upstream mirrors, tried sequentially in order
	MarketDataURLs []string `toml:"market_data_urls" mapstructure:"market_data_urls"`
	NodeStatusURLs []string `toml:"node_status_urls" mapstructure:"node_status_urls"`

	// pool cache
	PoolCacheTTLMillis int `toml:"pool_cache_ttl_ms" mapstructure:"pool_cache_ttl_ms"`
}
