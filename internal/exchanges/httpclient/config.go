package httpclient

import "time"

// DefaultConfig 返回默认配置
func DefaultConfig(name string) *Config {
	return &Config{
		Name:      name,
		UserAgent: "umcscoi-wallet/1.0.0",
		Timeout:   10 * time.Second,
		RateLimit: DefaultRateLimitConfig(),
		Transport: DefaultTransportConfig(),
		Debug:     false,
	}
}

// DefaultRateLimitConfig 返回默认出站限速配置
func DefaultRateLimitConfig() *RateLimitConfig {
	return &RateLimitConfig{
		Enabled:           true,
		RequestsPerSecond: 8,
		Burst:             8,
	}
}

// DefaultTransportConfig 返回默认传输配置
func DefaultTransportConfig() *TransportConfig {
	return &TransportConfig{
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		MaxConnsPerHost:       15,
		IdleConnTimeout:       60 * time.Second,
		TLSHandshakeTimeout:   15 * time.Second,
		ResponseHeaderTimeout: 10 * time.Second,
		DisableKeepAlives:     false,
		DisableCompression:    false,
	}
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Name == "" {
		c.Name = "httpclient"
	}

	if c.UserAgent == "" {
		c.UserAgent = "umcscoi-wallet/1.0.0"
	}

	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}

	if c.RateLimit == nil {
		c.RateLimit = DefaultRateLimitConfig()
	}

	if c.Transport == nil {
		c.Transport = DefaultTransportConfig()
	}

	// 验证出站限速配置
	if c.RateLimit.RequestsPerSecond < 1 {
		c.RateLimit.RequestsPerSecond = 8
	}
	if c.RateLimit.Burst < 1 {
		c.RateLimit.Burst = c.RateLimit.RequestsPerSecond
	}

	// 验证传输配置
	if c.Transport.MaxIdleConns < 1 {
		c.Transport.MaxIdleConns = 50
	}
	if c.Transport.MaxIdleConnsPerHost < 1 {
		c.Transport.MaxIdleConnsPerHost = 10
	}
	if c.Transport.MaxConnsPerHost < 1 {
		c.Transport.MaxConnsPerHost = 15
	}
	if c.Transport.IdleConnTimeout <= 0 {
		c.Transport.IdleConnTimeout = 60 * time.Second
	}
	if c.Transport.TLSHandshakeTimeout <= 0 {
		c.Transport.TLSHandshakeTimeout = 15 * time.Second
	}
	if c.Transport.ResponseHeaderTimeout <= 0 {
		c.Transport.ResponseHeaderTimeout = 10 * time.Second
	}
	return nil
}
