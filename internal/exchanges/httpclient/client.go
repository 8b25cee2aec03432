package httpclient

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// HTTPClient HTTP客户端实现
type HTTPClient struct {
	config     *Config
	httpClient *http.Client
	logger     *zap.Logger
	limiter    *rate.Limiter

	// 状态管理
	mu             sync.RWMutex
	running        bool
	defaultHeaders map[string]string

	// 统计信息
	stats struct {
		totalRequests   int64
		successRequests int64
		failedRequests  int64
		lastRequest     time.Time
		lastError       string
	}
}

// New 创建新的HTTP客户端
func New(config *Config, logger *zap.Logger) (Client, error) {
	if config == nil {
		config = DefaultConfig("httpclient")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	client := &HTTPClient{
		config:         config,
		logger:         logger,
		defaultHeaders: make(map[string]string),
		running:        true,
	}

	// 初始化HTTP客户端
	client.initHTTPClient()

	// 初始化出站限速器
	if config.RateLimit.Enabled {
		client.limiter = rate.NewLimiter(
			rate.Limit(config.RateLimit.RequestsPerSecond), config.RateLimit.Burst)
	}

	logger.Debug("HTTP client initialized", zap.String("name", config.Name))
	return client, nil
}

// initHTTPClient 初始化HTTP客户端
func (c *HTTPClient) initHTTPClient() {
	transport := &http.Transport{
		MaxIdleConns:          c.config.Transport.MaxIdleConns,
		MaxIdleConnsPerHost:   c.config.Transport.MaxIdleConnsPerHost,
		MaxConnsPerHost:       c.config.Transport.MaxConnsPerHost,
		IdleConnTimeout:       c.config.Transport.IdleConnTimeout,
		TLSHandshakeTimeout:   c.config.Transport.TLSHandshakeTimeout,
		ResponseHeaderTimeout: c.config.Transport.ResponseHeaderTimeout,
		DisableKeepAlives:     c.config.Transport.DisableKeepAlives,
		DisableCompression:    c.config.Transport.DisableCompression,
	}

	c.httpClient = &http.Client{
		Transport: transport,
		Timeout:   c.config.Timeout,
	}
}

// Get 发送GET请求
func (c *HTTPClient) Get(ctx context.Context, url string, result interface{}) error {
	req := &Request{
		Method: http.MethodGet,
		URL:    url,
		Result: result,
	}
	_, err := c.DoRequest(ctx, req)
	return err
}

// Post 发送POST请求
func (c *HTTPClient) Post(ctx context.Context, url string, body interface{}, result interface{}) error {
	req := &Request{
		Method: http.MethodPost,
		URL:    url,
		Body:   body,
		Result: result,
	}
	_, err := c.DoRequest(ctx, req)
	return err
}

// Delete 发送DELETE请求
func (c *HTTPClient) Delete(ctx context.Context, url string, result interface{}) error {
	req := &Request{
		Method: http.MethodDelete,
		URL:    url,
		Result: result,
	}
	_, err := c.DoRequest(ctx, req)
	return err
}

// SetHeaders 设置默认请求头
func (c *HTTPClient) SetHeaders(headers map[string]string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for key, value := range headers {
		c.defaultHeaders[key] = value
	}
}

// GetStatus 获取客户端状态
func (c *HTTPClient) GetStatus() *Status {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return &Status{
		Name:            c.config.Name,
		Running:         c.running,
		LastRequest:     c.stats.lastRequest,
		TotalRequests:   atomic.LoadInt64(&c.stats.totalRequests),
		SuccessRequests: atomic.LoadInt64(&c.stats.successRequests),
		FailedRequests:  atomic.LoadInt64(&c.stats.failedRequests),
		LastError:       c.stats.lastError,
	}
}

// Close 关闭客户端
func (c *HTTPClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false

	c.httpClient.CloseIdleConnections()
	c.logger.Debug("HTTP client closed", zap.String("name", c.config.Name))
	return nil
}
