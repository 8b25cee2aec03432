// Package httpclient 提供通用的HTTP请求客户端，带错误分类与出站限速
package httpclient

import (
	"context"
	"time"
)

// Client HTTP客户端接口
type Client interface {
	// Get 发送GET请求
	Get(ctx context.Context, url string, result interface{}) error

	// Post 发送POST请求
	Post(ctx context.Context, url string, body interface{}, result interface{}) error

	// Delete 发送DELETE请求
	Delete(ctx context.Context, url string, result interface{}) error

	// DoRequest 发送自定义请求
	DoRequest(ctx context.Context, req *Request) (*Response, error)

	// SetHeaders 设置默认请求头
	SetHeaders(headers map[string]string)

	// GetStatus 获取客户端状态
	GetStatus() *Status

	// Close 关闭客户端
	Close() error
}

// Request HTTP请求结构
type Request struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    interface{}       `json:"body"`
	Result  interface{}       `json:"-"` // 不序列化
}

// Response HTTP响应结构
type Response struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers"`
	Body       []byte            `json:"body"`
	Duration   time.Duration     `json:"duration"`
}

// Status 客户端状态
type Status struct {
	// 基本信息
	Name        string    `json:"name"`
	Running     bool      `json:"running"`
	LastRequest time.Time `json:"last_request"`

	// 统计信息
	TotalRequests   int64 `json:"total_requests"`
	SuccessRequests int64 `json:"success_requests"`
	FailedRequests  int64 `json:"failed_requests"`

	// 错误信息
	LastError string `json:"last_error,omitempty"`
}

// Config HTTP客户端配置
type Config struct {
	// 基本配置
	Name      string        `yaml:"name" json:"name"`
	UserAgent string        `yaml:"user_agent" json:"user_agent"`
	Timeout   time.Duration `yaml:"timeout" json:"timeout"`

	// 出站限速配置
	RateLimit *RateLimitConfig `yaml:"rate_limit" json:"rate_limit"`

	// HTTP传输配置
	Transport *TransportConfig `yaml:"transport" json:"transport"`

	// 调试配置
	Debug bool `yaml:"debug" json:"debug"`
}

// RateLimitConfig 出站限速配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled" json:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second" json:"requests_per_second"`
	Burst             int  `yaml:"burst" json:"burst"`
}

// TransportConfig HTTP传输配置
type TransportConfig struct {
	MaxIdleConns          int           `yaml:"max_idle_conns" json:"max_idle_conns"`
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host" json:"max_idle_conns_per_host"`
	MaxConnsPerHost       int           `yaml:"max_conns_per_host" json:"max_conns_per_host"`
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout" json:"idle_conn_timeout"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout" json:"tls_handshake_timeout"`
	ResponseHeaderTimeout time.Duration `yaml:"response_header_timeout" json:"response_header_timeout"`
	DisableKeepAlives     bool          `yaml:"disable_keep_alives" json:"disable_keep_alives"`
	DisableCompression    bool          `yaml:"disable_compression" json:"disable_compression"`
}

// ErrorType 错误类型
type ErrorType int

const (
	// ErrorTypeUnknown 未知错误
	ErrorTypeUnknown ErrorType = iota
	// ErrorTypeNetwork 网络错误
	ErrorTypeNetwork
	// ErrorTypeTimeout 超时错误
	ErrorTypeTimeout
	// ErrorTypeHTTP HTTP状态码错误
	ErrorTypeHTTP
	// ErrorTypeRateLimit 速率限制错误
	ErrorTypeRateLimit
	// ErrorTypeDecode 响应解析错误
	ErrorTypeDecode
)

// HTTPError HTTP错误，保留原始响应体供上层提取交易所错误信息
type HTTPError struct {
	Type       ErrorType `json:"type"`
	StatusCode int       `json:"status_code"`
	Message    string    `json:"message"`
	URL        string    `json:"url"`
	Body       []byte    `json:"-"`
	Cause      error     `json:"-"`
}

// Error 实现error接口
func (e *HTTPError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap 实现errors.Unwrap接口
func (e *HTTPError) Unwrap() error {
	return e.Cause
}

// NewHTTPError 创建HTTP错误
func NewHTTPError(errorType ErrorType, statusCode int, message, url string, cause error) *HTTPError {
	return &HTTPError{
		Type:       errorType,
		StatusCode: statusCode,
		Message:    message,
		URL:        url,
		Cause:      cause,
	}
}
