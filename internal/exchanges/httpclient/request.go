package httpclient

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/bytedance/sonic"
	"go.uber.org/zap"
)

// DoRequest 发送自定义请求。失败不重试：超时与上游错误按类型分类后直接上报。
func (c *HTTPClient) DoRequest(ctx context.Context, req *Request) (*Response, error) {
	c.mu.RLock()
	running := c.running
	c.mu.RUnlock()
	if !running {
		return nil, fmt.Errorf("client '%s' is not running", c.config.Name)
	}

	// 出站限速：阻塞等待配额，上下文取消时立即返回
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, ClassifyError(err, req.URL)
		}
	}

	// 更新统计信息
	atomic.AddInt64(&c.stats.totalRequests, 1)
	c.mu.Lock()
	c.stats.lastRequest = time.Now()
	c.mu.Unlock()

	response, err := c.doHTTPRequest(ctx, req)
	if err != nil {
		atomic.AddInt64(&c.stats.failedRequests, 1)
		c.mu.Lock()
		c.stats.lastError = err.Error()
		c.mu.Unlock()
		return nil, err
	}

	atomic.AddInt64(&c.stats.successRequests, 1)
	return response, nil
}

// doHTTPRequest 执行实际的HTTP请求
func (c *HTTPClient) doHTTPRequest(ctx context.Context, req *Request) (*Response, error) {
	startTime := time.Now()

	// 准备请求体
	var bodyReader io.Reader
	if req.Body != nil {
		bodyBytes, err := sonic.Marshal(req.Body)
		if err != nil {
			return nil, NewHTTPError(ErrorTypeUnknown, 0, "failed to marshal request body", req.URL, err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	// 创建HTTP请求
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL, bodyReader)
	if err != nil {
		return nil, NewHTTPError(ErrorTypeUnknown, 0, "failed to create request", req.URL, err)
	}

	// 设置请求头
	c.setRequestHeaders(httpReq, req)

	if c.config.Debug {
		c.logger.Debug("outbound request",
			zap.String("client", c.config.Name),
			zap.String("method", req.Method),
			zap.String("url", req.URL))
	}

	// 发送请求
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, ClassifyError(err, req.URL)
	}
	defer httpResp.Body.Close()

	duration := time.Since(startTime)

	// 读取响应体
	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewHTTPError(ErrorTypeNetwork, httpResp.StatusCode, "failed to read response body", req.URL, err)
	}

	if c.config.Debug {
		c.logger.Debug("upstream response",
			zap.String("client", c.config.Name),
			zap.Int("status", httpResp.StatusCode),
			zap.Duration("duration", duration))
	}

	// 检查HTTP状态码，保留响应体供上层提取交易所错误信息
	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		httpErr := NewHTTPError(ErrorTypeHTTP, httpResp.StatusCode,
			fmt.Sprintf("HTTP error %d", httpResp.StatusCode), req.URL, nil)
		if httpResp.StatusCode == http.StatusTooManyRequests {
			httpErr.Type = ErrorTypeRateLimit
		}
		if httpResp.StatusCode == http.StatusGatewayTimeout {
			httpErr.Type = ErrorTypeTimeout
		}
		httpErr.Body = respBody
		return nil, httpErr
	}

	// 解析响应到结果对象
	if req.Result != nil && len(respBody) > 0 {
		if err := sonic.Unmarshal(respBody, req.Result); err != nil {
			return nil, NewHTTPError(ErrorTypeDecode, httpResp.StatusCode, "failed to unmarshal response", req.URL, err)
		}
	}

	// 构建响应对象
	response := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    make(map[string]string),
		Body:       respBody,
		Duration:   duration,
	}

	// 复制响应头
	for key, values := range httpResp.Header {
		if len(values) > 0 {
			response.Headers[key] = values[0]
		}
	}
	return response, nil
}

// setRequestHeaders 设置请求头
func (c *HTTPClient) setRequestHeaders(httpReq *http.Request, req *Request) {
	// 设置默认请求头
	c.mu.RLock()
	for key, value := range c.defaultHeaders {
		httpReq.Header.Set(key, value)
	}
	c.mu.RUnlock()

	// 设置用户代理
	if c.config.UserAgent != "" {
		httpReq.Header.Set("User-Agent", c.config.UserAgent)
	}

	// 设置内容类型
	if req.Body != nil && httpReq.Header.Get("Content-Type") == "" {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	// 设置请求特定的头部
	if req.Headers != nil {
		for key, value := range req.Headers {
			httpReq.Header.Set(key, value)
		}
	}
}

// ClassifyError 将传输层错误分类为HTTPError
func ClassifyError(err error, url string) *HTTPError {
	if err == nil {
		return nil
	}

	// 如果已经是HTTPError，直接返回
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	// 超时：上下文超时或net.Error超时（连接/读取超时）
	if errors.Is(err, context.DeadlineExceeded) {
		return NewHTTPError(ErrorTypeTimeout, 0, "request timed out", url, err)
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewHTTPError(ErrorTypeTimeout, 0, "request timed out", url, err)
	}

	// 上下文取消
	if errors.Is(err, context.Canceled) {
		return NewHTTPError(ErrorTypeUnknown, 0, "request canceled", url, err)
	}

	// 其余一律按网络错误处理
	if errors.As(err, &netErr) {
		return NewHTTPError(ErrorTypeNetwork, 0, "network error", url, err)
	}
	return NewHTTPError(ErrorTypeUnknown, 0, err.Error(), url, err)
}

// IsTimeoutError 判断是否为超时错误
func IsTimeoutError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Type == ErrorTypeTimeout
}

// IsRateLimitError 判断是否为速率限制错误
func IsRateLimitError(err error) bool {
	var httpErr *HTTPError
	return errors.As(err, &httpErr) && httpErr.Type == ErrorTypeRateLimit
}
