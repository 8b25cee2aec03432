// Package apperrors 定义钱包聚合服务的领域错误分类
package apperrors

import "fmt"

// Code 领域错误码
type Code string

const (
	CodeCredentialsNotFound       Code = "CREDENTIALS_NOT_FOUND"       // 未注册该交易所的API凭证
	CodeInsufficientAPIPermission Code = "INSUFFICIENT_API_PERMISSION" // API权限不足（HTTP 401）
	CodeRateLimitExceeded         Code = "RATE_LIMIT_EXCEEDED"         // 触发上游限流（HTTP 429）
	CodeExchangeServerError       Code = "EXCHANGE_SERVER_ERROR"       // 上游服务器错误（HTTP 5xx）
	CodeExchangeTimeout           Code = "EXCHANGE_TIMEOUT"            // 上游超时（HTTP 504/连接或读取超时）
	CodeExchangeAPIError          Code = "EXCHANGE_API_ERROR"          // 其他上游调用错误（兜底）
	CodeInvalidQueryParameter     Code = "INVALID_QUERY_PARAMETER"     // 非法查询参数
)

// AppError 携带稳定错误码与可读消息的领域错误
type AppError struct {
	Code    Code   // 机器可读错误码
	Message string // 人类可读消息
	Cause   error  // 底层原因
}

// Error 实现error接口
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap 实现errors.Unwrap接口
func (e *AppError) Unwrap() error {
	return e.Cause
}

// New 创建领域错误
func New(code Code, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// CredentialsNotFound 未注册API凭证
func CredentialsNotFound(userID, exchange string) *AppError {
	return &AppError{
		Code:    CodeCredentialsNotFound,
		Message: fmt.Sprintf("no API credentials registered for user %s on %s", userID, exchange),
	}
}

// InsufficientAPIPermission API权限不足
func InsufficientAPIPermission(cause error) *AppError {
	return &AppError{
		Code:    CodeInsufficientAPIPermission,
		Message: "exchange rejected the API key (insufficient permission)",
		Cause:   cause,
	}
}

// RateLimitExceeded 触发上游限流
func RateLimitExceeded(cause error) *AppError {
	return &AppError{
		Code:    CodeRateLimitExceeded,
		Message: "exchange rate limit exceeded",
		Cause:   cause,
	}
}

// ExchangeServerError 上游服务器错误
func ExchangeServerError(cause error) *AppError {
	return &AppError{
		Code:    CodeExchangeServerError,
		Message: "exchange server error",
		Cause:   cause,
	}
}

// ExchangeTimeout 上游超时
func ExchangeTimeout(cause error) *AppError {
	return &AppError{
		Code:    CodeExchangeTimeout,
		Message: "exchange did not respond in time",
		Cause:   cause,
	}
}

// ExchangeAPIError 其他上游调用错误（兜底）
func ExchangeAPIError(cause error) *AppError {
	return &AppError{
		Code:    CodeExchangeAPIError,
		Message: "exchange API call failed",
		Cause:   cause,
	}
}

// InvalidQueryParameter 非法查询参数
func InvalidQueryParameter(name, value string) *AppError {
	return &AppError{
		Code:    CodeInvalidQueryParameter,
		Message: fmt.Sprintf("invalid value %q for parameter %q", value, name),
	}
}

// CodeOf 提取错误的领域错误码，非领域错误返回兜底码
func CodeOf(err error) Code {
	var appErr *AppError
	if As(err, &appErr) {
		return appErr.Code
	}
	return CodeExchangeAPIError
}
