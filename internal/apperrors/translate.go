// Package apperrors 提供上游调用失败到领域错误的翻译
package apperrors

import (
	"context"
	"errors"
	"net/http"

	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/httpclient"
)

// As errors.As的包装，供调用方判断领域错误
func As(err error, target **AppError) bool {
	return errors.As(err, target)
}

// IsCode 判断错误是否携带指定领域错误码
func IsCode(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Translate 将网关调用失败翻译为领域错误。
// 已经是领域错误的原样透传，不做二次包装。
func Translate(err error) error {
	if err == nil {
		return nil
	}

	// 已分类的领域错误直接透传
	var appErr *AppError
	if errors.As(err, &appErr) {
		return err
	}

	// 调用方主动取消不属于上游失败，原样透传
	if errors.Is(err, context.Canceled) {
		return err
	}

	// 超时：HTTP 504、连接或读取超时、上下文超时
	if errors.Is(err, context.DeadlineExceeded) {
		return ExchangeTimeout(err)
	}

	var httpErr *httpclient.HTTPError
	if errors.As(err, &httpErr) {
		switch {
		case httpErr.StatusCode == http.StatusUnauthorized:
			return InsufficientAPIPermission(err)
		case httpErr.StatusCode == http.StatusTooManyRequests || httpErr.Type == httpclient.ErrorTypeRateLimit:
			return RateLimitExceeded(err)
		case httpErr.StatusCode == http.StatusGatewayTimeout || httpErr.Type == httpclient.ErrorTypeTimeout:
			return ExchangeTimeout(err)
		case httpErr.StatusCode >= http.StatusInternalServerError:
			return ExchangeServerError(err)
		case httpErr.Type == httpclient.ErrorTypeNetwork:
			return ExchangeServerError(err)
		}
		return ExchangeAPIError(err)
	}

	// 本地签名/令牌构造失败及其他未知错误走兜底分类
	return ExchangeAPIError(err)
}
