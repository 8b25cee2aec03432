// Package korbit 实现Korbit v2 API客户端
package korbit

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/httpclient"
)

const apiURL = "https://api.korbit.co.kr"

// RestClient Korbit v2 API客户端。请求以HMAC-SHA256签名，
// 签名内容为 时间戳+方法+路径+查询串。
type RestClient struct {
	baseURL    string
	httpClient httpclient.Client
	store      credentials.Store
	decryptor  credentials.Decryptor
	logger     *zap.Logger
	nowMilli   func() int64 // 便于测试固定时间戳
}

// NewRestClient 创建Korbit API客户端
func NewRestClient(baseURL string, timeout time.Duration, store credentials.Store,
	decryptor credentials.Decryptor, logger *zap.Logger) (*RestClient, error) {

	if baseURL == "" {
		baseURL = apiURL
	}

	config := httpclient.DefaultConfig("korbit")
	if timeout > 0 {
		config.Timeout = timeout
	}
	client, err := httpclient.New(config, logger)
	if err != nil {
		return nil, err
	}
	client.SetHeaders(map[string]string{"Accept": "application/json"})

	return &RestClient{
		baseURL:    baseURL,
		httpClient: client,
		store:      store,
		decryptor:  decryptor,
		logger:     logger,
		nowMilli:   func() int64 { return time.Now().UnixMilli() },
	}, nil
}

// Close 关闭客户端
func (c *RestClient) Close() error {
	return c.httpClient.Close()
}

// signPayload 计算请求签名
func signPayload(payload, secret string) string {
	sig := hmac.New(sha256.New, []byte(secret))
	sig.Write([]byte(payload))
	return hex.EncodeToString(sig.Sum(nil))
}

// sendRequest 签名并发送请求
func (c *RestClient) sendRequest(ctx context.Context, userID, method, path string,
	params url.Values, result interface{}) error {

	key, err := c.store.LookupAPIKey(userID, "korbit")
	if err != nil {
		return err
	}
	secret, err := c.decryptor.Decrypt(key.EncryptedSecret)
	if err != nil {
		return err
	}

	timestamp := strconv.FormatInt(c.nowMilli(), 10)
	rawQuery := params.Encode()

	payload := timestamp + method + path
	if rawQuery != "" {
		payload += "?" + rawQuery
	}

	req := &httpclient.Request{
		Method: method,
		URL:    c.baseURL + path,
		Headers: map[string]string{
			"X-KAPI-KEY":       key.PublicKey,
			"X-KAPI-TIMESTAMP": timestamp,
			"X-KAPI-SIGN":      signPayload(payload, secret),
		},
		Result: result,
	}
	if method == http.MethodGet {
		if rawQuery != "" {
			req.URL += "?" + rawQuery
		}
	} else {
		body := make(map[string]string, len(params))
		for k := range params {
			body[k] = params.Get(k)
		}
		req.Body = body
	}

	if _, err := c.httpClient.DoRequest(ctx, req); err != nil {
		c.logUpstreamError(path, err)
		return err
	}
	return nil
}

// logUpstreamError 尽力提取上游错误码写入日志
func (c *RestClient) logUpstreamError(path string, err error) {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) || len(httpErr.Body) == 0 {
		return
	}

	code, _ := jsonparser.GetString(httpErr.Body, "errorCode")
	message, _ := jsonparser.GetString(httpErr.Body, "errorMessage")
	c.logger.Warn("korbit API error",
		zap.String("path", path),
		zap.Int("status", httpErr.StatusCode),
		zap.String("error_code", code),
		zap.String("error_message", message))
}

// getBalances 获取全部账户余额（单次调用）
func (c *RestClient) getBalances(ctx context.Context, userID string) ([]balanceData, error) {
	var result []balanceData
	if err := c.sendRequest(ctx, userID, http.MethodGet, "/v2/balances", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getTransfers 按币种获取充值/提现历史
func (c *RestClient) getTransfers(ctx context.Context, userID, path, currency string) ([]transferData, error) {
	query := url.Values{}
	query.Set("currency", currency)
	query.Set("limit", "100")

	var result []transferData
	if err := c.sendRequest(ctx, userID, http.MethodGet, path, query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getTransferDetail 获取单条充值/提现明细
func (c *RestClient) getTransferDetail(ctx context.Context, userID, path, id, currency string) (*transferData, error) {
	query := url.Values{}
	query.Set("id", id)
	query.Set("currency", currency)

	var result transferData
	if err := c.sendRequest(ctx, userID, http.MethodGet, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getOrders 按交易对与状态获取订单列表
func (c *RestClient) getOrders(ctx context.Context, userID, symbol, status string, limit int) ([]orderData, error) {
	query := url.Values{}
	query.Set("symbol", symbol)
	query.Set("status", status)
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result []orderData
	if err := c.sendRequest(ctx, userID, http.MethodGet, "/v2/orders", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getOrderDetail 获取订单明细（含成交记录）
func (c *RestClient) getOrderDetail(ctx context.Context, userID, id string) (*orderDetailData, error) {
	query := url.Values{}
	query.Set("orderId", id)

	var result orderDetailData
	if err := c.sendRequest(ctx, userID, http.MethodGet, "/v2/order", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// withdrawKRW 发起KRW提现
func (c *RestClient) withdrawKRW(ctx context.Context, userID, amount, mfaMethod string) (*transferData, error) {
	params := url.Values{}
	params.Set("amount", amount)
	params.Set("twoFactorType", mfaMethod)

	var result transferData
	if err := c.sendRequest(ctx, userID, http.MethodPost, "/v2/krw/withdrawal", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
