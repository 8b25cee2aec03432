// Package upbit 实现Upbit REST API客户端
package upbit

import (
	"context"
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

// API 路径常量
const (
	apiURL = "https://api.upbit.com"

	accountsPath     = "/v1/accounts"
	depositsPath     = "/v1/deposits"
	depositPath      = "/v1/deposit"
	withdrawsPath    = "/v1/withdraws"
	withdrawPath     = "/v1/withdraw"
	orderPath        = "/v1/order"
	openOrdersPath   = "/v1/orders/open"
	closedOrdersPath = "/v1/orders/closed"
	krwWithdrawPath  = "/v1/withdraws/krw"
)

// RestClient Upbit REST API客户端
type RestClient struct {
	baseURL    string
	httpClient httpclient.Client
	store      credentials.Store
	decryptor  credentials.Decryptor
	logger     *zap.Logger
}

// NewRestClient 创建Upbit REST API客户端
func NewRestClient(baseURL string, timeout time.Duration, store credentials.Store,
	decryptor credentials.Decryptor, logger *zap.Logger) (*RestClient, error) {

	if baseURL == "" {
		baseURL = apiURL
	}

	config := httpclient.DefaultConfig("upbit")
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
	}, nil
}

// Close 关闭客户端
func (c *RestClient) Close() error {
	return c.httpClient.Close()
}

// authorize 解析用户凭证并构造请求认证头
func (c *RestClient) authorize(userID, rawQuery string) (string, error) {
	key, err := c.store.LookupAPIKey(userID, "upbit")
	if err != nil {
		return "", err
	}
	secret, err := c.decryptor.Decrypt(key.EncryptedSecret)
	if err != nil {
		return "", err
	}
	return buildAuthToken(key.PublicKey, secret, rawQuery)
}

// signAndGet 构造认证头并发送GET请求
func (c *RestClient) signAndGet(ctx context.Context, userID, path string,
	query url.Values, result interface{}) error {

	rawQuery := query.Encode()
	token, err := c.authorize(userID, rawQuery)
	if err != nil {
		return err
	}

	fullURL := c.baseURL + path
	if rawQuery != "" {
		fullURL += "?" + rawQuery
	}
	req := &httpclient.Request{
		Method:  http.MethodGet,
		URL:     fullURL,
		Headers: map[string]string{"Authorization": token},
		Result:  result,
	}
	if _, err := c.httpClient.DoRequest(ctx, req); err != nil {
		c.logUpstreamError(path, err)
		return err
	}
	return nil
}

// signAndPost 构造认证头并发送POST请求（参数同样参与签名摘要）
func (c *RestClient) signAndPost(ctx context.Context, userID, path string,
	params url.Values, result interface{}) error {

	rawQuery := params.Encode()
	token, err := c.authorize(userID, rawQuery)
	if err != nil {
		return err
	}

	body := make(map[string]string, len(params))
	for k := range params {
		body[k] = params.Get(k)
	}
	req := &httpclient.Request{
		Method:  http.MethodPost,
		URL:     c.baseURL + path,
		Headers: map[string]string{"Authorization": token},
		Body:    body,
		Result:  result,
	}
	if _, err := c.httpClient.DoRequest(ctx, req); err != nil {
		c.logUpstreamError(path, err)
		return err
	}
	return nil
}

// logUpstreamError 尽力提取上游错误载荷中的错误名与消息写入日志
func (c *RestClient) logUpstreamError(path string, err error) {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) || len(httpErr.Body) == 0 {
		return
	}

	name, _ := jsonparser.GetString(httpErr.Body, "error", "name")
	message, _ := jsonparser.GetString(httpErr.Body, "error", "message")
	c.logger.Warn("upbit API error",
		zap.String("path", path),
		zap.Int("status", httpErr.StatusCode),
		zap.String("error_name", name),
		zap.String("error_message", message))
}

// getAccounts 获取全部账户余额（单次调用返回所有币种）
func (c *RestClient) getAccounts(ctx context.Context, userID string) ([]accountData, error) {
	var resp []accountData
	if err := c.signAndGet(ctx, userID, accountsPath, url.Values{}, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// getTransfers 获取指定币种的充值或提现历史
func (c *RestClient) getTransfers(ctx context.Context, userID, listPath, currency string) ([]transferData, error) {
	query := url.Values{}
	query.Set("currency", currency)
	query.Set("limit", "100")
	query.Set("order_by", "desc")

	var resp []transferData
	if err := c.signAndGet(ctx, userID, listPath, query, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// getTransferDetail 获取单条充值或提现明细
func (c *RestClient) getTransferDetail(ctx context.Context, userID, detailPath, id, currency string) (*transferData, error) {
	query := url.Values{}
	query.Set("uuid", id)
	if currency != "" {
		query.Set("currency", currency)
	}

	var resp transferData
	if err := c.signAndGet(ctx, userID, detailPath, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// getOpenOrders 获取指定市场的挂单（上游单页返回全部挂单，无需窗口化）
func (c *RestClient) getOpenOrders(ctx context.Context, userID, market string) ([]orderData, error) {
	query := url.Values{}
	query.Set("market", market)
	query.Set("state", "wait")

	var resp []orderData
	if err := c.signAndGet(ctx, userID, openOrdersPath, query, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// getClosedOrders 获取指定市场与状态的终结订单，查询窗口为[start, end]。
// 时间戳统一使用epoch毫秒，避免客户端与服务端的编码差异悄悄截断结果。
func (c *RestClient) getClosedOrders(ctx context.Context, userID, market, state string,
	start, end time.Time) ([]orderData, error) {

	query := url.Values{}
	query.Set("market", market)
	query.Set("state", state)
	query.Set("start_time", strconv.FormatInt(start.UnixMilli(), 10))
	query.Set("end_time", strconv.FormatInt(end.UnixMilli(), 10))
	query.Set("limit", "100")
	query.Set("order_by", "desc")

	var resp []orderData
	if err := c.signAndGet(ctx, userID, closedOrdersPath, query, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// getOrderDetail 获取订单明细（含成交记录）
func (c *RestClient) getOrderDetail(ctx context.Context, userID, id string) (*orderDetailData, error) {
	query := url.Values{}
	query.Set("uuid", id)

	var resp orderDetailData
	if err := c.signAndGet(ctx, userID, orderPath, query, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// withdrawKRW 发起法币提现
func (c *RestClient) withdrawKRW(ctx context.Context, userID, amount, mfaMethod string) (*withdrawReceiptData, error) {
	params := url.Values{}
	params.Set("amount", amount)
	params.Set("two_factor_type", mfaMethod)

	var resp withdrawReceiptData
	if err := c.signAndPost(ctx, userID, krwWithdrawPath, params, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
