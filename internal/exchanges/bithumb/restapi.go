// Package bithumb 实现Bithumb API 2.0客户端
package bithumb

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buger/jsonparser"
	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	pkgerrors "github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/httpclient"
)

const apiURL = "https://api.bithumb.com"

// RestClient Bithumb API 2.0客户端。接口形态与Upbit兼容，认证方式相同。
type RestClient struct {
	baseURL    string
	httpClient httpclient.Client
	store      credentials.Store
	decryptor  credentials.Decryptor
	logger     *zap.Logger
}

// NewRestClient 创建Bithumb API客户端
func NewRestClient(baseURL string, timeout time.Duration, store credentials.Store,
	decryptor credentials.Decryptor, logger *zap.Logger) (*RestClient, error) {

	if baseURL == "" {
		baseURL = apiURL
	}

	config := httpclient.DefaultConfig("bithumb")
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

// signToken 生成请求JWT：access_key + nonce，带参数时附加查询串SHA-512摘要
func signToken(accessKey, secretKey, rawQuery string) (string, error) {
	nonce, err := uuid.NewV4()
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to generate auth nonce")
	}

	claims := jwt.MapClaims{
		"access_key": accessKey,
		"nonce":      nonce.String(),
		"timestamp":  time.Now().UnixMilli(),
	}
	if rawQuery != "" {
		sum := sha512.Sum512([]byte(rawQuery))
		claims["query_hash"] = hex.EncodeToString(sum[:])
		claims["query_hash_alg"] = "SHA512"
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", pkgerrors.Wrap(err, "failed to sign auth token")
	}
	return "Bearer " + token, nil
}

// call 构造认证头并发送请求。GET参数拼接在URL，POST参数同时进入请求体。
func (c *RestClient) call(ctx context.Context, userID, method, path string,
	params url.Values, result interface{}) error {

	key, err := c.store.LookupAPIKey(userID, "bithumb")
	if err != nil {
		return err
	}
	secret, err := c.decryptor.Decrypt(key.EncryptedSecret)
	if err != nil {
		return err
	}

	rawQuery := params.Encode()
	token, err := signToken(key.PublicKey, secret, rawQuery)
	if err != nil {
		return err
	}

	req := &httpclient.Request{
		Method:  method,
		URL:     c.baseURL + path,
		Headers: map[string]string{"Authorization": token},
		Result:  result,
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

// logUpstreamError 尽力提取上游错误载荷写入日志
func (c *RestClient) logUpstreamError(path string, err error) {
	var httpErr *httpclient.HTTPError
	if !errors.As(err, &httpErr) || len(httpErr.Body) == 0 {
		return
	}

	name, _ := jsonparser.GetString(httpErr.Body, "error", "name")
	message, _ := jsonparser.GetString(httpErr.Body, "error", "message")
	c.logger.Warn("bithumb API error",
		zap.String("path", path),
		zap.Int("status", httpErr.StatusCode),
		zap.String("error_name", name),
		zap.String("error_message", message))
}

// getBalances 获取全部账户余额（单次调用）
func (c *RestClient) getBalances(ctx context.Context, userID string) ([]balanceData, error) {
	var result []balanceData
	if err := c.call(ctx, userID, http.MethodGet, "/v1/accounts", nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getTransfers 按币种获取充值/提现历史
func (c *RestClient) getTransfers(ctx context.Context, userID, path, currency string) ([]transferData, error) {
	query := url.Values{}
	query.Set("currency", currency)
	query.Set("limit", "100")
	query.Set("order_by", "desc")

	var result []transferData
	if err := c.call(ctx, userID, http.MethodGet, path, query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getTransferDetail 获取单条充值/提现明细
func (c *RestClient) getTransferDetail(ctx context.Context, userID, path, id, currency string) (*transferData, error) {
	query := url.Values{}
	query.Set("uuid", id)
	query.Set("currency", currency)

	var result transferData
	if err := c.call(ctx, userID, http.MethodGet, path, query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// getOrders 按市场与状态获取订单列表。Bithumb单次调用即可返回
// 全部终结订单，不受时间窗口约束。
func (c *RestClient) getOrders(ctx context.Context, userID, market, state string, limit int) ([]orderData, error) {
	query := url.Values{}
	query.Set("market", market)
	query.Set("state", state)
	query.Set("order_by", "desc")
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}

	var result []orderData
	if err := c.call(ctx, userID, http.MethodGet, "/v1/orders", query, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// getOrderDetail 获取订单明细（含成交记录）
func (c *RestClient) getOrderDetail(ctx context.Context, userID, id string) (*orderDetailData, error) {
	query := url.Values{}
	query.Set("uuid", id)

	var result orderDetailData
	if err := c.call(ctx, userID, http.MethodGet, "/v1/order", query, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// withdrawKRW 发起KRW提现
func (c *RestClient) withdrawKRW(ctx context.Context, userID, amount, mfaMethod string) (*transferData, error) {
	params := url.Values{}
	params.Set("amount", amount)
	params.Set("two_factor_type", mfaMethod)

	var result transferData
	if err := c.call(ctx, userID, http.MethodPost, "/v1/withdraws/krw", params, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
