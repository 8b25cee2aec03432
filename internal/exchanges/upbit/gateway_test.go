// Package upbit 网关集成测试（基于httptest模拟上游）
package upbit

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

func testStore() *credentials.MemoryStore {
	store := credentials.NewMemoryStore()
	store.Register("user-1", "upbit", &credentials.APIKey{
		PublicKey:       "access-key",
		EncryptedSecret: base64.StdEncoding.EncodeToString([]byte("secret-key")),
	})
	return store
}

func testWalletConfig() types.WalletConfig {
	return types.WalletConfig{
		TrackedCurrencies: []string{"BTC", "USDT"},
		TrackedMarkets:    []string{"KRW-BTC", "KRW-USDT"},
		FiatCurrency:      "KRW",
		MaxLimit:          100,
	}
}

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)

	gw, err := New(types.ExchangeConfig{
		Enabled: true,
		APIURL:  server.URL,
		Timeout: 5 * time.Second,
	}, testWalletConfig(), testStore(), credentials.Base64Decryptor{}, zap.NewNop())
	require.NoError(t, err)

	t.Cleanup(func() {
		gw.Close()
		server.Close()
	})
	return gw, server
}

// TestGetBalancesZeroDefault 测试上游缺失的跟踪币种补零
func TestGetBalancesZeroDefault(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, accountsPath, r.URL.Path)
		// 认证头必须是Bearer JWT
		assert.True(t, strings.HasPrefix(r.Header.Get("Authorization"), "Bearer "))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"currency":"BTC","balance":"1.5","locked":"0.5"},
			{"currency":"XRP","balance":"9999","locked":"0"}
		]`))
	}))

	balances, err := gw.GetBalances(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, balances, 2)

	assert.Equal(t, "2", balances["BTC"].Total().String())
	// USDT上游未返回，补零而不是缺失；XRP不在白名单内被忽略
	assert.True(t, balances["USDT"].Total().IsZero())
}

// TestGetDepositsPerCurrency 测试充值历史按跟踪币种逐一查询
func TestGetDepositsPerCurrency(t *testing.T) {
	var queried []string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, depositsPath, r.URL.Path)
		currency := r.URL.Query().Get("currency")
		queried = append(queried, currency)

		w.Header().Set("Content-Type", "application/json")
		if currency == "BTC" {
			w.Write([]byte(`[{
				"type":"deposit","uuid":"dep-1","currency":"BTC","state":"ACCEPTED",
				"created_at":"2026-08-20T09:30:00+09:00","amount":"0.5","fee":"0"
			}]`))
			return
		}
		w.Write([]byte(`[]`))
	}))

	records, err := gw.GetDeposits(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, []string{"BTC", "USDT"}, queried)
	assert.Equal(t, types.TxKindDeposit, records[0].Kind)
	assert.Equal(t, "dep-1", records[0].ID)
}

// TestGetDepositsRateLimited 测试429整体失败并翻译为限流错误
func TestGetDepositsRateLimited(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"name":"too_many_requests","message":"slow down"}}`))
	}))

	records, err := gw.GetDeposits(context.Background(), "user-1")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRateLimitExceeded, apperrors.CodeOf(err))
	assert.Nil(t, records)
}

// TestCredentialsNotFound 测试未注册凭证的用户直接失败，不发起上游调用
func TestCredentialsNotFound(t *testing.T) {
	calls := 0
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	_, err := gw.GetBalances(context.Background(), "stranger")
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeCredentialsNotFound, apperrors.CodeOf(err))
	assert.Equal(t, 0, calls)
}

// TestGetOrdersClosedWindowed 测试终结订单经时间窗口调度器回溯，
// 时间戳以epoch毫秒下发
func TestGetOrdersClosedWindowed(t *testing.T) {
	calls := 0
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, closedOrdersPath, r.URL.Path)
		calls++

		query := r.URL.Query()
		assert.Equal(t, "done", query.Get("state"))

		startMs, err := strconv.ParseInt(query.Get("start_time"), 10, 64)
		require.NoError(t, err)
		endMs, err := strconv.ParseInt(query.Get("end_time"), 10, 64)
		require.NoError(t, err)

		// 单窗口跨度不超过7天
		assert.LessOrEqual(t, endMs-startMs, (7 * 24 * time.Hour).Milliseconds())

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))

	_, err := gw.GetOrders(context.Background(), "user-1",
		types.OrderStateDone, types.PeriodSixMonths, types.SortOrderDesc, 0)
	require.NoError(t, err)

	// 6个月×2市场会触达28次调用预算
	assert.Equal(t, 28, calls)
}

// TestGetOrdersOpenSingleCall 测试挂单逐市场单次查询，不走窗口调度
func TestGetOrdersOpenSingleCall(t *testing.T) {
	var paths []string
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		assert.Equal(t, "wait", r.URL.Query().Get("state"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{
			"uuid":"ord-1","side":"bid","state":"wait","market":"` + r.URL.Query().Get("market") + `",
			"created_at":"2026-08-20T09:30:00+09:00","volume":"10","executed_volume":"0"
		}]`))
	}))

	orders, err := gw.GetOrders(context.Background(), "user-1",
		types.OrderStateWait, types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)
	assert.Equal(t, []string{openOrdersPath, openOrdersPath}, paths)
}

// TestGetFiatBalance 测试法币余额从账户列表中提取
func TestGetFiatBalance(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"currency":"KRW","balance":"150000","locked":"50000"},
			{"currency":"BTC","balance":"1","locked":"0"}
		]`))
	}))

	balance, err := gw.GetFiatBalance(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "KRW", balance.Currency)
	assert.Equal(t, "200000", balance.Total().String())
}

// TestWithdrawFiatSendsMFA 测试法币提现携带二次验证方式
func TestWithdrawFiatSendsMFA(t *testing.T) {
	gw, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, krwWithdrawPath, r.URL.Path)
		require.Equal(t, http.MethodPost, r.Method)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "10000", body["amount"])
		assert.Equal(t, "kakao", body["two_factor_type"])

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"uuid":"krw-1","currency":"KRW","amount":"10000","state":"WAITING",
			"created_at":"2026-08-20T09:30:00+09:00"
		}`))
	}))

	receipt, err := gw.WithdrawFiat(context.Background(), "user-1",
		decimal.RequireFromString("10000"), "kakao")
	require.NoError(t, err)
	assert.Equal(t, "krw-1", receipt.ID)
	assert.Equal(t, "WAITING", receipt.State)
}
