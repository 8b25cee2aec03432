// Package wallet 钱包聚合服务测试
package wallet

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// fakeGateway 测试用网关，按预置数据应答
type fakeGateway struct {
	name      types.Exchange
	balances  map[string]types.BalanceSnapshot
	deposits  []types.TransactionRecord
	withdraws []types.TransactionRecord
	orders    []types.OrderRecord

	depositsErr error
	ordersErr   error

	balanceCalls int
}

func (g *fakeGateway) Name() types.Exchange { return g.name }
func (g *fakeGateway) Close() error         { return nil }

func (g *fakeGateway) GetBalances(ctx context.Context, userID string) (map[string]types.BalanceSnapshot, error) {
	g.balanceCalls++
	return g.balances, nil
}

func (g *fakeGateway) GetDeposits(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	if g.depositsErr != nil {
		return nil, g.depositsErr
	}
	return g.deposits, nil
}

func (g *fakeGateway) GetWithdraws(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	return g.withdraws, nil
}

func (g *fakeGateway) GetOrders(ctx context.Context, userID string, state types.OrderState,
	period types.Period, order types.SortOrder, limit int) ([]types.OrderRecord, error) {
	if g.ordersErr != nil {
		return nil, g.ordersErr
	}
	return g.orders, nil
}

func (g *fakeGateway) GetDepositDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	for i := range g.deposits {
		if g.deposits[i].ID == id {
			return &g.deposits[i], nil
		}
	}
	return nil, apperrors.ExchangeAPIError(nil)
}

func (g *fakeGateway) GetWithdrawDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	for i := range g.withdraws {
		if g.withdraws[i].ID == id {
			return &g.withdraws[i], nil
		}
	}
	return nil, apperrors.ExchangeAPIError(nil)
}

func (g *fakeGateway) GetOrderDetail(ctx context.Context, userID, id string) (*types.OrderDetail, error) {
	for _, o := range g.orders {
		if o.ID == id {
			return &types.OrderDetail{Order: o}, nil
		}
	}
	return nil, apperrors.ExchangeAPIError(nil)
}

func (g *fakeGateway) GetFiatBalance(ctx context.Context, userID string) (types.BalanceSnapshot, error) {
	return types.ZeroBalance("KRW"), nil
}

func (g *fakeGateway) WithdrawFiat(ctx context.Context, userID string, amount decimal.Decimal,
	mfaMethod string) (*types.WithdrawReceipt, error) {
	return &types.WithdrawReceipt{ID: "r1", Currency: "KRW", Amount: amount, State: "WAITING"}, nil
}

func newTestService(gw *fakeGateway) *Service {
	return NewService(map[types.Exchange]types.Gateway{gw.name: gw}, zap.NewNop())
}

func depositAt(id string, amount string, createdAt time.Time) types.TransactionRecord {
	return types.TransactionRecord{
		Kind:      types.TxKindDeposit,
		ID:        id,
		Currency:  "BTC",
		State:     types.DepositStateAccepted,
		Amount:    decimal.RequireFromString(amount),
		CreatedAt: createdAt,
	}
}

// TestListRemittanceTransactions 测试充提历史查询的完整链路
func TestListRemittanceTransactions(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{
		name: types.ExchangeUpbit,
		balances: map[string]types.BalanceSnapshot{
			"BTC": {Currency: "BTC", Available: decimal.RequireFromString("3"), Locked: decimal.Zero},
		},
		deposits: []types.TransactionRecord{
			depositAt("d1", "1", now.Add(-time.Hour)),
			depositAt("d2", "2", now.Add(-2*time.Hour)),
		},
		withdraws: []types.TransactionRecord{
			{
				Kind: types.TxKindWithdraw, ID: "w1", Currency: "BTC",
				State: types.WithdrawStateDone, Amount: decimal.RequireFromString("0.5"),
				CreatedAt: now.Add(-30 * time.Minute),
			},
		},
	}
	svc := newTestService(gw)

	records, err := svc.ListRemittanceTransactions(context.Background(), "user-1",
		types.ExchangeUpbit, types.TxTypeFilterAll, types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.NoError(t, err)
	require.Len(t, records, 3)

	// 降序：w1、d1、d2，每条都带重建出的余额
	assert.Equal(t, "w1", records[0].ID)
	require.NotNil(t, records[0].BalanceAfter)
	assert.Equal(t, "3", records[0].BalanceAfter.String())
	assert.Equal(t, "3.5", records[1].BalanceAfter.String())
	assert.Equal(t, "2.5", records[2].BalanceAfter.String())
}

// TestListRemittanceTypeFilterAfterReconstruction 测试过滤不影响余额重建结果
func TestListRemittanceTypeFilterAfterReconstruction(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{
		name: types.ExchangeUpbit,
		balances: map[string]types.BalanceSnapshot{
			"BTC": {Currency: "BTC", Available: decimal.RequireFromString("3"), Locked: decimal.Zero},
		},
		deposits: []types.TransactionRecord{
			depositAt("d1", "1", now.Add(-time.Hour)),
		},
		withdraws: []types.TransactionRecord{
			{
				Kind: types.TxKindWithdraw, ID: "w1", Currency: "BTC",
				State: types.WithdrawStateDone, Amount: decimal.RequireFromString("0.5"),
				CreatedAt: now.Add(-30 * time.Minute),
			},
		},
	}
	svc := newTestService(gw)

	records, err := svc.ListRemittanceTransactions(context.Background(), "user-1",
		types.ExchangeUpbit, types.TxTypeFilterDeposit, types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.NoError(t, err)
	require.Len(t, records, 1)

	// d1的余额重建吃的是全量历史：3（当前）+0.5（冲销w1）=3.5
	assert.Equal(t, "d1", records[0].ID)
	assert.Equal(t, "3.5", records[0].BalanceAfter.String())
}

// TestListRemittanceAbortsOnFailure 测试任一上游失败整体失败，不返回部分结果
func TestListRemittanceAbortsOnFailure(t *testing.T) {
	gw := &fakeGateway{
		name: types.ExchangeUpbit,
		balances: map[string]types.BalanceSnapshot{
			"BTC": types.ZeroBalance("BTC"),
		},
		depositsErr: apperrors.RateLimitExceeded(nil),
	}
	svc := newTestService(gw)

	records, err := svc.ListRemittanceTransactions(context.Background(), "user-1",
		types.ExchangeUpbit, types.TxTypeFilterAll, types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRateLimitExceeded, apperrors.CodeOf(err))
	assert.Nil(t, records)
}

// TestListRemittanceUnknownExchange 测试未注册网关的交易所返回参数错误
func TestListRemittanceUnknownExchange(t *testing.T) {
	svc := NewService(map[types.Exchange]types.Gateway{}, zap.NewNop())

	_, err := svc.ListRemittanceTransactions(context.Background(), "user-1",
		types.ExchangeKorbit, types.TxTypeFilterAll, types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeInvalidQueryParameter, apperrors.CodeOf(err))
}

// TestListTopupTransactions 测试法币兑换订单查询
func TestListTopupTransactions(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{
		name: types.ExchangeUpbit,
		orders: []types.OrderRecord{
			{ID: "o1", Market: "KRW-BTC", Side: types.OrderSideBid, State: types.OrderStateDone, CreatedAt: now.Add(-time.Hour)},
			{ID: "o2", Market: "KRW-USDT", Side: types.OrderSideAsk, State: types.OrderStateDone, CreatedAt: now.Add(-2 * time.Hour)},
		},
	}
	svc := newTestService(gw)

	orders, err := svc.ListTopupTransactions(context.Background(), "user-1",
		types.ExchangeUpbit, types.TopupFilterCharge, types.OrderStateDone,
		types.PeriodOneMonth, types.SortOrderDesc, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "o1", orders[0].ID)
}

// TestGetTransactionDetail 测试明细查询与必填参数校验
func TestGetTransactionDetail(t *testing.T) {
	now := time.Now()
	gw := &fakeGateway{
		name:     types.ExchangeUpbit,
		deposits: []types.TransactionRecord{depositAt("d1", "1", now)},
		orders: []types.OrderRecord{
			{ID: "o1", Market: "KRW-BTC", Side: types.OrderSideBid, State: types.OrderStateDone, CreatedAt: now},
		},
	}
	svc := newTestService(gw)
	ctx := context.Background()

	detail, err := svc.GetTransactionDetail(ctx, "user-1", types.ExchangeUpbit,
		types.DetailCategoryRemittance, types.TxTypeFilterDeposit, "d1", "BTC")
	require.NoError(t, err)
	require.NotNil(t, detail.Remittance)
	assert.Equal(t, "d1", detail.Remittance.ID)

	detail, err = svc.GetTransactionDetail(ctx, "user-1", types.ExchangeUpbit,
		types.DetailCategoryTopup, "", "o1", "")
	require.NoError(t, err)
	require.NotNil(t, detail.Topup)
	assert.Equal(t, "o1", detail.Topup.Order.ID)

	// remittance类别缺少方向或币种是参数错误
	_, err = svc.GetTransactionDetail(ctx, "user-1", types.ExchangeUpbit,
		types.DetailCategoryRemittance, types.TxTypeFilterAll, "d1", "BTC")
	assert.Equal(t, apperrors.CodeInvalidQueryParameter, apperrors.CodeOf(err))

	_, err = svc.GetTransactionDetail(ctx, "user-1", types.ExchangeUpbit,
		types.DetailCategoryRemittance, types.TxTypeFilterDeposit, "d1", "")
	assert.Equal(t, apperrors.CodeInvalidQueryParameter, apperrors.CodeOf(err))

	_, err = svc.GetTransactionDetail(ctx, "user-1", types.ExchangeUpbit,
		types.DetailCategoryRemittance, types.TxTypeFilterDeposit, "", "BTC")
	assert.Equal(t, apperrors.CodeInvalidQueryParameter, apperrors.CodeOf(err))
}

// TestWithdrawFiat 测试法币提现的金额校验
func TestWithdrawFiat(t *testing.T) {
	gw := &fakeGateway{name: types.ExchangeUpbit}
	svc := newTestService(gw)
	ctx := context.Background()

	receipt, err := svc.WithdrawFiat(ctx, "user-1", types.ExchangeUpbit,
		decimal.RequireFromString("10000"), "kakao")
	require.NoError(t, err)
	assert.Equal(t, "r1", receipt.ID)

	_, err = svc.WithdrawFiat(ctx, "user-1", types.ExchangeUpbit, decimal.Zero, "kakao")
	assert.Equal(t, apperrors.CodeInvalidQueryParameter, apperrors.CodeOf(err))
}
