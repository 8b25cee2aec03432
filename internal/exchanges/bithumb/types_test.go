// Package bithumb 响应转换测试
package bithumb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// TestTransferToRecord 测试充提记录规范化
func TestTransferToRecord(t *testing.T) {
	record, err := transferData{
		UUID:            "wd-1",
		Currency:        "usdt",
		State:           "done",
		CreatedAt:       "2026-08-20T09:30:00",
		DoneAt:          "2026-08-20T09:40:00",
		Amount:          "50.5",
		Fee:             "0.5",
		TxID:            "0xdef",
		TransactionType: "internal",
	}.toRecord(types.TxKindWithdraw)
	require.NoError(t, err)

	assert.Equal(t, types.TxKindWithdraw, record.Kind)
	assert.Equal(t, "USDT", record.Currency)
	assert.Equal(t, types.WithdrawStateDone, record.State)
	assert.Equal(t, types.TransferTypeInternal, record.TransferType)
	require.NotNil(t, record.CompletedAt)
	assert.True(t, record.IsBalanceAffecting())
}

// TestTransferToRecordDefaults 测试空字段的缺省处理
func TestTransferToRecordDefaults(t *testing.T) {
	record, err := transferData{
		UUID:      "dep-1",
		Currency:  "BTC",
		State:     "PROCESSING",
		CreatedAt: "2026-08-20T09:30:00",
		Amount:    "1",
	}.toRecord(types.TxKindDeposit)
	require.NoError(t, err)

	assert.True(t, record.Fee.IsZero())
	assert.Nil(t, record.CompletedAt)
	assert.Equal(t, types.TransferTypeDefault, record.TransferType)
	assert.False(t, record.IsBalanceAffecting())
}

// TestOrderToOrder 测试订单记录规范化
func TestOrderToOrder(t *testing.T) {
	order, err := orderData{
		UUID:           "ord-1",
		Side:           "ask",
		Market:         "KRW-BTC",
		State:          "cancel",
		CreatedAt:      "2026-08-20T09:30:00",
		Volume:         "0.3",
		ExecutedVolume: "0.1",
	}.toOrder()
	require.NoError(t, err)

	assert.Equal(t, types.OrderSideAsk, order.Side)
	assert.Equal(t, types.OrderStateCancel, order.State)
	assert.Equal(t, "0.1", order.ExecutedVolume.String())
}

// TestDetailTradesCarryMarket 测试成交列表继承订单的市场代码
func TestDetailTradesCarryMarket(t *testing.T) {
	detail, err := orderDetailData{
		orderData: orderData{
			UUID:      "ord-1",
			Side:      "bid",
			Market:    "KRW-USDT",
			State:     "done",
			CreatedAt: "2026-08-20T09:30:00",
			Volume:    "100",
		},
		Trades: []tradeData{
			{UUID: "tr-1", Price: "1400", Volume: "100", Funds: "140000",
				Side: "bid", CreatedAt: "2026-08-20T09:30:01"},
		},
	}.toDetail()
	require.NoError(t, err)
	require.Len(t, detail.Trades, 1)
	assert.Equal(t, "KRW-USDT", detail.Trades[0].Market)
}

// TestBalanceToSnapshot 测试余额快照转换
func TestBalanceToSnapshot(t *testing.T) {
	snapshot, err := balanceData{Currency: "krw", Balance: "90000", Locked: "10000"}.toSnapshot()
	require.NoError(t, err)
	assert.Equal(t, "KRW", snapshot.Currency)
	assert.Equal(t, "100000", snapshot.Total().String())
}
