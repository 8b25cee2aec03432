// Package upbit 实现Upbit响应到规范化记录的转换
package upbit

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// 上游的时间字符串存在两种形态：带时区偏移与不带时区的本地时间。
// 两种都必须接受，否则周期过滤会悄悄丢数据。
var timeLayouts = []string{
	"2006-01-02T15:04:05-07:00",
	"2006-01-02T15:04:05",
}

// parseUpstreamTime 解析上游ISO-8601时间字符串
func parseUpstreamTime(s string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unrecognized time format %q", s)
}

// mustDecimal 解析金额字符串，空串按零处理
func mustDecimal(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "failed to parse decimal %q", s)
	}
	return d, nil
}

// toTransactionRecord 转换单条充值/提现记录
func toTransactionRecord(kind types.TxKind, d transferData) (types.TransactionRecord, error) {
	amount, err := mustDecimal(d.Amount)
	if err != nil {
		return types.TransactionRecord{}, err
	}
	fee, err := mustDecimal(d.Fee)
	if err != nil {
		return types.TransactionRecord{}, err
	}
	createdAt, err := parseUpstreamTime(d.CreatedAt)
	if err != nil {
		return types.TransactionRecord{}, err
	}

	var doneAt *time.Time
	if d.DoneAt != "" {
		t, err := parseUpstreamTime(d.DoneAt)
		if err != nil {
			return types.TransactionRecord{}, err
		}
		doneAt = &t
	}

	transferType := d.TransactionType
	if transferType == "" {
		transferType = types.TransferTypeDefault
	}

	return types.TransactionRecord{
		Kind:         kind,
		ID:           d.UUID,
		Currency:     strings.ToUpper(d.Currency),
		State:        strings.ToUpper(d.State),
		Amount:       amount,
		Fee:          fee,
		ExternalTxID: d.TxID,
		CreatedAt:    createdAt,
		CompletedAt:  doneAt,
		TransferType: transferType,
	}, nil
}

// toTransactionRecords 转换充值/提现记录列表
func toTransactionRecords(kind types.TxKind, data []transferData) ([]types.TransactionRecord, error) {
	records := make([]types.TransactionRecord, 0, len(data))
	for _, d := range data {
		record, err := toTransactionRecord(kind, d)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// toOrderRecord 转换单条订单记录
func toOrderRecord(d orderData) (types.OrderRecord, error) {
	orderedVolume, err := mustDecimal(d.Volume)
	if err != nil {
		return types.OrderRecord{}, err
	}
	executedVolume, err := mustDecimal(d.ExecutedVolume)
	if err != nil {
		return types.OrderRecord{}, err
	}
	createdAt, err := parseUpstreamTime(d.CreatedAt)
	if err != nil {
		return types.OrderRecord{}, err
	}

	return types.OrderRecord{
		ID:             d.UUID,
		Market:         d.Market,
		Side:           types.OrderSide(d.Side),
		State:          types.OrderState(d.State),
		CreatedAt:      createdAt,
		OrderedVolume:  orderedVolume,
		ExecutedVolume: executedVolume,
	}, nil
}

// toOrderRecords 转换订单记录列表
func toOrderRecords(data []orderData) ([]types.OrderRecord, error) {
	records := make([]types.OrderRecord, 0, len(data))
	for _, d := range data {
		record, err := toOrderRecord(d)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

// toOrderDetail 转换订单明细（含成交记录）
func toOrderDetail(d orderDetailData) (*types.OrderDetail, error) {
	order, err := toOrderRecord(d.orderData)
	if err != nil {
		return nil, err
	}

	trades := make([]types.TradeRecord, 0, len(d.Trades))
	for _, t := range d.Trades {
		price, err := mustDecimal(t.Price)
		if err != nil {
			return nil, err
		}
		volume, err := mustDecimal(t.Volume)
		if err != nil {
			return nil, err
		}
		funds, err := mustDecimal(t.Funds)
		if err != nil {
			return nil, err
		}
		createdAt, err := parseUpstreamTime(t.CreatedAt)
		if err != nil {
			return nil, err
		}
		trades = append(trades, types.TradeRecord{
			Market:    t.Market,
			ID:        t.UUID,
			Price:     price,
			Volume:    volume,
			Funds:     funds,
			Side:      types.OrderSide(t.Side),
			CreatedAt: createdAt,
		})
	}

	return &types.OrderDetail{Order: order, Trades: trades}, nil
}

// toBalanceSnapshot 转换单条账户余额
func toBalanceSnapshot(d accountData) (types.BalanceSnapshot, error) {
	available, err := mustDecimal(d.Balance)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	locked, err := mustDecimal(d.Locked)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	return types.BalanceSnapshot{
		Currency:  strings.ToUpper(d.Currency),
		Available: available,
		Locked:    locked,
	}, nil
}
