// Package bithumb 定义Bithumb API 2.0的数据类型及规范化转换
package bithumb

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// Bithumb API 2.0返回本地时区的无偏移时间戳
const timeLayout = "2006-01-02T15:04:05"

// balanceData 账户余额条目
type balanceData struct {
	Currency string `json:"currency"` // 币种代码
	Balance  string `json:"balance"`  // 可用余额
	Locked   string `json:"locked"`   // 冻结余额
}

// transferData 充值/提现条目
type transferData struct {
	UUID            string `json:"uuid"`             // 记录ID
	Currency        string `json:"currency"`         // 币种代码
	NetType         string `json:"net_type"`         // 网络类型
	TxID            string `json:"txid"`             // 链上交易ID
	State           string `json:"state"`            // 处理状态
	CreatedAt       string `json:"created_at"`       // 创建时间
	DoneAt          string `json:"done_at"`          // 完成时间
	Amount          string `json:"amount"`           // 金额
	Fee             string `json:"fee"`              // 手续费
	TransactionType string `json:"transaction_type"` // default/internal
}

// orderData 订单条目
type orderData struct {
	UUID            string `json:"uuid"`             // 订单ID
	Side            string `json:"side"`             // bid/ask
	Market          string `json:"market"`           // 市场代码
	State           string `json:"state"`            // wait/done/cancel
	CreatedAt       string `json:"created_at"`       // 下单时间
	Volume          string `json:"volume"`           // 委托量
	ExecutedVolume  string `json:"executed_volume"`  // 成交量
	RemainingVolume string `json:"remaining_volume"` // 剩余量
}

// tradeData 订单成交条目
type tradeData struct {
	UUID      string `json:"uuid"`       // 成交ID
	Price     string `json:"price"`      // 成交价
	Volume    string `json:"volume"`     // 成交量
	Funds     string `json:"funds"`      // 成交额
	Side      string `json:"side"`       // bid/ask
	CreatedAt string `json:"created_at"` // 成交时间
}

// orderDetailData 订单明细响应（含成交列表）
type orderDetailData struct {
	orderData
	Trades []tradeData `json:"trades"` // 成交列表
}

func parseTime(s string) (time.Time, error) {
	t, err := time.ParseInLocation(timeLayout, s, time.Local)
	if err != nil {
		return time.Time{}, errors.Wrapf(err, "failed to parse timestamp %q", s)
	}
	return t, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "failed to parse amount %q", s)
	}
	return d, nil
}

// toSnapshot 转换为规范化余额快照
func (d balanceData) toSnapshot() (types.BalanceSnapshot, error) {
	available, err := parseAmount(d.Balance)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	locked, err := parseAmount(d.Locked)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	return types.BalanceSnapshot{
		Currency:  strings.ToUpper(d.Currency),
		Available: available,
		Locked:    locked,
	}, nil
}

// toRecord 转换为规范化交易记录
func (d transferData) toRecord(kind types.TxKind) (types.TransactionRecord, error) {
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return types.TransactionRecord{}, err
	}
	var completedAt *time.Time
	if d.DoneAt != "" {
		t, err := parseTime(d.DoneAt)
		if err != nil {
			return types.TransactionRecord{}, err
		}
		completedAt = &t
	}
	amount, err := parseAmount(d.Amount)
	if err != nil {
		return types.TransactionRecord{}, err
	}
	fee, err := parseAmount(d.Fee)
	if err != nil {
		return types.TransactionRecord{}, err
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
		CompletedAt:  completedAt,
		TransferType: transferType,
	}, nil
}

// toOrder 转换为规范化订单记录
func (d orderData) toOrder() (types.OrderRecord, error) {
	createdAt, err := parseTime(d.CreatedAt)
	if err != nil {
		return types.OrderRecord{}, err
	}
	ordered, err := parseAmount(d.Volume)
	if err != nil {
		return types.OrderRecord{}, err
	}
	executed, err := parseAmount(d.ExecutedVolume)
	if err != nil {
		return types.OrderRecord{}, err
	}
	return types.OrderRecord{
		ID:             d.UUID,
		Market:         d.Market,
		Side:           types.OrderSide(d.Side),
		State:          types.OrderState(d.State),
		CreatedAt:      createdAt,
		OrderedVolume:  ordered,
		ExecutedVolume: executed,
	}, nil
}

// toDetail 转换为规范化订单明细
func (d orderDetailData) toDetail() (*types.OrderDetail, error) {
	order, err := d.toOrder()
	if err != nil {
		return nil, err
	}

	trades := make([]types.TradeRecord, 0, len(d.Trades))
	for _, raw := range d.Trades {
		createdAt, err := parseTime(raw.CreatedAt)
		if err != nil {
			return nil, err
		}
		price, err := parseAmount(raw.Price)
		if err != nil {
			return nil, err
		}
		volume, err := parseAmount(raw.Volume)
		if err != nil {
			return nil, err
		}
		funds, err := parseAmount(raw.Funds)
		if err != nil {
			return nil, err
		}
		trades = append(trades, types.TradeRecord{
			Market:    d.Market,
			ID:        raw.UUID,
			Price:     price,
			Volume:    volume,
			Funds:     funds,
			Side:      types.OrderSide(raw.Side),
			CreatedAt: createdAt,
		})
	}
	return &types.OrderDetail{Order: order, Trades: trades}, nil
}
