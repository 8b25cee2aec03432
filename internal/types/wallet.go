// Package types 定义钱包聚合服务的规范化数据类型
package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// 余额重建使用的完成状态（充值入账/提现出账）
const (
	DepositStateAccepted = "ACCEPTED" // 充值已入账
	WithdrawStateDone    = "DONE"     // 提现已出账
)

// TransferType 转账类型
const (
	TransferTypeDefault  = "default"  // 链上转账
	TransferTypeInternal = "internal" // 站内转账
)

// TransactionRecord 一条规范化的充值/提现记录
type TransactionRecord struct {
	Kind         TxKind           `json:"kind"`                    // 方向（DEPOSIT/WITHDRAW）
	ID           string           `json:"id"`                      // 交易所分配的唯一ID
	Currency     string           `json:"currency"`                // 币种
	State        string           `json:"state"`                   // 交易所状态字符串
	Amount       decimal.Decimal  `json:"amount"`                  // 金额（精确十进制）
	Fee          decimal.Decimal  `json:"fee"`                     // 手续费
	ExternalTxID string           `json:"external_tx_id"`          // 链上交易ID
	CreatedAt    time.Time        `json:"created_at"`              // 创建时间
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`  // 完成时间（可空）
	TransferType string           `json:"transfer_type"`           // 转账类型（default/internal）
	BalanceAfter *decimal.Decimal `json:"balance_after,omitempty"` // 交易后余额（仅展示用，每次请求重新计算）
}

// IsBalanceAffecting 判断记录是否处于影响余额的完成状态
func (r *TransactionRecord) IsBalanceAffecting() bool {
	switch r.Kind {
	case TxKindDeposit:
		return r.State == DepositStateAccepted
	case TxKindWithdraw:
		return r.State == WithdrawStateDone
	}
	return false
}

// TradeRecord 订单明细中附带的成交记录
type TradeRecord struct {
	Market    string          `json:"market"`     // 市场（如KRW-USDT）
	ID        string          `json:"id"`         // 成交ID
	Price     decimal.Decimal `json:"price"`      // 成交价格
	Volume    decimal.Decimal `json:"volume"`     // 成交数量
	Funds     decimal.Decimal `json:"funds"`      // 成交金额
	Side      OrderSide       `json:"side"`       // 方向
	CreatedAt time.Time       `json:"created_at"` // 成交时间
}

// OrderRecord 一条规范化的法币兑换订单记录
type OrderRecord struct {
	ID             string          `json:"id"`              // 订单ID
	Market         string          `json:"market"`          // 市场（如KRW-USDT）
	Side           OrderSide       `json:"side"`            // 方向（bid=充值, ask=兑现）
	State          OrderState      `json:"state"`           // 状态（done/wait/cancel）
	CreatedAt      time.Time       `json:"created_at"`      // 下单时间
	OrderedVolume  decimal.Decimal `json:"ordered_volume"`  // 委托数量
	ExecutedVolume decimal.Decimal `json:"executed_volume"` // 成交数量
}

// OrderDetail 订单明细（含成交记录）
type OrderDetail struct {
	Order  OrderRecord   `json:"order"`  // 订单
	Trades []TradeRecord `json:"trades"` // 成交列表
}

// BalanceSnapshot 单币种余额快照
type BalanceSnapshot struct {
	Currency  string          `json:"currency"`  // 币种
	Available decimal.Decimal `json:"available"` // 可用余额
	Locked    decimal.Decimal `json:"locked"`    // 冻结余额
}

// Total 可用与冻结余额之和，作为余额重建的锚点
func (b BalanceSnapshot) Total() decimal.Decimal {
	return b.Available.Add(b.Locked)
}

// ZeroBalance 返回指定币种的零余额快照
func ZeroBalance(currency string) BalanceSnapshot {
	return BalanceSnapshot{
		Currency:  currency,
		Available: decimal.Zero,
		Locked:    decimal.Zero,
	}
}

// WithdrawReceipt 法币提现受理回执（仅发送，不做核对）
type WithdrawReceipt struct {
	ID        string          `json:"id"`         // 提现受理ID
	Currency  string          `json:"currency"`   // 币种（KRW）
	Amount    decimal.Decimal `json:"amount"`     // 金额
	State     string          `json:"state"`      // 受理状态
	CreatedAt time.Time       `json:"created_at"` // 受理时间
}
