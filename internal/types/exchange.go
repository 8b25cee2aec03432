// Package types 定义交易所网关接口类型
package types

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway 交易所网关接口定义（每个交易所一个实现）
type Gateway interface {
	// Name 获取交易所名称
	Name() Exchange

	// GetBalances 获取跟踪币种余额快照（上游未返回的币种补零，不省略）
	GetBalances(ctx context.Context, userID string) (map[string]BalanceSnapshot, error)

	// GetDeposits 获取全部充值历史（按跟踪币种逐一查询）
	GetDeposits(ctx context.Context, userID string) ([]TransactionRecord, error)
	// GetWithdraws 获取全部提现历史（按跟踪币种逐一查询）
	GetWithdraws(ctx context.Context, userID string) ([]TransactionRecord, error)

	// GetOrders 获取法币兑换订单：挂单状态逐市场单次查询，
	// 终结状态（done/cancel）经由时间窗口调度器回溯查询
	GetOrders(ctx context.Context, userID string, state OrderState,
		period Period, order SortOrder, limit int) ([]OrderRecord, error)

	// GetDepositDetail 获取单条充值明细
	GetDepositDetail(ctx context.Context, userID, id, currency string) (*TransactionRecord, error)
	// GetWithdrawDetail 获取单条提现明细
	GetWithdrawDetail(ctx context.Context, userID, id, currency string) (*TransactionRecord, error)
	// GetOrderDetail 获取订单明细（含成交记录）
	GetOrderDetail(ctx context.Context, userID, id string) (*OrderDetail, error)

	// GetFiatBalance 获取法币（KRW）余额快照
	GetFiatBalance(ctx context.Context, userID string) (BalanceSnapshot, error)
	// WithdrawFiat 发起法币提现（仅发送，不在本核心内核对）
	WithdrawFiat(ctx context.Context, userID string, amount decimal.Decimal,
		mfaMethod string) (*WithdrawReceipt, error)

	// Close 关闭网关持有的连接资源
	Close() error
}
