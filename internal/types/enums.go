// Package types 定义钱包聚合服务的枚举类型
package types

import (
	"time"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
)

// Exchange 交易所枚举
type Exchange string

const (
	ExchangeUpbit   Exchange = "upbit"   // Upbit交易所
	ExchangeBithumb Exchange = "bithumb" // Bithumb交易所
	ExchangeKorbit  Exchange = "korbit"  // Korbit交易所
)

// ParseExchange 解析交易所标识
func ParseExchange(s string) (Exchange, error) {
	switch Exchange(s) {
	case ExchangeUpbit, ExchangeBithumb, ExchangeKorbit:
		return Exchange(s), nil
	}
	return "", apperrors.InvalidQueryParameter("exchange", s)
}

// TxKind 交易方向枚举
type TxKind string

const (
	TxKindDeposit  TxKind = "DEPOSIT"  // 充值
	TxKindWithdraw TxKind = "WITHDRAW" // 提现
)

// TxTypeFilter 汇款交易类型过滤器
type TxTypeFilter string

const (
	TxTypeFilterDeposit  TxTypeFilter = "deposit"  // 仅充值
	TxTypeFilterWithdraw TxTypeFilter = "withdraw" // 仅提现
	TxTypeFilterAll      TxTypeFilter = "all"      // 全部
)

// ParseTxTypeFilter 解析汇款交易类型过滤器
func ParseTxTypeFilter(s string) (TxTypeFilter, error) {
	switch TxTypeFilter(s) {
	case TxTypeFilterDeposit, TxTypeFilterWithdraw, TxTypeFilterAll:
		return TxTypeFilter(s), nil
	}
	return "", apperrors.InvalidQueryParameter("type", s)
}

// Matches 判断交易记录方向是否命中过滤器
func (f TxTypeFilter) Matches(kind TxKind) bool {
	switch f {
	case TxTypeFilterDeposit:
		return kind == TxKindDeposit
	case TxTypeFilterWithdraw:
		return kind == TxKindWithdraw
	default:
		return true
	}
}

// OrderSide 订单方向枚举（bid=买入/充值, ask=卖出/兑现）
type OrderSide string

const (
	OrderSideBid OrderSide = "bid" // 买入
	OrderSideAsk OrderSide = "ask" // 卖出
)

// TopupFilter 法币兑换订单类型过滤器
type TopupFilter string

const (
	TopupFilterCharge       TopupFilter = "charge"        // 充值（买入）
	TopupFilterCashExchange TopupFilter = "cash-exchange" // 兑现（卖出）
	TopupFilterAll          TopupFilter = "all"           // 全部
)

// ParseTopupFilter 解析法币兑换订单类型过滤器
func ParseTopupFilter(s string) (TopupFilter, error) {
	switch TopupFilter(s) {
	case TopupFilterCharge, TopupFilterCashExchange, TopupFilterAll:
		return TopupFilter(s), nil
	}
	return "", apperrors.InvalidQueryParameter("type", s)
}

// Matches 判断订单方向是否命中过滤器
func (f TopupFilter) Matches(side OrderSide) bool {
	switch f {
	case TopupFilterCharge:
		return side == OrderSideBid
	case TopupFilterCashExchange:
		return side == OrderSideAsk
	default:
		return true
	}
}

// OrderState 订单状态枚举
type OrderState string

const (
	OrderStateWait   OrderState = "wait"   // 挂单中
	OrderStateDone   OrderState = "done"   // 已成交
	OrderStateCancel OrderState = "cancel" // 已取消
)

// ParseOrderState 解析订单状态
func ParseOrderState(s string) (OrderState, error) {
	switch OrderState(s) {
	case OrderStateWait, OrderStateDone, OrderStateCancel:
		return OrderState(s), nil
	}
	return "", apperrors.InvalidQueryParameter("state", s)
}

// IsClosed 是否为终结状态（需要按时间窗口回溯查询）
func (s OrderState) IsClosed() bool {
	return s == OrderStateDone || s == OrderStateCancel
}

// Period 查询周期枚举
type Period string

const (
	PeriodToday       Period = "today" // 当天
	PeriodOneMonth    Period = "1mo"   // 最近1个月
	PeriodThreeMonths Period = "3mo"   // 最近3个月
	PeriodSixMonths   Period = "6mo"   // 最近6个月
)

// ParsePeriod 解析查询周期
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodToday, PeriodOneMonth, PeriodThreeMonths, PeriodSixMonths:
		return Period(s), nil
	}
	return "", apperrors.InvalidQueryParameter("period", s)
}

// Start 计算周期起点（today取本地当日零点）
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodToday:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodOneMonth:
		return now.AddDate(0, -1, 0)
	case PeriodThreeMonths:
		return now.AddDate(0, -3, 0)
	case PeriodSixMonths:
		return now.AddDate(0, -6, 0)
	}
	return now.AddDate(0, -6, 0)
}

// SortOrder 排序方式枚举
type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"  // 时间升序
	SortOrderDesc SortOrder = "desc" // 时间降序
)

// ParseSortOrder 解析排序方式
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(s) {
	case SortOrderAsc, SortOrderDesc:
		return SortOrder(s), nil
	}
	return "", apperrors.InvalidQueryParameter("order", s)
}

// DetailCategory 明细查询类别枚举
type DetailCategory string

const (
	DetailCategoryRemittance DetailCategory = "remittance" // 充提明细
	DetailCategoryTopup      DetailCategory = "topup"      // 法币兑换明细
)

// ParseDetailCategory 解析明细查询类别
func ParseDetailCategory(s string) (DetailCategory, error) {
	switch DetailCategory(s) {
	case DetailCategoryRemittance, DetailCategoryTopup:
		return DetailCategory(s), nil
	}
	return "", apperrors.InvalidQueryParameter("category", s)
}
