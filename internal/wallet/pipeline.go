// Package wallet 实现规范化结果的查询管线：
// 类型过滤 → 周期过滤 → 排序 → 截断，处理与来源交易所无关。
package wallet

import (
	"sort"
	"time"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// MaxLimit 单次查询返回条数上限
const MaxLimit = 100

// clampLimit 规整查询条数：非正数取上限，超过上限压到上限
func clampLimit(limit int) int {
	if limit <= 0 || limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// filterTransactions 按交易方向过滤汇款记录
func filterTransactions(records []types.TransactionRecord, filter types.TxTypeFilter) []types.TransactionRecord {
	out := make([]types.TransactionRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r.Kind) {
			out = append(out, r)
		}
	}
	return out
}

// filterTransactionsByPeriod 丢弃早于周期起点的汇款记录
func filterTransactionsByPeriod(records []types.TransactionRecord, periodStart time.Time) []types.TransactionRecord {
	out := make([]types.TransactionRecord, 0, len(records))
	for _, r := range records {
		if !r.CreatedAt.Before(periodStart) {
			out = append(out, r)
		}
	}
	return out
}

// sortTransactions 排序汇款记录。降序是重建产出的自然顺序，
// 升序仅做翻转，绝不重新跑重建。
func sortTransactions(records []types.TransactionRecord, order types.SortOrder) []types.TransactionRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if order == types.SortOrderAsc {
		reverseTransactions(records)
	}
	return records
}

func reverseTransactions(records []types.TransactionRecord) {
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
}

// truncateTransactions 截断汇款记录到请求条数
func truncateTransactions(records []types.TransactionRecord, limit int) []types.TransactionRecord {
	limit = clampLimit(limit)
	if len(records) > limit {
		return records[:limit]
	}
	return records
}

// filterOrders 按订单方向过滤法币兑换记录
func filterOrders(records []types.OrderRecord, filter types.TopupFilter) []types.OrderRecord {
	out := make([]types.OrderRecord, 0, len(records))
	for _, r := range records {
		if filter.Matches(r.Side) {
			out = append(out, r)
		}
	}
	return out
}

// filterOrdersByPeriod 丢弃早于周期起点的法币兑换记录
func filterOrdersByPeriod(records []types.OrderRecord, periodStart time.Time) []types.OrderRecord {
	out := make([]types.OrderRecord, 0, len(records))
	for _, r := range records {
		if !r.CreatedAt.Before(periodStart) {
			out = append(out, r)
		}
	}
	return out
}

// sortOrders 排序法币兑换记录，升序仅做翻转
func sortOrders(records []types.OrderRecord, order types.SortOrder) []types.OrderRecord {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if order == types.SortOrderAsc {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}
	return records
}

// truncateOrders 截断法币兑换记录到请求条数
func truncateOrders(records []types.OrderRecord, limit int) []types.OrderRecord {
	limit = clampLimit(limit)
	if len(records) > limit {
		return records[:limit]
	}
	return records
}
