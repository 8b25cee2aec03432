// Package ledger 实现从当前余额向过去回放的历史余额重建算法
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// Reconstruct 对未过滤的全量充提历史重建每笔交易后的余额。
//
// 输入必须是全量历史：后续再按周期/类型过滤的子集，其余额依赖子集时间范围
// 之外的交易。records按createdAt降序稳定排序后，以当前余额为锚点逐笔回放：
// 每条记录先记下回放到该点的余额（balanceAfter），再仅对处于影响余额的完成
// 状态的记录反向冲销（充值减、提现加）。其余状态（处理中/等待/取消/拒绝/退款）
// 不改变余额。返回按createdAt降序排列的记录。
func Reconstruct(logger *zap.Logger, balances map[string]types.BalanceSnapshot,
	records []types.TransactionRecord) []types.TransactionRecord {

	if logger == nil {
		logger = zap.NewNop()
	}

	// 按createdAt降序稳定排序，时间相同时保持到达顺序
	sorted := make([]types.TransactionRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})

	// 以当前余额（可用+冻结）为锚点初始化每币种的滚动余额
	running := make(map[string]decimal.Decimal, len(balances))
	for currency, snapshot := range balances {
		running[currency] = snapshot.Total()
	}

	for i := range sorted {
		record := &sorted[i]
		balance := running[record.Currency]
		record.BalanceAfter = &balance

		if !record.IsBalanceAffecting() {
			continue
		}

		// 反向冲销：向过去回放时充值减、提现加
		switch record.Kind {
		case types.TxKindDeposit:
			running[record.Currency] = balance.Sub(record.Amount)
		case types.TxKindWithdraw:
			running[record.Currency] = balance.Add(record.Amount)
		}

		// 正确输入下重建余额不可能为负；出现负值说明上游数据或状态
		// 分类有误，只记录不截断
		if running[record.Currency].IsNegative() {
			logger.Error("reconstructed balance went negative",
				zap.String("currency", record.Currency),
				zap.String("tx_id", record.ID),
				zap.String("running", running[record.Currency].String()))
		}
	}

	return sorted
}
