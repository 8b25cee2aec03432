// Package scheduler 提供按时间窗口回溯的历史查询调度功能
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// 上游约束：单次历史查询的最大时间跨度与单个逻辑请求的调用预算。
// 调用预算是刻意的准入控制：用结果完整性换取有界延迟，并保证不触发上游限流器，
// 因此不允许为了覆盖更长周期而取消预算。
const (
	DefaultWindow = 7 * 24 * time.Hour // 单窗口最大跨度（7天）
	DefaultBudget = 28                 // 单个逻辑请求的最大上游调用次数
)

// FetchFunc 单窗口单市场的有界查询，窗口为[windowStart, windowEnd]
type FetchFunc func(ctx context.Context, market string,
	windowStart, windowEnd time.Time) ([]types.OrderRecord, error)

// WindowQuery 时间窗口回溯查询。所有可变状态（调用计数、累积结果）
// 均为单次请求作用域，禁止跨请求共享。
type WindowQuery struct {
	Logger  *zap.Logger   // 日志
	Window  time.Duration // 单窗口最大跨度
	Budget  int           // 调用预算
	Markets []string      // 跟踪市场列表
	Fetch   FetchFunc     // 有界查询回调
	Now     func() time.Time
}

// Run 从当前时刻向过去逐窗口回溯，直到覆盖周期起点、耗尽调用预算
// 或累积结果满足limit。上游调用严格串行，市场与窗口迭代之间检查取消。
func (q *WindowQuery) Run(ctx context.Context, period types.Period, limit int) ([]types.OrderRecord, error) {
	window := q.Window
	if window <= 0 {
		window = DefaultWindow
	}
	budget := q.Budget
	if budget <= 0 {
		budget = DefaultBudget
	}
	now := time.Now()
	if q.Now != nil {
		now = q.Now()
	}
	logger := q.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	periodStart := period.Start(now)
	windowEnd := now

	// 请求作用域的可变状态
	callsUsed := 0
	var records []types.OrderRecord

loop:
	for windowEnd.After(periodStart) && callsUsed < budget {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		windowStart := windowEnd.Add(-window)
		if windowStart.Before(periodStart) {
			windowStart = periodStart
		}

		for _, market := range q.Markets {
			if callsUsed >= budget {
				logger.Debug("call budget exhausted, stopping window scan",
					zap.Int("calls_used", callsUsed),
					zap.Time("window_end", windowEnd))
				break loop
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			batch, err := q.Fetch(ctx, market, windowStart, windowEnd)
			callsUsed++
			if err != nil {
				// 任一上游调用失败即整体失败，已取得的结果一并丢弃
				return nil, err
			}
			records = append(records, batch...)
		}

		// 结果数已满足调用方要求时提前终止，不再扫描更早的窗口
		if limit > 0 && len(records) >= limit {
			logger.Debug("requested limit satisfied, stopping window scan",
				zap.Int("accumulated", len(records)),
				zap.Int("limit", limit))
			break
		}

		windowEnd = windowStart
	}

	logger.Debug("window scan finished",
		zap.Int("calls_used", callsUsed),
		zap.Int("records", len(records)),
		zap.Time("period_start", periodStart))
	return records, nil
}
