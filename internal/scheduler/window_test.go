// Package scheduler 时间窗口调度测试
package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

var testNow = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

// slice 记录一次有界查询的参数
type slice struct {
	market string
	start  time.Time
	end    time.Time
}

// TestRunBudgetBound 测试任意周期下调用次数不超过预算
func TestRunBudgetBound(t *testing.T) {
	for _, period := range []types.Period{
		types.PeriodToday, types.PeriodOneMonth, types.PeriodThreeMonths, types.PeriodSixMonths,
	} {
		calls := 0
		q := &WindowQuery{
			Markets: []string{"KRW-BTC", "KRW-USDT"},
			Now:     func() time.Time { return testNow },
			Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
				calls++
				return nil, nil
			},
		}

		_, err := q.Run(context.Background(), period, 0)
		require.NoError(t, err)
		assert.LessOrEqual(t, calls, DefaultBudget, "period %s exceeded call budget", period)
	}
}

// TestRunWindowCoverage 测试窗口切片无缝覆盖整个周期
func TestRunWindowCoverage(t *testing.T) {
	var slices []slice
	q := &WindowQuery{
		Markets: []string{"KRW-BTC"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			slices = append(slices, slice{market, start, end})
			return nil, nil
		},
	}

	_, err := q.Run(context.Background(), types.PeriodThreeMonths, 0)
	require.NoError(t, err)
	require.NotEmpty(t, slices)

	periodStart := types.PeriodThreeMonths.Start(testNow)

	// 首个窗口终点为now，相邻窗口首尾相接，末个窗口起点为周期起点
	assert.True(t, slices[0].end.Equal(testNow))
	for i := 1; i < len(slices); i++ {
		assert.True(t, slices[i].end.Equal(slices[i-1].start),
			"gap between window %d and %d", i-1, i)
	}
	assert.True(t, slices[len(slices)-1].start.Equal(periodStart))

	// 单窗口跨度不超过上限
	for _, s := range slices {
		assert.LessOrEqual(t, s.end.Sub(s.start), DefaultWindow)
	}
}

// TestRunMarketsPerWindow 测试每个窗口内逐市场各发起一次查询
func TestRunMarketsPerWindow(t *testing.T) {
	var slices []slice
	q := &WindowQuery{
		Markets: []string{"KRW-BTC", "KRW-USDT"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			slices = append(slices, slice{market, start, end})
			return nil, nil
		},
	}

	_, err := q.Run(context.Background(), types.PeriodToday, 0)
	require.NoError(t, err)
	require.Len(t, slices, 2)
	assert.Equal(t, "KRW-BTC", slices[0].market)
	assert.Equal(t, "KRW-USDT", slices[1].market)
	assert.True(t, slices[0].start.Equal(slices[1].start))
}

// TestRunEarlyTermination 测试结果数满足limit后停止扫描更早的窗口
func TestRunEarlyTermination(t *testing.T) {
	calls := 0
	q := &WindowQuery{
		Markets: []string{"KRW-BTC", "KRW-USDT"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			calls++
			return []types.OrderRecord{
				{ID: "o1", Market: market, CreatedAt: end},
				{ID: "o2", Market: market, CreatedAt: end},
				{ID: "o3", Market: market, CreatedAt: end},
			}, nil
		},
	}

	records, err := q.Run(context.Background(), types.PeriodSixMonths, 5)
	require.NoError(t, err)

	// 首个窗口两个市场共6条已满足limit=5，不再扫描第二个窗口
	assert.Equal(t, 2, calls)
	assert.GreaterOrEqual(t, len(records), 5)
}

// TestRunFailFast 测试任一上游调用失败即整体失败，不返回部分结果
func TestRunFailFast(t *testing.T) {
	calls := 0
	q := &WindowQuery{
		Markets: []string{"KRW-BTC", "KRW-USDT"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			calls++
			if calls == 3 {
				return nil, apperrors.RateLimitExceeded(nil)
			}
			return []types.OrderRecord{{ID: "ok", Market: market, CreatedAt: end}}, nil
		},
	}

	records, err := q.Run(context.Background(), types.PeriodSixMonths, 0)
	require.Error(t, err)
	assert.Equal(t, apperrors.CodeRateLimitExceeded, apperrors.CodeOf(err))

	// 前两次调用已取得的结果一并丢弃
	assert.Nil(t, records)
	assert.Equal(t, 3, calls)
}

// TestRunContextCancellation 测试迭代间感知取消并立即停止
func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	q := &WindowQuery{
		Markets: []string{"KRW-BTC"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			calls++
			cancel() // 首次调用后取消
			return nil, nil
		},
	}

	_, err := q.Run(ctx, types.PeriodSixMonths, 0)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

// TestRunCustomBudget 测试自定义预算在市场循环中途耗尽时停止整个扫描
func TestRunCustomBudget(t *testing.T) {
	calls := 0
	q := &WindowQuery{
		Budget:  3,
		Markets: []string{"KRW-BTC", "KRW-USDT"},
		Now:     func() time.Time { return testNow },
		Fetch: func(ctx context.Context, market string, start, end time.Time) ([]types.OrderRecord, error) {
			calls++
			return nil, nil
		},
	}

	_, err := q.Run(context.Background(), types.PeriodSixMonths, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}
