// Package upbit 实现Upbit交易所网关
package upbit

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/scheduler"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// Gateway Upbit交易所网关。网关内部不做重试，失败统一翻译为领域错误上报。
type Gateway struct {
	client     *RestClient
	logger     *zap.Logger
	currencies []string // 跟踪币种白名单
	markets    []string // 跟踪市场列表
	fiat       string   // 法币币种
}

// New 创建Upbit网关
func New(cfg types.ExchangeConfig, wallet types.WalletConfig, store credentials.Store,
	decryptor credentials.Decryptor, logger *zap.Logger) (*Gateway, error) {

	client, err := NewRestClient(cfg.APIURL, cfg.Timeout, store, decryptor, logger)
	if err != nil {
		return nil, err
	}
	return &Gateway{
		client:     client,
		logger:     logger,
		currencies: wallet.TrackedCurrencies,
		markets:    wallet.TrackedMarkets,
		fiat:       wallet.FiatCurrency,
	}, nil
}

// Name 获取交易所名称
func (g *Gateway) Name() types.Exchange {
	return types.ExchangeUpbit
}

// Close 关闭网关
func (g *Gateway) Close() error {
	return g.client.Close()
}

// GetBalances 获取跟踪币种余额快照，上游未返回的币种补零
func (g *Gateway) GetBalances(ctx context.Context, userID string) (map[string]types.BalanceSnapshot, error) {
	accounts, err := g.client.getAccounts(ctx, userID)
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	balances := make(map[string]types.BalanceSnapshot, len(g.currencies))
	for _, currency := range g.currencies {
		balances[currency] = types.ZeroBalance(currency)
	}
	for _, account := range accounts {
		currency := strings.ToUpper(account.Currency)
		if _, tracked := balances[currency]; !tracked {
			continue
		}
		snapshot, err := toBalanceSnapshot(account)
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		balances[currency] = snapshot
	}
	return balances, nil
}

// GetDeposits 获取全部充值历史（上游按币种查询，逐一发起）
func (g *Gateway) GetDeposits(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	return g.getTransfers(ctx, userID, types.TxKindDeposit, depositsPath)
}

// GetWithdraws 获取全部提现历史（上游按币种查询，逐一发起）
func (g *Gateway) GetWithdraws(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	return g.getTransfers(ctx, userID, types.TxKindWithdraw, withdrawsPath)
}

// getTransfers 按跟踪币种串行拉取充值/提现历史
func (g *Gateway) getTransfers(ctx context.Context, userID string, kind types.TxKind,
	listPath string) ([]types.TransactionRecord, error) {

	var all []types.TransactionRecord
	for _, currency := range g.currencies {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Translate(err)
		}

		data, err := g.client.getTransfers(ctx, userID, listPath, currency)
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		records, err := toTransactionRecords(kind, data)
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		all = append(all, records...)
	}
	return all, nil
}

// GetOrders 获取法币兑换订单。挂单逐市场单次查询；
// 终结状态受上游7天查询窗口约束，经由时间窗口调度器回溯。
func (g *Gateway) GetOrders(ctx context.Context, userID string, state types.OrderState,
	period types.Period, order types.SortOrder, limit int) ([]types.OrderRecord, error) {

	if !state.IsClosed() {
		var all []types.OrderRecord
		for _, market := range g.markets {
			data, err := g.client.getOpenOrders(ctx, userID, market)
			if err != nil {
				return nil, apperrors.Translate(err)
			}
			records, err := toOrderRecords(data)
			if err != nil {
				return nil, apperrors.Translate(err)
			}
			all = append(all, records...)
		}
		return all, nil
	}

	query := &scheduler.WindowQuery{
		Logger:  g.logger,
		Markets: g.markets,
		Fetch: func(ctx context.Context, market string, windowStart, windowEnd time.Time) ([]types.OrderRecord, error) {
			data, err := g.client.getClosedOrders(ctx, userID, market, string(state), windowStart, windowEnd)
			if err != nil {
				return nil, err
			}
			return toOrderRecords(data)
		},
	}
	records, err := query.Run(ctx, period, limit)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return records, nil
}

// GetDepositDetail 获取单条充值明细
func (g *Gateway) GetDepositDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	return g.getTransferDetail(ctx, userID, types.TxKindDeposit, depositPath, id, currency)
}

// GetWithdrawDetail 获取单条提现明细
func (g *Gateway) GetWithdrawDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	return g.getTransferDetail(ctx, userID, types.TxKindWithdraw, withdrawPath, id, currency)
}

func (g *Gateway) getTransferDetail(ctx context.Context, userID string, kind types.TxKind,
	detailPath, id, currency string) (*types.TransactionRecord, error) {

	data, err := g.client.getTransferDetail(ctx, userID, detailPath, id, currency)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	record, err := toTransactionRecord(kind, *data)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return &record, nil
}

// GetOrderDetail 获取订单明细（含成交记录）
func (g *Gateway) GetOrderDetail(ctx context.Context, userID, id string) (*types.OrderDetail, error) {
	data, err := g.client.getOrderDetail(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	detail, err := toOrderDetail(*data)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return detail, nil
}

// GetFiatBalance 获取法币（KRW）余额快照
func (g *Gateway) GetFiatBalance(ctx context.Context, userID string) (types.BalanceSnapshot, error) {
	accounts, err := g.client.getAccounts(ctx, userID)
	if err != nil {
		return types.BalanceSnapshot{}, apperrors.Translate(err)
	}

	for _, account := range accounts {
		if strings.EqualFold(account.Currency, g.fiat) {
			snapshot, err := toBalanceSnapshot(account)
			if err != nil {
				return types.BalanceSnapshot{}, apperrors.Translate(err)
			}
			return snapshot, nil
		}
	}
	return types.ZeroBalance(g.fiat), nil
}

// WithdrawFiat 发起法币提现（仅发送，不在本核心内核对）
func (g *Gateway) WithdrawFiat(ctx context.Context, userID string, amount decimal.Decimal,
	mfaMethod string) (*types.WithdrawReceipt, error) {

	data, err := g.client.withdrawKRW(ctx, userID, amount.String(), mfaMethod)
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	createdAt, err := parseUpstreamTime(data.CreatedAt)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	receiptAmount, err := mustDecimal(data.Amount)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return &types.WithdrawReceipt{
		ID:        data.UUID,
		Currency:  strings.ToUpper(data.Currency),
		Amount:    receiptAmount,
		State:     data.State,
		CreatedAt: createdAt,
	}, nil
}
