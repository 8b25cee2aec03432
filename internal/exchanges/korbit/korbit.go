// Package korbit 实现Korbit交易所网关
package korbit

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// upstreamOrderStatus 规范化订单状态到Korbit查询参数的映射
var upstreamOrderStatus = map[types.OrderState]string{
	types.OrderStateWait:   "open",
	types.OrderStateDone:   "filled",
	types.OrderStateCancel: "cancelled",
}

// Gateway Korbit交易所网关
type Gateway struct {
	client     *RestClient
	logger     *zap.Logger
	currencies []string // 跟踪币种白名单
	markets    []string // 跟踪市场列表
	fiat       string   // 法币币种
}

// New 创建Korbit网关
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
	return types.ExchangeKorbit
}

// Close 关闭网关
func (g *Gateway) Close() error {
	return g.client.Close()
}

// GetBalances 获取跟踪币种余额快照，未返回的币种补零
func (g *Gateway) GetBalances(ctx context.Context, userID string) (map[string]types.BalanceSnapshot, error) {
	data, err := g.client.getBalances(ctx, userID)
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	balances := make(map[string]types.BalanceSnapshot, len(g.currencies))
	for _, currency := range g.currencies {
		balances[currency] = types.ZeroBalance(currency)
	}
	for _, raw := range data {
		currency := strings.ToUpper(raw.Currency)
		if _, tracked := balances[currency]; !tracked {
			continue
		}
		snapshot, err := raw.toSnapshot()
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		balances[currency] = snapshot
	}
	return balances, nil
}

// GetDeposits 获取全部充值历史
func (g *Gateway) GetDeposits(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	return g.collectTransfers(ctx, userID, types.TxKindDeposit, "/v2/deposits")
}

// GetWithdraws 获取全部提现历史
func (g *Gateway) GetWithdraws(ctx context.Context, userID string) ([]types.TransactionRecord, error) {
	return g.collectTransfers(ctx, userID, types.TxKindWithdraw, "/v2/withdrawals")
}

func (g *Gateway) collectTransfers(ctx context.Context, userID string, kind types.TxKind,
	path string) ([]types.TransactionRecord, error) {

	var all []types.TransactionRecord
	for _, currency := range g.currencies {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Translate(err)
		}

		data, err := g.client.getTransfers(ctx, userID, path, strings.ToLower(currency))
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		for _, raw := range data {
			record, err := raw.toRecord(kind)
			if err != nil {
				return nil, apperrors.Translate(err)
			}
			all = append(all, record)
		}
	}
	return all, nil
}

// GetOrders 获取法币兑换订单。逐交易对单次查询，
// 状态按Korbit词汇表下发、按规范化词汇表返回。
func (g *Gateway) GetOrders(ctx context.Context, userID string, state types.OrderState,
	period types.Period, order types.SortOrder, limit int) ([]types.OrderRecord, error) {

	status, ok := upstreamOrderStatus[state]
	if !ok {
		return nil, apperrors.InvalidQueryParameter("state", string(state))
	}

	var all []types.OrderRecord
	for _, market := range g.markets {
		if err := ctx.Err(); err != nil {
			return nil, apperrors.Translate(err)
		}

		data, err := g.client.getOrders(ctx, userID, denormalizeMarket(market), status, limit)
		if err != nil {
			return nil, apperrors.Translate(err)
		}
		for _, raw := range data {
			record, err := raw.toOrder()
			if err != nil {
				return nil, apperrors.Translate(err)
			}
			all = append(all, record)
		}
	}
	return all, nil
}

// GetDepositDetail 获取单条充值明细
func (g *Gateway) GetDepositDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	return g.transferDetail(ctx, userID, types.TxKindDeposit, "/v2/deposit", id, currency)
}

// GetWithdrawDetail 获取单条提现明细
func (g *Gateway) GetWithdrawDetail(ctx context.Context, userID, id, currency string) (*types.TransactionRecord, error) {
	return g.transferDetail(ctx, userID, types.TxKindWithdraw, "/v2/withdrawal", id, currency)
}

func (g *Gateway) transferDetail(ctx context.Context, userID string, kind types.TxKind,
	path, id, currency string) (*types.TransactionRecord, error) {

	data, err := g.client.getTransferDetail(ctx, userID, path, id, strings.ToLower(currency))
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	record, err := data.toRecord(kind)
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
	detail, err := data.toDetail()
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	return detail, nil
}

// GetFiatBalance 获取法币（KRW）余额快照
func (g *Gateway) GetFiatBalance(ctx context.Context, userID string) (types.BalanceSnapshot, error) {
	data, err := g.client.getBalances(ctx, userID)
	if err != nil {
		return types.BalanceSnapshot{}, apperrors.Translate(err)
	}

	for _, raw := range data {
		if strings.EqualFold(raw.Currency, g.fiat) {
			snapshot, err := raw.toSnapshot()
			if err != nil {
				return types.BalanceSnapshot{}, apperrors.Translate(err)
			}
			return snapshot, nil
		}
	}
	return types.ZeroBalance(g.fiat), nil
}

// WithdrawFiat 发起法币提现
func (g *Gateway) WithdrawFiat(ctx context.Context, userID string, amount decimal.Decimal,
	mfaMethod string) (*types.WithdrawReceipt, error) {

	data, err := g.client.withdrawKRW(ctx, userID, amount.String(), mfaMethod)
	if err != nil {
		return nil, apperrors.Translate(err)
	}

	record, err := data.toRecord(types.TxKindWithdraw)
	if err != nil {
		return nil, apperrors.Translate(err)
	}
	if record.Currency == "" {
		record.Currency = g.fiat
	}
	return &types.WithdrawReceipt{
		ID:        record.ID,
		Currency:  record.Currency,
		Amount:    record.Amount,
		State:     record.State,
		CreatedAt: record.CreatedAt,
	}, nil
}
