// Package wallet 实现钱包聚合服务
package wallet

import (
	"context"
	"time"

	"github.com/gofrs/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
	"github.com/UMCSCOI/Backend-sub000/internal/ledger"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// TransactionDetail 明细查询结果。充提与法币兑换二选一。
type TransactionDetail struct {
	Remittance *types.TransactionRecord `json:"remittance,omitempty"` // 充提明细
	Topup      *types.OrderDetail       `json:"topup,omitempty"`      // 法币兑换明细
}

// Service 钱包聚合服务。按交易所路由到对应网关，
// 所有上游调用在单个逻辑请求内串行执行，任一失败整体中止。
type Service struct {
	gateways map[types.Exchange]types.Gateway
	logger   *zap.Logger
	now      func() time.Time // 便于测试固定当前时间
}

// NewService 创建钱包聚合服务
func NewService(gateways map[types.Exchange]types.Gateway, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		gateways: gateways,
		logger:   logger,
		now:      time.Now,
	}
}

// Close 关闭全部网关
func (s *Service) Close() error {
	var firstErr error
	for _, gw := range s.gateways {
		if err := gw.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// gateway 查找交易所网关
func (s *Service) gateway(exchange types.Exchange) (types.Gateway, error) {
	gw, ok := s.gateways[exchange]
	if !ok {
		return nil, apperrors.InvalidQueryParameter("exchange", string(exchange))
	}
	return gw, nil
}

// requestID 生成请求跟踪ID
func (s *Service) requestID() string {
	id, err := uuid.NewV4()
	if err != nil {
		return "unknown"
	}
	return id.String()
}

// ListRemittanceTransactions 查询充值/提现历史。
// 先取余额与全量未过滤历史并重建每笔交易后的余额，再走查询管线。
func (s *Service) ListRemittanceTransactions(ctx context.Context, userID string, exchange types.Exchange,
	txType types.TxTypeFilter, period types.Period, order types.SortOrder, limit int) ([]types.TransactionRecord, error) {

	reqID := s.requestID()
	start := s.now()
	gw, err := s.gateway(exchange)
	if err != nil {
		return nil, err
	}

	balances, err := gw.GetBalances(ctx, userID)
	if err != nil {
		return nil, err
	}
	deposits, err := gw.GetDeposits(ctx, userID)
	if err != nil {
		return nil, err
	}
	withdraws, err := gw.GetWithdraws(ctx, userID)
	if err != nil {
		return nil, err
	}

	// 余额重建必须吃全量历史，周期/类型过滤只能在其后
	records := ledger.Reconstruct(s.logger, balances, append(deposits, withdraws...))
	records = filterTransactions(records, txType)
	records = filterTransactionsByPeriod(records, period.Start(s.now()))
	records = sortTransactions(records, order)
	records = truncateTransactions(records, limit)

	s.logger.Info("remittance transactions listed",
		zap.String("request_id", reqID),
		zap.String("exchange", string(exchange)),
		zap.Int("count", len(records)),
		zap.Duration("elapsed", s.now().Sub(start)))
	return records, nil
}

// ListTopupTransactions 查询法币兑换订单历史
func (s *Service) ListTopupTransactions(ctx context.Context, userID string, exchange types.Exchange,
	topupType types.TopupFilter, state types.OrderState, period types.Period,
	order types.SortOrder, limit int) ([]types.OrderRecord, error) {

	reqID := s.requestID()
	start := s.now()
	gw, err := s.gateway(exchange)
	if err != nil {
		return nil, err
	}

	records, err := gw.GetOrders(ctx, userID, state, period, order, clampLimit(limit))
	if err != nil {
		return nil, err
	}
	records = filterOrders(records, topupType)
	records = filterOrdersByPeriod(records, period.Start(s.now()))
	records = sortOrders(records, order)
	records = truncateOrders(records, limit)

	s.logger.Info("topup transactions listed",
		zap.String("request_id", reqID),
		zap.String("exchange", string(exchange)),
		zap.String("state", string(state)),
		zap.Int("count", len(records)),
		zap.Duration("elapsed", s.now().Sub(start)))
	return records, nil
}

// GetTransactionDetail 查询单条明细。
// remittance类别必须携带交易方向与币种，topup类别忽略两者。
func (s *Service) GetTransactionDetail(ctx context.Context, userID string, exchange types.Exchange,
	category types.DetailCategory, remitType types.TxTypeFilter, id, currency string) (*TransactionDetail, error) {

	gw, err := s.gateway(exchange)
	if err != nil {
		return nil, err
	}
	if id == "" {
		return nil, apperrors.InvalidQueryParameter("id", id)
	}

	switch category {
	case types.DetailCategoryRemittance:
		if currency == "" {
			return nil, apperrors.InvalidQueryParameter("currency", currency)
		}
		var record *types.TransactionRecord
		switch remitType {
		case types.TxTypeFilterDeposit:
			record, err = gw.GetDepositDetail(ctx, userID, id, currency)
		case types.TxTypeFilterWithdraw:
			record, err = gw.GetWithdrawDetail(ctx, userID, id, currency)
		default:
			return nil, apperrors.InvalidQueryParameter("type", string(remitType))
		}
		if err != nil {
			return nil, err
		}
		return &TransactionDetail{Remittance: record}, nil

	case types.DetailCategoryTopup:
		detail, err := gw.GetOrderDetail(ctx, userID, id)
		if err != nil {
			return nil, err
		}
		return &TransactionDetail{Topup: detail}, nil
	}
	return nil, apperrors.InvalidQueryParameter("category", string(category))
}

// GetFiatBalance 查询法币余额
func (s *Service) GetFiatBalance(ctx context.Context, userID string, exchange types.Exchange) (types.BalanceSnapshot, error) {
	gw, err := s.gateway(exchange)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	return gw.GetFiatBalance(ctx, userID)
}

// WithdrawFiat 发起法币提现（仅发送，不做核对）
func (s *Service) WithdrawFiat(ctx context.Context, userID string, exchange types.Exchange,
	amount decimal.Decimal, mfaMethod string) (*types.WithdrawReceipt, error) {

	gw, err := s.gateway(exchange)
	if err != nil {
		return nil, err
	}
	if amount.Sign() <= 0 {
		return nil, apperrors.InvalidQueryParameter("amount", amount.String())
	}

	receipt, err := gw.WithdrawFiat(ctx, userID, amount, mfaMethod)
	if err != nil {
		return nil, err
	}
	s.logger.Info("fiat withdraw requested",
		zap.String("exchange", string(exchange)),
		zap.String("receipt_id", receipt.ID),
		zap.String("amount", receipt.Amount.String()))
	return receipt, nil
}
