// Package korbit 定义Korbit v2 API的数据类型及规范化转换
package korbit

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// balanceData 账户余额条目
type balanceData struct {
	Currency        string `json:"currency"`          // 币种代码（小写）
	Available       string `json:"available"`         // 可用余额
	TradeInUse      string `json:"trade_in_use"`      // 交易冻结
	WithdrawalInUse string `json:"withdrawal_in_use"` // 提现冻结
}

// transferData 充值/提现条目。字段命名与其它交易所差异较大，
// 全部在本包转换层吸收。
type transferData struct {
	ID       int64  `json:"id"`       // 记录ID
	Coin     string `json:"coin"`     // 币种代码（小写）
	Amt      string `json:"amt"`      // 金额
	Fee      string `json:"fee"`      // 手续费（仅提现）
	TxID     string `json:"txid"`     // 链上交易ID
	Status   string `json:"status"`   // 原始状态
	Type     string `json:"type"`     // onchain/internal
	TxTime   int64  `json:"txTime"`   // 创建时间（epoch毫秒）
	DoneTime int64  `json:"doneTime"` // 完成时间（epoch毫秒，0表示未完成）
}

// orderData 订单条目
type orderData struct {
	OrderID   int64  `json:"orderId"`   // 订单ID
	Symbol    string `json:"symbol"`    // 交易对（如btc_krw）
	Side      string `json:"side"`      // buy/sell
	Status    string `json:"status"`    // open/partially_filled/filled/cancelled
	Qty       string `json:"qty"`       // 委托数量
	FilledQty string `json:"filledQty"` // 成交数量
	Timestamp int64  `json:"timestamp"` // 下单时间（epoch毫秒）
}

// fillData 订单成交条目
type fillData struct {
	FillID    int64  `json:"fillId"`    // 成交ID
	Price     string `json:"price"`     // 成交价
	Qty       string `json:"qty"`       // 成交量
	Amount    string `json:"amount"`    // 成交额
	Timestamp int64  `json:"timestamp"` // 成交时间（epoch毫秒）
}

// orderDetailData 订单明细响应
type orderDetailData struct {
	orderData
	Fills []fillData `json:"fills"` // 成交列表
}

// depositStatuses Korbit充值状态到规范化状态的映射
var depositStatuses = map[string]string{
	"success":    types.DepositStateAccepted,
	"done":       types.DepositStateAccepted,
	"pending":    "PROCESSING",
	"processing": "PROCESSING",
	"cancelled":  "CANCELLED",
	"rejected":   "REJECTED",
}

// withdrawStatuses Korbit提现状态到规范化状态的映射
var withdrawStatuses = map[string]string{
	"success":    types.WithdrawStateDone,
	"done":       types.WithdrawStateDone,
	"requested":  "WAITING",
	"processing": "PROCESSING",
	"cancelled":  "CANCELLED",
	"rejected":   "REJECTED",
}

// orderStatuses Korbit订单状态到规范化状态的映射
var orderStatuses = map[string]types.OrderState{
	"open":             types.OrderStateWait,
	"partially_filled": types.OrderStateWait,
	"filled":           types.OrderStateDone,
	"cancelled":        types.OrderStateCancel,
}

// normalizeTransferState 规范化充值/提现状态，未知状态原样转大写
func normalizeTransferState(kind types.TxKind, raw string) string {
	table := depositStatuses
	if kind == types.TxKindWithdraw {
		table = withdrawStatuses
	}
	if state, ok := table[strings.ToLower(raw)]; ok {
		return state
	}
	return strings.ToUpper(raw)
}

// normalizeSymbol 将btc_krw形式的交易对转换为KRW-BTC形式的市场代码
func normalizeSymbol(symbol string) string {
	parts := strings.SplitN(symbol, "_", 2)
	if len(parts) != 2 {
		return strings.ToUpper(symbol)
	}
	return strings.ToUpper(parts[1]) + "-" + strings.ToUpper(parts[0])
}

// denormalizeMarket 将KRW-BTC形式的市场代码转换为btc_krw形式的交易对
func denormalizeMarket(market string) string {
	parts := strings.SplitN(market, "-", 2)
	if len(parts) != 2 {
		return strings.ToLower(market)
	}
	return strings.ToLower(parts[1]) + "_" + strings.ToLower(parts[0])
}

func parseMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}

func parseQty(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, errors.Wrapf(err, "failed to parse quantity %q", s)
	}
	return d, nil
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

// toSnapshot 转换为规范化余额快照，冻结余额合并交易与提现占用
func (d balanceData) toSnapshot() (types.BalanceSnapshot, error) {
	available, err := parseQty(d.Available)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	tradeInUse, err := parseQty(d.TradeInUse)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	withdrawalInUse, err := parseQty(d.WithdrawalInUse)
	if err != nil {
		return types.BalanceSnapshot{}, err
	}
	return types.BalanceSnapshot{
		Currency:  strings.ToUpper(d.Currency),
		Available: available,
		Locked:    tradeInUse.Add(withdrawalInUse),
	}, nil
}

// toRecord 转换为规范化交易记录
func (d transferData) toRecord(kind types.TxKind) (types.TransactionRecord, error) {
	amount, err := parseQty(d.Amt)
	if err != nil {
		return types.TransactionRecord{}, err
	}
	fee, err := parseQty(d.Fee)
	if err != nil {
		return types.TransactionRecord{}, err
	}

	var completedAt *time.Time
	if d.DoneTime > 0 {
		t := parseMillis(d.DoneTime)
		completedAt = &t
	}
	transferType := types.TransferTypeDefault
	if strings.EqualFold(d.Type, "internal") {
		transferType = types.TransferTypeInternal
	}
	return types.TransactionRecord{
		Kind:         kind,
		ID:           formatID(d.ID),
		Currency:     strings.ToUpper(d.Coin),
		State:        normalizeTransferState(kind, d.Status),
		Amount:       amount,
		Fee:          fee,
		ExternalTxID: d.TxID,
		CreatedAt:    parseMillis(d.TxTime),
		CompletedAt:  completedAt,
		TransferType: transferType,
	}, nil
}

// toOrder 转换为规范化订单记录
func (d orderData) toOrder() (types.OrderRecord, error) {
	qty, err := parseQty(d.Qty)
	if err != nil {
		return types.OrderRecord{}, err
	}
	filled, err := parseQty(d.FilledQty)
	if err != nil {
		return types.OrderRecord{}, err
	}

	side := types.OrderSideBid
	if strings.EqualFold(d.Side, "sell") {
		side = types.OrderSideAsk
	}
	state, ok := orderStatuses[strings.ToLower(d.Status)]
	if !ok {
		state = types.OrderStateWait
	}
	return types.OrderRecord{
		ID:             formatID(d.OrderID),
		Market:         normalizeSymbol(d.Symbol),
		Side:           side,
		State:          state,
		CreatedAt:      parseMillis(d.Timestamp),
		OrderedVolume:  qty,
		ExecutedVolume: filled,
	}, nil
}

// toDetail 转换为规范化订单明细
func (d orderDetailData) toDetail() (*types.OrderDetail, error) {
	order, err := d.toOrder()
	if err != nil {
		return nil, err
	}

	fills := make([]types.TradeRecord, 0, len(d.Fills))
	for _, raw := range d.Fills {
		price, err := parseQty(raw.Price)
		if err != nil {
			return nil, err
		}
		qty, err := parseQty(raw.Qty)
		if err != nil {
			return nil, err
		}
		amount, err := parseQty(raw.Amount)
		if err != nil {
			return nil, err
		}
		fills = append(fills, types.TradeRecord{
			Market:    order.Market,
			ID:        formatID(raw.FillID),
			Price:     price,
			Volume:    qty,
			Funds:     amount,
			Side:      order.Side,
			CreatedAt: parseMillis(raw.Timestamp),
		})
	}
	return &types.OrderDetail{Order: order, Trades: fills}, nil
}
