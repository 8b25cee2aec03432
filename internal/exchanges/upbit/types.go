// Package upbit 定义Upbit交易所的数据类型
package upbit

// accountData 账户余额响应
type accountData struct {
	Currency            string `json:"currency"`              // 币种
	Balance             string `json:"balance"`               // 可用余额
	Locked              string `json:"locked"`                // 冻结余额
	AvgBuyPrice         string `json:"avg_buy_price"`         // 平均买入价
	AvgBuyPriceModified bool   `json:"avg_buy_price_modified"` // 平均买入价是否被修改
	UnitCurrency        string `json:"unit_currency"`         // 计价币种
}

// transferData 充值/提现记录响应
type transferData struct {
	Type            string `json:"type"`             // 类型（deposit/withdraw）
	UUID            string `json:"uuid"`             // 记录ID
	Currency        string `json:"currency"`         // 币种
	NetType         string `json:"net_type"`         // 链网络
	TxID            string `json:"txid"`             // 链上交易ID
	State           string `json:"state"`            // 状态
	CreatedAt       string `json:"created_at"`       // 创建时间（ISO-8601）
	DoneAt          string `json:"done_at"`          // 完成时间（ISO-8601，可空）
	Amount          string `json:"amount"`           // 金额
	Fee             string `json:"fee"`              // 手续费
	TransactionType string `json:"transaction_type"` // 转账类型（default/internal）
}

// orderData 订单响应
type orderData struct {
	UUID           string `json:"uuid"`            // 订单ID
	Side           string `json:"side"`            // 方向（bid/ask）
	OrdType        string `json:"ord_type"`        // 订单类型
	Price          string `json:"price"`           // 委托价格
	State          string `json:"state"`           // 状态（wait/done/cancel）
	Market         string `json:"market"`          // 市场
	CreatedAt      string `json:"created_at"`      // 下单时间（ISO-8601）
	Volume         string `json:"volume"`          // 委托数量
	RemainingVolume string `json:"remaining_volume"` // 剩余数量
	ExecutedVolume string `json:"executed_volume"` // 成交数量
	TradesCount    int    `json:"trades_count"`    // 成交笔数
}

// orderDetailData 订单明细响应（含成交记录）
type orderDetailData struct {
	orderData
	Trades []tradeData `json:"trades"` // 成交列表
}

// tradeData 成交记录
type tradeData struct {
	Market    string `json:"market"`     // 市场
	UUID      string `json:"uuid"`       // 成交ID
	Price     string `json:"price"`      // 成交价格
	Volume    string `json:"volume"`     // 成交数量
	Funds     string `json:"funds"`      // 成交金额
	Side      string `json:"side"`       // 方向
	CreatedAt string `json:"created_at"` // 成交时间（ISO-8601）
}

// withdrawReceiptData 法币提现受理响应
type withdrawReceiptData struct {
	UUID      string `json:"uuid"`       // 受理ID
	Currency  string `json:"currency"`   // 币种
	Amount    string `json:"amount"`     // 金额
	State     string `json:"state"`      // 受理状态
	CreatedAt string `json:"created_at"` // 受理时间（ISO-8601）
}
