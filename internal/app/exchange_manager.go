package app

import (
	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/bithumb"
	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/korbit"
	"github.com/UMCSCOI/Backend-sub000/internal/exchanges/upbit"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// ExchangeManager 交易所网关管理器
type ExchangeManager struct {
	logger *zap.Logger
}

// NewExchangeManager 创建交易所网关管理器
func NewExchangeManager(logger *zap.Logger) *ExchangeManager {
	return &ExchangeManager{
		logger: logger,
	}
}

// Initialize 按配置初始化已启用交易所的网关，返回按交易所标识索引的查找表
func (em *ExchangeManager) Initialize(config *types.Config, store credentials.Store,
	decryptor credentials.Decryptor) (map[types.Exchange]types.Gateway, error) {

	gateways := make(map[types.Exchange]types.Gateway)

	if config.Exchanges.Upbit.Enabled {
		gw, err := upbit.New(config.Exchanges.Upbit, config.Wallet, store, decryptor,
			em.logger.Named("upbit"))
		if err != nil {
			em.logger.Error("初始化Upbit网关失败", zap.Error(err))
			return nil, err
		}
		gateways[types.ExchangeUpbit] = gw
		em.logger.Info("Upbit网关初始化成功")
	}

	if config.Exchanges.Bithumb.Enabled {
		gw, err := bithumb.New(config.Exchanges.Bithumb, config.Wallet, store, decryptor,
			em.logger.Named("bithumb"))
		if err != nil {
			em.logger.Error("初始化Bithumb网关失败", zap.Error(err))
			return nil, err
		}
		gateways[types.ExchangeBithumb] = gw
		em.logger.Info("Bithumb网关初始化成功")
	}

	if config.Exchanges.Korbit.Enabled {
		gw, err := korbit.New(config.Exchanges.Korbit, config.Wallet, store, decryptor,
			em.logger.Named("korbit"))
		if err != nil {
			em.logger.Error("初始化Korbit网关失败", zap.Error(err))
			return nil, err
		}
		gateways[types.ExchangeKorbit] = gw
		em.logger.Info("Korbit网关初始化成功")
	}

	return gateways, nil
}
