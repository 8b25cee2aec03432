// Package app 提供系统初始化功能
package app

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/UMCSCOI/Backend-sub000/internal/credentials"
	"github.com/UMCSCOI/Backend-sub000/internal/types"
	"github.com/UMCSCOI/Backend-sub000/internal/wallet"
)

// SystemInitializer 系统初始化器
type SystemInitializer struct {
	logger *zap.Logger
	config *types.Config
}

// NewSystemInitializer 创建新的系统初始化器
func NewSystemInitializer(logger *zap.Logger, config *types.Config) *SystemInitializer {
	return &SystemInitializer{
		logger: logger,
		config: config,
	}
}

// SystemComponents 系统组件
type SystemComponents struct {
	Gateways map[types.Exchange]types.Gateway
	Service  *wallet.Service
	Logger   *zap.Logger
	Config   *types.Config
}

// InitializeSystem 初始化整个系统
func (si *SystemInitializer) InitializeSystem() (*SystemComponents, error) {
	si.logger.Info("开始系统初始化...")

	store := si.seedCredentialStore()
	decryptor := credentials.Base64Decryptor{}

	gateways, err := NewExchangeManager(si.logger).Initialize(si.config, store, decryptor)
	if err != nil {
		return nil, fmt.Errorf("交易所网关初始化失败: %w", err)
	}
	if len(gateways) == 0 {
		return nil, fmt.Errorf("没有启用任何交易所网关")
	}

	components := &SystemComponents{
		Gateways: gateways,
		Service:  wallet.NewService(gateways, si.logger.Named("wallet")),
		Logger:   si.logger,
		Config:   si.config,
	}

	si.logger.Info("系统初始化完成",
		zap.Int("gateways_count", len(gateways)),
		zap.Strings("tracked_currencies", si.config.Wallet.TrackedCurrencies))
	return components, nil
}

// seedCredentialStore 将配置中的预置凭证灌入内存存储
func (si *SystemInitializer) seedCredentialStore() credentials.Store {
	store := credentials.NewMemoryStore()
	for _, cred := range si.config.Credentials {
		store.Register(cred.UserID, cred.Exchange, &credentials.APIKey{
			PublicKey:       cred.AccessKey,
			EncryptedSecret: cred.SecretKey,
		})
		si.logger.Debug("注册预置凭证",
			zap.String("user_id", cred.UserID),
			zap.String("exchange", cred.Exchange))
	}
	return store
}

// Shutdown 关闭系统组件
func (sc *SystemComponents) Shutdown() error {
	sc.Logger.Info("正在关闭系统组件...")

	for name, gw := range sc.Gateways {
		if err := gw.Close(); err != nil {
			sc.Logger.Error("关闭交易所网关失败",
				zap.String("exchange", string(name)), zap.Error(err))
		} else {
			sc.Logger.Info("交易所网关已关闭", zap.String("exchange", string(name)))
		}
	}

	sc.Logger.Info("系统关闭完成")
	return nil
}
