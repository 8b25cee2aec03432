package utils

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/UMCSCOI/Backend-sub000/internal/types"
)

// LoadConfig 从YAML文件加载配置
func LoadConfig(configPath string) (*types.Config, error) {
	// 如果未指定配置文件路径，使用默认路径
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	// 检查文件是否存在
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("配置文件不存在: %s", configPath)
	}

	// 读取文件内容
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %v", err)
	}

	// 解析YAML
	var config types.Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %v", err)
	}

	// 验证配置
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("配置验证失败: %v", err)
	}

	return &config, nil
}

// validateConfig 验证配置的有效性
func validateConfig(config *types.Config) error {
	// 验证应用配置
	if config.App.Name == "" {
		return fmt.Errorf("应用名称不能为空")
	}

	// 至少启用一个交易所
	if !config.Exchanges.Upbit.Enabled && !config.Exchanges.Bithumb.Enabled &&
		!config.Exchanges.Korbit.Enabled {
		return fmt.Errorf("至少需要启用一个交易所")
	}

	// 验证钱包聚合配置
	if len(config.Wallet.TrackedCurrencies) == 0 {
		return fmt.Errorf("跟踪币种白名单不能为空")
	}
	if len(config.Wallet.TrackedMarkets) == 0 {
		return fmt.Errorf("跟踪市场列表不能为空")
	}
	if config.Wallet.FiatCurrency == "" {
		return fmt.Errorf("法币币种不能为空")
	}
	if config.Wallet.MaxLimit < 0 {
		return fmt.Errorf("最大返回条数不能为负数")
	}

	// 验证预置凭证
	for i, cred := range config.Credentials {
		if cred.UserID == "" {
			return fmt.Errorf("第%d个凭证的用户ID不能为空", i+1)
		}
		if _, err := types.ParseExchange(cred.Exchange); err != nil {
			return fmt.Errorf("第%d个凭证的交易所无效: %s", i+1, cred.Exchange)
		}
		if cred.AccessKey == "" || cred.SecretKey == "" {
			return fmt.Errorf("第%d个凭证的密钥对不能为空", i+1)
		}
	}

	return nil
}

// SaveConfig 保存配置到文件
func SaveConfig(config *types.Config, configPath string) error {
	// 确保目录存在
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建配置目录失败: %v", err)
	}

	// 序列化为YAML
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("序列化配置失败: %v", err)
	}

	// 写入文件
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %v", err)
	}

	return nil
}

// GetDefaultConfig 获取默认配置
func GetDefaultConfig() *types.Config {
	return &types.Config{
		App: types.AppConfig{
			Name:     "wallet-aggregator",
			Version:  "1.0.0",
			LogLevel: "info",
		},
		Exchanges: types.ExchangesConfig{
			Upbit: types.ExchangeConfig{
				Enabled: true,
				APIURL:  "https://api.upbit.com",
			},
			Bithumb: types.ExchangeConfig{
				Enabled: true,
				APIURL:  "https://api.bithumb.com",
			},
			Korbit: types.ExchangeConfig{
				Enabled: true,
				APIURL:  "https://api.korbit.co.kr",
			},
		},
		Wallet: types.WalletConfig{
			TrackedCurrencies: []string{"BTC", "USDT"},
			TrackedMarkets:    []string{"KRW-BTC", "KRW-USDT"},
			FiatCurrency:      "KRW",
			MaxLimit:          100,
		},
	}
}
