// Package types 定义钱包聚合服务的配置类型
package types

import "time"

// Config 主配置结构
type Config struct {
	App         AppConfig          `yaml:"app"`         // 应用配置
	Exchanges   ExchangesConfig    `yaml:"exchanges"`   // 交易所配置
	Wallet      WalletConfig       `yaml:"wallet"`      // 钱包聚合配置
	Credentials []CredentialConfig `yaml:"credentials"` // 预置API凭证列表
}

// AppConfig 应用配置
type AppConfig struct {
	Name     string `yaml:"name"`      // 应用名称
	Version  string `yaml:"version"`   // 应用版本
	LogLevel string `yaml:"log_level"` // 日志级别
}

// ExchangesConfig 交易所配置
type ExchangesConfig struct {
	Upbit   ExchangeConfig `yaml:"upbit"`   // Upbit交易所配置
	Bithumb ExchangeConfig `yaml:"bithumb"` // Bithumb交易所配置
	Korbit  ExchangeConfig `yaml:"korbit"`  // Korbit交易所配置
}

// ExchangeConfig 单个交易所配置
type ExchangeConfig struct {
	Enabled bool          `yaml:"enabled"` // 是否启用
	APIURL  string        `yaml:"api_url"` // API地址（可指向测试服务器）
	Timeout time.Duration `yaml:"timeout"` // 单次HTTP请求超时
}

// WalletConfig 钱包聚合配置
type WalletConfig struct {
	TrackedCurrencies []string `yaml:"tracked_currencies"` // 跟踪币种白名单
	TrackedMarkets    []string `yaml:"tracked_markets"`    // 跟踪市场列表
	FiatCurrency      string   `yaml:"fiat_currency"`      // 法币币种
	MaxLimit          int      `yaml:"max_limit"`          // 单次查询的最大返回条数
}

// CredentialConfig 预置API凭证配置（仅用于本地启动与测试）
type CredentialConfig struct {
	UserID    string `yaml:"user_id"`    // 用户ID
	Exchange  string `yaml:"exchange"`   // 交易所
	AccessKey string `yaml:"access_key"` // 公钥
	SecretKey string `yaml:"secret_key"` // 加密存储的私钥
}
