// Package utils 配置加载测试
package utils

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeConfigFile 写入临时配置文件
func writeConfigFile(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const validConfigYAML = `
app:
  name: "wallet-aggregator"
  version: "1.0.0"
  log_level: "info"

exchanges:
  upbit:
    enabled: true
    timeout: 10s
  bithumb:
    enabled: false
  korbit:
    enabled: false

wallet:
  tracked_currencies: ["BTC", "USDT"]
  tracked_markets: ["KRW-BTC"]
  fiat_currency: "KRW"
  max_limit: 100

credentials:
  - user_id: "demo-user"
    exchange: "upbit"
    access_key: "access-1"
    secret_key: "c2VjcmV0"
`

// TestLoadConfig 测试配置加载与时长解析
func TestLoadConfig(t *testing.T) {
	path := writeConfigFile(t, validConfigYAML)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "wallet-aggregator", config.App.Name)
	assert.True(t, config.Exchanges.Upbit.Enabled)
	assert.Equal(t, 10*time.Second, config.Exchanges.Upbit.Timeout)
	assert.Equal(t, []string{"BTC", "USDT"}, config.Wallet.TrackedCurrencies)
	assert.Equal(t, 100, config.Wallet.MaxLimit)
	require.Len(t, config.Credentials, 1)
	assert.Equal(t, "demo-user", config.Credentials[0].UserID)
}

// TestLoadConfigFileNotFound 测试不存在的配置文件
func TestLoadConfigFileNotFound(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

// TestLoadConfigValidation 测试配置验证的拒绝场景
func TestLoadConfigValidation(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{
			name: "无启用交易所",
			content: `
app:
  name: "wallet-aggregator"
exchanges:
  upbit:
    enabled: false
wallet:
  tracked_currencies: ["BTC"]
  tracked_markets: ["KRW-BTC"]
  fiat_currency: "KRW"
`,
		},
		{
			name: "空跟踪币种",
			content: `
app:
  name: "wallet-aggregator"
exchanges:
  upbit:
    enabled: true
wallet:
  tracked_currencies: []
  tracked_markets: ["KRW-BTC"]
  fiat_currency: "KRW"
`,
		},
		{
			name: "无效交易所凭证",
			content: `
app:
  name: "wallet-aggregator"
exchanges:
  upbit:
    enabled: true
wallet:
  tracked_currencies: ["BTC"]
  tracked_markets: ["KRW-BTC"]
  fiat_currency: "KRW"
credentials:
  - user_id: "demo-user"
    exchange: "binance"
    access_key: "a"
    secret_key: "b"
`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfigFile(t, tc.content))
			assert.Error(t, err)
		})
	}
}

// TestGetDefaultConfig 测试默认配置可通过验证
func TestGetDefaultConfig(t *testing.T) {
	config := GetDefaultConfig()
	require.NoError(t, validateConfig(config))
	assert.True(t, config.Exchanges.Upbit.Enabled)
	assert.NotEmpty(t, config.Wallet.TrackedCurrencies)
}

// TestSaveConfigRoundTrip 测试配置保存后可重新加载
func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "saved", "config.yaml")

	config := GetDefaultConfig()
	require.NoError(t, SaveConfig(config, path))

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.App.Name, loaded.App.Name)
	assert.Equal(t, config.Wallet.TrackedMarkets, loaded.Wallet.TrackedMarkets)
}
