// Package credentials 定义API凭证存取与解密的外部协作接口
package credentials

import (
	"encoding/base64"
	"sync"

	"github.com/pkg/errors"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
)

// APIKey 一组注册的交易所API凭证
type APIKey struct {
	PublicKey       string // 公钥（access key）
	EncryptedSecret string // 加密存储的私钥
}

// Store 凭证存储接口。加密存储本身不属于本核心，由外部实现。
type Store interface {
	// LookupAPIKey 查询用户在指定交易所注册的凭证，未注册返回CredentialsNotFound
	LookupAPIKey(userID, exchange string) (*APIKey, error)
}

// Decryptor 私钥解密接口
type Decryptor interface {
	// Decrypt 解密存储形态的私钥
	Decrypt(encryptedSecret string) (string, error)
}

// MemoryStore 基于内存的凭证存储，用于本地启动与测试
type MemoryStore struct {
	mu   sync.RWMutex
	keys map[string]map[string]*APIKey // userID -> exchange -> key
}

// NewMemoryStore 创建内存凭证存储
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{keys: make(map[string]map[string]*APIKey)}
}

// Register 注册一组凭证
func (s *MemoryStore) Register(userID, exchange string, key *APIKey) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.keys[userID] == nil {
		s.keys[userID] = make(map[string]*APIKey)
	}
	s.keys[userID][exchange] = key
}

// LookupAPIKey 查询凭证
func (s *MemoryStore) LookupAPIKey(userID, exchange string) (*APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if key, ok := s.keys[userID][exchange]; ok {
		return key, nil
	}
	return nil, apperrors.CredentialsNotFound(userID, exchange)
}

// Base64Decryptor 基于base64的解密实现，用于本地启动与测试。
// 生产环境由外部KMS实现替换。
type Base64Decryptor struct{}

// Decrypt 解密私钥
func (Base64Decryptor) Decrypt(encryptedSecret string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(encryptedSecret)
	if err != nil {
		return "", errors.Wrap(err, "failed to decrypt stored secret")
	}
	return string(raw), nil
}
