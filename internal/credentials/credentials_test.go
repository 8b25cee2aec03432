// Package credentials 凭证存取测试
package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/UMCSCOI/Backend-sub000/internal/apperrors"
)

// TestMemoryStoreLookup 测试凭证注册与查询
func TestMemoryStoreLookup(t *testing.T) {
	store := NewMemoryStore()
	store.Register("user-1", "upbit", &APIKey{PublicKey: "pk-1", EncryptedSecret: "sk-1"})
	store.Register("user-1", "korbit", &APIKey{PublicKey: "pk-2", EncryptedSecret: "sk-2"})

	key, err := store.LookupAPIKey("user-1", "korbit")
	require.NoError(t, err)
	assert.Equal(t, "pk-2", key.PublicKey)
}

// TestMemoryStoreNotFound 测试未注册凭证的错误码
func TestMemoryStoreNotFound(t *testing.T) {
	store := NewMemoryStore()
	store.Register("user-1", "upbit", &APIKey{PublicKey: "pk-1"})

	// 同一用户的其它交易所与另一用户都应命中未注册
	_, err := store.LookupAPIKey("user-1", "bithumb")
	assert.Equal(t, apperrors.CodeCredentialsNotFound, apperrors.CodeOf(err))

	_, err = store.LookupAPIKey("user-2", "upbit")
	assert.Equal(t, apperrors.CodeCredentialsNotFound, apperrors.CodeOf(err))
}

// TestMemoryStoreOverwrite 测试重复注册覆盖旧凭证
func TestMemoryStoreOverwrite(t *testing.T) {
	store := NewMemoryStore()
	store.Register("user-1", "upbit", &APIKey{PublicKey: "old"})
	store.Register("user-1", "upbit", &APIKey{PublicKey: "new"})

	key, err := store.LookupAPIKey("user-1", "upbit")
	require.NoError(t, err)
	assert.Equal(t, "new", key.PublicKey)
}

// TestBase64Decryptor 测试base64解密
func TestBase64Decryptor(t *testing.T) {
	secret, err := Base64Decryptor{}.Decrypt("c2VjcmV0LWtleQ==")
	require.NoError(t, err)
	assert.Equal(t, "secret-key", secret)

	_, err = Base64Decryptor{}.Decrypt("%%%not-base64%%%")
	assert.Error(t, err)
}
