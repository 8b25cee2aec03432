// Package upbit 实现Upbit请求令牌的构造
package upbit

import (
	"crypto/sha512"
	"encoding/hex"

	"github.com/gofrs/uuid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
)

// buildAuthToken 构造Upbit认证头载荷：access_key + 随机nonce，
// 带查询参数时附加查询串的SHA-512摘要，整体以HS256签名。
func buildAuthToken(accessKey, secretKey, rawQuery string) (string, error) {
	nonce, err := uuid.NewV4()
	if err != nil {
		return "", errors.Wrap(err, "failed to generate auth nonce")
	}

	claims := jwt.MapClaims{
		"access_key": accessKey,
		"nonce":      nonce.String(),
	}
	if rawQuery != "" {
		hash := sha512.Sum512([]byte(rawQuery))
		claims["query_hash"] = hex.EncodeToString(hash[:])
		claims["query_hash_alg"] = "SHA512"
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		return "", errors.Wrap(err, "failed to sign auth token")
	}
	return "Bearer " + token, nil
}
