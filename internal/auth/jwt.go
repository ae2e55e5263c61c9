package auth

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
)

// JWTClaims 自定义JWT Claims
type JWTClaims struct {
	UID       string `json:"uid"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"is_admin"`
	TokenType string `json:"token_type"` // access or refresh
	jwt.RegisteredClaims
}

// JWTManager JWT管理器
type JWTManager struct {
	secretKey          string
	accessTokenExpiry  time.Duration
	refreshTokenExpiry time.Duration
}

// NewJWTManager 创建JWT管理器
func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{
		secretKey:          cfg.Secret,
		accessTokenExpiry:  time.Duration(cfg.ExpireHours) * time.Hour,
		refreshTokenExpiry: time.Duration(cfg.RefreshHours) * time.Hour,
	}
}

// GenerateAccessToken 生成访问令牌
func (j *JWTManager) GenerateAccessToken(uid, email string, isAdmin bool) (string, error) {
	return j.generate(uid, email, isAdmin, "access", j.accessTokenExpiry)
}

// GenerateRefreshToken 生成刷新令牌
func (j *JWTManager) GenerateRefreshToken(uid string) (string, error) {
	return j.generate(uid, "", false, "refresh", j.refreshTokenExpiry)
}

func (j *JWTManager) generate(uid, email string, isAdmin bool, tokenType string, expiry time.Duration) (string, error) {
	now := time.Now()
	claims := &JWTClaims{
		UID:       uid,
		Email:     email,
		IsAdmin:   isAdmin,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(expiry)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    "ngedate-yuk",
			Subject:   uid,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.secretKey))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrTokenInvalid, "签发令牌失败")
	}
	return signed, nil
}

// ValidateToken 验证令牌
func (j *JWTManager) ValidateToken(tokenString string) (*JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New(errors.ErrTokenInvalid, "非预期的签名算法")
		}
		return []byte(j.secretKey), nil
	})

	if err != nil {
		if stderrors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.Wrap(err, errors.ErrTokenExpired, "令牌已过期")
		}
		return nil, errors.Wrap(err, errors.ErrTokenInvalid, "令牌解析失败")
	}

	claims, ok := token.Claims.(*JWTClaims)
	if !ok || !token.Valid {
		return nil, errors.New(errors.ErrTokenInvalid, "令牌无效")
	}
	return claims, nil
}

// RefreshAccessToken 使用刷新令牌生成新的访问令牌
func (j *JWTManager) RefreshAccessToken(refreshToken, email string, isAdmin bool) (string, error) {
	claims, err := j.ValidateToken(refreshToken)
	if err != nil {
		return "", err
	}
	if claims.TokenType != "refresh" {
		return "", errors.New(errors.ErrTokenInvalid, "不是刷新令牌")
	}
	return j.GenerateAccessToken(claims.UID, email, isAdmin)
}

// AccessTokenExpiry 访问令牌有效期
func (j *JWTManager) AccessTokenExpiry() time.Duration {
	return j.accessTokenExpiry
}
