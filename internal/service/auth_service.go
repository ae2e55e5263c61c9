package service

import (
	"context"

	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"go.uber.org/zap"
)

// authService 认证服务实现
type authService struct {
	users    UserService
	verifier auth.Verifier
	jwt      *auth.JWTManager
	log      *zap.Logger
}

// NewAuthService 创建认证服务
func NewAuthService(users UserService, verifier auth.Verifier, jwt *auth.JWTManager, log *zap.Logger) AuthService {
	return &authService{
		users:    users,
		verifier: verifier,
		jwt:      jwt,
		log:      log,
	}
}

// SignInWithGoogle 校验Google ID token并登录。首次登录自动建号
func (s *authService) SignInWithGoogle(ctx context.Context, idToken string) (*AuthResponse, error) {
	identity, err := s.verifier.Verify(ctx, idToken)
	if err != nil {
		return nil, err
	}

	user, err := s.users.EnsureUser(ctx, identity)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.UID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(user.UID)
	if err != nil {
		return nil, err
	}

	s.log.Info("User signed in", zap.String("uid", user.UID), zap.String("provider", identity.Provider))
	return &AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int64(s.jwt.AccessTokenExpiry().Seconds()),
		User:         user,
	}, nil
}

// RefreshToken 用刷新令牌换取新的访问令牌
func (s *authService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != "refresh" {
		return nil, errors.New(errors.ErrTokenInvalid, "不是刷新令牌")
	}

	user, err := s.users.GetByUID(ctx, claims.UID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.jwt.GenerateAccessToken(user.UID, user.Email, user.IsAdmin)
	if err != nil {
		return nil, err
	}
	return &AuthResponse{
		AccessToken: accessToken,
		ExpiresIn:   int64(s.jwt.AccessTokenExpiry().Seconds()),
		User:        user,
	}, nil
}
