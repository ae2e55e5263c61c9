package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
)

// 上下文键
const (
	ContextKeyUID     = "uid"
	ContextKeyEmail   = "email"
	ContextKeyIsAdmin = "is_admin"
)

// AuthMiddleware JWT认证中间件
type AuthMiddleware struct {
	jwt *auth.JWTManager
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwt *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// RequireAuth 需要认证的中间件
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := m.extractToken(c)
		if token == "" {
			abortWith(c, errors.New(errors.ErrAuthentication, "缺少认证令牌"))
			return
		}

		claims, err := m.jwt.ValidateToken(token)
		if err != nil {
			abortWith(c, err)
			return
		}
		if claims.TokenType != "access" {
			abortWith(c, errors.New(errors.ErrTokenInvalid, "不是访问令牌"))
			return
		}

		c.Set(ContextKeyUID, claims.UID)
		c.Set(ContextKeyEmail, claims.Email)
		c.Set(ContextKeyIsAdmin, claims.IsAdmin)

		c.Next()
	}
}

// RequireAdmin 需要管理员的中间件（叠在RequireAuth之后用）
func (m *AuthMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !c.GetBool(ContextKeyIsAdmin) {
			abortWith(c, errors.New(errors.ErrPermissionDenied, "需要管理员权限"))
			return
		}
		c.Next()
	}
}

// abortWith 按错误码写响应并中断
func abortWith(c *gin.Context, err error) {
	appErr := errors.AsAppError(err)
	c.JSON(appErr.HTTPStatus(), errors.NewErrorResponse(appErr, requestID(c)))
	c.Abort()
}

// requestID 透传请求ID（没有就空着）
func requestID(c *gin.Context) string {
	return c.GetHeader("X-Request-ID")
}

// CurrentUID 取当前登录用户的UID
func CurrentUID(c *gin.Context) string {
	return c.GetString(ContextKeyUID)
}

// extractToken 从请求中提取令牌
func (m *AuthMiddleware) extractToken(c *gin.Context) string {
	// Authorization Header (Bearer Token)
	bearerToken := c.GetHeader("Authorization")
	if bearerToken != "" {
		parts := strings.Split(bearerToken, " ")
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Cookie
	if token, err := c.Cookie("access_token"); err == nil && token != "" {
		return token
	}

	// Query参数（websocket握手用）
	return c.Query("token")
}
