package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/service"
)

// AuthHandler 认证处理器
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// googleSignInRequest Google登录请求体
type googleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// GoogleSignIn Google登录。首次登录自动建号并赠送credit
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req googleSignInRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.SignInWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// refreshRequest 刷新令牌请求体
type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// RefreshToken 刷新访问令牌
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}
