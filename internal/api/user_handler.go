package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/service"
)

// UserHandler 用户处理器
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler 创建用户处理器
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GetMe 当前用户资料
func (h *UserHandler) GetMe(c *gin.Context) {
	user, err := h.userService.GetByUID(c.Request.Context(), middleware.CurrentUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}

// UpdateMe 更新当前用户资料
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req service.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), middleware.CurrentUID(c), &req)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, user)
}
