package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/service"
)

// CreditHandler credit经济处理器
type CreditHandler struct {
	creditService  service.CreditService
	paymentService service.PaymentService
	userService    service.UserService
}

// NewCreditHandler 创建credit处理器
func NewCreditHandler(creditService service.CreditService, paymentService service.PaymentService, userService service.UserService) *CreditHandler {
	return &CreditHandler{
		creditService:  creditService,
		paymentService: paymentService,
		userService:    userService,
	}
}

// Balance 当前余额与可否开局
func (h *CreditHandler) Balance(c *gin.Context) {
	uid := middleware.CurrentUID(c)
	user, err := h.userService.GetByUID(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	canPlay, err := h.creditService.CheckSufficient(c.Request.Context(), uid, 1)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{
		"credits":      user.Credits,
		"free_credits": user.FreeCredits,
		"is_admin":     user.IsAdmin,
		"can_play":     canPlay,
	})
}

// History credit流水
func (h *CreditHandler) History(c *gin.Context) {
	page, pageSize := pageParams(c)
	rows, total, err := h.creditService.History(c.Request.Context(), middleware.CurrentUID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, rows, total)
}

// Packages credit套餐目录
func (h *CreditHandler) Packages(c *gin.Context) {
	respondOK(c, h.paymentService.ListPackages())
}
