package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/service"
	"go.uber.org/zap"
)

// PaymentHandler 支付处理器
type PaymentHandler struct {
	paymentService service.PaymentService
}

// NewPaymentHandler 创建支付处理器
func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// checkoutRequest 发起购买的请求体
type checkoutRequest struct {
	PackageID string `json:"package_id" binding:"required"`
}

// Checkout 发起购买
func (h *PaymentHandler) Checkout(c *gin.Context) {
	var req checkoutRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.paymentService.Checkout(c.Request.Context(), middleware.CurrentUID(c), req.PackageID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, resp)
}

// Notification 网关webhook。
// 入账以回查网关为准，处理失败也回200以免网关无限重试非瞬时错误
func (h *PaymentHandler) Notification(c *gin.Context) {
	var notif service.GatewayNotification
	if err := c.ShouldBindJSON(&notif); err != nil {
		logger.Warn("Malformed payment notification", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	if err := h.paymentService.HandleNotification(c.Request.Context(), &notif); err != nil {
		logger.Error("Payment notification failed",
			zap.Error(err), zap.String("order_id", notif.OrderID))
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// History 购买记录
func (h *PaymentHandler) History(c *gin.Context) {
	page, pageSize := pageParams(c)
	rows, total, err := h.paymentService.History(c.Request.Context(), middleware.CurrentUID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, rows, total)
}
