package api

import (
	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/service"
)

// PartnerHandler 伴侣配对处理器
type PartnerHandler struct {
	partnerService service.PartnerService
}

// NewPartnerHandler 创建伴侣处理器
func NewPartnerHandler(partnerService service.PartnerService) *PartnerHandler {
	return &PartnerHandler{partnerService: partnerService}
}

// partnerRequestBody 发起申请的请求体
type partnerRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// Request 按邮箱发起伴侣申请
func (h *PartnerHandler) Request(c *gin.Context) {
	var req partnerRequestBody
	if !bindJSON(c, &req) {
		return
	}

	request, err := h.partnerService.Request(c.Request.Context(), middleware.CurrentUID(c), req.Email)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, request)
}

// IncomingRequests 我收到的待处理申请
func (h *PartnerHandler) IncomingRequests(c *gin.Context) {
	requests, err := h.partnerService.IncomingRequests(c.Request.Context(), middleware.CurrentUID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, requests)
}

// Approve 同意申请
func (h *PartnerHandler) Approve(c *gin.Context) {
	err := h.partnerService.Approve(c.Request.Context(), middleware.CurrentUID(c), c.Param("request_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"approved": true})
}

// Decline 拒绝申请
func (h *PartnerHandler) Decline(c *gin.Context) {
	err := h.partnerService.Decline(c.Request.Context(), middleware.CurrentUID(c), c.Param("request_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"declined": true})
}

// Remove 解除伴侣关系
func (h *PartnerHandler) Remove(c *gin.Context) {
	if err := h.partnerService.Remove(c.Request.Context(), middleware.CurrentUID(c)); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"removed": true})
}
