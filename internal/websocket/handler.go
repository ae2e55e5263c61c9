package websocket

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"go.uber.org/zap"
)

// Handler WebSocket接入处理器
type Handler struct {
	hub      *Hub
	jwt      *auth.JWTManager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler 创建接入处理器
func NewHandler(hub *Hub, jwt *auth.JWTManager, cfg config.WebSocketConfig, logger *zap.Logger) *Handler {
	readBuffer := cfg.ReadBufferSize
	if readBuffer <= 0 {
		readBuffer = 1024
	}
	writeBuffer := cfg.WriteBufferSize
	if writeBuffer <= 0 {
		writeBuffer = 1024
	}

	return &Handler{
		hub: hub,
		jwt: jwt,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    readBuffer,
			WriteBufferSize:   writeBuffer,
			EnableCompression: cfg.EnableCompression,
			// 前端域名由部署层约束
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// HandleConnection 升级连接。浏览器WebSocket带不了自定义头，
// 令牌走query参数
func (h *Handler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "未授权"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败", zap.Error(err))
		return
	}

	client := NewClient(h.hub, conn, claims.UID)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()
}
