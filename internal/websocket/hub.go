package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/nafhansa/ngedate-yuk/internal/models"
	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心
type Hub struct {
	// 客户端连接池
	clients   map[string]*Client
	clientsMu sync.RWMutex

	// 用户UID到客户端的映射（同一用户可以多端在线）
	userClients map[string][]*Client
	userMu      sync.RWMutex

	// 注册/注销通道
	register   chan *Client
	unregister chan *Client

	// 日志
	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`
	MatchID   string          `json:"match_id,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// MessageType 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 订阅对局更新
	MessageTypeSubscribe = "subscribe"

	// 对局文档推送（每次对局写入后推完整文档）
	MessageTypeMatchUpdate = "match_update"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients:     make(map[string]*Client),
		userClients: make(map[string][]*Client),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		logger:      logger,
	}
}

// Run 运行Hub
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	if client.UID != "" {
		h.userMu.Lock()
		h.userClients[client.UID] = append(h.userClients[client.UID], client)
		h.userMu.Unlock()
	}

	h.logger.Info("WebSocket客户端连接",
		zap.String("client_id", client.ID),
		zap.String("uid", client.UID))

	h.SendToClient(client.ID, &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"message":"连接成功"}`),
	})
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	if client.UID != "" {
		h.userMu.Lock()
		clients := h.userClients[client.UID]
		for i, c := range clients {
			if c.ID == client.ID {
				h.userClients[client.UID] = append(clients[:i], clients[i+1:]...)
				break
			}
		}
		if len(h.userClients[client.UID]) == 0 {
			delete(h.userClients, client.UID)
		}
		h.userMu.Unlock()
	}

	h.logger.Info("WebSocket客户端断开",
		zap.String("client_id", client.ID),
		zap.String("uid", client.UID))
}

// PublishMatch 把完整的对局文档推给两名玩家与该对局的订阅端。
// 推不出去只记日志，对局写入本身不受影响
func (h *Hub) PublishMatch(match *models.Match) {
	payload, err := json.Marshal(match)
	if err != nil {
		h.logger.Error("序列化对局文档失败",
			zap.Error(err), zap.String("match_id", match.MatchID))
		return
	}

	msg := &Message{
		Type:      MessageTypeMatchUpdate,
		MatchID:   match.MatchID,
		Data:      payload,
		Timestamp: time.Now().Unix(),
	}
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("序列化推送消息失败", zap.Error(err))
		return
	}

	delivered := make(map[string]bool)

	// 玩家的所有在线端
	h.userMu.RLock()
	for _, uid := range match.Players {
		for _, client := range h.userClients[uid] {
			h.deliver(client, data)
			delivered[client.ID] = true
		}
	}
	h.userMu.RUnlock()

	// 按match_id显式订阅的端（观战自己另一台设备等）
	h.clientsMu.RLock()
	for _, client := range h.clients {
		if delivered[client.ID] {
			continue
		}
		if client.MatchID() == match.MatchID {
			h.deliver(client, data)
		}
	}
	h.clientsMu.RUnlock()
}

// deliver 投递原始数据，缓冲区满只告警不阻塞
func (h *Hub) deliver(client *Client, data []byte) {
	select {
	case client.Send <- data:
	default:
		h.logger.Warn("客户端发送缓冲区满", zap.String("client_id", client.ID))
	}
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	client, ok := h.clients[clientID]
	h.clientsMu.RUnlock()

	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// SendToUser 发送消息给指定用户的所有客户端
func (h *Hub) SendToUser(uid string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.userMu.RLock()
	clients := h.userClients[uid]
	h.userMu.RUnlock()

	if len(clients) == 0 {
		return ErrUserNotConnected
	}
	for _, client := range clients {
		h.deliver(client, data)
	}
	return nil
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// Register 注册客户端（公开方法）
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister 注销客户端（公开方法）
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}
