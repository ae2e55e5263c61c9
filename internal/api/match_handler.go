package api

import (
	"encoding/json"

	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/service"
)

// MatchHandler 对局处理器
type MatchHandler struct {
	matchService service.MatchService
}

// NewMatchHandler 创建对局处理器
func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// createMatchRequest 建房请求体
type createMatchRequest struct {
	GameType models.GameType `json:"game_type" binding:"required"`
}

// Create 创建对局房间
func (h *MatchHandler) Create(c *gin.Context) {
	var req createMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	match, err := h.matchService.Create(c.Request.Context(), middleware.CurrentUID(c), req.GameType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, match)
}

// joinMatchRequest 加入请求体。game_type可选，传了就校验房间类型
type joinMatchRequest struct {
	RoomCode string          `json:"room_code" binding:"required"`
	GameType models.GameType `json:"game_type"`
}

// Join 凭房间码加入对局
func (h *MatchHandler) Join(c *gin.Context) {
	var req joinMatchRequest
	if !bindJSON(c, &req) {
		return
	}

	match, err := h.matchService.Join(c.Request.Context(), middleware.CurrentUID(c), req.RoomCode, req.GameType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, match)
}

// Ready 玩家准备
func (h *MatchHandler) Ready(c *gin.Context) {
	match, err := h.matchService.Ready(c.Request.Context(), middleware.CurrentUID(c), c.Param("match_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, match)
}

// moveRequest 落子请求体。move字段按game_type解释，原样交给规则引擎
type moveRequest struct {
	Move json.RawMessage `json:"move" binding:"required"`
}

// Move 落子
func (h *MatchHandler) Move(c *gin.Context) {
	var req moveRequest
	if !bindJSON(c, &req) {
		return
	}

	match, err := h.matchService.Move(c.Request.Context(), middleware.CurrentUID(c), c.Param("match_id"), req.Move)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, match)
}

// Get 读取对局（参与者限定）
func (h *MatchHandler) Get(c *gin.Context) {
	match, err := h.matchService.Get(c.Request.Context(), middleware.CurrentUID(c), c.Param("match_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, match)
}

// History 已结束的对局列表
func (h *MatchHandler) History(c *gin.Context) {
	page, pageSize := pageParams(c)
	matches, total, err := h.matchService.History(c.Request.Context(), middleware.CurrentUID(c), page, pageSize)
	if err != nil {
		respondError(c, err)
		return
	}
	respondList(c, matches, total)
}
