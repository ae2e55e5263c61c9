package models

import (
	"time"
)

// GameType 游戏类型
type GameType string

const (
	GameTicTacToe GameType = "tictactoe" // 连线棋（alignment）
	GameConnect4  GameType = "connect4"  // 重力落子（gravity-drop）
	GameDotsBoxes GameType = "dotsboxes" // 占边围格（edge-claim）
	GameSeaBattle GameType = "seabattle" // 海战（fleet-combat）
)

// Valid 检查游戏类型是否受支持
func (t GameType) Valid() bool {
	switch t {
	case GameTicTacToe, GameConnect4, GameDotsBoxes, GameSeaBattle:
		return true
	}
	return false
}

// MatchStatus 对局状态
type MatchStatus string

const (
	MatchWaiting  MatchStatus = "waiting"  // 等待玩家/准备中
	MatchPlaying  MatchStatus = "playing"  // 对局进行中
	MatchFinished MatchStatus = "finished" // 已结束（终态）
)

// Match 对局文档表（一局两人对战）
//
// WinnerUID为空有两种含义：status!=finished时表示胜负未定，
// status=finished时表示平局。读取方必须先看status（历史行为，保持不变）。
type Match struct {
	BaseModel
	MatchID  string      `gorm:"uniqueIndex;size:64;not null" json:"match_id"`
	GameType GameType    `gorm:"size:20;not null;index" json:"game_type"`
	Status   MatchStatus `gorm:"size:20;not null;default:'waiting';index" json:"status"`

	// 房间码：6位大写字母数字，用于第二名玩家加入
	RoomCode string `gorm:"uniqueIndex;size:6;not null" json:"room_code"`

	Players   StringArray `gorm:"type:json" json:"players"` // 最多2人，[0]为房主
	TurnUID   string      `gorm:"size:64" json:"turn_uid"`
	WinnerUID *string     `gorm:"size:64" json:"winner_uid"`

	// 准备门控：双方都ready且扣费成功后才进入playing
	PlayersReady    BoolMap `gorm:"type:json" json:"players_ready"`
	CreditsDeducted bool    `gorm:"default:false" json:"credits_deducted"`

	// 变体专属的游戏状态（按game_type解释，读取时在边界校验）
	GameState JSONMap `gorm:"type:json" json:"game_state"`

	LastMoveAt time.Time `json:"last_move_at"`
}

// TableName 指定Match表名
func (Match) TableName() string {
	return "matches"
}

// HasPlayer 检查用户是否为对局参与者
func (m *Match) HasPlayer(uid string) bool {
	return m.Players.Contains(uid)
}

// Opponent 返回对手UID（不存在时返回空串）
func (m *Match) Opponent(uid string) string {
	for _, p := range m.Players {
		if p != uid {
			return p
		}
	}
	return ""
}

// IsFull 检查房间是否已满
func (m *Match) IsFull() bool {
	return len(m.Players) >= 2
}

// BothReady 检查双方是否都已准备
func (m *Match) BothReady() bool {
	if len(m.Players) < 2 {
		return false
	}
	for _, p := range m.Players {
		if !m.PlayersReady[p] {
			return false
		}
	}
	return true
}
