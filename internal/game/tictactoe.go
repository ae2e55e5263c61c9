package game

import (
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/game/board"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// 连珠棋默认棋盘边长，旧对局存量为3x3
const defaultTicTacToeSize = 5

// TicTacToeEngine 连珠棋引擎：NxN棋盘，整行/整列/任一主对角线连满获胜
type TicTacToeEngine struct{}

// NewTicTacToeEngine 创建连珠棋引擎
func NewTicTacToeEngine() *TicTacToeEngine {
	return &TicTacToeEngine{}
}

// GameType 返回游戏类型
func (e *TicTacToeEngine) GameType() models.GameType {
	return models.GameTicTacToe
}

// InitialState 返回初始状态
func (e *TicTacToeEngine) InitialState() models.JSONMap {
	return models.JSONMap{
		"size":  defaultTicTacToeSize,
		"board": map[string]interface{}{},
	}
}

// ticTacToeMove 落子请求
type ticTacToeMove struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// boardSize 读取棋盘边长，旧存量可能缺失size字段，按棋盘形态推断
func (e *TicTacToeEngine) boardSize(state models.JSONMap) int {
	if size := asInt(state["size"], 0); size > 0 {
		return size
	}
	// 旧版稠密数组按行数推断
	if rows := asSlice(state["board"]); len(rows) > 0 {
		return len(rows)
	}
	return defaultTicTacToeSize
}

// ApplyMove 应用一次落子
func (e *TicTacToeEngine) ApplyMove(state models.JSONMap, move json.RawMessage, mc MoveContext) (*MoveResult, error) {
	if err := requireTurn(mc); err != nil {
		return nil, err
	}

	var m ticTacToeMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam)
	}

	size := e.boardSize(state)
	if m.Row < 0 || m.Row >= size || m.Col < 0 || m.Col >= size {
		return nil, errors.Newf(errors.ErrInvalidMove, "坐标越界: (%d,%d)", m.Row, m.Col)
	}

	grid := board.DecodeStrings(state["board"], size, size, "")
	if grid[m.Row][m.Col] != "" {
		return nil, errors.Newf(errors.ErrInvalidMove, "格子已被占用: (%d,%d)", m.Row, m.Col)
	}

	grid[m.Row][m.Col] = mc.Actor

	result := &MoveResult{
		State: models.JSONMap{
			"size":  size,
			"board": board.EncodeStrings(grid),
		},
		Outcome:  OutcomeContinue,
		NextTurn: mc.Opponent,
	}

	switch {
	case e.hasFullLine(grid, size, mc.Actor):
		result.Outcome = OutcomeWin
		result.WinnerUID = mc.Actor
		result.NextTurn = ""
	case e.isFull(grid):
		result.Outcome = OutcomeDraw
		result.NextTurn = ""
	}

	return result, nil
}

// hasFullLine 判断玩家是否占满任一行、列或主对角线
func (e *TicTacToeEngine) hasFullLine(grid [][]string, size int, uid string) bool {
	// 行与列
	for i := 0; i < size; i++ {
		rowWin, colWin := true, true
		for j := 0; j < size; j++ {
			if grid[i][j] != uid {
				rowWin = false
			}
			if grid[j][i] != uid {
				colWin = false
			}
		}
		if rowWin || colWin {
			return true
		}
	}

	// 两条主对角线
	diagWin, antiWin := true, true
	for i := 0; i < size; i++ {
		if grid[i][i] != uid {
			diagWin = false
		}
		if grid[i][size-1-i] != uid {
			antiWin = false
		}
	}
	return diagWin || antiWin
}

// isFull 判断棋盘是否下满
func (e *TicTacToeEngine) isFull(grid [][]string) bool {
	for _, row := range grid {
		for _, cell := range row {
			if cell == "" {
				return false
			}
		}
	}
	return true
}
