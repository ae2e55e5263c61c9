package game

import (
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/game/board"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// 落子棋当前代棋盘规格，旧对局存量为6行7列
const (
	defaultConnect4Rows = 10
	defaultConnect4Cols = 10
	connect4WinLength   = 4
)

// Connect4Engine 落子棋引擎：棋子落到所在列最低的空行，四连获胜
type Connect4Engine struct{}

// NewConnect4Engine 创建落子棋引擎
func NewConnect4Engine() *Connect4Engine {
	return &Connect4Engine{}
}

// GameType 返回游戏类型
func (e *Connect4Engine) GameType() models.GameType {
	return models.GameConnect4
}

// InitialState 返回初始状态
func (e *Connect4Engine) InitialState() models.JSONMap {
	return models.JSONMap{
		"rows":  defaultConnect4Rows,
		"cols":  defaultConnect4Cols,
		"board": map[string]interface{}{},
	}
}

// connect4Move 落子请求，只指定列
type connect4Move struct {
	Col int `json:"col"`
}

// dimensions 读取棋盘行列数，旧存量缺失时按棋盘形态推断
func (e *Connect4Engine) dimensions(state models.JSONMap) (rows, cols int) {
	rows = asInt(state["rows"], 0)
	cols = asInt(state["cols"], 0)
	if rows > 0 && cols > 0 {
		return rows, cols
	}

	// 旧版稠密数组按数组形状推断
	if arr := asSlice(state["board"]); len(arr) > 0 {
		rows = len(arr)
		if first := asSlice(arr[0]); len(first) > 0 {
			cols = len(first)
			return rows, cols
		}
	}

	return defaultConnect4Rows, defaultConnect4Cols
}

// ApplyMove 应用一次落子
func (e *Connect4Engine) ApplyMove(state models.JSONMap, move json.RawMessage, mc MoveContext) (*MoveResult, error) {
	if err := requireTurn(mc); err != nil {
		return nil, err
	}

	var m connect4Move
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam)
	}

	rows, cols := e.dimensions(state)
	if m.Col < 0 || m.Col >= cols {
		return nil, errors.Newf(errors.ErrInvalidMove, "列越界: %d", m.Col)
	}

	grid := board.DecodeStrings(state["board"], rows, cols, "")

	// 找到该列最低的空行
	landed := -1
	for r := rows - 1; r >= 0; r-- {
		if grid[r][m.Col] == "" {
			landed = r
			break
		}
	}
	if landed < 0 {
		return nil, errors.Newf(errors.ErrInvalidMove, "该列已满: %d", m.Col)
	}

	grid[landed][m.Col] = mc.Actor

	result := &MoveResult{
		State: models.JSONMap{
			"rows":  rows,
			"cols":  cols,
			"board": board.EncodeStrings(grid),
		},
		Outcome:  OutcomeContinue,
		NextTurn: mc.Opponent,
	}

	switch {
	case e.hasConnect(grid, rows, cols, landed, m.Col, mc.Actor):
		result.Outcome = OutcomeWin
		result.WinnerUID = mc.Actor
		result.NextTurn = ""
	case e.isFull(grid):
		result.Outcome = OutcomeDraw
		result.NextTurn = ""
	}

	return result, nil
}

// hasConnect 以落点为中心检查横、竖、两条斜线方向的四连
func (e *Connect4Engine) hasConnect(grid [][]string, rows, cols, row, col int, uid string) bool {
	directions := [][2]int{
		{0, 1},  // 横向
		{1, 0},  // 纵向
		{1, 1},  // 主对角线方向
		{1, -1}, // 副对角线方向
	}

	for _, d := range directions {
		count := 1
		// 正方向
		for r, c := row+d[0], col+d[1]; r >= 0 && r < rows && c >= 0 && c < cols && grid[r][c] == uid; r, c = r+d[0], c+d[1] {
			count++
		}
		// 反方向
		for r, c := row-d[0], col-d[1]; r >= 0 && r < rows && c >= 0 && c < cols && grid[r][c] == uid; r, c = r-d[0], c-d[1] {
			count++
		}
		if count >= connect4WinLength {
			return true
		}
	}
	return false
}

// isFull 判断棋盘是否下满
func (e *Connect4Engine) isFull(grid [][]string) bool {
	// 只需检查顶行
	for _, cell := range grid[0] {
		if cell == "" {
			return false
		}
	}
	return true
}
