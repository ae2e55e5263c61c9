package game

import (
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/game/board"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// 点格棋默认点阵边长（4个点 = 3x3个格子），另有8x8点阵存量
const defaultDotsBoxesDots = 4

// DotsBoxesEngine 点格棋引擎：轮流占边，围满四边的格子归操作者并加一分，
// 成格的一手获得额外回合；全部格子分完后分高者胜
type DotsBoxesEngine struct{}

// NewDotsBoxesEngine 创建点格棋引擎
func NewDotsBoxesEngine() *DotsBoxesEngine {
	return &DotsBoxesEngine{}
}

// GameType 返回游戏类型
func (e *DotsBoxesEngine) GameType() models.GameType {
	return models.GameDotsBoxes
}

// InitialState 返回初始状态
func (e *DotsBoxesEngine) InitialState() models.JSONMap {
	return models.JSONMap{
		"dots":    defaultDotsBoxesDots,
		"h_edges": map[string]interface{}{},
		"v_edges": map[string]interface{}{},
		"boxes":   map[string]interface{}{},
		"scores":  map[string]interface{}{},
	}
}

// dotsBoxesMove 占边请求
type dotsBoxesMove struct {
	Orientation string `json:"orientation"` // "h" 或 "v"
	Row         int    `json:"row"`
	Col         int    `json:"col"`
}

// ApplyMove 应用一次占边
func (e *DotsBoxesEngine) ApplyMove(state models.JSONMap, move json.RawMessage, mc MoveContext) (*MoveResult, error) {
	if err := requireTurn(mc); err != nil {
		return nil, err
	}

	var m dotsBoxesMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam)
	}

	dots := asInt(state["dots"], defaultDotsBoxesDots)
	hEdges := copyMap(asMap(state["h_edges"]))
	vEdges := copyMap(asMap(state["v_edges"]))
	boxes := copyMap(asMap(state["boxes"]))
	scores := copyMap(asMap(state["scores"]))

	key := board.Key(m.Row, m.Col)

	// 校验边的坐标与占用情况
	switch m.Orientation {
	case "h":
		// 横边：dots行 x (dots-1)列
		if m.Row < 0 || m.Row >= dots || m.Col < 0 || m.Col >= dots-1 {
			return nil, errors.Newf(errors.ErrInvalidMove, "横边越界: (%d,%d)", m.Row, m.Col)
		}
		if _, claimed := hEdges[key]; claimed {
			return nil, errors.Newf(errors.ErrInvalidMove, "横边已被占用: (%d,%d)", m.Row, m.Col)
		}
		hEdges[key] = mc.Actor
	case "v":
		// 竖边：(dots-1)行 x dots列
		if m.Row < 0 || m.Row >= dots-1 || m.Col < 0 || m.Col >= dots {
			return nil, errors.Newf(errors.ErrInvalidMove, "竖边越界: (%d,%d)", m.Row, m.Col)
		}
		if _, claimed := vEdges[key]; claimed {
			return nil, errors.Newf(errors.ErrInvalidMove, "竖边已被占用: (%d,%d)", m.Row, m.Col)
		}
		vEdges[key] = mc.Actor
	default:
		return nil, errors.Newf(errors.ErrInvalidParam, "未知的边方向: %s", m.Orientation)
	}

	// 一条边最多让两个相邻格子成格
	completed := 0
	for _, box := range e.adjacentBoxes(m, dots) {
		boxKey := board.Key(box[0], box[1])
		if _, claimed := boxes[boxKey]; claimed {
			continue
		}
		if e.boxComplete(hEdges, vEdges, box[0], box[1]) {
			boxes[boxKey] = mc.Actor
			completed++
		}
	}
	if completed > 0 {
		scores[mc.Actor] = asInt(scores[mc.Actor], 0) + completed
	}

	result := &MoveResult{
		State: models.JSONMap{
			"dots":    dots,
			"h_edges": hEdges,
			"v_edges": vEdges,
			"boxes":   boxes,
			"scores":  scores,
		},
		Outcome:  OutcomeContinue,
		NextTurn: mc.Opponent,
	}

	// 成格的一手获得额外回合
	if completed > 0 {
		result.NextTurn = mc.Actor
	}

	// 全部格子分完后结算
	totalBoxes := (dots - 1) * (dots - 1)
	if len(boxes) >= totalBoxes {
		actorScore := asInt(scores[mc.Actor], 0)
		opponentScore := asInt(scores[mc.Opponent], 0)
		result.NextTurn = ""
		switch {
		case actorScore > opponentScore:
			result.Outcome = OutcomeWin
			result.WinnerUID = mc.Actor
		case opponentScore > actorScore:
			result.Outcome = OutcomeWin
			result.WinnerUID = mc.Opponent
		default:
			result.Outcome = OutcomeDraw
		}
	}

	return result, nil
}

// adjacentBoxes 返回与给定边相邻的格子坐标（最多两个）
func (e *DotsBoxesEngine) adjacentBoxes(m dotsBoxesMove, dots int) [][2]int {
	var candidates [][2]int
	if m.Orientation == "h" {
		candidates = [][2]int{{m.Row - 1, m.Col}, {m.Row, m.Col}}
	} else {
		candidates = [][2]int{{m.Row, m.Col - 1}, {m.Row, m.Col}}
	}

	var boxes [][2]int
	for _, b := range candidates {
		if b[0] >= 0 && b[0] < dots-1 && b[1] >= 0 && b[1] < dots-1 {
			boxes = append(boxes, b)
		}
	}
	return boxes
}

// boxComplete 判断格子四条边是否都已被占用
func (e *DotsBoxesEngine) boxComplete(hEdges, vEdges map[string]interface{}, row, col int) bool {
	edges := []struct {
		m   map[string]interface{}
		key string
	}{
		{hEdges, board.Key(row, col)},     // 上边
		{hEdges, board.Key(row+1, col)},   // 下边
		{vEdges, board.Key(row, col)},     // 左边
		{vEdges, board.Key(row, col+1)},   // 右边
	}

	for _, edge := range edges {
		if _, claimed := edge.m[edge.key]; !claimed {
			return false
		}
	}
	return true
}
