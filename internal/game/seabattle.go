package game

import (
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/game/board"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// 海战棋棋盘边长
const seaBattleSize = 15

// seaBattleFleet 舰队编成：1艘航母(5)、2艘战列舰(4)、3艘巡洋舰(3)、4艘驱逐舰(2)
var seaBattleFleet = []int{5, 4, 4, 3, 3, 3, 2, 2, 2, 2}

// SeaBattleEngine 海战棋引擎：双方先布阵后开火，命中保持回合，
// 击沉对方全部舰船者获胜
type SeaBattleEngine struct{}

// NewSeaBattleEngine 创建海战棋引擎
func NewSeaBattleEngine() *SeaBattleEngine {
	return &SeaBattleEngine{}
}

// GameType 返回游戏类型
func (e *SeaBattleEngine) GameType() models.GameType {
	return models.GameSeaBattle
}

// InitialState 返回初始状态。舰队按玩家首次布阵时惰性创建
func (e *SeaBattleEngine) InitialState() models.JSONMap {
	return models.JSONMap{
		"size":   seaBattleSize,
		"fleets": map[string]interface{}{},
		"shots":  map[string]interface{}{},
	}
}

// seaBattleMove 海战棋操作请求
type seaBattleMove struct {
	Op         string `json:"op"` // place_ship / rotate_ship / ready / fire
	ShipID     int    `json:"ship_id"`
	Row        int    `json:"row"`
	Col        int    `json:"col"`
	Horizontal bool   `json:"horizontal"`
}

// ship 舰船的内部视图
type ship struct {
	Size       int
	Row        int
	Col        int
	Horizontal bool
	Placed     bool
	Hits       int
}

// ApplyMove 应用一次操作。布阵类操作（place_ship/rotate_ship/ready）
// 不受回合限制，fire受回合限制且要求双方均已就绪
func (e *SeaBattleEngine) ApplyMove(state models.JSONMap, move json.RawMessage, mc MoveContext) (*MoveResult, error) {
	var m seaBattleMove
	if err := json.Unmarshal(move, &m); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidParam)
	}

	switch m.Op {
	case "place_ship":
		return e.placeShip(state, m, mc)
	case "rotate_ship":
		return e.rotateShip(state, m, mc)
	case "ready":
		return e.markReady(state, mc)
	case "fire":
		return e.fire(state, m, mc)
	default:
		return nil, errors.Newf(errors.ErrInvalidParam, "未知的操作: %s", m.Op)
	}
}

// placeShip 布置一艘舰船
func (e *SeaBattleEngine) placeShip(state models.JSONMap, m seaBattleMove, mc MoveContext) (*MoveResult, error) {
	if m.ShipID < 0 || m.ShipID >= len(seaBattleFleet) {
		return nil, errors.Newf(errors.ErrInvalidParam, "无效的舰船编号: %d", m.ShipID)
	}

	ships, ready := e.fleetOf(state, mc.Actor)
	if ready {
		return nil, errors.New(errors.ErrInvalidState, "已就绪，不能再调整布阵")
	}

	candidate := ships[m.ShipID]
	candidate.Row = m.Row
	candidate.Col = m.Col
	candidate.Horizontal = m.Horizontal
	candidate.Placed = true

	if err := e.validatePlacement(ships, m.ShipID, candidate); err != nil {
		return nil, err
	}

	ships[m.ShipID] = candidate
	return e.placementResult(state, mc, ships, false), nil
}

// rotateShip 将舰船绕首格原地旋转，旋转后重新校验边界与重叠
func (e *SeaBattleEngine) rotateShip(state models.JSONMap, m seaBattleMove, mc MoveContext) (*MoveResult, error) {
	if m.ShipID < 0 || m.ShipID >= len(seaBattleFleet) {
		return nil, errors.Newf(errors.ErrInvalidParam, "无效的舰船编号: %d", m.ShipID)
	}

	ships, ready := e.fleetOf(state, mc.Actor)
	if ready {
		return nil, errors.New(errors.ErrInvalidState, "已就绪，不能再调整布阵")
	}

	candidate := ships[m.ShipID]
	if !candidate.Placed {
		return nil, errors.Newf(errors.ErrInvalidMove, "舰船尚未布置: %d", m.ShipID)
	}

	candidate.Horizontal = !candidate.Horizontal
	if err := e.validatePlacement(ships, m.ShipID, candidate); err != nil {
		return nil, err
	}

	ships[m.ShipID] = candidate
	return e.placementResult(state, mc, ships, false), nil
}

// markReady 全部舰船布置完毕后标记就绪
func (e *SeaBattleEngine) markReady(state models.JSONMap, mc MoveContext) (*MoveResult, error) {
	ships, ready := e.fleetOf(state, mc.Actor)
	if ready {
		return e.placementResult(state, mc, ships, true), nil
	}

	for i, s := range ships {
		if !s.Placed {
			return nil, errors.Newf(errors.ErrInvalidState, "舰船未全部布置，编号%d缺失", i)
		}
	}

	return e.placementResult(state, mc, ships, true), nil
}

// fire 向对方海域开火
func (e *SeaBattleEngine) fire(state models.JSONMap, m seaBattleMove, mc MoveContext) (*MoveResult, error) {
	// 开火要求双方均已就绪
	_, actorReady := e.fleetOf(state, mc.Actor)
	opponentShips, opponentReady := e.fleetOf(state, mc.Opponent)
	if !actorReady || !opponentReady {
		return nil, errors.New(errors.ErrInvalidState, "双方尚未全部就绪")
	}

	if err := requireTurn(mc); err != nil {
		return nil, err
	}

	size := asInt(state["size"], seaBattleSize)
	if m.Row < 0 || m.Row >= size || m.Col < 0 || m.Col >= size {
		return nil, errors.Newf(errors.ErrInvalidMove, "坐标越界: (%d,%d)", m.Row, m.Col)
	}

	shots := copyMap(asMap(state["shots"]))
	actorShots := copyMap(asMap(shots[mc.Actor]))
	key := board.Key(m.Row, m.Col)
	if _, shot := actorShots[key]; shot {
		return nil, errors.Newf(errors.ErrInvalidMove, "该格已被打击过: (%d,%d)", m.Row, m.Col)
	}

	// 判定命中：落点是否在对方任一舰船的格子上
	hitIndex := -1
	for i, s := range opponentShips {
		if s.Placed && e.occupies(s, m.Row, m.Col) {
			hitIndex = i
			break
		}
	}

	result := &MoveResult{
		Outcome:  OutcomeContinue,
		NextTurn: mc.Opponent, // 未命中则换手
	}

	if hitIndex >= 0 {
		actorShots[key] = "hit"
		opponentShips[hitIndex].Hits++
		// 命中保持回合
		result.NextTurn = mc.Actor

		// 对方全部舰船的格子都被命中则获胜
		if e.allSunk(opponentShips) {
			result.Outcome = OutcomeWin
			result.WinnerUID = mc.Actor
			result.NextTurn = ""
		}
	} else {
		actorShots[key] = "miss"
	}

	shots[mc.Actor] = actorShots

	fleets := copyMap(asMap(state["fleets"]))
	fleets[mc.Opponent] = e.encodeFleet(opponentShips, opponentReady)

	result.State = models.JSONMap{
		"size":   size,
		"fleets": fleets,
		"shots":  shots,
	}
	return result, nil
}

// fleetOf 读取玩家舰队，未布阵过的玩家返回空编成
func (e *SeaBattleEngine) fleetOf(state models.JSONMap, uid string) ([]ship, bool) {
	ships := make([]ship, len(seaBattleFleet))
	for i, size := range seaBattleFleet {
		ships[i] = ship{Size: size}
	}

	fleet := asMap(asMap(state["fleets"])[uid])
	if fleet == nil {
		return ships, false
	}

	for i, raw := range asSlice(fleet["ships"]) {
		if i >= len(ships) {
			break
		}
		entry := asMap(raw)
		ships[i].Row = asInt(entry["row"], 0)
		ships[i].Col = asInt(entry["col"], 0)
		ships[i].Horizontal = asBool(entry["horizontal"])
		ships[i].Placed = asBool(entry["placed"])
		ships[i].Hits = asInt(entry["hits"], 0)
	}

	return ships, asBool(fleet["ready"])
}

// encodeFleet 舰队编码为存储形态
func (e *SeaBattleEngine) encodeFleet(ships []ship, ready bool) map[string]interface{} {
	encoded := make([]interface{}, len(ships))
	for i, s := range ships {
		encoded[i] = map[string]interface{}{
			"size":       s.Size,
			"row":        s.Row,
			"col":        s.Col,
			"horizontal": s.Horizontal,
			"placed":     s.Placed,
			"hits":       s.Hits,
			"sunk":       s.Hits >= s.Size,
		}
	}
	return map[string]interface{}{
		"ships": encoded,
		"ready": ready,
	}
}

// placementResult 布阵类操作的公共出参：写回操作者舰队，回合不变
func (e *SeaBattleEngine) placementResult(state models.JSONMap, mc MoveContext, ships []ship, ready bool) *MoveResult {
	fleets := copyMap(asMap(state["fleets"]))
	fleets[mc.Actor] = e.encodeFleet(ships, ready)

	return &MoveResult{
		State: models.JSONMap{
			"size":   asInt(state["size"], seaBattleSize),
			"fleets": fleets,
			"shots":  copyMap(asMap(state["shots"])),
		},
		Outcome:  OutcomeContinue,
		NextTurn: mc.Turn,
	}
}

// validatePlacement 校验舰船落位：不越界且不与己方其他已布置舰船重叠
func (e *SeaBattleEngine) validatePlacement(ships []ship, shipID int, candidate ship) error {
	size := seaBattleSize
	endRow, endCol := candidate.Row, candidate.Col
	if candidate.Horizontal {
		endCol += candidate.Size - 1
	} else {
		endRow += candidate.Size - 1
	}

	if candidate.Row < 0 || candidate.Col < 0 || endRow >= size || endCol >= size {
		return errors.Newf(errors.ErrInvalidMove, "舰船越界: 编号%d", shipID)
	}

	for i, other := range ships {
		if i == shipID || !other.Placed {
			continue
		}
		if e.overlaps(candidate, other) {
			return errors.Newf(errors.ErrInvalidMove, "舰船重叠: 编号%d与编号%d", shipID, i)
		}
	}
	return nil
}

// occupies 判断舰船是否占据给定格子
func (e *SeaBattleEngine) occupies(s ship, row, col int) bool {
	for i := 0; i < s.Size; i++ {
		r, c := s.Row, s.Col
		if s.Horizontal {
			c += i
		} else {
			r += i
		}
		if r == row && c == col {
			return true
		}
	}
	return false
}

// overlaps 判断两艘舰船是否有重叠格子
func (e *SeaBattleEngine) overlaps(a, b ship) bool {
	for i := 0; i < a.Size; i++ {
		r, c := a.Row, a.Col
		if a.Horizontal {
			c += i
		} else {
			r += i
		}
		if e.occupies(b, r, c) {
			return true
		}
	}
	return false
}

// allSunk 判断舰队是否全部沉没
func (e *SeaBattleEngine) allSunk(ships []ship) bool {
	for _, s := range ships {
		if s.Hits < s.Size {
			return false
		}
	}
	return true
}
