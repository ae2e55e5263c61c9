// Package game 对局规则引擎：四种双人棋类玩法的纯逻辑实现。
// 引擎不读写数据库，输入当前状态与落子，输出新状态与结果。
package game

import (
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// Outcome 落子后的对局结果
type Outcome int

const (
	OutcomeContinue Outcome = iota // 对局继续
	OutcomeWin                     // 有玩家获胜
	OutcomeDraw                    // 平局
)

// MoveContext 落子上下文
type MoveContext struct {
	Actor    string // 操作者uid
	Opponent string // 对手uid
	Turn     string // 当前轮到的uid
}

// MoveResult 落子结果
type MoveResult struct {
	State     models.JSONMap // 新的对局状态
	Outcome   Outcome        // 结果
	WinnerUID string         // Outcome为Win时的胜者
	NextTurn  string         // 下一手轮到的uid
}

// RuleEngine 规则引擎接口。实现必须是纯函数式的：
// 不修改传入的state，相同输入产生相同输出。
type RuleEngine interface {
	// GameType 返回引擎对应的游戏类型
	GameType() models.GameType
	// InitialState 返回新对局的初始状态
	InitialState() models.JSONMap
	// ApplyMove 校验并应用一次落子
	ApplyMove(state models.JSONMap, move json.RawMessage, mc MoveContext) (*MoveResult, error)
}

// Registry 引擎注册表，按游戏类型索引
type Registry struct {
	engines map[models.GameType]RuleEngine
}

// NewRegistry 创建包含全部内置引擎的注册表
func NewRegistry() *Registry {
	r := &Registry{engines: make(map[models.GameType]RuleEngine)}
	r.Register(NewTicTacToeEngine())
	r.Register(NewConnect4Engine())
	r.Register(NewDotsBoxesEngine())
	r.Register(NewSeaBattleEngine())
	return r
}

// Register 注册引擎
func (r *Registry) Register(e RuleEngine) {
	r.engines[e.GameType()] = e
}

// Get 按游戏类型取引擎
func (r *Registry) Get(gameType models.GameType) (RuleEngine, error) {
	e, ok := r.engines[gameType]
	if !ok {
		return nil, errors.Newf(errors.ErrWrongGameType, "未知的游戏类型: %s", gameType)
	}
	return e, nil
}

// 以下为引擎共用的状态读取辅助函数。
// 状态经过JSON存取后数字会变成float64，这里做统一转换。

func asInt(v interface{}, def int) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case int64:
		return int(n)
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return def
		}
		return int(i)
	default:
		return def
	}
}

func asString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func asBool(v interface{}) bool {
	b, _ := v.(bool)
	return b
}

func asMap(v interface{}) map[string]interface{} {
	m, _ := v.(map[string]interface{})
	return m
}

func asSlice(v interface{}) []interface{} {
	s, _ := v.([]interface{})
	return s
}

// copyMap 浅拷贝一层映射，引擎在拷贝上修改以保持纯函数语义
func copyMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// requireTurn 校验轮次归属
func requireTurn(mc MoveContext) error {
	if mc.Actor != mc.Turn {
		return errors.New(errors.ErrNotYourTurn)
	}
	return nil
}
