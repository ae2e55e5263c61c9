package game

import (
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/stretchr/testify/suite"
)

// Connect4TestSuite 落子棋引擎测试套件
type Connect4TestSuite struct {
	suite.Suite
	engine *Connect4Engine
}

func (suite *Connect4TestSuite) SetupTest() {
	suite.engine = NewConnect4Engine()
}

// 测试初始状态为10x10
func (suite *Connect4TestSuite) TestInitialState() {
	state := suite.engine.InitialState()
	suite.Equal(10, asInt(state["rows"], 0))
	suite.Equal(10, asInt(state["cols"], 0))
}

// 测试棋子落到最低空行
func (suite *Connect4TestSuite) TestPieceFallsToLowestRow() {
	state := suite.engine.InitialState()

	result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 3}), turnOf(alice, bob))
	suite.NoError(err)
	boardMap := asMap(result.State["board"])
	suite.Equal(alice, boardMap["9_3"])

	// 同列第二子叠在上面
	result, err = suite.engine.ApplyMove(result.State, moveJSON(connect4Move{Col: 3}), turnOf(bob, alice))
	suite.NoError(err)
	boardMap = asMap(result.State["board"])
	suite.Equal(bob, boardMap["8_3"])
}

// 测试列满与越界
func (suite *Connect4TestSuite) TestColumnFullAndOutOfRange() {
	state := suite.engine.InitialState()

	// 交替下满第0列
	players := [2]string{alice, bob}
	for i := 0; i < 10; i++ {
		actor := players[i%2]
		opponent := players[(i+1)%2]
		result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 0}), turnOf(actor, opponent))
		suite.NoError(err)
		state = result.State
	}

	_, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 0}), turnOf(alice, bob))
	suite.True(errors.Is(err, errors.ErrInvalidMove))

	_, err = suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 10}), turnOf(alice, bob))
	suite.True(errors.Is(err, errors.ErrInvalidMove))
}

// 测试四个方向的四连获胜
func (suite *Connect4TestSuite) TestWinDirections() {
	// 横向：底行三连后补第四子
	state := models.JSONMap{
		"rows": 10, "cols": 10,
		"board": map[string]interface{}{
			"9_0": alice, "9_1": alice, "9_2": alice,
		},
	}
	result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 3}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
	suite.Equal(alice, result.WinnerUID)

	// 纵向
	state = models.JSONMap{
		"rows": 10, "cols": 10,
		"board": map[string]interface{}{
			"9_5": bob, "8_5": bob, "7_5": bob,
		},
	}
	result, err = suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 5}), turnOf(bob, alice))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
	suite.Equal(bob, result.WinnerUID)

	// 斜向（从左下到右上）：构造阶梯，落点(6,3)补全
	state = models.JSONMap{
		"rows": 10, "cols": 10,
		"board": map[string]interface{}{
			"9_0": alice, "8_1": alice, "7_2": alice,
			// 垫子
			"9_1": bob, "9_2": bob, "8_2": bob,
			"9_3": bob, "8_3": alice, "7_3": bob,
		},
	}
	result, err = suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 3}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
	suite.Equal(alice, result.WinnerUID)
}

// 测试未获胜时换手
func (suite *Connect4TestSuite) TestTurnPasses() {
	state := suite.engine.InitialState()
	result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 0}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeContinue, result.Outcome)
	suite.Equal(bob, result.NextTurn)
}

// 测试旧版6x7棋局仍可继续
func (suite *Connect4TestSuite) TestLegacySixBySeven() {
	state := models.JSONMap{
		"rows": 6, "cols": 7,
		"board": map[string]interface{}{
			"5_0": alice, "5_1": alice, "5_2": alice,
		},
	}

	// 越界列在旧规格下被拒绝
	_, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 7}), turnOf(alice, bob))
	suite.True(errors.Is(err, errors.ErrInvalidMove))

	result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 3}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
}

// 测试满盘平局：2x2小盘凑满无四连
func (suite *Connect4TestSuite) TestDrawOnFullBoard() {
	state := models.JSONMap{
		"rows": 2, "cols": 2,
		"board": map[string]interface{}{
			"1_0": alice, "0_0": bob, "1_1": bob,
		},
	}

	result, err := suite.engine.ApplyMove(state, moveJSON(connect4Move{Col: 1}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeDraw, result.Outcome)
	suite.Empty(result.NextTurn)
}

func TestConnect4Suite(t *testing.T) {
	suite.Run(t, new(Connect4TestSuite))
}
