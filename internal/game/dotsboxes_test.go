package game

import (
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/stretchr/testify/suite"
)

// DotsBoxesTestSuite 点格棋引擎测试套件
type DotsBoxesTestSuite struct {
	suite.Suite
	engine *DotsBoxesEngine
}

func (suite *DotsBoxesTestSuite) SetupTest() {
	suite.engine = NewDotsBoxesEngine()
}

// 测试初始状态
func (suite *DotsBoxesTestSuite) TestInitialState() {
	state := suite.engine.InitialState()
	suite.Equal(4, asInt(state["dots"], 0))
	suite.Empty(asMap(state["h_edges"]))
	suite.Empty(asMap(state["boxes"]))
}

// 测试普通占边换手，不成格不得分
func (suite *DotsBoxesTestSuite) TestClaimEdgePassesTurn() {
	state := suite.engine.InitialState()

	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "h", Row: 0, Col: 0}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeContinue, result.Outcome)
	suite.Equal(bob, result.NextTurn)
	suite.Equal(alice, asMap(result.State["h_edges"])["0_0"])
	suite.Empty(asMap(result.State["boxes"]))
	suite.Equal(0, asInt(asMap(result.State["scores"])[alice], 0))
}

// 测试重复占边与越界
func (suite *DotsBoxesTestSuite) TestInvalidEdges() {
	state := suite.engine.InitialState()

	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "v", Row: 1, Col: 2}), turnOf(alice, bob))
	suite.NoError(err)

	// 同一条边再占
	_, err = suite.engine.ApplyMove(result.State, moveJSON(dotsBoxesMove{Orientation: "v", Row: 1, Col: 2}), turnOf(bob, alice))
	suite.True(errors.Is(err, errors.ErrInvalidMove))

	// 横边越界：4个点时横边列上限为2
	_, err = suite.engine.ApplyMove(result.State, moveJSON(dotsBoxesMove{Orientation: "h", Row: 0, Col: 3}), turnOf(bob, alice))
	suite.True(errors.Is(err, errors.ErrInvalidMove))

	// 竖边越界：行上限为2
	_, err = suite.engine.ApplyMove(result.State, moveJSON(dotsBoxesMove{Orientation: "v", Row: 3, Col: 0}), turnOf(bob, alice))
	suite.True(errors.Is(err, errors.ErrInvalidMove))

	// 未知方向
	_, err = suite.engine.ApplyMove(result.State, moveJSON(dotsBoxesMove{Orientation: "x", Row: 0, Col: 0}), turnOf(bob, alice))
	suite.True(errors.Is(err, errors.ErrInvalidParam))
}

// 测试成格得分并获得额外回合
func (suite *DotsBoxesTestSuite) TestBoxCompletionGrantsExtraTurn() {
	// 格子(0,0)已有上、下、左三边，alice补右边成格
	state := models.JSONMap{
		"dots": 4,
		"h_edges": map[string]interface{}{
			"0_0": alice, // 上
			"1_0": bob,   // 下
		},
		"v_edges": map[string]interface{}{
			"0_0": alice, // 左
		},
		"boxes":  map[string]interface{}{},
		"scores": map[string]interface{}{},
	}

	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "v", Row: 0, Col: 1}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(alice, asMap(result.State["boxes"])["0_0"])
	suite.Equal(1, asInt(asMap(result.State["scores"])[alice], 0))
	// 额外回合
	suite.Equal(alice, result.NextTurn)
	suite.Equal(OutcomeContinue, result.Outcome)
}

// 测试一条边同时成两个格
func (suite *DotsBoxesTestSuite) TestDoubleBoxCompletion() {
	// 竖边(0,1)是格(0,0)的右边、格(0,1)的左边，两格其余边都已占
	state := models.JSONMap{
		"dots": 4,
		"h_edges": map[string]interface{}{
			"0_0": bob, "1_0": bob, // 格(0,0)上下
			"0_1": bob, "1_1": bob, // 格(0,1)上下
		},
		"v_edges": map[string]interface{}{
			"0_0": bob, // 格(0,0)左
			"0_2": bob, // 格(0,1)右
		},
		"boxes":  map[string]interface{}{},
		"scores": map[string]interface{}{},
	}

	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "v", Row: 0, Col: 1}), turnOf(alice, bob))
	suite.NoError(err)
	boxes := asMap(result.State["boxes"])
	suite.Equal(alice, boxes["0_0"])
	suite.Equal(alice, boxes["0_1"])
	suite.Equal(2, asInt(asMap(result.State["scores"])[alice], 0))
	suite.Equal(alice, result.NextTurn)
}

// 测试终局结算：2x2点阵只有一个格子，成格即终局
func (suite *DotsBoxesTestSuite) TestEndGameScoring() {
	state := models.JSONMap{
		"dots": 2,
		"h_edges": map[string]interface{}{
			"0_0": bob, "1_0": bob,
		},
		"v_edges": map[string]interface{}{
			"0_0": bob,
		},
		"boxes":  map[string]interface{}{},
		"scores": map[string]interface{}{},
	}

	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "v", Row: 0, Col: 1}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
	suite.Equal(alice, result.WinnerUID)
	suite.Empty(result.NextTurn)
}

// 测试终局分高者胜（即使不是最后落子的一方）
func (suite *DotsBoxesTestSuite) TestHigherScoreWinsAtEnd() {
	// 3x3点阵共4个格子，bob已得3格，alice收最后一格
	state := models.JSONMap{
		"dots": 3,
		"h_edges": map[string]interface{}{
			"0_0": bob, "0_1": bob,
			"1_0": bob, "1_1": bob,
			"2_0": bob, "2_1": bob,
		},
		"v_edges": map[string]interface{}{
			"0_0": bob, "0_1": bob, "0_2": bob,
			"1_0": bob, "1_1": bob,
		},
		"boxes": map[string]interface{}{
			"0_0": bob, "0_1": bob, "1_0": bob,
		},
		"scores": map[string]interface{}{bob: 3},
	}

	// alice补格(1,1)的右边
	result, err := suite.engine.ApplyMove(state, moveJSON(dotsBoxesMove{Orientation: "v", Row: 1, Col: 2}), turnOf(alice, bob))
	suite.NoError(err)
	suite.Equal(OutcomeWin, result.Outcome)
	suite.Equal(bob, result.WinnerUID)
}

func TestDotsBoxesSuite(t *testing.T) {
	suite.Run(t, new(DotsBoxesTestSuite))
}
