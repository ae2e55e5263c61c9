package repository

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// MatchRepoTestSuite 对局仓储测试套件
type MatchRepoTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo MatchRepository
	ctx  context.Context
}

func (suite *MatchRepoTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewMatchRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *MatchRepoTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// 测试创建与JSON字段往返
func (suite *MatchRepoTestSuite) TestCreateAndFind() {
	match := CreateTestMatch("m-1", "ABC123", models.GameTicTacToe, "uid-host")
	match.GameState = models.JSONMap{"size": 5, "board": map[string]interface{}{"0_0": "uid-host"}}
	suite.NoError(suite.repo.Create(suite.ctx, match))

	found, err := suite.repo.FindByMatchID(suite.ctx, "m-1")
	suite.NoError(err)
	suite.Equal(models.GameTicTacToe, found.GameType)
	suite.Equal(models.MatchWaiting, found.Status)
	suite.Equal([]string{"uid-host"}, []string(found.Players))
	suite.Equal("uid-host", found.TurnUID)

	board, ok := found.GameState["board"].(map[string]interface{})
	suite.True(ok)
	suite.Equal("uid-host", board["0_0"])
}

// 测试房间码查找大小写不敏感
func (suite *MatchRepoTestSuite) TestFindByRoomCodeCaseInsensitive() {
	match := CreateTestMatch("m-2", "XY7Q2Z", models.GameConnect4, "uid-host")
	suite.NoError(suite.repo.Create(suite.ctx, match))

	found, err := suite.repo.FindByRoomCode(suite.ctx, "xy7q2z")
	suite.NoError(err)
	suite.Equal("m-2", found.MatchID)

	_, err = suite.repo.FindByRoomCode(suite.ctx, "NOPE01")
	suite.True(apperrors.Is(err, apperrors.ErrRoomNotFound))
}

// 测试房间码唯一索引
func (suite *MatchRepoTestSuite) TestRoomCodeUnique() {
	suite.NoError(suite.repo.Create(suite.ctx, CreateTestMatch("m-3", "SAME00", models.GameTicTacToe, "uid-a")))

	exists, err := suite.repo.RoomCodeExists(suite.ctx, "same00")
	suite.NoError(err)
	suite.True(exists)

	err = suite.repo.Create(suite.ctx, CreateTestMatch("m-4", "SAME00", models.GameTicTacToe, "uid-b"))
	suite.Error(err)
}

// 测试按字段更新
func (suite *MatchRepoTestSuite) TestUpdateFields() {
	match := CreateTestMatch("m-5", "UPD001", models.GameDotsBoxes, "uid-host")
	suite.NoError(suite.repo.Create(suite.ctx, match))

	now := time.Now()
	winner := "uid-host"
	err := suite.repo.UpdateFields(suite.ctx, "m-5", map[string]interface{}{
		"status":       models.MatchFinished,
		"winner_uid":   &winner,
		"last_move_at": now,
	})
	suite.NoError(err)

	found, err := suite.repo.FindByMatchID(suite.ctx, "m-5")
	suite.NoError(err)
	suite.Equal(models.MatchFinished, found.Status)
	suite.NotNil(found.WinnerUID)
	suite.Equal("uid-host", *found.WinnerUID)
}

// 测试按玩家列出已结束对局（新到旧）
func (suite *MatchRepoTestSuite) TestListFinishedByPlayer() {
	older := CreateTestMatch("m-6", "HIS001", models.GameTicTacToe, "uid-p")
	older.Status = models.MatchFinished
	older.Players = models.StringArray{"uid-p", "uid-q"}
	older.LastMoveAt = time.Now().Add(-time.Hour)
	suite.NoError(suite.repo.Create(suite.ctx, older))

	newer := CreateTestMatch("m-7", "HIS002", models.GameConnect4, "uid-q")
	newer.Status = models.MatchFinished
	newer.Players = models.StringArray{"uid-q", "uid-p"}
	newer.LastMoveAt = time.Now()
	suite.NoError(suite.repo.Create(suite.ctx, newer))

	// 进行中的对局不计入
	ongoing := CreateTestMatch("m-8", "HIS003", models.GameTicTacToe, "uid-p")
	ongoing.Status = models.MatchPlaying
	ongoing.Players = models.StringArray{"uid-p", "uid-q"}
	suite.NoError(suite.repo.Create(suite.ctx, ongoing))

	pagination := NewPagination(1, 10)
	matches, err := suite.repo.ListFinishedByPlayer(suite.ctx, "uid-p", pagination)
	suite.NoError(err)
	suite.Len(matches, 2)
	suite.Equal(int64(2), pagination.Total)
	suite.Equal("m-7", matches[0].MatchID)
	suite.Equal("m-6", matches[1].MatchID)

	// 无关玩家查不到
	matches, err = suite.repo.ListFinishedByPlayer(suite.ctx, "uid-x", NewPagination(1, 10))
	suite.NoError(err)
	suite.Empty(matches)
}

func TestMatchRepoSuite(t *testing.T) {
	suite.Run(t, new(MatchRepoTestSuite))
}
