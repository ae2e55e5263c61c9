package repository

import (
	"context"
	"testing"

	apperrors "github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// UserRepoTestSuite 用户仓储测试套件
type UserRepoTestSuite struct {
	suite.Suite
	db   *gorm.DB
	repo UserRepository
	ctx  context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.repo = NewUserRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// 测试创建与查找
func (suite *UserRepoTestSuite) TestCreateAndFind() {
	user := CreateTestUser("uid-1", "one@example.com", 5, 3)
	suite.NoError(suite.repo.Create(suite.ctx, user))

	found, err := suite.repo.FindByUID(suite.ctx, "uid-1")
	suite.NoError(err)
	suite.Equal("one@example.com", found.Email)
	suite.Equal(int64(5), found.Credits)
	suite.Equal(int64(3), found.FreeCredits)

	byEmail, err := suite.repo.FindByEmail(suite.ctx, "one@example.com")
	suite.NoError(err)
	suite.Equal("uid-1", byEmail.UID)

	// 不存在
	_, err = suite.repo.FindByUID(suite.ctx, "uid-missing")
	suite.True(apperrors.Is(err, apperrors.ErrNotFound))
}

// 测试按字段更新
func (suite *UserRepoTestSuite) TestUpdateFields() {
	user := CreateTestUser("uid-2", "two@example.com", 10, 0)
	suite.NoError(suite.repo.Create(suite.ctx, user))

	err := suite.repo.UpdateFields(suite.ctx, "uid-2", map[string]interface{}{
		"credits":      int64(7),
		"free_credits": int64(2),
	})
	suite.NoError(err)

	found, err := suite.repo.FindByUID(suite.ctx, "uid-2")
	suite.NoError(err)
	suite.Equal(int64(7), found.Credits)
	suite.Equal(int64(2), found.FreeCredits)
}

// 测试最后登录时间更新
func (suite *UserRepoTestSuite) TestUpdateLastLogin() {
	user := CreateTestUser("uid-3", "three@example.com", 0, 0)
	suite.NoError(suite.repo.Create(suite.ctx, user))
	suite.Nil(user.LastLoginAt)

	suite.NoError(suite.repo.UpdateLastLogin(suite.ctx, "uid-3"))

	found, err := suite.repo.FindByUID(suite.ctx, "uid-3")
	suite.NoError(err)
	suite.NotNil(found.LastLoginAt)
}

// 测试胜负平计数累加
func (suite *UserRepoTestSuite) TestIncrementStats() {
	user := CreateTestUser("uid-4", "four@example.com", 0, 0)
	suite.NoError(suite.repo.Create(suite.ctx, user))

	suite.NoError(suite.repo.IncrementStats(suite.ctx, "uid-4", 1, 0, 0))
	suite.NoError(suite.repo.IncrementStats(suite.ctx, "uid-4", 0, 1, 0))
	suite.NoError(suite.repo.IncrementStats(suite.ctx, "uid-4", 1, 0, 1))

	found, err := suite.repo.FindByUID(suite.ctx, "uid-4")
	suite.NoError(err)
	suite.Equal(2, found.Wins)
	suite.Equal(1, found.Losses)
	suite.Equal(1, found.Draws)
}

func TestUserRepoSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}
