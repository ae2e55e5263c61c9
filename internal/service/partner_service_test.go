package service

import (
	"context"
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PartnerServiceTestSuite 伴侣服务测试套件
type PartnerServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repos    *repository.Manager
	partners PartnerService
	ctx      context.Context
}

func (suite *PartnerServiceTestSuite) SetupTest() {
	suite.db, suite.repos = newTestManager()
	suite.partners = NewPartnerService(suite.repos, zap.NewNop())
	suite.ctx = context.Background()

	seedUser(suite.db, "uid-a", "a@example.com", 0, 0)
	seedUser(suite.db, "uid-b", "b@example.com", 0, 0)
	seedUser(suite.db, "uid-c", "c@example.com", 0, 0)
}

func (suite *PartnerServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// 完整流程：申请→同意→双方互指
func (suite *PartnerServiceTestSuite) TestRequestAndApprove() {
	request, err := suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.NoError(err)
	suite.Equal("uid-b", request.ToUID)
	suite.Equal("uid-a", request.FromName) // 发送方展示信息冗余在申请上
	suite.Equal("a@example.com", request.FromEmail)

	// 接收方能看到
	incoming, err := suite.partners.IncomingRequests(suite.ctx, "uid-b")
	suite.NoError(err)
	suite.Len(incoming, 1)

	// 发起方不能替对方同意
	err = suite.partners.Approve(suite.ctx, "uid-a", request.RequestID)
	suite.Equal(errors.ErrPermissionDenied, errors.GetCode(err))

	suite.NoError(suite.partners.Approve(suite.ctx, "uid-b", request.RequestID))

	a, _ := suite.repos.User().FindByUID(suite.ctx, "uid-a")
	b, _ := suite.repos.User().FindByUID(suite.ctx, "uid-b")
	suite.Require().NotNil(a.PartnerUID)
	suite.Require().NotNil(b.PartnerUID)
	suite.Equal("uid-b", *a.PartnerUID)
	suite.Equal("uid-a", *b.PartnerUID)

	// 终态申请不能再处理
	err = suite.partners.Approve(suite.ctx, "uid-b", request.RequestID)
	suite.Equal(errors.ErrRequestProcessed, errors.GetCode(err))
}

// 对方已有伴侣：拒绝发起且不落任何记录
func (suite *PartnerServiceTestSuite) TestRequestTargetAlreadyPartnered() {
	b, _ := suite.repos.User().FindByUID(suite.ctx, "uid-b")
	c, _ := suite.repos.User().FindByUID(suite.ctx, "uid-c")
	pairUsers(suite.db, b, c)

	_, err := suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.Equal(errors.ErrAlreadyPartnered, errors.GetCode(err))

	pending, err := suite.repos.PartnerRequest().FindPendingBetween(suite.ctx, "uid-a", "uid-b")
	suite.NoError(err)
	suite.Nil(pending)
}

// 自己、重复、查无此人
func (suite *PartnerServiceTestSuite) TestRequestRejections() {
	_, err := suite.partners.Request(suite.ctx, "uid-a", "a@example.com")
	suite.Equal(errors.ErrSelfRequest, errors.GetCode(err))

	_, err = suite.partners.Request(suite.ctx, "uid-a", "nobody@example.com")
	suite.Equal(errors.ErrNotFound, errors.GetCode(err))

	_, err = suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.NoError(err)

	// 同方向重复
	_, err = suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.Equal(errors.ErrRequestPending, errors.GetCode(err))

	// 反方向也算重复
	_, err = suite.partners.Request(suite.ctx, "uid-b", "a@example.com")
	suite.Equal(errors.ErrRequestPending, errors.GetCode(err))
}

// 同意时清掉双方其余pending申请
func (suite *PartnerServiceTestSuite) TestApproveCleansOtherRequests() {
	r1, err := suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.Require().NoError(err)
	_, err = suite.partners.Request(suite.ctx, "uid-c", "b@example.com")
	suite.Require().NoError(err)

	suite.NoError(suite.partners.Approve(suite.ctx, "uid-b", r1.RequestID))

	incoming, err := suite.partners.IncomingRequests(suite.ctx, "uid-b")
	suite.NoError(err)
	suite.Empty(incoming)
}

// 拒绝只翻状态，不动用户
func (suite *PartnerServiceTestSuite) TestDecline() {
	request, err := suite.partners.Request(suite.ctx, "uid-a", "b@example.com")
	suite.Require().NoError(err)

	suite.NoError(suite.partners.Decline(suite.ctx, "uid-b", request.RequestID))

	updated, _ := suite.repos.PartnerRequest().FindByRequestID(suite.ctx, request.RequestID)
	suite.Equal(models.RequestDeclined, updated.Status)

	a, _ := suite.repos.User().FindByUID(suite.ctx, "uid-a")
	suite.Nil(a.PartnerUID)
}

// 解除配对：两边同时清空；单身时报错
func (suite *PartnerServiceTestSuite) TestRemove() {
	err := suite.partners.Remove(suite.ctx, "uid-a")
	suite.Equal(errors.ErrNotMutualPartner, errors.GetCode(err))

	a, _ := suite.repos.User().FindByUID(suite.ctx, "uid-a")
	b, _ := suite.repos.User().FindByUID(suite.ctx, "uid-b")
	pairUsers(suite.db, a, b)

	suite.NoError(suite.partners.Remove(suite.ctx, "uid-a"))

	a, _ = suite.repos.User().FindByUID(suite.ctx, "uid-a")
	b, _ = suite.repos.User().FindByUID(suite.ctx, "uid-b")
	suite.Nil(a.PartnerUID)
	suite.Nil(b.PartnerUID)
}

func TestPartnerServiceSuite(t *testing.T) {
	suite.Run(t, new(PartnerServiceTestSuite))
}
