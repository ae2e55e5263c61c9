package repository

import (
	"context"
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// CreditRepoTestSuite credit流水与支付单仓储测试套件
type CreditRepoTestSuite struct {
	suite.Suite
	db       *gorm.DB
	credits  CreditTransactionRepository
	payments PaymentRepository
	ctx      context.Context
}

func (suite *CreditRepoTestSuite) SetupTest() {
	suite.db = SetupTestDB()
	suite.credits = NewCreditTransactionRepository(suite.db)
	suite.payments = NewPaymentRepository(suite.db)
	suite.ctx = context.Background()
}

func (suite *CreditRepoTestSuite) TearDownTest() {
	CleanupTestDB(suite.db)
}

// 测试流水写入与按用户列出
func (suite *CreditRepoTestSuite) TestCreateAndListByUser() {
	entries := []*models.CreditTransaction{
		{TransactionID: "t-1", UserUID: "uid-1", Type: models.TransactionBonus, Amount: 3, Description: "注册赠送"},
		{TransactionID: "t-2", UserUID: "uid-1", Type: models.TransactionDeduct, Amount: -1, MatchID: "m-1"},
		{TransactionID: "t-3", UserUID: "uid-2", Type: models.TransactionPurchase, Amount: 25, OrderID: "o-1"},
	}
	for _, e := range entries {
		suite.NoError(suite.credits.Create(suite.ctx, e))
	}

	pagination := NewPagination(1, 10)
	list, err := suite.credits.ListByUser(suite.ctx, "uid-1", pagination)
	suite.NoError(err)
	suite.Len(list, 2)
	suite.Equal(int64(2), pagination.Total)

	byMatch, err := suite.credits.ListByMatch(suite.ctx, "m-1")
	suite.NoError(err)
	suite.Len(byMatch, 1)
	suite.Equal(int64(-1), byMatch[0].Amount)
}

// 测试支付单生命周期
func (suite *CreditRepoTestSuite) TestPaymentLifecycle() {
	payment := &models.Payment{
		OrderID:   "CREDIT-1700000000-abc",
		UserUID:   "uid-1",
		PackageID: "popular",
		Credits:   25,
		Amount:    19900,
		Status:    models.PaymentPending,
	}
	suite.NoError(suite.payments.Create(suite.ctx, payment))

	found, err := suite.payments.FindByOrderID(suite.ctx, "CREDIT-1700000000-abc")
	suite.NoError(err)
	suite.False(found.IsSettled())

	found.Status = models.PaymentSettlement
	found.GatewayTransactionID = "gw-123"
	suite.NoError(suite.payments.Update(suite.ctx, found))

	found, err = suite.payments.FindByOrderID(suite.ctx, "CREDIT-1700000000-abc")
	suite.NoError(err)
	suite.True(found.IsSettled())
	suite.Equal("gw-123", found.GatewayTransactionID)

	// 订单号唯一
	err = suite.payments.Create(suite.ctx, &models.Payment{
		OrderID: "CREDIT-1700000000-abc", UserUID: "uid-2", PackageID: "starter", Credits: 10, Amount: 9900,
	})
	suite.Error(err)
}

// 测试事务回滚：Manager.WithTransaction内任一步出错则全部回滚
func (suite *CreditRepoTestSuite) TestTransactionRollback() {
	manager := NewManager(suite.db)

	err := manager.WithTransaction(suite.ctx, func(tx *Transaction) error {
		if err := tx.Credit().Create(suite.ctx, &models.CreditTransaction{
			TransactionID: "t-rollback", UserUID: "uid-9", Type: models.TransactionDeduct, Amount: -1,
		}); err != nil {
			return err
		}
		// 第二条与第一条撞唯一索引，触发回滚
		return tx.Credit().Create(suite.ctx, &models.CreditTransaction{
			TransactionID: "t-rollback", UserUID: "uid-9", Type: models.TransactionDeduct, Amount: -1,
		})
	})
	suite.Error(err)

	list, listErr := suite.credits.ListByUser(suite.ctx, "uid-9", NewPagination(1, 10))
	suite.NoError(listErr)
	suite.Empty(list)
}

func TestCreditRepoSuite(t *testing.T) {
	suite.Run(t, new(CreditRepoTestSuite))
}
