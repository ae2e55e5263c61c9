package service

import (
	"context"
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/payment"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// fakeGateway 测试用网关。回查状态可以按订单号预设
type fakeGateway struct {
	enabled    bool
	createErr  error
	statuses   map[string]string // order_id -> transaction_status
	lastCreate *payment.TransactionRequest
}

func (g *fakeGateway) Enabled() bool { return g.enabled }

func (g *fakeGateway) CreateTransaction(ctx context.Context, req *payment.TransactionRequest) (*payment.TransactionResponse, error) {
	if g.createErr != nil {
		return nil, g.createErr
	}
	g.lastCreate = req
	return &payment.TransactionResponse{Token: "snap-token", RedirectURL: "https://snap.example/pay"}, nil
}

func (g *fakeGateway) GetTransactionStatus(ctx context.Context, orderID string) (*payment.TransactionStatus, error) {
	status, ok := g.statuses[orderID]
	if !ok {
		return nil, errors.New(errors.ErrNotFound, "网关侧不存在该订单")
	}
	return &payment.TransactionStatus{
		OrderID:           orderID,
		TransactionID:     "gw-1",
		TransactionStatus: status,
		PaymentType:       "qris",
	}, nil
}

// PaymentServiceTestSuite 支付服务测试套件
type PaymentServiceTestSuite struct {
	suite.Suite
	db       *gorm.DB
	repos    *repository.Manager
	gateway  *fakeGateway
	payments PaymentService
	ctx      context.Context
}

func (suite *PaymentServiceTestSuite) SetupTest() {
	suite.db, suite.repos = newTestManager()
	suite.gateway = &fakeGateway{enabled: true, statuses: map[string]string{}}
	suite.payments = NewPaymentService(suite.repos, suite.gateway, zap.NewNop())
	suite.ctx = context.Background()

	seedUser(suite.db, "uid-1", "u1@example.com", 0, 0)
}

func (suite *PaymentServiceTestSuite) TearDownTest() {
	repository.CleanupTestDB(suite.db)
}

// 套餐目录非空且含推荐项
func (suite *PaymentServiceTestSuite) TestListPackages() {
	packages := suite.payments.ListPackages()
	suite.NotEmpty(packages)

	var hasRecommended bool
	for _, p := range packages {
		if p.Recommended {
			hasRecommended = true
		}
	}
	suite.True(hasRecommended)
}

// checkout：本地落pending订单，金额从服务端目录取
func (suite *PaymentServiceTestSuite) TestCheckout() {
	resp, err := suite.payments.Checkout(suite.ctx, "uid-1", "popular")
	suite.NoError(err)
	suite.Equal("snap-token", resp.Token)
	suite.Equal(int64(19900), resp.Amount)
	suite.Equal(int64(25), resp.Credits)
	suite.Equal(int64(19900), suite.gateway.lastCreate.GrossAmount)

	record, err := suite.repos.Payment().FindByOrderID(suite.ctx, resp.OrderID)
	suite.NoError(err)
	suite.Equal(models.PaymentPending, record.Status)
}

// 未开放支付或未知套餐
func (suite *PaymentServiceTestSuite) TestCheckoutRejections() {
	disabled := NewPaymentService(suite.repos, &fakeGateway{enabled: false}, zap.NewNop())
	_, err := disabled.Checkout(suite.ctx, "uid-1", "popular")
	suite.Equal(errors.ErrUnavailable, errors.GetCode(err))

	_, err = suite.payments.Checkout(suite.ctx, "uid-1", "no-such-pack")
	suite.Equal(errors.ErrInvalidParam, errors.GetCode(err))
}

// webhook入账：以回查结果为准，settlement只入账一次
func (suite *PaymentServiceTestSuite) TestWebhookSettlementOnce() {
	resp, err := suite.payments.Checkout(suite.ctx, "uid-1", "starter")
	suite.Require().NoError(err)

	// webhook谎报settlement但回查还是pending：不入账
	suite.gateway.statuses[resp.OrderID] = "pending"
	suite.NoError(suite.payments.HandleNotification(suite.ctx, &GatewayNotification{
		OrderID:           resp.OrderID,
		TransactionStatus: "settlement",
	}))
	user, _ := suite.repos.User().FindByUID(suite.ctx, "uid-1")
	suite.Equal(int64(0), user.Credits)

	// 网关确认settlement：入账一次
	suite.gateway.statuses[resp.OrderID] = "settlement"
	suite.NoError(suite.payments.HandleNotification(suite.ctx, &GatewayNotification{
		OrderID:           resp.OrderID,
		TransactionStatus: "settlement",
	}))
	user, _ = suite.repos.User().FindByUID(suite.ctx, "uid-1")
	suite.Equal(int64(10), user.Credits)
	suite.Equal(int64(10), user.TotalCreditsPurchased)

	record, _ := suite.repos.Payment().FindByOrderID(suite.ctx, resp.OrderID)
	suite.True(record.IsSettled())
	suite.NotNil(record.SettledAt)

	// 重复webhook不再入账
	suite.NoError(suite.payments.HandleNotification(suite.ctx, &GatewayNotification{
		OrderID:           resp.OrderID,
		TransactionStatus: "settlement",
	}))
	user, _ = suite.repos.User().FindByUID(suite.ctx, "uid-1")
	suite.Equal(int64(10), user.Credits)
}

// 非入账状态只同步记录
func (suite *PaymentServiceTestSuite) TestWebhookExpire() {
	resp, err := suite.payments.Checkout(suite.ctx, "uid-1", "starter")
	suite.Require().NoError(err)

	suite.gateway.statuses[resp.OrderID] = "expire"
	suite.NoError(suite.payments.HandleNotification(suite.ctx, &GatewayNotification{
		OrderID:           resp.OrderID,
		TransactionStatus: "expire",
	}))

	record, _ := suite.repos.Payment().FindByOrderID(suite.ctx, resp.OrderID)
	suite.Equal(models.PaymentExpired, record.Status)

	user, _ := suite.repos.User().FindByUID(suite.ctx, "uid-1")
	suite.Equal(int64(0), user.Credits)
}

// 未知订单的webhook直接报错
func (suite *PaymentServiceTestSuite) TestWebhookUnknownOrder() {
	err := suite.payments.HandleNotification(suite.ctx, &GatewayNotification{
		OrderID:           "no-such-order",
		TransactionStatus: "settlement",
	})
	suite.Equal(errors.ErrNotFound, errors.GetCode(err))
}

func TestPaymentServiceSuite(t *testing.T) {
	suite.Run(t, new(PaymentServiceTestSuite))
}
