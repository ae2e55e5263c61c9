package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/stretchr/testify/suite"
)

// MidtransTestSuite 支付网关客户端测试套件
type MidtransTestSuite struct {
	suite.Suite
	ctx context.Context
}

func (suite *MidtransTestSuite) SetupTest() {
	suite.ctx = context.Background()
}

func (suite *MidtransTestSuite) gateway(snapURL, apiURL string) *MidtransGateway {
	return NewMidtransGateway(config.PaymentConfig{
		Enabled:     true,
		ServerKey:   "SB-Mid-server-test",
		SnapBaseURL: snapURL,
		APIBaseURL:  apiURL,
		FinishURL:   "https://example.com/finish",
	})
}

// 未配置时所有操作返回服务不可用
func (suite *MidtransTestSuite) TestDisabled() {
	g := NewMidtransGateway(config.PaymentConfig{Enabled: false})
	suite.False(g.Enabled())

	_, err := g.CreateTransaction(suite.ctx, &TransactionRequest{OrderID: "o-1"})
	suite.Equal(errors.ErrUnavailable, errors.GetCode(err))

	_, err = g.GetTransactionStatus(suite.ctx, "o-1")
	suite.Equal(errors.ErrUnavailable, errors.GetCode(err))
}

// 创建交易：校验认证头与请求体，返回token
func (suite *MidtransTestSuite) TestCreateTransaction() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal(http.MethodPost, r.Method)
		suite.Equal("/transactions", r.URL.Path)
		user, _, ok := r.BasicAuth()
		suite.True(ok)
		suite.Equal("SB-Mid-server-test", user)

		var body map[string]interface{}
		suite.NoError(json.NewDecoder(r.Body).Decode(&body))
		details := body["transaction_details"].(map[string]interface{})
		suite.Equal("CREDIT-1-abc", details["order_id"])
		suite.Equal(float64(19900), details["gross_amount"])

		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"token":"snap-token","redirect_url":"https://snap.example/pay"}`))
	}))
	defer server.Close()

	g := suite.gateway(server.URL, server.URL)
	resp, err := g.CreateTransaction(suite.ctx, &TransactionRequest{
		OrderID:     "CREDIT-1-abc",
		GrossAmount: 19900,
		ItemID:      "popular",
		ItemName:    "Popular Pack",
		Email:       "user@example.com",
	})
	suite.NoError(err)
	suite.Equal("snap-token", resp.Token)
	suite.Equal("https://snap.example/pay", resp.RedirectURL)
}

// 回查订单状态
func (suite *MidtransTestSuite) TestGetTransactionStatus() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		suite.Equal("/CREDIT-1-abc/status", r.URL.Path)
		w.Write([]byte(`{"order_id":"CREDIT-1-abc","transaction_id":"gw-1","transaction_status":"settlement","gross_amount":"19900.00"}`))
	}))
	defer server.Close()

	g := suite.gateway(server.URL, server.URL)
	status, err := g.GetTransactionStatus(suite.ctx, "CREDIT-1-abc")
	suite.NoError(err)
	suite.Equal("settlement", status.TransactionStatus)
	suite.Equal("gw-1", status.TransactionID)
}

// 网关侧不存在的订单
func (suite *MidtransTestSuite) TestStatusNotFound() {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"status_code":"404"}`))
	}))
	defer server.Close()

	g := suite.gateway(server.URL, server.URL)
	_, err := g.GetTransactionStatus(suite.ctx, "missing")
	suite.Equal(errors.ErrNotFound, errors.GetCode(err))
}

func TestMidtransSuite(t *testing.T) {
	suite.Run(t, new(MidtransTestSuite))
}
