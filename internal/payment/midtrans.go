package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
)

// Gateway 支付网关客户端。负责创建Snap交易与向网关回查订单状态
type Gateway interface {
	// Enabled 网关是否已配置可用
	Enabled() bool
	// CreateTransaction 创建Snap交易，返回跳转链接与token
	CreateTransaction(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error)
	// GetTransactionStatus 向网关回查订单状态（webhook不可信，入账前必须回查）
	GetTransactionStatus(ctx context.Context, orderID string) (*TransactionStatus, error)
}

// TransactionRequest 创建交易的参数
type TransactionRequest struct {
	OrderID     string
	GrossAmount int64  // IDR
	ItemID      string
	ItemName    string
	CustomerUID string
	Email       string
}

// TransactionResponse Snap创建交易的返回
type TransactionResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionStatus 网关侧的订单状态
type TransactionStatus struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
}

// MidtransGateway Midtrans实现
type MidtransGateway struct {
	cfg    config.PaymentConfig
	client *http.Client
}

// NewMidtransGateway 创建Midtrans网关客户端
func NewMidtransGateway(cfg config.PaymentConfig) *MidtransGateway {
	return &MidtransGateway{
		cfg:    cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled 网关是否已配置可用
func (g *MidtransGateway) Enabled() bool {
	return g.cfg.Enabled && g.cfg.ServerKey != ""
}

// snap交易请求体，跟随Midtrans Snap API的字段命名
type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []snapItem `json:"item_details"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Callbacks *snapCallbacks `json:"callbacks,omitempty"`
}

type snapItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type snapCallbacks struct {
	Finish string `json:"finish"`
}

// CreateTransaction 创建Snap交易
func (g *MidtransGateway) CreateTransaction(ctx context.Context, req *TransactionRequest) (*TransactionResponse, error) {
	if !g.Enabled() {
		return nil, errors.New(errors.ErrUnavailable, "支付网关未配置")
	}

	var body snapRequest
	body.TransactionDetails.OrderID = req.OrderID
	body.TransactionDetails.GrossAmount = req.GrossAmount
	body.ItemDetails = []snapItem{{
		ID:       req.ItemID,
		Name:     req.ItemName,
		Price:    req.GrossAmount,
		Quantity: 1,
	}}
	body.CustomerDetails.Email = req.Email
	if g.cfg.FinishURL != "" {
		body.Callbacks = &snapCallbacks{Finish: g.cfg.FinishURL}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "序列化交易请求失败")
	}

	endpoint := g.cfg.SnapBaseURL + "/transactions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "构造交易请求失败")
	}
	g.setHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "请求支付网关失败")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "读取网关响应失败")
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		logger.LogPaymentEvent("snap_create_failed", req.OrderID, fmt.Sprintf("%d", resp.StatusCode), map[string]interface{}{
			"body": string(respBody),
		})
		return nil, errors.Newf(errors.ErrPaymentGateway, "网关返回异常状态: %d", resp.StatusCode)
	}

	var result TransactionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "解析网关响应失败")
	}
	if result.Token == "" {
		return nil, errors.New(errors.ErrPaymentGateway, "网关未返回交易token")
	}

	logger.LogPaymentEvent("snap_created", req.OrderID, "pending", map[string]interface{}{
		"amount": req.GrossAmount,
	})
	return &result, nil
}

// GetTransactionStatus 向网关回查订单状态
func (g *MidtransGateway) GetTransactionStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	if !g.Enabled() {
		return nil, errors.New(errors.ErrUnavailable, "支付网关未配置")
	}

	endpoint := fmt.Sprintf("%s/%s/status", g.cfg.APIBaseURL, orderID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "构造回查请求失败")
	}
	g.setHeaders(httpReq)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "回查支付网关失败")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentGateway, "读取回查响应失败")
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New(errors.ErrNotFound, "网关侧不存在该订单")
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Newf(errors.ErrPaymentVerify, "回查返回异常状态: %d", resp.StatusCode)
	}

	var status TransactionStatus
	if err := json.Unmarshal(respBody, &status); err != nil {
		return nil, errors.Wrap(err, errors.ErrPaymentVerify, "解析回查响应失败")
	}
	return &status, nil
}

// setHeaders server key走HTTP Basic认证，密码留空
func (g *MidtransGateway) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(g.cfg.ServerKey, "")
}
