package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/payment"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
)

// paymentService 支付服务实现
type paymentService struct {
	repos   *repository.Manager
	gateway payment.Gateway
	log     *zap.Logger
}

// NewPaymentService 创建支付服务
func NewPaymentService(repos *repository.Manager, gateway payment.Gateway, log *zap.Logger) PaymentService {
	return &paymentService{
		repos:   repos,
		gateway: gateway,
		log:     log,
	}
}

// ListPackages 套餐目录
func (s *paymentService) ListPackages() []models.CreditPackage {
	return models.CreditPackages
}

// Checkout 发起购买：本地先落pending订单，再到网关创建Snap交易
func (s *paymentService) Checkout(ctx context.Context, uid, packageID string) (*CheckoutResponse, error) {
	if !s.gateway.Enabled() {
		return nil, errors.New(errors.ErrUnavailable, "支付功能未开放")
	}

	pkg := models.FindCreditPackage(packageID)
	if pkg == nil {
		return nil, errors.New(errors.ErrInvalidParam, "未知的credit套餐")
	}

	user, err := s.repos.User().FindByUID(ctx, uid)
	if err != nil {
		return nil, err
	}

	orderID := fmt.Sprintf("CREDIT-%d-%s", time.Now().Unix(), strings.Split(uuid.NewString(), "-")[0])
	record := &models.Payment{
		OrderID:   orderID,
		UserUID:   uid,
		PackageID: pkg.ID,
		Credits:   pkg.Credits,
		Amount:    pkg.Price,
		Status:    models.PaymentPending,
	}
	if err := s.repos.Payment().Create(ctx, record); err != nil {
		return nil, err
	}

	resp, err := s.gateway.CreateTransaction(ctx, &payment.TransactionRequest{
		OrderID:     orderID,
		GrossAmount: pkg.Price,
		ItemID:      pkg.ID,
		ItemName:    pkg.Name,
		CustomerUID: uid,
		Email:       user.Email,
	})
	if err != nil {
		// 网关侧没建起来的订单直接作废，失败只记日志
		record.Status = models.PaymentCanceled
		if uerr := s.repos.Payment().Update(ctx, record); uerr != nil {
			s.log.Warn("Failed to cancel payment record", zap.Error(uerr), zap.String("order_id", orderID))
		}
		return nil, err
	}

	return &CheckoutResponse{
		OrderID:     orderID,
		Token:       resp.Token,
		RedirectURL: resp.RedirectURL,
		Amount:      pkg.Price,
		Credits:     pkg.Credits,
	}, nil
}

// HandleNotification 处理网关webhook。
// webhook本身不可信，入账前一律向网关回查订单状态；
// settlement只在状态首次翻转时入账一次
func (s *paymentService) HandleNotification(ctx context.Context, notif *GatewayNotification) error {
	if notif == nil || notif.OrderID == "" {
		return errors.New(errors.ErrInvalidParam, "webhook载荷缺少order_id")
	}

	record, err := s.repos.Payment().FindByOrderID(ctx, notif.OrderID)
	if err != nil {
		return err
	}

	verified, err := s.gateway.GetTransactionStatus(ctx, notif.OrderID)
	if err != nil {
		return err
	}

	status := normalizeGatewayStatus(verified.TransactionStatus)
	logger.LogPaymentEvent("webhook", notif.OrderID, status, map[string]interface{}{
		"reported": notif.TransactionStatus,
	})

	if status != models.PaymentSettlement {
		// 非入账状态只同步记录
		if record.Status == status || record.IsSettled() {
			return nil
		}
		record.Status = status
		record.GatewayTransactionID = verified.TransactionID
		record.PayMethod = verified.PaymentType
		return s.repos.Payment().Update(ctx, record)
	}

	// 入账：状态翻转、余额变动和流水写入放在同一个事务里
	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		current, err := tx.Payment().FindByOrderID(ctx, notif.OrderID)
		if err != nil {
			return err
		}
		if current.IsSettled() {
			return nil
		}

		now := time.Now()
		current.Status = models.PaymentSettlement
		current.GatewayTransactionID = verified.TransactionID
		current.PayMethod = verified.PaymentType
		current.SettledAt = &now
		if err := tx.Payment().Update(ctx, current); err != nil {
			return err
		}

		user, err := tx.User().FindByUID(ctx, current.UserUID)
		if err != nil {
			return err
		}
		fields := map[string]interface{}{
			"credits":                 user.Credits + current.Credits,
			"total_credits_purchased": user.TotalCreditsPurchased + current.Credits,
		}
		if err := tx.User().UpdateFields(ctx, current.UserUID, fields); err != nil {
			return err
		}

		return tx.Credit().Create(ctx, &models.CreditTransaction{
			TransactionID: uuid.NewString(),
			UserUID:       current.UserUID,
			Type:          models.TransactionPurchase,
			Amount:        current.Credits,
			OrderID:       current.OrderID,
			Description:   fmt.Sprintf("购买%d个credit", current.Credits),
		})
	})
	if err != nil {
		s.log.Error("Failed to settle payment", zap.Error(err), zap.String("order_id", notif.OrderID))
		return err
	}

	logger.LogCreditEvent("purchase", record.UserUID, record.Credits, record.OrderID)
	return nil
}

// normalizeGatewayStatus 把网关状态折算到本地状态集合
func normalizeGatewayStatus(status string) string {
	switch status {
	case "settlement", "capture":
		return models.PaymentSettlement
	case "expire":
		return models.PaymentExpired
	case "cancel":
		return models.PaymentCanceled
	case "deny":
		return models.PaymentDenied
	default:
		return models.PaymentPending
	}
}

// History 用户的购买记录（新到旧）
func (s *paymentService) History(ctx context.Context, uid string, page, pageSize int) ([]*models.Payment, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	list, err := s.repos.Payment().ListByUser(ctx, uid, pagination)
	if err != nil {
		return nil, 0, err
	}
	return list, pagination.Total, nil
}
