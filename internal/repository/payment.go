package repository

import (
	"context"
	"errors"

	apperrors "github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"gorm.io/gorm"
)

// PaymentRepository 支付单仓储接口
type PaymentRepository interface {
	BaseRepository
	Create(ctx context.Context, payment *models.Payment) error
	Update(ctx context.Context, payment *models.Payment) error
	FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error)
	ListByUser(ctx context.Context, uid string, pagination *Pagination) ([]*models.Payment, error)
}

// paymentRepo 支付单仓储实现
type paymentRepo struct {
	*BaseRepo
}

// NewPaymentRepository 创建支付单仓储
func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建支付单
func (r *paymentRepo) Create(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

// Update 更新支付单
func (r *paymentRepo) Update(ctx context.Context, payment *models.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindByOrderID 根据订单号查找
func (r *paymentRepo) FindByOrderID(ctx context.Context, orderID string) (*models.Payment, error) {
	var payment models.Payment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&payment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "支付单不存在")
		}
		return nil, err
	}
	return &payment, nil
}

// ListByUser 列出用户的支付单（新到旧）
func (r *paymentRepo) ListByUser(ctx context.Context, uid string, pagination *Pagination) ([]*models.Payment, error) {
	var payments []*models.Payment
	query := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("user_uid = ?", uid)

	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Scopes(Paginate(pagination)).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, err
}
