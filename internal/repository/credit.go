package repository

import (
	"context"

	"github.com/nafhansa/ngedate-yuk/internal/models"
	"gorm.io/gorm"
)

// CreditTransactionRepository credit流水仓储接口。流水只增不改
type CreditTransactionRepository interface {
	BaseRepository
	Create(ctx context.Context, tx *models.CreditTransaction) error
	ListByUser(ctx context.Context, uid string, pagination *Pagination) ([]*models.CreditTransaction, error)
	ListByMatch(ctx context.Context, matchID string) ([]*models.CreditTransaction, error)
}

// creditTransactionRepo credit流水仓储实现
type creditTransactionRepo struct {
	*BaseRepo
}

// NewCreditTransactionRepository 创建credit流水仓储
func NewCreditTransactionRepository(db *gorm.DB) CreditTransactionRepository {
	return &creditTransactionRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 写入一条流水
func (r *creditTransactionRepo) Create(ctx context.Context, tx *models.CreditTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// ListByUser 列出用户的流水（新到旧）
func (r *creditTransactionRepo) ListByUser(ctx context.Context, uid string, pagination *Pagination) ([]*models.CreditTransaction, error) {
	var transactions []*models.CreditTransaction
	query := r.db.WithContext(ctx).
		Model(&models.CreditTransaction{}).
		Where("user_uid = ?", uid)

	var total int64
	query.Count(&total)
	pagination.Total = total

	err := query.
		Scopes(Paginate(pagination)).
		Order("created_at DESC").
		Find(&transactions).Error
	return transactions, err
}

// ListByMatch 列出某对局相关的流水
func (r *creditTransactionRepo) ListByMatch(ctx context.Context, matchID string) ([]*models.CreditTransaction, error) {
	var transactions []*models.CreditTransaction
	err := r.db.WithContext(ctx).
		Where("match_id = ?", matchID).
		Order("created_at ASC").
		Find(&transactions).Error
	return transactions, err
}
