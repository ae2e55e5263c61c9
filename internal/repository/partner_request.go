package repository

import (
	"context"
	"errors"

	apperrors "github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"gorm.io/gorm"
)

// PartnerRequestRepository 伴侣申请仓储接口
type PartnerRequestRepository interface {
	BaseRepository
	Create(ctx context.Context, request *models.PartnerRequest) error
	Update(ctx context.Context, request *models.PartnerRequest) error
	FindByRequestID(ctx context.Context, requestID string) (*models.PartnerRequest, error)
	FindPendingBetween(ctx context.Context, uidA, uidB string) (*models.PartnerRequest, error)
	ListIncomingPending(ctx context.Context, toUID string) ([]*models.PartnerRequest, error)
	DeletePendingInvolving(ctx context.Context, uid string, exceptRequestID string) error
}

// partnerRequestRepo 伴侣申请仓储实现
type partnerRequestRepo struct {
	*BaseRepo
}

// NewPartnerRequestRepository 创建伴侣申请仓储
func NewPartnerRequestRepository(db *gorm.DB) PartnerRequestRepository {
	return &partnerRequestRepo{
		BaseRepo: &BaseRepo{db: db},
	}
}

// Create 创建申请
func (r *partnerRequestRepo) Create(ctx context.Context, request *models.PartnerRequest) error {
	return r.db.WithContext(ctx).Create(request).Error
}

// Update 更新申请
func (r *partnerRequestRepo) Update(ctx context.Context, request *models.PartnerRequest) error {
	return r.db.WithContext(ctx).Save(request).Error
}

// FindByRequestID 根据申请ID查找
func (r *partnerRequestRepo) FindByRequestID(ctx context.Context, requestID string) (*models.PartnerRequest, error) {
	var request models.PartnerRequest
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrNotFound, "申请不存在")
		}
		return nil, err
	}
	return &request, nil
}

// FindPendingBetween 查找两人之间任一方向的待处理申请，不存在时返回nil
func (r *partnerRequestRepo) FindPendingBetween(ctx context.Context, uidA, uidB string) (*models.PartnerRequest, error) {
	var request models.PartnerRequest
	err := r.db.WithContext(ctx).
		Where("status = ?", models.RequestPending).
		Where("(from_uid = ? AND to_uid = ?) OR (from_uid = ? AND to_uid = ?)", uidA, uidB, uidB, uidA).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &request, nil
}

// ListIncomingPending 列出收到的待处理申请
func (r *partnerRequestRepo) ListIncomingPending(ctx context.Context, toUID string) ([]*models.PartnerRequest, error) {
	var requests []*models.PartnerRequest
	err := r.db.WithContext(ctx).
		Where("to_uid = ? AND status = ?", toUID, models.RequestPending).
		Order("created_at DESC").
		Find(&requests).Error
	return requests, err
}

// DeletePendingInvolving 删除涉及某用户的其他待处理申请（配对成功后清理）
func (r *partnerRequestRepo) DeletePendingInvolving(ctx context.Context, uid string, exceptRequestID string) error {
	return r.db.WithContext(ctx).
		Where("status = ?", models.RequestPending).
		Where("from_uid = ? OR to_uid = ?", uid, uid).
		Where("request_id <> ?", exceptRequestID).
		Delete(&models.PartnerRequest{}).Error
}
