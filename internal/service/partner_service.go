package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
)

// partnerService 伴侣配对服务实现
type partnerService struct {
	repos *repository.Manager
	log   *zap.Logger
}

// NewPartnerService 创建伴侣服务
func NewPartnerService(repos *repository.Manager, log *zap.Logger) PartnerService {
	return &partnerService{
		repos: repos,
		log:   log,
	}
}

// Request 按邮箱发起伴侣申请
func (s *partnerService) Request(ctx context.Context, fromUID, toEmail string) (*models.PartnerRequest, error) {
	from, err := s.repos.User().FindByUID(ctx, fromUID)
	if err != nil {
		return nil, err
	}
	if from.HasPartner() {
		return nil, errors.New(errors.ErrAlreadyPartnered, "你已经有伴侣了")
	}

	target, err := s.repos.User().FindByEmail(ctx, toEmail)
	if err != nil {
		return nil, err
	}
	if target.UID == fromUID {
		return nil, errors.New(errors.ErrSelfRequest, "不能向自己发起申请")
	}
	if target.HasPartner() {
		return nil, errors.New(errors.ErrAlreadyPartnered, "对方已经有伴侣了")
	}

	// 两个方向上已有pending申请都算重复
	pending, err := s.repos.PartnerRequest().FindPendingBetween(ctx, fromUID, target.UID)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, errors.New(errors.ErrRequestPending, "双方之间已有待处理的申请")
	}

	request := &models.PartnerRequest{
		RequestID: uuid.NewString(),
		FromUID:   fromUID,
		ToUID:     target.UID,
		FromName:  from.DisplayName,
		FromEmail: from.Email,
		Status:    models.RequestPending,
	}
	if err := s.repos.PartnerRequest().Create(ctx, request); err != nil {
		return nil, err
	}

	s.log.Info("Partner request created",
		zap.String("request_id", request.RequestID),
		zap.String("from", fromUID),
		zap.String("to", target.UID),
	)
	return request, nil
}

// Approve 接收方同意申请。写入时重新校验双方状态，配对与状态翻转在同一事务里
func (s *partnerService) Approve(ctx context.Context, uid, requestID string) error {
	request, err := s.repos.PartnerRequest().FindByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ToUID != uid {
		return errors.New(errors.ErrPermissionDenied, "只有接收方可以处理申请")
	}
	if !request.IsPending() {
		return errors.New(errors.ErrRequestProcessed, "申请已被处理")
	}

	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		from, err := tx.User().FindByUID(ctx, request.FromUID)
		if err != nil {
			return err
		}
		to, err := tx.User().FindByUID(ctx, request.ToUID)
		if err != nil {
			return err
		}
		// 申请挂起期间任何一方配了对，这单就作废
		if from.HasPartner() || to.HasPartner() {
			return errors.New(errors.ErrAlreadyPartnered, "一方已经有伴侣了")
		}

		if err := tx.User().UpdateFields(ctx, from.UID, map[string]interface{}{"partner_uid": to.UID}); err != nil {
			return err
		}
		if err := tx.User().UpdateFields(ctx, to.UID, map[string]interface{}{"partner_uid": from.UID}); err != nil {
			return err
		}
		request.Status = models.RequestApproved
		return tx.PartnerRequest().Update(ctx, request)
	})
	if err != nil {
		return err
	}

	// 配对成功后清掉双方其余的pending申请，失败只记日志
	for _, u := range []string{request.FromUID, request.ToUID} {
		if derr := s.repos.PartnerRequest().DeletePendingInvolving(ctx, u, requestID); derr != nil {
			s.log.Warn("Failed to clean up pending requests", zap.Error(derr), zap.String("uid", u))
		}
	}

	s.log.Info("Partner request approved",
		zap.String("request_id", requestID),
		zap.String("from", request.FromUID),
		zap.String("to", request.ToUID),
	)
	return nil
}

// Decline 接收方拒绝申请
func (s *partnerService) Decline(ctx context.Context, uid, requestID string) error {
	request, err := s.repos.PartnerRequest().FindByRequestID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.ToUID != uid {
		return errors.New(errors.ErrPermissionDenied, "只有接收方可以处理申请")
	}
	if !request.IsPending() {
		return errors.New(errors.ErrRequestProcessed, "申请已被处理")
	}

	request.Status = models.RequestDeclined
	return s.repos.PartnerRequest().Update(ctx, request)
}

// Remove 解除配对。要求双方互指，两边在同一事务里一起清空
func (s *partnerService) Remove(ctx context.Context, uid string) error {
	return s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		user, err := tx.User().FindByUID(ctx, uid)
		if err != nil {
			return err
		}
		if !user.HasPartner() {
			return errors.New(errors.ErrNotMutualPartner, "当前没有伴侣")
		}

		partner, err := tx.User().FindByUID(ctx, *user.PartnerUID)
		if err != nil {
			return err
		}
		if partner.PartnerUID == nil || *partner.PartnerUID != uid {
			return errors.New(errors.ErrNotMutualPartner, "伴侣关系不互指")
		}

		if err := tx.User().UpdateFields(ctx, user.UID, map[string]interface{}{"partner_uid": nil}); err != nil {
			return err
		}
		return tx.User().UpdateFields(ctx, partner.UID, map[string]interface{}{"partner_uid": nil})
	})
}

// IncomingRequests 发给我的待处理申请（新到旧）
func (s *partnerService) IncomingRequests(ctx context.Context, uid string) ([]*models.PartnerRequest, error) {
	return s.repos.PartnerRequest().ListIncomingPending(ctx, uid)
}
