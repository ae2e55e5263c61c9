package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
)

// creditService credit经济服务实现
type creditService struct {
	repos *repository.Manager
	log   *zap.Logger
}

// NewCreditService 创建credit服务
func NewCreditService(repos *repository.Manager, log *zap.Logger) CreditService {
	return &creditService{
		repos: repos,
		log:   log,
	}
}

// CheckSufficient 检查余额。管理员不限credit恒为true
func (s *creditService) CheckSufficient(ctx context.Context, uid string, amount int64) (bool, error) {
	user, err := s.repos.User().FindByUID(ctx, uid)
	if err != nil {
		return false, err
	}
	if user.IsAdmin {
		return true, nil
	}
	return user.Credits >= amount, nil
}

// DeductForMatch 对单个玩家扣对局费。管理员不扣费也不写流水
func (s *creditService) DeductForMatch(ctx context.Context, uid, matchID string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		return deductOne(ctx, tx, uid, matchID, amount)
	})
	if err != nil {
		return err
	}

	logger.LogCreditEvent("match_deduct", uid, -amount, matchID)
	return nil
}

// DeductForBothPlayers 单事务对两名玩家各扣amount。
// 优先消耗赠送部分（free_credits），任一方不足则整体回滚。
// 管理员玩家不扣费也不写流水。
func (s *creditService) DeductForBothPlayers(ctx context.Context, matchID string, uids []string, amount int64) error {
	if amount <= 0 {
		return nil
	}
	if len(uids) != 2 {
		return errors.New(errors.ErrInvalidParam, "扣费必须针对两名玩家")
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		for _, uid := range uids {
			if err := deductOne(ctx, tx, uid, matchID, amount); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, uid := range uids {
		logger.LogCreditEvent("match_deduct", uid, -amount, matchID)
	}
	return nil
}

// deductOne 事务内对单个玩家扣费
func deductOne(ctx context.Context, tx *repository.Transaction, uid, matchID string, amount int64) error {
	user, err := tx.User().FindByUID(ctx, uid)
	if err != nil {
		return err
	}
	if user.IsAdmin {
		return nil
	}
	if user.Credits < amount {
		return errors.Newf(errors.ErrInsufficientCredits, "玩家%s的credit不足", uid)
	}

	freeUsed := user.FreeCredits
	if freeUsed > amount {
		freeUsed = amount
	}
	fields := map[string]interface{}{
		"credits":      user.Credits - amount,
		"free_credits": user.FreeCredits - freeUsed,
	}
	if err := tx.User().UpdateFields(ctx, uid, fields); err != nil {
		return err
	}

	return tx.Credit().Create(ctx, &models.CreditTransaction{
		TransactionID: uuid.NewString(),
		UserUID:       uid,
		Type:          models.TransactionDeduct,
		Amount:        -amount,
		MatchID:       matchID,
		Description:   "对局扣费",
	})
}

// AddFromPurchase 购买入账
func (s *creditService) AddFromPurchase(ctx context.Context, uid, orderID string, credits int64) error {
	if credits <= 0 {
		return errors.New(errors.ErrInvalidParam, "入账数量必须为正")
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		user, err := tx.User().FindByUID(ctx, uid)
		if err != nil {
			return err
		}
		fields := map[string]interface{}{
			"credits":                 user.Credits + credits,
			"total_credits_purchased": user.TotalCreditsPurchased + credits,
		}
		if err := tx.User().UpdateFields(ctx, uid, fields); err != nil {
			return err
		}
		return tx.Credit().Create(ctx, &models.CreditTransaction{
			TransactionID: uuid.NewString(),
			UserUID:       uid,
			Type:          models.TransactionPurchase,
			Amount:        credits,
			OrderID:       orderID,
			Description:   fmt.Sprintf("购买%d个credit", credits),
		})
	})
	if err != nil {
		s.log.Error("Failed to add purchased credits",
			zap.Error(err), zap.String("uid", uid), zap.String("order_id", orderID))
		return err
	}

	logger.LogCreditEvent("purchase", uid, credits, orderID)
	return nil
}

// GrantSignupBonus 注册赠送（进入free_credits）
func (s *creditService) GrantSignupBonus(ctx context.Context, uid string, amount int64) error {
	if amount <= 0 {
		return nil
	}

	err := s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		user, err := tx.User().FindByUID(ctx, uid)
		if err != nil {
			return err
		}
		fields := map[string]interface{}{
			"credits":      user.Credits + amount,
			"free_credits": user.FreeCredits + amount,
		}
		if err := tx.User().UpdateFields(ctx, uid, fields); err != nil {
			return err
		}
		return tx.Credit().Create(ctx, &models.CreditTransaction{
			TransactionID: uuid.NewString(),
			UserUID:       uid,
			Type:          models.TransactionBonus,
			Amount:        amount,
			Description:   fmt.Sprintf("注册赠送%d个credit", amount),
		})
	})
	if err != nil {
		return err
	}

	logger.LogCreditEvent("signup_bonus", uid, amount, "signup")
	return nil
}

// History credit流水（新到旧）
func (s *creditService) History(ctx context.Context, uid string, page, pageSize int) ([]*models.CreditTransaction, int64, error) {
	pagination := repository.NewPagination(page, pageSize)
	list, err := s.repos.Credit().ListByUser(ctx, uid, pagination)
	if err != nil {
		return nil, 0, err
	}
	return list, pagination.Total, nil
}
