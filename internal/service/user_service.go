package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/errors"
	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
)

// userService 用户服务实现
type userService struct {
	repos *repository.Manager
	cfg   *config.Config
	log   *zap.Logger
}

// NewUserService 创建用户服务
func NewUserService(repos *repository.Manager, cfg *config.Config, log *zap.Logger) UserService {
	return &userService{
		repos: repos,
		cfg:   cfg,
		log:   log,
	}
}

// EnsureUser 按身份提供方资料取用户，不存在则创建。
// 管理员标记只在建号时按邮箱白名单判一次，之后改白名单不影响存量用户。
func (s *userService) EnsureUser(ctx context.Context, identity *auth.Identity) (*models.User, error) {
	if identity == nil || identity.Subject == "" {
		return nil, errors.New(errors.ErrInvalidParam, "身份信息缺失")
	}

	user, err := s.repos.User().FindByUID(ctx, identity.Subject)
	if err == nil {
		// 老用户：刷新登录时间即可
		if lerr := s.repos.User().UpdateLastLogin(ctx, user.UID); lerr != nil {
			s.log.Warn("Failed to update last login", zap.Error(lerr), zap.String("uid", user.UID))
		}
		return user, nil
	}
	if errors.GetCode(err) != errors.ErrNotFound {
		return nil, err
	}

	// 首次登录：建号+注册赠送放在同一个事务里
	displayName := identity.Name
	if displayName == "" {
		displayName = strings.SplitN(identity.Email, "@", 2)[0]
	}
	bonus := s.cfg.Game.SignupBonus

	newUser := &models.User{
		UID:         identity.Subject,
		Email:       identity.Email,
		DisplayName: displayName,
		Avatar:      identity.PhotoURL,
		IsAdmin:     s.cfg.IsAdminEmail(identity.Email),
		Credits:     bonus,
		FreeCredits: bonus,
	}
	newUser.UpdateLoginInfo()

	err = s.repos.WithTransaction(ctx, func(tx *repository.Transaction) error {
		if err := tx.User().Create(ctx, newUser); err != nil {
			return err
		}
		if bonus <= 0 {
			return nil
		}
		return tx.Credit().Create(ctx, &models.CreditTransaction{
			TransactionID: uuid.NewString(),
			UserUID:       newUser.UID,
			Type:          models.TransactionBonus,
			Amount:        bonus,
			Description:   fmt.Sprintf("注册赠送%d个credit", bonus),
		})
	})
	if err != nil {
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", identity.Email))
		return nil, errors.Wrap(err, errors.ErrDatabaseQuery, "创建用户失败")
	}

	logger.LogCreditEvent("signup_bonus", newUser.UID, bonus, "signup")
	s.log.Info("User created",
		zap.String("uid", newUser.UID),
		zap.String("email", newUser.Email),
		zap.Bool("is_admin", newUser.IsAdmin),
	)
	return newUser, nil
}

// GetByUID 根据UID获取用户
func (s *userService) GetByUID(ctx context.Context, uid string) (*models.User, error) {
	return s.repos.User().FindByUID(ctx, uid)
}

// UpdateProfile 更新资料（只允许昵称和头像）
func (s *userService) UpdateProfile(ctx context.Context, uid string, profile *ProfileUpdate) (*models.User, error) {
	if profile == nil {
		return nil, errors.New(errors.ErrInvalidParam, "资料不能为空")
	}

	fields := make(map[string]interface{})
	if profile.DisplayName != "" {
		fields["display_name"] = profile.DisplayName
	}
	if profile.Avatar != "" {
		fields["avatar"] = profile.Avatar
	}
	if len(fields) > 0 {
		if err := s.repos.User().UpdateFields(ctx, uid, fields); err != nil {
			return nil, err
		}
	}
	return s.repos.User().FindByUID(ctx, uid)
}
