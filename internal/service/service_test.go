package service

import (
	"context"

	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"gorm.io/gorm"
)

// testConfig 测试用配置
func testConfig() *config.Config {
	return &config.Config{
		Auth: config.AuthConfig{
			JWT:         config.JWTConfig{Secret: "test-secret", ExpireHours: 1, RefreshHours: 24},
			AdminEmails: []string{"admin@example.com"},
		},
		Game: config.GameConfig{
			CreditCost:     1,
			SignupBonus:    3,
			RoomCodeLength: 6,
			MaxCodeRetries: 5,
		},
	}
}

// capturePublisher 记录推送出去的对局更新
type capturePublisher struct {
	published []*models.Match
}

func (p *capturePublisher) PublishMatch(match *models.Match) {
	p.published = append(p.published, match)
}

// seedUser 造一个带余额的用户
func seedUser(db *gorm.DB, uid, email string, credits, freeCredits int64) *models.User {
	user := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: uid,
		Credits:     credits,
		FreeCredits: freeCredits,
	}
	db.WithContext(context.Background()).Create(user)
	return user
}

// seedAdmin 造一个管理员
func seedAdmin(db *gorm.DB, uid, email string) *models.User {
	user := &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: uid,
		IsAdmin:     true,
	}
	db.WithContext(context.Background()).Create(user)
	return user
}

// pairUsers 直接把两个用户配成伴侣
func pairUsers(db *gorm.DB, a, b *models.User) {
	ctx := context.Background()
	db.WithContext(ctx).Model(&models.User{}).Where("uid = ?", a.UID).Update("partner_uid", b.UID)
	db.WithContext(ctx).Model(&models.User{}).Where("uid = ?", b.UID).Update("partner_uid", a.UID)
}

// newTestManager 建内存库和仓储管理器
func newTestManager() (*gorm.DB, *repository.Manager) {
	db := repository.SetupTestDB()
	return db, repository.NewManager(db)
}
