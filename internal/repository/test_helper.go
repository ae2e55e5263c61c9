package repository

import (
	"time"

	"github.com/nafhansa/ngedate-yuk/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB 为测试套件设置内存测试数据库
func SetupTestDB() *gorm.DB {
	// 使用内存数据库进行测试（更快，不需要文件系统，在所有环境中都能工作）
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(err)
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&models.User{},
		&models.PartnerRequest{},
		&models.Match{},
		&models.CreditTransaction{},
		&models.Payment{},
	)
	if err != nil {
		panic(err)
	}

	return db
}

// CleanupTestDB 清理测试数据库
func CleanupTestDB(db *gorm.DB) {
	sqlDB, _ := db.DB()
	if sqlDB != nil {
		sqlDB.Close()
	}
}

// CreateTestUser 创建测试用户
func CreateTestUser(uid, email string, credits, freeCredits int64) *models.User {
	return &models.User{
		UID:         uid,
		Email:       email,
		DisplayName: "测试用户-" + uid,
		Credits:     credits,
		FreeCredits: freeCredits,
	}
}

// CreateTestMatch 创建测试对局
func CreateTestMatch(matchID, roomCode string, gameType models.GameType, hostUID string) *models.Match {
	now := time.Now()
	return &models.Match{
		MatchID:      matchID,
		GameType:     gameType,
		Status:       models.MatchWaiting,
		RoomCode:     roomCode,
		Players:      models.StringArray{hostUID},
		TurnUID:      hostUID,
		PlayersReady: models.BoolMap{},
		GameState:    models.JSONMap{},
		LastMoveAt:   now,
	}
}
