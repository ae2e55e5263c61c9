package database

import (
	"fmt"

	"github.com/nafhansa/ngedate-yuk/internal/logger"
	"github.com/nafhansa/ngedate-yuk/internal/models"
	"go.uber.org/zap"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 清理过期锁文件
	CleanupStaleLocks()

	// 获取迁移锁，避免多个进程同时迁移
	dbPath := getDBPath()
	if dbPath != "" {
		lockFile, err := acquireMigrationLock(dbPath)
		if err != nil {
			logger.Error("无法获取迁移锁", zap.Error(err))
			return fmt.Errorf("获取迁移锁失败: %w", err)
		}
		defer releaseMigrationLock(lockFile)
	}

	// 定义需要迁移的模型
	migrationModels := []interface{}{
		// 用户相关
		&models.User{},
		&models.PartnerRequest{},

		// 对局相关
		&models.Match{},

		// 交易相关
		&models.CreditTransaction{},
		&models.Payment{},
	}

	// 执行迁移
	logger.Info("开始数据库迁移...")

	// 设置 SQLite 专用配置，避免锁定问题
	if DB.Dialector.Name() == "sqlite" {
		DB.Exec("PRAGMA foreign_keys = OFF")
		defer DB.Exec("PRAGMA foreign_keys = ON")
	}

	for _, model := range migrationModels {
		if err := DB.AutoMigrate(model); err != nil {
			logger.Error("迁移失败",
				zap.String("model", fmt.Sprintf("%T", model)),
				zap.Error(err),
			)
			return err
		}
		logger.Debug("迁移成功", zap.String("model", fmt.Sprintf("%T", model)))
	}

	// 创建索引
	if err := createIndexes(); err != nil {
		return err
	}

	logger.Info("数据库迁移完成")
	return nil
}

// createIndexes 创建数据库索引
func createIndexes() error {
	// 对局表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_matches_status ON matches(status)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_matches_status"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_matches_game_type ON matches(game_type)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_matches_game_type"), zap.Error(err))
	}

	// 伴侣申请表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_partner_requests_to_uid ON partner_requests(to_uid)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_partner_requests_to_uid"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_partner_requests_from_uid ON partner_requests(from_uid)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_partner_requests_from_uid"), zap.Error(err))
	}

	// 交易表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_credit_transactions_user_uid ON credit_transactions(user_uid)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_credit_transactions_user_uid"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_credit_transactions_type ON credit_transactions(type)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_credit_transactions_type"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_credit_transactions_created_at ON credit_transactions(created_at)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_credit_transactions_created_at"), zap.Error(err))
	}

	// 支付表索引
	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_payments_user_uid ON payments(user_uid)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_payments_user_uid"), zap.Error(err))
	}

	if err := DB.Exec("CREATE INDEX IF NOT EXISTS idx_payments_status ON payments(status)").Error; err != nil {
		logger.Warn("创建索引失败", zap.String("index", "idx_payments_status"), zap.Error(err))
	}

	logger.Info("数据库索引创建完成")
	return nil
}

// DropAllTables 删除所有表（仅用于测试环境）
func DropAllTables() error {
	if DB == nil {
		return fmt.Errorf("数据库未初始化")
	}

	// 获取所有表名
	var tables []string
	if err := DB.Raw("SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'").Scan(&tables).Error; err != nil {
		return err
	}

	// 删除所有表
	for _, table := range tables {
		if err := DB.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table)).Error; err != nil {
			logger.Error("删除表失败", zap.String("table", table), zap.Error(err))
			return err
		}
	}

	logger.Info("所有表已删除")
	return nil
}
