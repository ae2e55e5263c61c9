package repository

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Manager 仓储管理器，提供所有仓储的统一访问接口
type Manager struct {
	db *gorm.DB

	// 仓储实例（使用懒加载）
	userOnce sync.Once
	user     UserRepository

	matchOnce sync.Once
	match     MatchRepository

	partnerRequestOnce sync.Once
	partnerRequest     PartnerRequestRepository

	creditOnce sync.Once
	credit     CreditTransactionRepository

	paymentOnce sync.Once
	payment     PaymentRepository
}

// NewManager 创建仓储管理器
func NewManager(db *gorm.DB) *Manager {
	return &Manager{db: db}
}

// GetDB 获取数据库实例
func (m *Manager) GetDB() *gorm.DB {
	return m.db
}

// User 用户仓储
func (m *Manager) User() UserRepository {
	m.userOnce.Do(func() {
		m.user = NewUserRepository(m.db)
	})
	return m.user
}

// Match 对局仓储
func (m *Manager) Match() MatchRepository {
	m.matchOnce.Do(func() {
		m.match = NewMatchRepository(m.db)
	})
	return m.match
}

// PartnerRequest 伴侣申请仓储
func (m *Manager) PartnerRequest() PartnerRequestRepository {
	m.partnerRequestOnce.Do(func() {
		m.partnerRequest = NewPartnerRequestRepository(m.db)
	})
	return m.partnerRequest
}

// Credit credit流水仓储
func (m *Manager) Credit() CreditTransactionRepository {
	m.creditOnce.Do(func() {
		m.credit = NewCreditTransactionRepository(m.db)
	})
	return m.credit
}

// Payment 支付单仓储
func (m *Manager) Payment() PaymentRepository {
	m.paymentOnce.Do(func() {
		m.payment = NewPaymentRepository(m.db)
	})
	return m.payment
}

// Transaction 事务中的仓储集合
type Transaction struct {
	tx *gorm.DB
}

// User 事务内的用户仓储
func (t *Transaction) User() UserRepository {
	return NewUserRepository(t.tx)
}

// Match 事务内的对局仓储
func (t *Transaction) Match() MatchRepository {
	return NewMatchRepository(t.tx)
}

// PartnerRequest 事务内的伴侣申请仓储
func (t *Transaction) PartnerRequest() PartnerRequestRepository {
	return NewPartnerRequestRepository(t.tx)
}

// Credit 事务内的credit流水仓储
func (t *Transaction) Credit() CreditTransactionRepository {
	return NewCreditTransactionRepository(t.tx)
}

// Payment 事务内的支付单仓储
func (t *Transaction) Payment() PaymentRepository {
	return NewPaymentRepository(t.tx)
}

// GetDB 事务内的数据库句柄
func (t *Transaction) GetDB() *gorm.DB {
	return t.tx
}

// WithTransaction 在单个事务中执行函数，函数返回错误则整体回滚
func (m *Manager) WithTransaction(ctx context.Context, fn func(tx *Transaction) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Transaction{tx: tx})
	})
}
