package models

import (
	"time"
)

// 交易类型
const (
	TransactionPurchase = "purchase" // 购买入账（正数）
	TransactionDeduct   = "deduct"   // 对局扣费（负数）
	TransactionBonus    = "bonus"    // 赠送入账（正数）
)

// CreditTransaction credit流水表（只追加，从不修改）
type CreditTransaction struct {
	BaseModel
	TransactionID string `gorm:"uniqueIndex;size:64;not null" json:"transaction_id"`
	UserUID       string `gorm:"size:64;not null;index" json:"user_uid"`
	Type          string `gorm:"size:20;not null;index" json:"type"`
	Amount        int64  `gorm:"not null" json:"amount"` // 带符号
	MatchID       string `gorm:"size:64;index" json:"match_id,omitempty"`
	OrderID       string `gorm:"size:64;index" json:"order_id,omitempty"` // 支付网关订单号
	Description   string `gorm:"size:255" json:"description"`
}

// TableName 指定表名
func (CreditTransaction) TableName() string {
	return "credit_transactions"
}

// 支付状态（跟随网关的transaction_status）
const (
	PaymentPending    = "pending"
	PaymentSettlement = "settlement"
	PaymentExpired    = "expire"
	PaymentCanceled   = "cancel"
	PaymentDenied     = "deny"
)

// Payment 支付订单表（checkout时创建，webhook更新状态）
type Payment struct {
	BaseModel
	OrderID              string     `gorm:"uniqueIndex;size:64;not null" json:"order_id"`
	UserUID              string     `gorm:"size:64;not null;index" json:"user_uid"`
	PackageID            string     `gorm:"size:32;not null" json:"package_id"`
	Credits              int64      `gorm:"not null" json:"credits"`
	Amount               int64      `gorm:"not null" json:"amount"` // 金额（IDR）
	Currency             string     `gorm:"size:10;default:'IDR'" json:"currency"`
	Status               string     `gorm:"size:20;default:'pending';index" json:"status"`
	PayMethod            string     `gorm:"size:50" json:"pay_method"`
	GatewayTransactionID string     `gorm:"size:100" json:"gateway_transaction_id"`
	SettledAt            *time.Time `json:"settled_at,omitempty"`
}

// TableName 指定表名
func (Payment) TableName() string {
	return "payments"
}

// IsSettled 检查订单是否已入账
func (p *Payment) IsSettled() bool {
	return p.Status == PaymentSettlement
}

// CreditPackage credit套餐（固定目录，价格只在服务端取用）
type CreditPackage struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Credits     int64  `json:"credits"`
	Price       int64  `json:"price"` // IDR
	Recommended bool   `json:"recommended,omitempty"`
	BestValue   bool   `json:"best_value,omitempty"`
}

// CreditPackages 套餐目录
var CreditPackages = []CreditPackage{
	{ID: "starter", Name: "Starter Pack", Credits: 10, Price: 9900},
	{ID: "popular", Name: "Popular Pack", Credits: 25, Price: 19900, Recommended: true},
	{ID: "value", Name: "Value Pack", Credits: 50, Price: 34900},
	{ID: "mega", Name: "Mega Pack", Credits: 100, Price: 59900, BestValue: true},
}

// FindCreditPackage 按ID查找套餐
func FindCreditPackage(id string) *CreditPackage {
	for i := range CreditPackages {
		if CreditPackages[i].ID == id {
			return &CreditPackages[i]
		}
	}
	return nil
}
