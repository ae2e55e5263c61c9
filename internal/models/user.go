package models

import (
	"time"

	"gorm.io/gorm"
)

// User 用户基础信息表（首次登录时由身份提供方资料创建）
type User struct {
	BaseModel
	UID         string     `gorm:"uniqueIndex;size:64;not null" json:"uid"` // 身份提供方subject
	Email       string     `gorm:"uniqueIndex;size:100;not null" json:"email"`
	DisplayName string     `gorm:"size:100" json:"display_name"`
	Avatar      string     `gorm:"size:255" json:"avatar"`
	PartnerUID  *string    `gorm:"size:64;index" json:"partner_uid"` // 互为伴侣，空表示未配对
	IsAdmin     bool       `gorm:"default:false" json:"is_admin"`    // 管理员不限credit

	// credit余额：credits为可用总额，free_credits为其中的赠送部分
	// 扣费时优先消耗free_credits（见credit service）
	Credits               int64 `gorm:"default:0" json:"credits"`
	FreeCredits           int64 `gorm:"default:0" json:"free_credits"`
	TotalCreditsPurchased int64 `gorm:"default:0" json:"total_credits_purchased"`

	// 对战统计
	Wins   int `gorm:"default:0" json:"wins"`
	Losses int `gorm:"default:0" json:"losses"`
	Draws  int `gorm:"default:0" json:"draws"`

	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// TableName 指定User表名
func (User) TableName() string {
	return "users"
}

// BeforeCreate 创建前的钩子
func (u *User) BeforeCreate(tx *gorm.DB) error {
	// 默认昵称取邮箱前缀之前先留空由service处理，这里只兜底
	if u.DisplayName == "" {
		u.DisplayName = u.Email
	}
	return nil
}

// HasPartner 检查是否已有伴侣
func (u *User) HasPartner() bool {
	return u.PartnerUID != nil && *u.PartnerUID != ""
}

// SpendableCredits 可用credit总额（管理员视为无限，由调用方判断IsAdmin）
func (u *User) SpendableCredits() int64 {
	return u.Credits
}

// UpdateLoginInfo 更新登录信息
func (u *User) UpdateLoginInfo() {
	now := time.Now()
	u.LastLoginAt = &now
}
