package models

// RequestStatus 伴侣申请状态
type RequestStatus string

const (
	RequestPending  RequestStatus = "pending"
	RequestApproved RequestStatus = "approved" // 终态
	RequestDeclined RequestStatus = "declined" // 终态
)

// PartnerRequest 伴侣申请表
//
// 申请由发送方创建，只有接收方可以approve/decline。
// 唯一性只在写入时查询校验，没有存储层约束（并发下可能出现重复，已知风险）。
type PartnerRequest struct {
	BaseModel
	RequestID string `gorm:"uniqueIndex;size:64;not null" json:"request_id"`
	FromUID   string `gorm:"size:64;not null;index" json:"from_uid"`
	ToUID     string `gorm:"size:64;not null;index" json:"to_uid"`
	// 发送方展示信息冗余存储，收件箱列表不用再查用户表
	FromName  string        `gorm:"size:128" json:"from_name"`
	FromEmail string        `gorm:"size:128" json:"from_email"`
	Status    RequestStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
}

// TableName 指定表名
func (PartnerRequest) TableName() string {
	return "partner_requests"
}

// IsPending 检查申请是否待处理
func (r *PartnerRequest) IsPending() bool {
	return r.Status == RequestPending
}
