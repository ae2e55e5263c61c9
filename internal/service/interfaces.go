package service

import (
	"context"
	"encoding/json"

	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/models"
)

// AuthService 认证服务接口
type AuthService interface {
	// SignInWithGoogle 用Google ID token登录，首次登录自动建号
	SignInWithGoogle(ctx context.Context, idToken string) (*AuthResponse, error)
	// RefreshToken 用刷新令牌换取新的访问令牌
	RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error)
}

// AuthResponse 登录/刷新的返回
type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	ExpiresIn    int64        `json:"expires_in"` // 秒
	User         *models.User `json:"user"`
}

// UserService 用户服务接口
type UserService interface {
	// EnsureUser 按身份提供方资料取用户，不存在则创建（含注册赠送与管理员标记）
	EnsureUser(ctx context.Context, identity *auth.Identity) (*models.User, error)
	GetByUID(ctx context.Context, uid string) (*models.User, error)
	UpdateProfile(ctx context.Context, uid string, profile *ProfileUpdate) (*models.User, error)
}

// ProfileUpdate 资料更新请求（只允许这些字段）
type ProfileUpdate struct {
	DisplayName string `json:"display_name"`
	Avatar      string `json:"avatar"`
}

// CreditService credit经济服务接口
type CreditService interface {
	// CheckSufficient 检查用户余额是否够扣amount（管理员恒为true）
	CheckSufficient(ctx context.Context, uid string, amount int64) (bool, error)
	// DeductForMatch 对单个玩家扣对局费并写流水（管理员跳过）
	DeductForMatch(ctx context.Context, uid, matchID string, amount int64) error
	// DeductForBothPlayers 在单个事务里对两名玩家各扣amount并写流水，
	// 任一方余额不足则整体回滚
	DeductForBothPlayers(ctx context.Context, matchID string, uids []string, amount int64) error
	// AddFromPurchase 购买入账
	AddFromPurchase(ctx context.Context, uid, orderID string, credits int64) error
	// GrantSignupBonus 注册赠送
	GrantSignupBonus(ctx context.Context, uid string, amount int64) error
	// History credit流水（新到旧）
	History(ctx context.Context, uid string, page, pageSize int) ([]*models.CreditTransaction, int64, error)
}

// PartnerService 伴侣配对服务接口
type PartnerService interface {
	Request(ctx context.Context, fromUID, toEmail string) (*models.PartnerRequest, error)
	Approve(ctx context.Context, uid, requestID string) error
	Decline(ctx context.Context, uid, requestID string) error
	Remove(ctx context.Context, uid string) error
	IncomingRequests(ctx context.Context, uid string) ([]*models.PartnerRequest, error)
}

// MatchService 对局生命周期服务接口
type MatchService interface {
	Create(ctx context.Context, hostUID string, gameType models.GameType) (*models.Match, error)
	Join(ctx context.Context, uid, roomCode string, gameType models.GameType) (*models.Match, error)
	Ready(ctx context.Context, uid, matchID string) (*models.Match, error)
	Move(ctx context.Context, uid, matchID string, move json.RawMessage) (*models.Match, error)
	Get(ctx context.Context, uid, matchID string) (*models.Match, error)
	History(ctx context.Context, uid string, page, pageSize int) ([]*models.Match, int64, error)
}

// PaymentService 支付服务接口
type PaymentService interface {
	ListPackages() []models.CreditPackage
	Checkout(ctx context.Context, uid, packageID string) (*CheckoutResponse, error)
	// HandleNotification 处理网关webhook。状态一律以回查结果为准
	HandleNotification(ctx context.Context, notif *GatewayNotification) error
	History(ctx context.Context, uid string, page, pageSize int) ([]*models.Payment, int64, error)
}

// CheckoutResponse 发起购买的返回
type CheckoutResponse struct {
	OrderID     string `json:"order_id"`
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
	Amount      int64  `json:"amount"`
	Credits     int64  `json:"credits"`
}

// GatewayNotification 网关webhook载荷里会用到的字段
type GatewayNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	TransactionID     string `json:"transaction_id"`
}

// MatchPublisher 对局更新推送。每次对局写入后把完整文档推给订阅端
type MatchPublisher interface {
	PublishMatch(match *models.Match)
}

// NoopPublisher 空实现，未接websocket时使用
type NoopPublisher struct{}

// PublishMatch 丢弃更新
func (NoopPublisher) PublishMatch(match *models.Match) {}
