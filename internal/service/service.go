package service

import (
	"github.com/nafhansa/ngedate-yuk/internal/auth"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/game"
	"github.com/nafhansa/ngedate-yuk/internal/payment"
	"github.com/nafhansa/ngedate-yuk/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Auth    AuthService
	User    UserService
	Credit  CreditService
	Partner PartnerService
	Match   MatchService
	Payment PaymentService

	JWT *auth.JWTManager
}

// NewServices 创建服务集合
func NewServices(db *gorm.DB, cfg *config.Config, publisher MatchPublisher, log *zap.Logger) *Services {
	repos := repository.NewManager(db)
	registry := game.NewRegistry()

	jwtManager := auth.NewJWTManager(cfg.Auth.JWT)
	verifier := auth.NewGoogleVerifier(cfg.Auth.GoogleTokenInfoURL)
	gateway := payment.NewMidtransGateway(cfg.Payment)

	userService := NewUserService(repos, cfg, log)
	creditService := NewCreditService(repos, log)
	partnerService := NewPartnerService(repos, log)
	matchService := NewMatchService(repos, registry, creditService, publisher, cfg, log)
	paymentService := NewPaymentService(repos, gateway, log)
	authService := NewAuthService(userService, verifier, jwtManager, log)

	return &Services{
		Auth:    authService,
		User:    userService,
		Credit:  creditService,
		Partner: partnerService,
		Match:   matchService,
		Payment: paymentService,
		JWT:     jwtManager,
	}
}
