package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nafhansa/ngedate-yuk/internal/config"
	"github.com/nafhansa/ngedate-yuk/internal/middleware"
	"github.com/nafhansa/ngedate-yuk/internal/service"
	"github.com/nafhansa/ngedate-yuk/internal/websocket"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Router API路由器
type Router struct {
	engine         *gin.Engine
	db             *gorm.DB
	services       *service.Services
	authMiddleware *middleware.AuthMiddleware
	wsHandler      *websocket.Handler
	log            *zap.Logger

	authHandler    *AuthHandler
	userHandler    *UserHandler
	partnerHandler *PartnerHandler
	matchHandler   *MatchHandler
	creditHandler  *CreditHandler
	paymentHandler *PaymentHandler
}

// NewRouter 创建路由器
func NewRouter(db *gorm.DB, services *service.Services, wsHandler *websocket.Handler, cfg *config.Config, log *zap.Logger) *Router {
	switch cfg.Server.Mode {
	case "production", gin.ReleaseMode:
		gin.SetMode(gin.ReleaseMode)
	case gin.TestMode:
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(gin.Logger())

	router := &Router{
		engine:         engine,
		db:             db,
		services:       services,
		authMiddleware: middleware.NewAuthMiddleware(services.JWT),
		wsHandler:      wsHandler,
		log:            log,

		authHandler:    NewAuthHandler(services.Auth),
		userHandler:    NewUserHandler(services.User),
		partnerHandler: NewPartnerHandler(services.Partner),
		matchHandler:   NewMatchHandler(services.Match),
		creditHandler:  NewCreditHandler(services.Credit, services.Payment, services.User),
		paymentHandler: NewPaymentHandler(services.Payment),
	}

	router.setupRoutes()
	return router
}

// setupRoutes 设置路由
func (r *Router) setupRoutes() {
	// 健康检查
	r.engine.GET("/health", r.healthCheck)

	v1 := r.engine.Group("/api/v1")
	{
		// 认证相关路由（不需要认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/google", r.authHandler.GoogleSignIn)
			auth.POST("/refresh", r.authHandler.RefreshToken)
		}

		// 当前用户
		users := v1.Group("/users")
		users.Use(r.authMiddleware.RequireAuth())
		{
			users.GET("/me", r.userHandler.GetMe)
			users.PUT("/me", r.userHandler.UpdateMe)
		}

		// 伴侣配对
		partner := v1.Group("/partner")
		partner.Use(r.authMiddleware.RequireAuth())
		{
			partner.POST("/requests", r.partnerHandler.Request)
			partner.GET("/requests", r.partnerHandler.IncomingRequests)
			partner.POST("/requests/:request_id/approve", r.partnerHandler.Approve)
			partner.POST("/requests/:request_id/decline", r.partnerHandler.Decline)
			partner.DELETE("", r.partnerHandler.Remove)
		}

		// 对局
		matches := v1.Group("/matches")
		matches.Use(r.authMiddleware.RequireAuth())
		{
			matches.POST("", r.matchHandler.Create)
			matches.POST("/join", r.matchHandler.Join)
			matches.GET("/history", r.matchHandler.History)
			matches.GET("/:match_id", r.matchHandler.Get)
			matches.POST("/:match_id/ready", r.matchHandler.Ready)
			matches.POST("/:match_id/move", r.matchHandler.Move)
		}

		// credit经济
		credits := v1.Group("/credits")
		credits.Use(r.authMiddleware.RequireAuth())
		{
			credits.GET("/balance", r.creditHandler.Balance)
			credits.GET("/history", r.creditHandler.History)
			credits.GET("/packages", r.creditHandler.Packages)
		}

		// 支付
		payments := v1.Group("/payments")
		{
			// 网关webhook不走JWT，凭回查兜底
			payments.POST("/notification", r.paymentHandler.Notification)

			authed := payments.Group("")
			authed.Use(r.authMiddleware.RequireAuth())
			{
				authed.POST("/checkout", r.paymentHandler.Checkout)
				authed.GET("/history", r.paymentHandler.History)
			}
		}
	}

	// WebSocket路由（处理器自己校验令牌）
	r.engine.GET("/ws", r.wsHandler.HandleConnection)

	// 404处理
	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "接口不存在",
		})
	})
}

// healthCheck 健康检查
func (r *Router) healthCheck(c *gin.Context) {
	sqlDB, err := r.db.DB()
	if err != nil || sqlDB.Ping() != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "unhealthy",
			"message": "数据库不可用",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "服务运行正常",
	})
}

// Run 运行服务器
func (r *Router) Run(addr string) error {
	r.log.Info("Starting API server", zap.String("address", addr))
	return r.engine.Run(addr)
}

// GetEngine 获取Gin引擎（用于测试和自定义http.Server）
func (r *Router) GetEngine() *gin.Engine {
	return r.engine
}
