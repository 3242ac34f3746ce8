package router

import (
	"net/http"
	"time"

	"github.com/muhammadfahaddev/PayBridge/config"
	"github.com/muhammadfahaddev/PayBridge/internal/handler"
	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"
	"github.com/muhammadfahaddev/PayBridge/internal/service"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func Setup(cfg *config.Config, db *gorm.DB, gateway provider.Gateway) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 15*time.Minute)))

	// Repositories
	merchantRepo := repository.NewMerchantRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	refundRepo := repository.NewRefundRepository(db)
	cardRepo := repository.NewCardRepository(db)

	// Services
	authSvc := service.NewAuthService(cfg, merchantRepo)
	paymentSvc := service.NewPaymentService(paymentRepo, refundRepo, cardRepo, gateway)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	apiKeyHandler := handler.NewAPIKeyHandler(authSvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc)
	cardHandler := handler.NewCardHandler(paymentSvc)
	refundHandler := handler.NewRefundHandler(paymentSvc)
	testHandler := handler.NewTestHandler(paymentSvc)

	jwtMw := middleware.AuthRequired(&cfg.JWT, merchantRepo)
	apiKeyMw := middleware.APIKeyRequired(authSvc)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "OK",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"service":   "PayBridge API",
		})
	})

	api := r.Group("/api/v1")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", authHandler.Signup)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/profile", jwtMw, authHandler.Profile)
			authGroup.PATCH("/change-password", jwtMw, authHandler.ChangePassword)
		}

		// Legacy alias kept for older integrations.
		api.POST("/merchant/signup", authHandler.Signup)

		apiKeyGroup := api.Group("/api-key")
		apiKeyGroup.Use(jwtMw)
		{
			apiKeyGroup.GET("/info", apiKeyHandler.Info)
			apiKeyGroup.POST("/regenerate", apiKeyHandler.Regenerate)
		}

		payments := api.Group("/payments")
		payments.Use(apiKeyMw)
		{
			payments.POST("/create", paymentHandler.Create)
			payments.POST("/confirm", paymentHandler.Confirm)
			payments.GET("/:payment_id", paymentHandler.Get)
			payments.GET("/", paymentHandler.List)
		}

		cards := api.Group("/cards")
		cards.Use(apiKeyMw)
		{
			cards.POST("/create-payment-method", cardHandler.CreatePaymentMethod)
			cards.POST("/confirm-with-card", cardHandler.ConfirmWithCard)
			cards.POST("/confirm-with-method", cardHandler.ConfirmWithMethod)
			cards.GET("/", cardHandler.ListCards)
		}

		refunds := api.Group("/refunds")
		refunds.Use(apiKeyMw)
		{
			refunds.POST("/create", refundHandler.Create)
			refunds.GET("/:payment_id", refundHandler.ListByPayment)
		}

		test := api.Group("/test")
		if cfg.Server.EnableTestRoutes {
			test.Use(apiKeyMw)
			test.POST("/confirm-visa", testHandler.ConfirmVisa)
			test.POST("/confirm-mastercard", testHandler.ConfirmMastercard)
			test.POST("/confirm-declined", testHandler.ConfirmDeclined)
		} else {
			test.Any("/*path", func(c *gin.Context) {
				c.JSON(http.StatusNotFound, gin.H{
					"success": false,
					"message": "Test routes not available in production",
				})
			})
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"message": "Route not found",
		})
	})

	return r
}
