package middleware

import (
	"net/http"
	"strings"

	"github.com/muhammadfahaddev/PayBridge/config"
	"github.com/muhammadfahaddev/PayBridge/internal/auth"
	"github.com/muhammadfahaddev/PayBridge/internal/models"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthRequired validates the bearer token and loads the merchant into the
// context. Used by account-management routes.
func AuthRequired(cfg *config.JWTConfig, merchants *repository.MerchantRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			abortUnauthorized(c, "Access token required")
			return
		}
		claims, err := auth.ParseToken(cfg, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			abortUnauthorized(c, "Invalid token")
			return
		}
		m, err := merchants.GetByID(claims.MerchantID)
		if err != nil || !m.IsActive {
			abortUnauthorized(c, "Invalid token or merchant inactive")
			return
		}
		c.Set("merchant", m)
		c.Set("merchant_id", m.ID)
		c.Next()
	}
}

// APIKeyRequired authenticates the static api key from X-API-Key (or a
// bearer header) and loads the merchant into the context. Used by payment,
// refund and card routes.
func APIKeyRequired(authSvc *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetHeader("X-API-Key")
		if key == "" {
			key = strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		}
		if key == "" {
			abortUnauthorized(c, "API key required")
			return
		}
		m, err := authSvc.VerifyAPIKey(key)
		if err != nil {
			abortUnauthorized(c, "Invalid API key")
			return
		}
		c.Set("merchant", m)
		c.Set("merchant_id", m.ID)
		c.Next()
	}
}

// GetMerchant returns the authenticated merchant (must run after one of the
// auth middlewares).
func GetMerchant(c *gin.Context) *models.Merchant {
	v, _ := c.Get("merchant")
	if v == nil {
		return nil
	}
	return v.(*models.Merchant)
}

func GetMerchantID(c *gin.Context) string {
	v, _ := c.Get("merchant_id")
	if v == nil {
		return ""
	}
	return v.(string)
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"message": message,
	})
}
