package handler

import (
	"errors"
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

type APIKeyHandler struct {
	authSvc *service.AuthService
}

func NewAPIKeyHandler(authSvc *service.AuthService) *APIKeyHandler {
	return &APIKeyHandler{authSvc: authSvc}
}

// Info returns the non-secret key id. The key itself is shown once at mint
// time and cannot be recovered.
func (h *APIKeyHandler) Info(c *gin.Context) {
	m := middleware.GetMerchant(c)
	respond(c, http.StatusOK, "", gin.H{
		"merchant_id": m.ID,
		"api_key_id":  m.APIKeyID,
		"note":        "Original API key cannot be retrieved. Use regenerate endpoint to create a new one.",
	})
}

// Regenerate rotates the api key after password verification and returns the
// new plaintext exactly once.
func (h *APIKeyHandler) Regenerate(c *gin.Context) {
	var req struct {
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	key, err := h.authSvc.RotateAPIKey(middleware.GetMerchantID(c), req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			respondError(c, http.StatusUnauthorized, "Invalid password")
			return
		}
		respondError(c, http.StatusInternalServerError, "API key regeneration failed")
		return
	}
	respond(c, http.StatusOK, "API key regenerated successfully", gin.H{
		"api_key": key,
		"warning": "Save this key securely. It will not be shown again.",
	})
}
