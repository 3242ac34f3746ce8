package handler

import (
	"errors"
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authSvc *service.AuthService
}

func NewAuthHandler(authSvc *service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2,max=100"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	m, apiKey, token, err := h.authSvc.Signup(req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrEmailExists) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Signup failed")
		return
	}
	respond(c, http.StatusCreated, "Merchant created successfully", gin.H{
		"merchant_id": m.ID,
		"name":        m.Name,
		"email":       m.Email,
		"api_key":     apiKey,
		"token":       token,
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	m, token, err := h.authSvc.Login(req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCreds) || errors.Is(err, service.ErrInactive) {
			respondError(c, http.StatusUnauthorized, err.Error())
			return
		}
		respondError(c, http.StatusInternalServerError, "Login failed")
		return
	}
	respond(c, http.StatusOK, "Login successful", gin.H{
		"merchant_id": m.ID,
		"name":        m.Name,
		"email":       m.Email,
		"token":       token,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	m := middleware.GetMerchant(c)
	respond(c, http.StatusOK, "", gin.H{
		"merchant_id": m.ID,
		"name":        m.Name,
		"email":       m.Email,
		"is_active":   m.IsActive,
		"created_at":  m.CreatedAt,
	})
}

func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required,min=6"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.authSvc.ChangePassword(middleware.GetMerchantID(c), req.CurrentPassword, req.NewPassword); err != nil {
		if errors.Is(err, service.ErrInvalidCreds) {
			respondError(c, http.StatusUnauthorized, "Invalid password")
			return
		}
		respondError(c, http.StatusInternalServerError, "Password change failed")
		return
	}
	respond(c, http.StatusOK, "Password changed successfully", nil)
}
