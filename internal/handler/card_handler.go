package handler

import (
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

type CardHandler struct {
	paymentSvc *service.PaymentService
}

func NewCardHandler(paymentSvc *service.PaymentService) *CardHandler {
	return &CardHandler{paymentSvc: paymentSvc}
}

type cardDetails struct {
	CardNumber string `json:"card_number" binding:"required"`
	ExpMonth   int    `json:"exp_month" binding:"omitempty,min=1,max=12"`
	ExpYear    int    `json:"exp_year"`
	CVC        string `json:"cvc" binding:"omitempty,numeric,min=3,max=4"`
}

// CreatePaymentMethod validates a test card and caches it as a saved
// payment method.
func (h *CardHandler) CreatePaymentMethod(c *gin.Context) {
	var req cardDetails
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	saved, err := h.paymentSvc.RegisterTestCard(middleware.GetMerchantID(c), req.CardNumber, req.ExpMonth, req.ExpYear)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Test payment method saved successfully", gin.H{
		"card_id":           saved.ID,
		"merchant_id":       saved.MerchantID,
		"payment_method_id": saved.PaymentMethodID,
		"card_brand":        saved.CardBrand,
		"card_last4":        saved.CardLast4,
		"exp_month":         saved.ExpMonth,
		"exp_year":          saved.ExpYear,
		"test_card":         saved.IsTestCard,
	})
}

// ConfirmWithCard confirms a payment using raw card details (test cards
// only).
func (h *CardHandler) ConfirmWithCard(c *gin.Context) {
	var req struct {
		PaymentID string `json:"payment_id" binding:"required,uuid"`
		cardDetails
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.paymentSvc.ConfirmWithCard(c.Request.Context(), req.PaymentID,
		middleware.GetMerchantID(c), req.CardNumber, req.ExpMonth, req.ExpYear)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment confirmed successfully with card", view)
}

// ConfirmWithMethod confirms a payment using a saved payment method
// reference.
func (h *CardHandler) ConfirmWithMethod(c *gin.Context) {
	var req struct {
		PaymentID       string `json:"payment_id" binding:"required,uuid"`
		PaymentMethodID string `json:"payment_method_id" binding:"required,startswith=pm_"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.paymentSvc.ConfirmWithMethod(c.Request.Context(), req.PaymentID,
		middleware.GetMerchantID(c), req.PaymentMethodID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment confirmed successfully", view)
}

// ListCards returns the merchant's cached payment methods.
func (h *CardHandler) ListCards(c *gin.Context) {
	cards, err := h.paymentSvc.ListCards(middleware.GetMerchantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", cards)
}
