package handler

import (
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

// TestHandler exposes one-shot confirmation endpoints against canned test
// instruments. Only mounted when test routes are enabled in config.
type TestHandler struct {
	paymentSvc *service.PaymentService
}

func NewTestHandler(paymentSvc *service.PaymentService) *TestHandler {
	return &TestHandler{paymentSvc: paymentSvc}
}

func (h *TestHandler) ConfirmVisa(c *gin.Context) {
	h.confirm(c, "pm_card_visa", "Test payment confirmed with Visa test card")
}

func (h *TestHandler) ConfirmMastercard(c *gin.Context) {
	h.confirm(c, "pm_card_mastercard", "Test payment confirmed with Mastercard test card")
}

func (h *TestHandler) ConfirmDeclined(c *gin.Context) {
	h.confirm(c, "pm_card_chargeDeclined", "Test payment confirmed")
}

func (h *TestHandler) confirm(c *gin.Context, methodID, message string) {
	var req struct {
		PaymentID string `json:"payment_id" binding:"required,uuid"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.paymentSvc.ConfirmWithMethod(c.Request.Context(), req.PaymentID,
		middleware.GetMerchantID(c), methodID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, message, view)
}
