package handler

import (
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/service"

	"github.com/gin-gonic/gin"
)

type RefundHandler struct {
	paymentSvc *service.PaymentService
}

func NewRefundHandler(paymentSvc *service.PaymentService) *RefundHandler {
	return &RefundHandler{paymentSvc: paymentSvc}
}

// Create issues a refund. Omitting amount requests a full refund, which is
// idempotent: a repeat returns the existing refund.
func (h *RefundHandler) Create(c *gin.Context) {
	var req struct {
		PaymentID string `json:"payment_id" binding:"required,uuid"`
		Amount    int64  `json:"amount" binding:"omitempty,min=1"`
		Reason    string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.paymentSvc.CreateRefund(c.Request.Context(), req.PaymentID,
		middleware.GetMerchantID(c), req.Amount, req.Reason)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Refund created successfully", view)
}

// ListByPayment returns all refunds recorded against a payment.
func (h *RefundHandler) ListByPayment(c *gin.Context) {
	refunds, err := h.paymentSvc.ListRefunds(c.Param("payment_id"), middleware.GetMerchantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", refunds)
}
