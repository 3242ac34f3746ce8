package handler

import (
	"net/http"
	"strconv"

	"github.com/muhammadfahaddev/PayBridge/internal/middleware"
	"github.com/muhammadfahaddev/PayBridge/internal/repository"
	"github.com/muhammadfahaddev/PayBridge/internal/service"
	"github.com/muhammadfahaddev/PayBridge/internal/validation"

	"github.com/gin-gonic/gin"
)

type PaymentHandler struct {
	paymentSvc *service.PaymentService
}

func NewPaymentHandler(paymentSvc *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentSvc: paymentSvc}
}

func (h *PaymentHandler) Create(c *gin.Context) {
	merchantID := middleware.GetMerchantID(c)
	var req struct {
		Amount   int64             `json:"amount" binding:"required,min=1"`
		Currency string            `json:"currency"`
		OrderID  string            `json:"order_id" binding:"required,max=100"`
		Metadata map[string]string `json:"metadata"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if req.Currency == "" {
		req.Currency = "PKR"
	}
	if err := validation.Currency(req.Currency); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := validation.Amount(req.Amount); err != nil {
		respondErrorDetails(c, http.StatusBadRequest, err.Error(), gin.H{
			"hint": "Try amount >= " + strconv.FormatInt(validation.MinimumAmount(), 10) +
				" (" + validation.FormatAmount(validation.MinimumAmount()) + ")",
		})
		return
	}
	view, err := h.paymentSvc.Create(c.Request.Context(), merchantID, service.CreatePaymentInput{
		Amount:   req.Amount,
		Currency: req.Currency,
		OrderID:  req.OrderID,
		Metadata: req.Metadata,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Payment created successfully", view)
}

// Confirm mirrors the provider's authoritative status for an intent onto the
// payment record.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	var req struct {
		PaymentID        string `json:"payment_id" binding:"required,uuid"`
		ProviderIntentID string `json:"provider_intent_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	view, err := h.paymentSvc.ConfirmByIntentID(c.Request.Context(), req.PaymentID, req.ProviderIntentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "Payment confirmed successfully", view)
}

func (h *PaymentHandler) Get(c *gin.Context) {
	p, err := h.paymentSvc.GetPayment(c.Param("payment_id"), middleware.GetMerchantID(c))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, "", p)
}

func (h *PaymentHandler) List(c *gin.Context) {
	// Invalid or non-positive paging params fall back to the defaults so the
	// pages computation below never divides by zero.
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	f := repository.PaymentFilter{
		Status:  c.Query("status"),
		OrderID: c.Query("order_id"),
		Page:    page,
		Limit:   limit,
	}
	payments, total, err := h.paymentSvc.ListPayments(middleware.GetMerchantID(c), f)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	pages := total / int64(f.Limit)
	if total%int64(f.Limit) != 0 {
		pages++
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    payments,
		"pagination": gin.H{
			"page":  f.Page,
			"limit": f.Limit,
			"total": total,
			"pages": pages,
		},
	})
}
