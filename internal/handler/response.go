package handler

import (
	"errors"
	"net/http"

	"github.com/muhammadfahaddev/PayBridge/internal/domain"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"

	"github.com/gin-gonic/gin"
)

// Every response carries the same envelope: success flag, message, data.
// Error responses add machine-readable details where the caller can act on
// them (current status, remediation hint, allowed cards).

func respond(c *gin.Context, status int, message string, data interface{}) {
	body := gin.H{"success": true}
	if message != "" {
		body["message"] = message
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondErrorDetails(c *gin.Context, status int, message string, details gin.H) {
	body := gin.H{"success": false, "message": message}
	for k, v := range details {
		body[k] = v
	}
	c.JSON(status, body)
}

// respondServiceError maps the engine's error taxonomy onto HTTP. Local
// guard failures come out as 4xx before any provider side effect; provider
// failures keep their transient/permanent split so callers know whether a
// retry is safe.
func respondServiceError(c *gin.Context, err error) {
	var nonConfirmable *domain.NonConfirmableStateError
	var invalidRefund *domain.InvalidRefundStateError
	var unknownCard *domain.UnknownTestCardError
	var unavailable *provider.UnavailableError
	var rejected *provider.RejectedError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(c, http.StatusNotFound, "Payment not found")
	case errors.Is(err, domain.ErrIntentMismatch):
		respondError(c, http.StatusBadRequest, "Payment intent ID mismatch")
	case errors.Is(err, domain.ErrRefundExceedsBalance):
		respondError(c, http.StatusBadRequest, "Refund amount exceeds refundable balance")
	case errors.Is(err, domain.ErrProviderInvariant):
		respondError(c, http.StatusBadGateway, "Provider response violates payment invariant")
	case errors.As(err, &nonConfirmable):
		respondErrorDetails(c, http.StatusBadRequest, nonConfirmable.Error(), gin.H{
			"status": nonConfirmable.Status,
			"hint":   nonConfirmable.Hint(),
		})
	case errors.As(err, &invalidRefund):
		respondErrorDetails(c, http.StatusBadRequest, "Can only refund succeeded payments", gin.H{
			"status": invalidRefund.Status,
		})
	case errors.As(err, &unknownCard):
		respondErrorDetails(c, http.StatusBadRequest, "Invalid test card number", gin.H{
			"allowed_cards": domain.AllowedTestCards(),
		})
	case errors.As(err, &unavailable):
		respondErrorDetails(c, http.StatusServiceUnavailable, "Payment provider temporarily unavailable", gin.H{
			"retryable": true,
		})
	case errors.As(err, &rejected):
		respondErrorDetails(c, http.StatusPaymentRequired, rejected.Message, gin.H{
			"code": rejected.Code,
		})
	default:
		respondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
