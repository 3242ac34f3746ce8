package repository

import (
	"github.com/muhammadfahaddev/PayBridge/internal/domain"
	"github.com/muhammadfahaddev/PayBridge/internal/models"

	"gorm.io/gorm"
)

type RefundRepository struct {
	db *gorm.DB
}

func NewRefundRepository(db *gorm.DB) *RefundRepository {
	return &RefundRepository{db: db}
}

func (r *RefundRepository) Create(rf *models.Refund) error {
	return r.db.Create(rf).Error
}

// GetFullSucceeded finds a succeeded refund for the payment's full amount,
// the idempotency anchor for repeated full-refund requests.
func (r *RefundRepository) GetFullSucceeded(paymentID string, amount int64) (*models.Refund, error) {
	var rf models.Refund
	err := r.db.Where("payment_id = ? AND amount = ? AND status = ?",
		paymentID, amount, domain.RefundStatusSucceeded).First(&rf).Error
	if err != nil {
		return nil, err
	}
	return &rf, nil
}

// SumSucceeded totals succeeded refund amounts for a payment.
func (r *RefundRepository) SumSucceeded(paymentID string) (int64, error) {
	var sum int64
	err := r.db.Model(&models.Refund{}).
		Where("payment_id = ? AND status = ?", paymentID, domain.RefundStatusSucceeded).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&sum).Error
	return sum, err
}

func (r *RefundRepository) ListByPayment(paymentID string) ([]models.Refund, error) {
	var refunds []models.Refund
	err := r.db.Where("payment_id = ?", paymentID).Order("created_at ASC").Find(&refunds).Error
	return refunds, err
}
