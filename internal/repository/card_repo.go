package repository

import (
	"github.com/muhammadfahaddev/PayBridge/internal/models"

	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) GetByMerchantAndMethod(merchantID, paymentMethodID string) (*models.SavedCard, error) {
	var c models.SavedCard
	err := r.db.Where("merchant_id = ? AND payment_method_id = ?", merchantID, paymentMethodID).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CardRepository) Create(c *models.SavedCard) error {
	return r.db.Create(c).Error
}

func (r *CardRepository) ListByMerchant(merchantID string) ([]models.SavedCard, error) {
	var cards []models.SavedCard
	err := r.db.Where("merchant_id = ? AND is_active = ?", merchantID, true).Find(&cards).Error
	return cards, err
}
