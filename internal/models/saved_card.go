package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SavedCard caches a previously used payment method. The (merchant,
// payment method) pair is looked up before insert so repeated use of a card
// never creates duplicate rows.
type SavedCard struct {
	ID              string    `gorm:"type:char(36);primaryKey" json:"id"`
	MerchantID      string    `gorm:"type:char(36);not null;index:idx_saved_cards_merchant_method,unique" json:"merchant_id"`
	PaymentMethodID string    `gorm:"size:255;not null;index:idx_saved_cards_merchant_method,unique" json:"payment_method_id"`
	CardBrand       string    `gorm:"size:20;not null" json:"card_brand"`
	CardLast4       string    `gorm:"size:4;not null" json:"card_last4"`
	ExpMonth        int       `json:"exp_month"`
	ExpYear         int       `json:"exp_year"`
	IsTestCard      bool      `gorm:"default:false" json:"is_test_card"`
	IsActive        bool      `gorm:"default:true" json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
}

func (SavedCard) TableName() string {
	return "saved_cards"
}

func (s *SavedCard) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
