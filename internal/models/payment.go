package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Payment struct {
	ID               string            `gorm:"type:char(36);primaryKey" json:"id"`
	MerchantID       string            `gorm:"type:char(36);not null;index" json:"merchant_id"`
	OrderID          string            `gorm:"size:100;not null;index" json:"order_id"`
	ProviderIntentID string            `gorm:"size:255;uniqueIndex;not null" json:"provider_intent_id"`
	ClientSecret     string            `gorm:"size:255" json:"client_secret"`
	Amount           int64             `gorm:"not null" json:"amount"` // minor currency unit, immutable
	Currency         string            `gorm:"size:3;not null;default:'PKR'" json:"currency"`
	Status           string            `gorm:"size:32;not null;index" json:"status"`
	Metadata         datatypes.JSONMap `gorm:"type:json" json:"metadata"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`

	Merchant Merchant `gorm:"foreignKey:MerchantID" json:"-"`
	Refunds  []Refund `gorm:"foreignKey:PaymentID" json:"refunds,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
