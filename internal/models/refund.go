package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Refund struct {
	ID               string    `gorm:"type:char(36);primaryKey" json:"id"`
	PaymentID        string    `gorm:"type:char(36);not null;index" json:"payment_id"`
	ProviderRefundID string    `gorm:"size:255;uniqueIndex;not null" json:"provider_refund_id"`
	Amount           int64     `gorm:"not null" json:"amount"`
	Status           string    `gorm:"size:20;not null;default:'pending'" json:"status"`
	Reason           string    `gorm:"size:255;default:'requested_by_customer'" json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	Payment Payment `gorm:"foreignKey:PaymentID" json:"-"`
}

func (Refund) TableName() string {
	return "refunds"
}

func (r *Refund) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
