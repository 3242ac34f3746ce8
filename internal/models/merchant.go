package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Merchant struct {
	ID           string `gorm:"type:char(36);primaryKey" json:"id"`
	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:255;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	// APIKeyID is the non-secret segment of the api key, indexed so
	// authentication is a single lookup instead of a hash scan.
	APIKeyID   string    `gorm:"size:16;uniqueIndex;not null" json:"-"`
	APIKeyHash string    `gorm:"size:255;not null" json:"-"`
	IsActive   bool      `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Payments   []Payment   `gorm:"foreignKey:MerchantID" json:"-"`
	SavedCards []SavedCard `gorm:"foreignKey:MerchantID" json:"-"`
}

func (Merchant) TableName() string {
	return "merchants"
}

func (m *Merchant) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
