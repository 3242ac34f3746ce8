package repository

import (
	"github.com/muhammadfahaddev/PayBridge/internal/models"

	"gorm.io/gorm"
)

type MerchantRepository struct {
	db *gorm.DB
}

func NewMerchantRepository(db *gorm.DB) *MerchantRepository {
	return &MerchantRepository{db: db}
}

func (r *MerchantRepository) Create(m *models.Merchant) error {
	return r.db.Create(m).Error
}

func (r *MerchantRepository) GetByID(id string) (*models.Merchant, error) {
	var m models.Merchant
	err := r.db.Where("id = ?", id).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MerchantRepository) GetByEmail(email string) (*models.Merchant, error) {
	var m models.Merchant
	err := r.db.Where("email = ?", email).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// GetByKeyID resolves the non-secret api key segment to its merchant.
func (r *MerchantRepository) GetByKeyID(keyID string) (*models.Merchant, error) {
	var m models.Merchant
	err := r.db.Where("api_key_id = ?", keyID).First(&m).Error
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MerchantRepository) Update(m *models.Merchant) error {
	return r.db.Save(m).Error
}
