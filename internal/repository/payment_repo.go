package repository

import (
	"github.com/muhammadfahaddev/PayBridge/internal/models"

	"gorm.io/gorm"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

// PaymentFilter narrows List results; zero values are ignored.
type PaymentFilter struct {
	Status  string
	OrderID string
	Page    int
	Limit   int
}

func (r *PaymentRepository) Create(p *models.Payment) error {
	return r.db.Create(p).Error
}

func (r *PaymentRepository) GetByID(id string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("id = ?", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDForMerchant scopes the lookup to the owning merchant. A payment
// owned by someone else is indistinguishable from a missing one.
func (r *PaymentRepository) GetByIDForMerchant(id, merchantID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Where("id = ? AND merchant_id = ?", id, merchantID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) GetWithRefunds(id, merchantID string) (*models.Payment, error) {
	var p models.Payment
	err := r.db.Preload("Refunds").Where("id = ? AND merchant_id = ?", id, merchantID).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepository) List(merchantID string, f PaymentFilter) ([]models.Payment, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = 10
	}
	q := r.db.Model(&models.Payment{}).Where("merchant_id = ?", merchantID)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.OrderID != "" {
		q = q.Where("order_id = ?", f.OrderID)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var payments []models.Payment
	err := q.Preload("Refunds").
		Order("created_at DESC").
		Limit(f.Limit).
		Offset((f.Page - 1) * f.Limit).
		Find(&payments).Error
	if err != nil {
		return nil, 0, err
	}
	return payments, total, nil
}

func (r *PaymentRepository) Update(p *models.Payment) error {
	return r.db.Save(p).Error
}

// UpdateStatusIf writes the new status only while the row is still in one of
// the expected states. Terminal rows are absorbing: passing the non-terminal
// set as `from` makes a concurrent or repeated write a detectable no-op. The
// bool reports whether a row actually changed.
func (r *PaymentRepository) UpdateStatusIf(id string, from []string, to string) (bool, error) {
	res := r.db.Model(&models.Payment{}).
		Where("id = ? AND status IN ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
