package repository

import (
	"gorm.io/gorm"

	"github.com/inkgenius/inkgenius-backend/internal/models"
)

type CreditPurchaseRepository struct {
	db *gorm.DB
}

func NewCreditPurchaseRepository(db *gorm.DB) *CreditPurchaseRepository {
	return &CreditPurchaseRepository{
		db: db,
	}
}

func (r *CreditPurchaseRepository) Create(purchase *models.CreditPurchase) error {
	return r.db.Create(purchase).Error
}

func (r *CreditPurchaseRepository) GetBySessionID(sessionID string) (*models.CreditPurchase, error) {
	var purchase models.CreditPurchase
	err := r.db.Where("stripe_session_id = ?", sessionID).First(&purchase).Error
	if err != nil {
		return nil, err
	}
	return &purchase, nil
}

// TransitionStatus status'u yalnızca mevcut değer from ise günceller ve
// geçişi bu çağrının kazanıp kazanmadığını döner. Webhook ile confirm aynı
// anda gelse de koşullu UPDATE sayesinde geçişi tek taraf kazanır.
func (r *CreditPurchaseRepository) TransitionStatus(sessionID, from, to string) (bool, error) {
	res := r.db.Model(&models.CreditPurchase{}).
		Where("stripe_session_id = ? AND status = ?", sessionID, from).
		Update("status", to)
	return res.RowsAffected == 1, res.Error
}

func (r *CreditPurchaseRepository) GetUserPurchaseHistory(userID uint) ([]models.CreditPurchase, error) {
	var purchases []models.CreditPurchase
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&purchases).Error
	return purchases, err
}
