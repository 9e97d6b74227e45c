package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/inkgenius/inkgenius-backend/internal/models"
)

var ErrInsufficientCredits = errors.New("insufficient credits")

type UserCreditsRepository struct {
	db *gorm.DB
}

func NewUserCreditsRepository(db *gorm.DB) *UserCreditsRepository {
	return &UserCreditsRepository{
		db: db,
	}
}

func (r *UserCreditsRepository) GetByEmail(email string) (*models.UserCredits, error) {
	var credits models.UserCredits
	err := r.db.Where("user_email = ?", email).First(&credits).Error
	if err != nil {
		return nil, err
	}
	return &credits, nil
}

func (r *UserCreditsRepository) GetByUserID(userID uint) (*models.UserCredits, error) {
	var credits models.UserCredits
	err := r.db.Where("user_id = ?", userID).First(&credits).Error
	if err != nil {
		return nil, err
	}
	return &credits, nil
}

// EnsureAccount kullanıcının bakiye satırını yoksa açar.
func (r *UserCreditsRepository) EnsureAccount(userID uint, email string) error {
	var existing models.UserCredits
	err := r.db.Where("user_id = ?", userID).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	return r.db.Create(&models.UserCredits{UserID: userID, UserEmail: email}).Error
}

// Grant krediyi tek transaction içinde bakiyeye yazar ve hareket kaydı açar.
// Referans bazında idempotent: aynı referansla ikinci çağrı bakiyeyi
// değiştirmeden nil döner. Bakiye satırı FOR UPDATE ile kilitlendiği için
// aynı kullanıcıya eşzamanlı grant'ler sıraya girer, hareket tablosundaki
// (type, reference) unique index'i de son siper olarak durur.
func (r *UserCreditsRepository) Grant(userID uint, amount int64, reference string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var credits models.UserCredits
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&credits).Error; err != nil {
			return err
		}

		var applied int64
		if err := tx.Model(&models.CreditTransaction{}).
			Where("type = ? AND reference = ?", models.CreditTransactionPurchase, reference).
			Count(&applied).Error; err != nil {
			return err
		}
		if applied > 0 {
			return nil
		}

		now := time.Now()
		credits.Credits += amount
		credits.LastEarnedAt = &now
		if err := tx.Save(&credits).Error; err != nil {
			return err
		}

		return tx.Create(&models.CreditTransaction{
			UserID:       userID,
			Type:         models.CreditTransactionPurchase,
			Amount:       amount,
			BalanceAfter: credits.Credits,
			Reference:    reference,
		}).Error
	})
}

// Spend bakiyeden düşer; bakiye yetmiyorsa ErrInsufficientCredits döner ve
// hiçbir şey yazılmaz.
func (r *UserCreditsRepository) Spend(userID uint, amount int64, reference string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var credits models.UserCredits
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).First(&credits).Error; err != nil {
			return err
		}

		if credits.Credits < amount {
			return ErrInsufficientCredits
		}

		now := time.Now()
		credits.Credits -= amount
		credits.LastSpentAt = &now
		if err := tx.Save(&credits).Error; err != nil {
			return err
		}

		return tx.Create(&models.CreditTransaction{
			UserID:       userID,
			Type:         models.CreditTransactionSpend,
			Amount:       -amount,
			BalanceAfter: credits.Credits,
			Reference:    reference,
		}).Error
	})
}
