package database

import (
	"fmt"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/inkgenius/inkgenius-backend/internal/models"
)

func NewDatabase() (*gorm.DB, error) {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	// TranslateError: unique index ihlali gorm.ErrDuplicatedKey olarak dönsün
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CreditPurchase{},
		&models.UserCredits{},
		&models.CreditTransaction{},
		&models.WebhookEvent{},
		&models.Generation{},
	)
}
