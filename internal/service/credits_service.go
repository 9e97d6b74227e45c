package service

import (
	"errors"

	"gorm.io/gorm"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
)

type CreditsService struct {
	creditsRepo *repository.UserCreditsRepository
}

func NewCreditsService(creditsRepo *repository.UserCreditsRepository) *CreditsService {
	return &CreditsService{
		creditsRepo: creditsRepo,
	}
}

// GetBalanceByEmail bakiyeyi her çağrıda veritabanından okur. Cache yok;
// completed sinyali sonrası client'ın yeniden çektiği değer her zaman taze.
func (s *CreditsService) GetBalanceByEmail(email string) (*models.BalanceResponse, error) {
	credits, err := s.creditsRepo.GetByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	return &models.BalanceResponse{
		Credits:      credits.Credits,
		LastEarnedAt: credits.LastEarnedAt,
		LastSpentAt:  credits.LastSpentAt,
	}, nil
}
