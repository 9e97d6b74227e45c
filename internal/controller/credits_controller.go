package controller

import (
	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
)

type CreditsController struct {
	creditsService *service.CreditsService
}

func NewCreditsController(creditsService *service.CreditsService) *CreditsController {
	return &CreditsController{
		creditsService: creditsService,
	}
}

func (c *CreditsController) GetBalanceByEmail(email string) (*models.BalanceResponse, error) {
	return c.creditsService.GetBalanceByEmail(email)
}
