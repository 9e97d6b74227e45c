package controller

import (
	"context"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
)

type GenerationController struct {
	generationService *service.GenerationService
}

func NewGenerationController(generationService *service.GenerationService) *GenerationController {
	return &GenerationController{
		generationService: generationService,
	}
}

func (c *GenerationController) Generate(ctx context.Context, userID uint, req models.GenerateRequest) (*models.GenerateResponse, error) {
	return c.generationService.Generate(ctx, userID, req)
}

func (c *GenerationController) GetUserGenerations(userID uint, limit int) ([]models.Generation, error) {
	return c.generationService.GetUserGenerations(userID, limit)
}
