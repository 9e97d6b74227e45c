package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
	"github.com/inkgenius/inkgenius-backend/pkg/imagegen"
	"github.com/inkgenius/inkgenius-backend/pkg/storage"
)

// GenerationCost bir tasarım üretiminin kredi maliyeti.
const GenerationCost int64 = 10

type GenerationService struct {
	imageClient    *imagegen.Client
	storageService storage.StorageService
	creditsRepo    *repository.UserCreditsRepository
	generationRepo *repository.GenerationRepository
	logger         *zap.Logger
}

func NewGenerationService(
	imageClient *imagegen.Client,
	storageService storage.StorageService,
	creditsRepo *repository.UserCreditsRepository,
	generationRepo *repository.GenerationRepository,
	logger *zap.Logger,
) *GenerationService {
	return &GenerationService{
		imageClient:    imageClient,
		storageService: storageService,
		creditsRepo:    creditsRepo,
		generationRepo: generationRepo,
		logger:         logger,
	}
}

// Generate krediyi düşerek bir tasarım üretir. Üretim başarısız olursa kredi
// düşülmez; düşme en sonda, transaction guard'lı Spend ile yapılır.
func (s *GenerationService) Generate(ctx context.Context, userID uint, req models.GenerateRequest) (*models.GenerateResponse, error) {
	credits, err := s.creditsRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	if credits.Credits < GenerationCost {
		return nil, repository.ErrInsufficientCredits
	}

	data, contentType, err := s.imageClient.Generate(ctx, req.Prompt, req.Style)
	if err != nil {
		s.logger.Error("image generation failed", zap.Uint("user_id", userID), zap.Error(err))
		return nil, err
	}

	genID := uuid.NewString()
	key := fmt.Sprintf("generations/%d/%s%s", userID, genID, extensionFor(contentType))
	if err := s.storageService.Upload(key, contentType, bytes.NewReader(data)); err != nil {
		return nil, err
	}

	if err := s.creditsRepo.Spend(userID, GenerationCost, genID); err != nil {
		// Kredi düşülemedi; yüklenen görseli bırakma
		if delErr := s.storageService.Delete(key); delErr != nil {
			s.logger.Warn("orphaned generation object", zap.String("key", key), zap.Error(delErr))
		}
		return nil, err
	}

	gen := &models.Generation{
		ID:           genID,
		UserID:       userID,
		Prompt:       req.Prompt,
		Style:        req.Style,
		ImageURL:     s.storageService.PublicURL(key),
		R2Key:        key,
		CreditsSpent: GenerationCost,
	}
	if err := s.generationRepo.Create(gen); err != nil {
		return nil, err
	}

	balance, err := s.creditsRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("design generated",
		zap.Uint("user_id", userID),
		zap.String("generation_id", genID),
		zap.Int64("credits_spent", GenerationCost),
	)

	return &models.GenerateResponse{
		ID:           gen.ID,
		ImageURL:     gen.ImageURL,
		CreditsSpent: GenerationCost,
		Balance:      balance.Credits,
	}, nil
}

func (s *GenerationService) GetUserGenerations(userID uint, limit int) ([]models.Generation, error) {
	return s.generationRepo.GetByUserID(userID, limit)
}

func extensionFor(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
