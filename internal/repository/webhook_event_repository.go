package repository

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/inkgenius/inkgenius-backend/internal/models"
)

type WebhookEventRepository struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) *WebhookEventRepository {
	return &WebhookEventRepository{
		db: db,
	}
}

// SucceededBefore event daha önce başarıyla işlendiyse true döner. Hatayla
// kalan kayıt dedup sayılmaz; provider'ın retry'ı event'i yeniden sürebilir.
func (r *WebhookEventRepository) SucceededBefore(provider, eventID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ? AND processed_at IS NOT NULL AND processing_error = ''",
			provider, eventID).
		Count(&count).Error
	return count > 0, err
}

func (r *WebhookEventRepository) Record(provider, eventID, eventType string) error {
	return r.db.Create(&models.WebhookEvent{
		Provider:        provider,
		ProviderEventID: eventID,
		EventType:       eventType,
	}).Error
}

func (r *WebhookEventRepository) MarkProcessed(provider, eventID string, processErr error) error {
	now := time.Now()
	updates := map[string]interface{}{
		"processed_at":     &now,
		"processing_error": "",
	}
	if processErr != nil {
		updates["processing_error"] = processErr.Error()
	}
	return r.db.Model(&models.WebhookEvent{}).
		Where("provider = ? AND provider_event_id = ?", provider, eventID).
		Updates(updates).Error
}

// IsDuplicate unique index ihlalini dedup sinyali olarak yorumlar.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
