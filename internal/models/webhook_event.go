package models

import "time"

// WebhookEvent işlenen provider event'lerinin dedup kaydı. Aynı event iki
// kez gelirse ikincisi kredi yazmadan atlanır.
type WebhookEvent struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Provider        string     `json:"provider" gorm:"not null;uniqueIndex:ux_webhook_provider_event,priority:1"`
	ProviderEventID string     `json:"provider_event_id" gorm:"not null;uniqueIndex:ux_webhook_provider_event,priority:2"`
	EventType       string     `json:"event_type" gorm:"not null;index"`
	ProcessedAt     *time.Time `json:"processed_at,omitempty"`
	ProcessingError string     `json:"processing_error"`
	CreatedAt       time.Time  `json:"created_at"`
}
