package models

import "time"

// Generation üretilen tek bir tattoo tasarımının kaydı.
type Generation struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	UserID       uint      `json:"user_id" gorm:"not null;index"`
	Prompt       string    `json:"prompt" gorm:"not null"`
	Style        string    `json:"style"`
	ImageURL     string    `json:"image_url" gorm:"not null"`
	R2Key        string    `json:"-" gorm:"not null"`
	CreditsSpent int64     `json:"credits_spent" gorm:"not null"`
	CreatedAt    time.Time `json:"created_at"`
}

type GenerateRequest struct {
	Prompt string `json:"prompt" validate:"required,min=3,max=1000"`
	Style  string `json:"style" validate:"omitempty,oneof=traditional realism blackwork watercolor minimal tribal"`
}

type GenerateResponse struct {
	ID           string `json:"id"`
	ImageURL     string `json:"image_url"`
	CreditsSpent int64  `json:"credits_spent"`
	Balance      int64  `json:"balance"`
}
