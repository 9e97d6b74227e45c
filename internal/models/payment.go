package models

import "time"

// CreditPurchase tek bir satın alma denemesinin kaydı. Status alanı
// internal/checkout state machine'inin state'lerinden birini tutar.
type CreditPurchase struct {
	ID              uint      `json:"id" gorm:"primaryKey"`
	UserID          uint      `json:"user_id" gorm:"not null;index"`
	UserEmail       string    `json:"user_email" gorm:"not null;index"`
	PackageID       string    `json:"package_id" gorm:"not null"`
	Credits         int64     `json:"credits" gorm:"not null"`
	BonusCredits    int64     `json:"bonus_credits" gorm:"not null;default:0"`
	PriceMinorUnits int64     `json:"price_minor_units" gorm:"not null"`
	Currency        string    `json:"currency" gorm:"not null"`
	StripeSessionID string    `json:"stripe_session_id" gorm:"unique;not null"`
	CheckoutURL     string    `json:"checkout_url" gorm:"not null"`
	Status          string    `json:"status" gorm:"not null"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type CreateCheckoutRequest struct {
	PackageID  string `json:"packageId" validate:"required"`
	SuccessURL string `json:"successUrl" validate:"required,url"`
	CancelURL  string `json:"cancelUrl" validate:"required,url"`
}

type CheckoutSessionResponse struct {
	SessionID   string `json:"sessionId"`
	CheckoutURL string `json:"checkoutUrl"`
	Status      string `json:"status"`
}
