package models

import "time"

// UserCredits kullanıcının güncel kredi bakiyesi. Tek yetkili kaynak burası;
// client'lar bakiyeyi asla lokal hesaplamaz, her zaman yeniden çeker.
type UserCredits struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	UserID       uint       `json:"user_id" gorm:"not null;uniqueIndex"`
	UserEmail    string     `json:"user_email" gorm:"not null;uniqueIndex"`
	Credits      int64      `json:"credits" gorm:"not null;default:0"`
	LastEarnedAt *time.Time `json:"last_earned_at,omitempty"`
	LastSpentAt  *time.Time `json:"last_spent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

type CreditTransactionType string

const (
	CreditTransactionPurchase CreditTransactionType = "purchase"
	CreditTransactionSpend    CreditTransactionType = "spend"
)

// CreditTransaction append-only hareket kaydı. (type, reference) unique'tir;
// aynı satın alma ya da üretim için ikinci hareket satırı yazılamaz.
type CreditTransaction struct {
	ID           uint                  `json:"id" gorm:"primaryKey"`
	UserID       uint                  `json:"user_id" gorm:"not null;index"`
	Type         CreditTransactionType `json:"type" gorm:"not null;uniqueIndex:ux_credit_tx_type_reference,priority:1"`
	Amount       int64                 `json:"amount" gorm:"not null"`
	BalanceAfter int64                 `json:"balance_after" gorm:"not null"`
	Reference    string                `json:"reference" gorm:"not null;uniqueIndex:ux_credit_tx_type_reference,priority:2"`
	CreatedAt    time.Time             `json:"created_at"`
}

type BalanceResponse struct {
	Credits      int64      `json:"credits"`
	LastEarnedAt *time.Time `json:"lastEarnedAt,omitempty"`
	LastSpentAt  *time.Time `json:"lastSpentAt,omitempty"`
}
