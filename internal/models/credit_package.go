package models

// CreditPackage satın alınabilir kredi paketi. Katalog derleme zamanında
// sabittir, runtime'da değişmez (bkz. internal/catalog).
type CreditPackage struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Description     string `json:"description"`
	Credits         int64  `json:"credits"`
	BonusCredits    int64  `json:"bonus_credits"`
	PriceMinorUnits int64  `json:"price_minor_units"`
	Currency        string `json:"currency"`
	IsFeatured      bool   `json:"is_featured"`
}

// TotalCredits satın almada hesaba yazılacak toplam kredi.
func (p CreditPackage) TotalCredits() int64 {
	return p.Credits + p.BonusCredits
}
