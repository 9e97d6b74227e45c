// Package catalog kredi paketlerinin derleme zamanında sabitlenen listesini
// tutar. Paketler runtime'da oluşturulmaz ve değişmez; satın almalar pakete
// ID üzerinden referans verir.
package catalog

import (
	"errors"

	"github.com/inkgenius/inkgenius-backend/internal/models"
)

var ErrPackageNotFound = errors.New("credit package not found")

var packages = []models.CreditPackage{
	{
		ID:              "credits_100",
		Name:            "100 Credits",
		Description:     "Starter pack - 100 credits",
		Credits:         100,
		BonusCredits:    0,
		PriceMinorUnits: 100,
		Currency:        "USD",
		IsFeatured:      false,
	},
	{
		ID:              "credits_1000",
		Name:            "1000 Credits",
		Description:     "Standard pack - 1000 credits",
		Credits:         1000,
		BonusCredits:    0,
		PriceMinorUnits: 1000,
		Currency:        "USD",
		IsFeatured:      true,
	},
	{
		ID:              "credits_15000",
		Name:            "15000 Credits",
		Description:     "Value pack - 15000 credits plus 5000 bonus",
		Credits:         15000,
		BonusCredits:    5000,
		PriceMinorUnits: 10000,
		Currency:        "USD",
		IsFeatured:      false,
	},
}

// ListPackages katalogdaki paketleri tanım sırasıyla döner. Dönen slice
// kopyadır, çağıran değiştirse de katalog etkilenmez.
func ListPackages() []models.CreditPackage {
	out := make([]models.CreditPackage, len(packages))
	copy(out, packages)
	return out
}

func GetPackage(id string) (models.CreditPackage, error) {
	for _, p := range packages {
		if p.ID == id {
			return p, nil
		}
	}
	return models.CreditPackage{}, ErrPackageNotFound
}

// DefaultSelection ilk featured paketi döner; hiç featured yoksa ok false.
func DefaultSelection() (models.CreditPackage, bool) {
	for _, p := range packages {
		if p.IsFeatured {
			return p, true
		}
	}
	return models.CreditPackage{}, false
}
