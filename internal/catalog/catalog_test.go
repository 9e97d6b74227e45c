package catalog

import "testing"

func TestPackageInvariants(t *testing.T) {
	pkgs := ListPackages()
	if len(pkgs) == 0 {
		t.Fatal("catalog is empty")
	}

	featured := 0
	seen := map[string]bool{}
	for _, p := range pkgs {
		if p.ID == "" {
			t.Errorf("package with empty id: %+v", p)
		}
		if seen[p.ID] {
			t.Errorf("duplicate package id %q", p.ID)
		}
		seen[p.ID] = true

		if p.Credits <= 0 {
			t.Errorf("%s: credits must be positive, got %d", p.ID, p.Credits)
		}
		if p.BonusCredits < 0 {
			t.Errorf("%s: bonus credits must not be negative, got %d", p.ID, p.BonusCredits)
		}
		if p.PriceMinorUnits < 0 {
			t.Errorf("%s: price must not be negative, got %d", p.ID, p.PriceMinorUnits)
		}
		if p.Currency == "" {
			t.Errorf("%s: currency is empty", p.ID)
		}
		if p.IsFeatured {
			featured++
		}
	}

	if featured > 1 {
		t.Errorf("expected at most one featured package, got %d", featured)
	}
}

func TestDefaultSelectionIsFirstFeatured(t *testing.T) {
	def, ok := DefaultSelection()
	if !ok {
		t.Fatal("expected a default selection")
	}
	if def.ID != "credits_1000" {
		t.Errorf("expected credits_1000 as default, got %s", def.ID)
	}
}

func TestGetPackage(t *testing.T) {
	p, err := GetPackage("credits_15000")
	if err != nil {
		t.Fatalf("GetPackage: %v", err)
	}
	if p.Credits != 15000 || p.BonusCredits != 5000 {
		t.Errorf("unexpected package contents: %+v", p)
	}
	if got := p.TotalCredits(); got != 20000 {
		t.Errorf("TotalCredits = %d, want 20000", got)
	}

	if _, err := GetPackage("credits_999999"); err != ErrPackageNotFound {
		t.Errorf("expected ErrPackageNotFound, got %v", err)
	}
}

func TestListPackagesReturnsCopy(t *testing.T) {
	first := ListPackages()
	first[0].Credits = -1

	again := ListPackages()
	if again[0].Credits == -1 {
		t.Error("mutating the returned slice must not change the catalog")
	}
}
