package service

import (
	"github.com/inkgenius/inkgenius-backend/internal/catalog"
	"github.com/inkgenius/inkgenius-backend/internal/models"
)

type PackageService struct{}

func NewPackageService() *PackageService {
	return &PackageService{}
}

func (s *PackageService) GetAllPackages() []models.CreditPackage {
	return catalog.ListPackages()
}

func (s *PackageService) GetPackageByID(id string) (models.CreditPackage, error) {
	return catalog.GetPackage(id)
}
