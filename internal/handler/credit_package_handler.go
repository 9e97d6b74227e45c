package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
)

type CreditPackageHandler struct {
	packageService *service.PackageService
}

func NewCreditPackageHandler(packageService *service.PackageService) *CreditPackageHandler {
	return &CreditPackageHandler{
		packageService: packageService,
	}
}

func (h *CreditPackageHandler) GetAllPackages(c *fiber.Ctx) error {
	packages := h.packageService.GetAllPackages()
	return c.JSON(models.SuccessResponse(packages, "Packages retrieved successfully"))
}

func (h *CreditPackageHandler) GetPackageByID(c *fiber.Ctx) error {
	id := c.Params("id")

	pkg, err := h.packageService.GetPackageByID(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Package not found"))
	}

	return c.JSON(models.SuccessResponse(pkg, "Package retrieved successfully"))
}
