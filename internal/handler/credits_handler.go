package handler

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/inkgenius/inkgenius-backend/internal/controller"
	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
)

type CreditsHandler struct {
	creditsController *controller.CreditsController
}

func NewCreditsHandler(creditsController *controller.CreditsController) *CreditsHandler {
	return &CreditsHandler{
		creditsController: creditsController,
	}
}

// GetBalanceByEmail saf read-through: her istek taze sorgu atar, cache'ten
// dönmez. Hata durumunda client explicit error state gösterir.
func (h *CreditsHandler) GetBalanceByEmail(c *fiber.Ctx) error {
	email, err := url.PathUnescape(c.Params("email"))
	if err != nil || email == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid email"))
	}

	balance, err := h.creditsController.GetBalanceByEmail(email)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Credits account not found"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(balance, "Balance retrieved"))
}
