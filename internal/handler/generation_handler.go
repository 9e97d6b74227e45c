package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/inkgenius/inkgenius-backend/internal/controller"
	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
	"github.com/inkgenius/inkgenius-backend/pkg/utils"
)

type GenerationHandler struct {
	generationController *controller.GenerationController
	validator            *utils.Validator
}

func NewGenerationHandler(generationController *controller.GenerationController, validator *utils.Validator) *GenerationHandler {
	return &GenerationHandler{
		generationController: generationController,
		validator:            validator,
	}
}

func (h *GenerationHandler) Generate(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.GenerateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	result, err := h.generationController.Generate(c.Context(), userID, req)
	if err != nil {
		if errors.Is(err, repository.ErrInsufficientCredits) {
			return c.Status(fiber.StatusPaymentRequired).JSON(models.ErrorResponse("Insufficient credits"))
		}
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(result, "Design generated"))
}

func (h *GenerationHandler) GetMyGenerations(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	limit := c.QueryInt("limit", 50)
	gens, err := h.generationController.GetUserGenerations(userID, limit)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(gens, "Generations retrieved"))
}
