package handler

import (
	"errors"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/inkgenius/inkgenius-backend/internal/checkout"
	"github.com/inkgenius/inkgenius-backend/internal/controller"
	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
	"github.com/inkgenius/inkgenius-backend/pkg/utils"
)

type PaymentHandler struct {
	paymentController *controller.PaymentController
	validator         *utils.Validator
	logger            *zap.Logger
}

func NewPaymentHandler(paymentController *controller.PaymentController, validator *utils.Validator, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentController: paymentController,
		validator:         validator,
		logger:            logger,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	userID, userEmail, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	var req models.CreateCheckoutRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request body"))
	}
	if err := h.validator.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse(err.Error()))
	}

	session, err := h.paymentController.CreateCheckoutSession(userID, userEmail, req)
	if err != nil {
		return c.Status(paymentErrorStatus(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(session, "Checkout session created"))
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	webhookSecret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	payload := c.Body()
	signatureHeader := c.Get("Stripe-Signature")

	// API version mismatch'i ignore et
	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Webhook verification failed"))
	}

	if err := h.paymentController.HandleStripeWebhook(&event); err != nil {
		h.logger.Error("webhook processing failed",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)),
			zap.Error(err),
		)
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.SendStatus(fiber.StatusOK)
}

// ConfirmCheckout kullanıcının "ödemeyi tamamladım" onayı. Provider'dan
// doğrulanmadan completed dönmez.
func (h *PaymentHandler) ConfirmCheckout(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Session ID is required"))
	}

	session, err := h.paymentController.ConfirmCheckout(userID, sessionID)
	if err != nil {
		return c.Status(paymentErrorStatus(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(session, "Checkout status reconciled"))
}

func (h *PaymentHandler) ReportProblem(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Session ID is required"))
	}

	session, err := h.paymentController.ReportProblem(userID, sessionID)
	if err != nil {
		return c.Status(paymentErrorStatus(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(session, "Checkout marked as failed"))
}

func (h *PaymentHandler) RetryCheckout(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	sessionID := c.Params("sessionId")
	if sessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Session ID is required"))
	}

	if err := h.paymentController.RetryCheckout(userID, sessionID); err != nil {
		return c.Status(paymentErrorStatus(err)).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(nil, "Checkout discarded, select a package to retry"))
}

func (h *PaymentHandler) GetCreditPackages(c *fiber.Ctx) error {
	packages := h.paymentController.GetCreditPackages()
	return c.JSON(models.SuccessResponse(packages, "Packages retrieved successfully"))
}

func (h *PaymentHandler) GetPurchaseHistory(c *fiber.Ctx) error {
	userID, _, ok := currentIdentity(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(models.ErrorResponse("User not authenticated"))
	}

	purchases, err := h.paymentController.GetUserPurchaseHistory(userID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(models.SuccessResponse(purchases, "Purchase history retrieved"))
}

func paymentErrorStatus(err error) int {
	var invalid *checkout.InvalidTransitionError
	switch {
	case errors.Is(err, service.ErrInvalidPackage):
		return fiber.StatusBadRequest
	case errors.Is(err, service.ErrNotAuthenticated):
		return fiber.StatusUnauthorized
	case errors.Is(err, service.ErrNotSessionOwner):
		return fiber.StatusForbidden
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, checkout.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, checkout.ErrStaleReconcile):
		return fiber.StatusConflict
	case errors.As(err, &invalid):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrProviderUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}
