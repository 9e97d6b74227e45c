package controller

import (
	"github.com/stripe/stripe-go/v74"

	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/service"
)

type PaymentController struct {
	paymentService *service.PaymentService
}

func NewPaymentController(paymentService *service.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

func (c *PaymentController) CreateCheckoutSession(userID uint, userEmail string, req models.CreateCheckoutRequest) (*models.CheckoutSessionResponse, error) {
	return c.paymentService.CreateCheckoutSession(userID, userEmail, req)
}

func (c *PaymentController) HandleStripeWebhook(event *stripe.Event) error {
	return c.paymentService.HandleStripeWebhook(event)
}

func (c *PaymentController) ConfirmCheckout(userID uint, sessionID string) (*models.CheckoutSessionResponse, error) {
	return c.paymentService.ConfirmCheckout(userID, sessionID)
}

func (c *PaymentController) ReportProblem(userID uint, sessionID string) (*models.CheckoutSessionResponse, error) {
	return c.paymentService.ReportProblem(userID, sessionID)
}

func (c *PaymentController) RetryCheckout(userID uint, sessionID string) error {
	return c.paymentService.RetryCheckout(userID, sessionID)
}

func (c *PaymentController) GetCreditPackages() []models.CreditPackage {
	return c.paymentService.GetCreditPackages()
}

func (c *PaymentController) GetUserPurchaseHistory(userID uint) ([]models.CreditPurchase, error) {
	return c.paymentService.GetUserPurchaseHistory(userID)
}
