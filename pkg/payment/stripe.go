package payment

import (
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/checkout/session"
)

type StripeService struct {
	secretKey string
}

func NewStripeService(secretKey string) *StripeService {
	stripe.Key = secretKey
	return &StripeService{
		secretKey: secretKey,
	}
}

// CheckoutParams tek bir checkout session'ın girdileri. Paket ve kimlik
// bilgisi metadata olarak session create isteğinin body'sinde gider; asla
// elle kurulmuş bir URL query string'ine gömülmez.
type CheckoutParams struct {
	UserEmail   string
	ProductName string
	Description string
	AmountMinor int64
	Currency    string
	SuccessURL  string
	CancelURL   string
	Metadata    map[string]string
}

func (s *StripeService) CreateCheckoutSession(p CheckoutParams) (*stripe.CheckoutSession, error) {
	params := &stripe.CheckoutSessionParams{
		CustomerEmail: stripe.String(p.UserEmail),
		PaymentMethodTypes: stripe.StringSlice([]string{
			"card",
		}),
		Mode: stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(p.Currency)),
					UnitAmount: stripe.Int64(p.AmountMinor),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(p.ProductName),
						Description: stripe.String(p.Description),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(p.SuccessURL),
		CancelURL:  stripe.String(p.CancelURL),
	}

	for k, v := range p.Metadata {
		params.AddMetadata(k, v)
	}

	return session.New(params)
}

// GetCheckoutSession provider'daki güncel session durumunu okur. Kullanıcı
// "ödemeyi tamamladım" dediğinde gerçek durum buradan doğrulanır.
func (s *StripeService) GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error) {
	return session.Get(sessionID, nil)
}

// IsPaid session'ın provider tarafında ödenmiş görünüp görünmediği.
func IsPaid(sess *stripe.CheckoutSession) bool {
	return sess != nil && sess.PaymentStatus == stripe.CheckoutSessionPaymentStatusPaid
}
