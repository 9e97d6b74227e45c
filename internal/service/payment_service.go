package service

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"go.uber.org/zap"

	"github.com/inkgenius/inkgenius-backend/internal/catalog"
	"github.com/inkgenius/inkgenius-backend/internal/checkout"
	"github.com/inkgenius/inkgenius-backend/internal/models"
	"github.com/inkgenius/inkgenius-backend/internal/repository"
	"github.com/inkgenius/inkgenius-backend/pkg/email"
	"github.com/inkgenius/inkgenius-backend/pkg/payment"
)

const webhookProvider = "stripe"

// CheckoutProvider ödeme sağlayıcısının bu servise bakan yüzü.
// *payment.StripeService implement eder.
type CheckoutProvider interface {
	CreateCheckoutSession(p payment.CheckoutParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(sessionID string) (*stripe.CheckoutSession, error)
}

// PurchaseStore satın alma kayıtlarının kalıcı katmanı. TransitionStatus
// koşullu update'tir; geçişi yalnızca tek çağıran kazanabilir.
type PurchaseStore interface {
	Create(purchase *models.CreditPurchase) error
	GetBySessionID(sessionID string) (*models.CreditPurchase, error)
	TransitionStatus(sessionID, from, to string) (bool, error)
	GetUserPurchaseHistory(userID uint) ([]models.CreditPurchase, error)
}

// CreditsStore bakiye tarafı. Grant referans bazında idempotent olmalıdır;
// aynı referansla ikinci çağrı bakiyeyi değiştirmez.
type CreditsStore interface {
	EnsureAccount(userID uint, email string) error
	Grant(userID uint, amount int64, reference string) error
}

// WebhookEventStore provider event'lerinin dedup kaydı.
type WebhookEventStore interface {
	SucceededBefore(provider, eventID string) (bool, error)
	Record(provider, eventID, eventType string) error
	MarkProcessed(provider, eventID string, processErr error) error
}

type PaymentService struct {
	provider     CheckoutProvider
	purchaseRepo PurchaseStore
	creditsRepo  CreditsStore
	webhookRepo  WebhookEventStore
	tracker      *checkout.Tracker
	reconciler   *checkout.Reconciler
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewPaymentService(
	provider CheckoutProvider,
	purchaseRepo PurchaseStore,
	creditsRepo CreditsStore,
	webhookRepo WebhookEventStore,
	tracker *checkout.Tracker,
	emailService *email.EmailService,
	logger *zap.Logger,
) *PaymentService {
	return &PaymentService{
		provider:     provider,
		purchaseRepo: purchaseRepo,
		creditsRepo:  creditsRepo,
		webhookRepo:  webhookRepo,
		tracker:      tracker,
		reconciler:   checkout.NewReconciler(),
		emailService: emailService,
		logger:       logger,
	}
}

// CreateCheckoutSession paket ve kimlikten provider'da bir checkout session
// açar. checkoutUrl provider'dan gelir; hiçbir URL şablonu lokalde kurulmaz.
// Dönen response ya tam doludur ya da hata; kısmi session dönmez.
func (s *PaymentService) CreateCheckoutSession(userID uint, userEmail string, req models.CreateCheckoutRequest) (*models.CheckoutSessionResponse, error) {
	if userID == 0 || userEmail == "" {
		return nil, ErrNotAuthenticated
	}

	pkg, err := catalog.GetPackage(req.PackageID)
	if err != nil {
		return nil, ErrInvalidPackage
	}

	sess, err := s.provider.CreateCheckoutSession(payment.CheckoutParams{
		UserEmail:   userEmail,
		ProductName: pkg.Name,
		Description: pkg.Description,
		AmountMinor: pkg.PriceMinorUnits,
		Currency:    pkg.Currency,
		SuccessURL:  req.SuccessURL,
		CancelURL:   req.CancelURL,
		Metadata: map[string]string{
			"user_id":       fmt.Sprintf("%d", userID),
			"user_email":    userEmail,
			"package_id":    pkg.ID,
			"credits":       fmt.Sprintf("%d", pkg.Credits),
			"bonus_credits": fmt.Sprintf("%d", pkg.BonusCredits),
		},
	})
	if err != nil {
		s.logger.Error("stripe checkout create failed",
			zap.String("package_id", pkg.ID),
			zap.Uint("user_id", userID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if sess.URL == "" {
		return nil, fmt.Errorf("%w: provider returned empty checkout url", ErrProviderUnavailable)
	}

	flow := checkout.Session{
		SessionID:    sess.ID,
		PackageID:    pkg.ID,
		UserID:       userID,
		UserEmail:    userEmail,
		CheckoutURL:  sess.URL,
		Credits:      pkg.Credits,
		BonusCredits: pkg.BonusCredits,
	}
	if err := s.tracker.Begin(flow); err != nil {
		return nil, err
	}
	if err := s.tracker.Await(sess.ID); err != nil {
		return nil, err
	}

	purchase := &models.CreditPurchase{
		UserID:          userID,
		UserEmail:       userEmail,
		PackageID:       pkg.ID,
		Credits:         pkg.Credits,
		BonusCredits:    pkg.BonusCredits,
		PriceMinorUnits: pkg.PriceMinorUnits,
		Currency:        pkg.Currency,
		StripeSessionID: sess.ID,
		CheckoutURL:     sess.URL,
		Status:          string(checkout.StateAwaitingPayment),
	}
	if err := s.purchaseRepo.Create(purchase); err != nil {
		return nil, err
	}

	s.logger.Info("checkout session created",
		zap.String("session_id", sess.ID),
		zap.String("package_id", pkg.ID),
		zap.Uint("user_id", userID),
	)

	return &models.CheckoutSessionResponse{
		SessionID:   sess.ID,
		CheckoutURL: sess.URL,
		Status:      string(checkout.StateAwaitingPayment),
	}, nil
}

// HandleStripeWebhook provider event'lerini işler. Webhook completed için
// tek yetkili kaynaktır. Dedup yalnızca başarıyla işlenen event'i keser;
// hatayla kalan kayıt provider retry'ında yeniden sürülür, grant kaybolmaz.
func (s *PaymentService) HandleStripeWebhook(event *stripe.Event) error {
	done, err := s.webhookRepo.SucceededBefore(webhookProvider, event.ID)
	if err != nil {
		return err
	}
	if done {
		s.logger.Info("duplicate webhook event skipped", zap.String("event_id", event.ID))
		return nil
	}
	if err := s.webhookRepo.Record(webhookProvider, event.ID, string(event.Type)); err != nil {
		// Kayıt zaten varsa önceki deneme hatayla kalmış demektir; yeniden işle
		if !repository.IsDuplicate(err) {
			return err
		}
	}

	processErr := s.processWebhookEvent(event)
	if markErr := s.webhookRepo.MarkProcessed(webhookProvider, event.ID, processErr); markErr != nil {
		s.logger.Error("failed to mark webhook processed", zap.String("event_id", event.ID), zap.Error(markErr))
	}
	return processErr
}

func (s *PaymentService) processWebhookEvent(event *stripe.Event) error {
	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.completePurchase(sess.ID)

	case "checkout.session.expired", "checkout.session.async_payment_failed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return err
		}
		return s.failPurchase(sess.ID, string(event.Type))
	}

	return nil
}

// completePurchase satın almayı completed'a geçirir ve krediyi yazar. Geçiş
// koşullu update'tir: webhook ile confirm yarışırsa geçişi tek taraf kazanır.
// Grant referans bazında idempotent olduğundan hatayla kalan denemenin
// retry'ı krediyi yeniden sürebilir, kaybeden taraf ise ikinci kez yazamaz.
func (s *PaymentService) completePurchase(sessionID string) error {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return err
	}

	wonTransition := false
	current := checkout.State(purchase.Status)
	if current != checkout.StateCompleted {
		if !current.CanTransition(checkout.StateCompleted) {
			return &checkout.InvalidTransitionError{From: current, To: checkout.StateCompleted}
		}
		won, err := s.purchaseRepo.TransitionStatus(sessionID, string(current), string(checkout.StateCompleted))
		if err != nil {
			return err
		}
		if !won {
			refreshed, err := s.purchaseRepo.GetBySessionID(sessionID)
			if err != nil {
				return err
			}
			if refreshed.Status != string(checkout.StateCompleted) {
				return &checkout.InvalidTransitionError{
					From: checkout.State(refreshed.Status),
					To:   checkout.StateCompleted,
				}
			}
		}
		wonTransition = won
	}

	// In-memory flow kaydı servis restart'ında olmayabilir; yokluğu sorun değil.
	if _, err := s.tracker.Complete(sessionID); err != nil && !errors.Is(err, checkout.ErrSessionNotFound) {
		s.logger.Warn("flow tracker out of sync", zap.String("session_id", sessionID), zap.Error(err))
	}
	s.reconciler.Forget(sessionID)

	granted := purchase.Credits + purchase.BonusCredits
	if err := s.creditsRepo.EnsureAccount(purchase.UserID, purchase.UserEmail); err != nil {
		return err
	}
	if err := s.creditsRepo.Grant(purchase.UserID, granted, sessionID); err != nil {
		return err
	}

	s.logger.Info("purchase completed",
		zap.String("session_id", sessionID),
		zap.String("package_id", purchase.PackageID),
		zap.Int64("credits_granted", granted),
	)

	if wonTransition && s.emailService != nil {
		if pkg, err := catalog.GetPackage(purchase.PackageID); err == nil {
			go s.emailService.SendPurchaseReceipt(purchase.UserEmail, pkg.Name, granted, purchase.PriceMinorUnits, purchase.Currency)
		}
	}

	return nil
}

func (s *PaymentService) failPurchase(sessionID, reason string) error {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return err
	}

	current := checkout.State(purchase.Status)
	if current == checkout.StateFailed {
		return nil
	}
	if !current.CanTransition(checkout.StateFailed) {
		return &checkout.InvalidTransitionError{From: current, To: checkout.StateFailed}
	}

	won, err := s.purchaseRepo.TransitionStatus(sessionID, string(current), string(checkout.StateFailed))
	if err != nil {
		return err
	}
	if !won {
		refreshed, err := s.purchaseRepo.GetBySessionID(sessionID)
		if err != nil {
			return err
		}
		if refreshed.Status == string(checkout.StateFailed) {
			return nil
		}
		return &checkout.InvalidTransitionError{
			From: checkout.State(refreshed.Status),
			To:   checkout.StateFailed,
		}
	}
	if err := s.tracker.Fail(sessionID, reason); err != nil && !errors.Is(err, checkout.ErrSessionNotFound) {
		s.logger.Warn("flow tracker out of sync", zap.String("session_id", sessionID), zap.Error(err))
	}

	s.logger.Info("purchase failed", zap.String("session_id", sessionID), zap.String("reason", reason))
	return nil
}

// ConfirmCheckout kullanıcının "ödemeyi tamamladım" beyanını işler. Beyan
// kanıt değildir: provider'dan gerçek durum okunur, yalnızca paid ise
// completed'a geçilir. Üst üste gelen onaylarda eski provider cevabı
// sequence guard'la atılır.
func (s *PaymentService) ConfirmCheckout(userID uint, sessionID string) (*models.CheckoutSessionResponse, error) {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, ErrNotSessionOwner
	}

	if purchase.Status == string(checkout.StateCompleted) {
		return s.sessionResponse(purchase), nil
	}

	seq := s.reconciler.Begin(sessionID)
	providerSess, err := s.provider.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	if !s.reconciler.Current(sessionID, seq) {
		return nil, checkout.ErrStaleReconcile
	}

	if payment.IsPaid(providerSess) {
		if err := s.completePurchase(sessionID); err != nil {
			return nil, err
		}
		purchase.Status = string(checkout.StateCompleted)
		return s.sessionResponse(purchase), nil
	}

	// Ödeme provider'da görünmüyor; oturum beklemede kalır.
	return s.sessionResponse(purchase), nil
}

// ReportProblem kullanıcının "sorun yaşadım" aksiyonu; oturum failed'a çekilir.
func (s *PaymentService) ReportProblem(userID uint, sessionID string) (*models.CheckoutSessionResponse, error) {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return nil, err
	}
	if purchase.UserID != userID {
		return nil, ErrNotSessionOwner
	}

	if err := s.failPurchase(sessionID, "user reported a problem"); err != nil {
		return nil, err
	}
	purchase.Status = string(checkout.StateFailed)
	return s.sessionResponse(purchase), nil
}

// RetryCheckout failed oturumu akıştan düşürür; kullanıcı paket seçimine
// döner. Eski checkoutUrl taşınmaz, yeni deneme yeni session açar.
func (s *PaymentService) RetryCheckout(userID uint, sessionID string) error {
	purchase, err := s.purchaseRepo.GetBySessionID(sessionID)
	if err != nil {
		return err
	}
	if purchase.UserID != userID {
		return ErrNotSessionOwner
	}

	current := checkout.State(purchase.Status)
	if !current.CanTransition(checkout.StateSelecting) {
		return &checkout.InvalidTransitionError{From: current, To: checkout.StateSelecting}
	}

	if err := s.tracker.Retry(sessionID); err != nil && !errors.Is(err, checkout.ErrSessionNotFound) {
		return err
	}
	s.reconciler.Forget(sessionID)
	return nil
}

func (s *PaymentService) GetCreditPackages() []models.CreditPackage {
	return catalog.ListPackages()
}

func (s *PaymentService) GetUserPurchaseHistory(userID uint) ([]models.CreditPurchase, error) {
	return s.purchaseRepo.GetUserPurchaseHistory(userID)
}

func (s *PaymentService) sessionResponse(p *models.CreditPurchase) *models.CheckoutSessionResponse {
	return &models.CheckoutSessionResponse{
		SessionID:   p.StripeSessionID,
		CheckoutURL: p.CheckoutURL,
		Status:      p.Status,
	}
}
