package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrSessionNotFound   = errors.New("checkout session not found")
	ErrIncompleteSession = errors.New("checkout session is missing required fields")
)

// DefaultSessionTTL ödeme beklemenin tavanı. Bu süreyi aşan oturumlar
// tamamlanmış sayılmaz, janitor tarafından failed'a çekilir.
const DefaultSessionTTL = 10 * time.Minute

type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid checkout transition: %s -> %s", e.From, e.To)
}

// Session tek bir satın alma denemesi. Bir oturum asla ikinci bir paket
// için yeniden kullanılmaz; retry yeni bir oturum başlatır.
type Session struct {
	SessionID     string
	PackageID     string
	UserID        uint
	UserEmail     string
	CheckoutURL   string
	Credits       int64
	BonusCredits  int64
	State         State
	FailureReason string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// CreditsGranted tamamlanan satın almada hesaba yazılacak toplam.
func (s *Session) CreditsGranted() int64 {
	return s.Credits + s.BonusCredits
}

// CompletedFunc oturum completed'a geçtiğinde çağrılır. creditsGranted
// bakiye yazmak için değil, yetkili bakiyenin yeniden çekilmesini tetiklemek
// içindir.
type CompletedFunc func(sess Session, creditsGranted int64)

// Tracker aktif checkout oturumlarının in-memory kaydı. Tek yazıcı yoktur;
// tüm geçişler mutex altında guard'dan geçer.
type Tracker struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	onDone   CompletedFunc
	logger   *zap.Logger
}

func NewTracker(ttl time.Duration, logger *zap.Logger) *Tracker {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Tracker{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
		logger:   logger,
	}
}

// OnCompleted completed geçişinde çağrılacak callback'i kaydeder.
func (t *Tracker) OnCompleted(fn CompletedFunc) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onDone = fn
}

// Begin oturumu selecting state'inde kaydeder. Eksik alanlı (kısmi) oturum
// kabul edilmez; checkoutUrl veya kimlik boşsa hata döner.
func (t *Tracker) Begin(sess Session) error {
	if sess.SessionID == "" || sess.PackageID == "" || sess.CheckoutURL == "" {
		return ErrIncompleteSession
	}
	if sess.UserID == 0 || sess.UserEmail == "" {
		return ErrIncompleteSession
	}
	if sess.Credits <= 0 {
		return ErrIncompleteSession
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	sess.State = StateSelecting
	sess.CreatedAt = now
	sess.UpdatedAt = now
	t.sessions[sess.SessionID] = &sess
	return nil
}

// Await oturumu awaiting_payment'a geçirir (checkout URL kullanıcıya açıldı).
func (t *Tracker) Await(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, err := t.transition(sessionID, StateAwaitingPayment)
	return err
}

// Complete oturumu completed'a geçirir ve verilecek toplam krediyi döner.
// Yalnızca awaiting_payment'tan çağrılabilir; popup kapanması gibi dolaylı
// sinyaller bu metodu çağırmamalıdır, yetki webhook'ta ya da provider'dan
// doğrulanmış kullanıcı onayındadır.
func (t *Tracker) Complete(sessionID string) (int64, error) {
	t.mu.Lock()
	sess, err := t.transition(sessionID, StateCompleted)
	if err != nil {
		t.mu.Unlock()
		return 0, err
	}
	granted := sess.CreditsGranted()
	done := t.onDone
	snapshot := *sess
	t.mu.Unlock()

	if done != nil {
		done(snapshot, granted)
	}
	return granted, nil
}

// Fail oturumu failed'a geçirir.
func (t *Tracker) Fail(sessionID, reason string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	sess, err := t.transition(sessionID, StateFailed)
	if err != nil {
		return err
	}
	sess.FailureReason = reason
	return nil
}

// Retry failed oturumu kayıttan düşürür; kullanıcı paket seçimine döner.
// Eski checkoutUrl hiçbir şekilde taşınmaz.
func (t *Tracker) Retry(sessionID string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[sessionID]
	if !ok {
		return ErrSessionNotFound
	}
	if !sess.State.CanTransition(StateSelecting) {
		return &InvalidTransitionError{From: sess.State, To: StateSelecting}
	}
	delete(t.sessions, sessionID)
	return nil
}

// Get oturumun anlık kopyasını döner.
func (t *Tracker) Get(sessionID string) (Session, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	sess, ok := t.sessions[sessionID]
	if !ok {
		return Session{}, false
	}
	return *sess, true
}

// ExpireStale TTL'i aşan awaiting_payment oturumlarını failed'a çeker,
// TTL'i aşan terminal oturumları kayıttan düşürür. Süresi dolan bir oturum
// asla completed olmaz.
func (t *Tracker) ExpireStale() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	cutoff := t.now().Add(-t.ttl)
	expired := 0
	for id, sess := range t.sessions {
		if !sess.UpdatedAt.Before(cutoff) {
			continue
		}
		switch sess.State {
		case StateAwaitingPayment, StateSelecting:
			sess.State = StateFailed
			sess.FailureReason = "checkout session expired"
			sess.UpdatedAt = t.now()
			expired++
			t.logger.Info("checkout session expired",
				zap.String("session_id", id),
				zap.String("package_id", sess.PackageID),
			)
		case StateCompleted, StateFailed:
			delete(t.sessions, id)
		}
	}
	return expired
}

// StartJanitor sınırlı aralıklarla ExpireStale çalıştırır; ctx iptal olunca
// ticker'ı bırakır, timer sızdırmaz.
func (t *Tracker) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				t.ExpireStale()
			}
		}
	}()
}

// transition guard'dan geçen state değişimini uygular. Çağıran lock tutmalı.
func (t *Tracker) transition(sessionID string, to State) (*Session, error) {
	sess, ok := t.sessions[sessionID]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if !sess.State.CanTransition(to) {
		return nil, &InvalidTransitionError{From: sess.State, To: to}
	}
	sess.State = to
	sess.UpdatedAt = t.now()
	return sess, nil
}
