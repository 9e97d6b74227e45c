package checkout

import (
	"errors"
	"testing"
	"time"
)

func newTestSession() Session {
	return Session{
		SessionID:    "cs_test_123",
		PackageID:    "credits_1000",
		UserID:       42,
		UserEmail:    "ink@example.com",
		CheckoutURL:  "https://checkout.stripe.com/c/pay/cs_test_123",
		Credits:      1000,
		BonusCredits: 0,
	}
}

func TestBeginRejectsIncompleteSession(t *testing.T) {
	tr := NewTracker(0, nil)

	tests := []struct {
		name   string
		mutate func(*Session)
	}{
		{"missing session id", func(s *Session) { s.SessionID = "" }},
		{"missing checkout url", func(s *Session) { s.CheckoutURL = "" }},
		{"missing package", func(s *Session) { s.PackageID = "" }},
		{"missing user id", func(s *Session) { s.UserID = 0 }},
		{"missing user email", func(s *Session) { s.UserEmail = "" }},
		{"zero credits", func(s *Session) { s.Credits = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sess := newTestSession()
			tt.mutate(&sess)
			if err := tr.Begin(sess); !errors.Is(err, ErrIncompleteSession) {
				t.Errorf("expected ErrIncompleteSession, got %v", err)
			}
		})
	}
}

func TestCompleteRequiresAwaitingPayment(t *testing.T) {
	tr := NewTracker(0, nil)
	if err := tr.Begin(newTestSession()); err != nil {
		t.Fatalf("Begin: %v", err)
	}

	// selecting'den doğrudan completed'a geçilemez
	if _, err := tr.Complete("cs_test_123"); err == nil {
		t.Fatal("expected direct selecting -> completed to fail")
	}

	if err := tr.Await("cs_test_123"); err != nil {
		t.Fatalf("Await: %v", err)
	}
	granted, err := tr.Complete("cs_test_123")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if granted != 1000 {
		t.Errorf("creditsGranted = %d, want 1000", granted)
	}
}

func TestCreditsGrantedIncludesBonus(t *testing.T) {
	tr := NewTracker(0, nil)
	sess := newTestSession()
	sess.SessionID = "cs_test_bonus"
	sess.PackageID = "credits_15000"
	sess.Credits = 15000
	sess.BonusCredits = 5000

	if err := tr.Begin(sess); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Await(sess.SessionID); err != nil {
		t.Fatalf("Await: %v", err)
	}

	var cbGranted int64
	tr.OnCompleted(func(_ Session, granted int64) { cbGranted = granted })

	granted, err := tr.Complete(sess.SessionID)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if granted != 20000 {
		t.Errorf("creditsGranted = %d, want 20000", granted)
	}
	if cbGranted != 20000 {
		t.Errorf("callback creditsGranted = %d, want 20000", cbGranted)
	}
}

func TestExpiryFailsAwaitingSession(t *testing.T) {
	tr := NewTracker(10*time.Minute, nil)

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	now := base
	tr.now = func() time.Time { return now }

	if err := tr.Begin(newTestSession()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Await("cs_test_123"); err != nil {
		t.Fatalf("Await: %v", err)
	}

	// TTL dolmadan sweep hiçbir şeyi devirmemeli
	now = base.Add(9 * time.Minute)
	if n := tr.ExpireStale(); n != 0 {
		t.Errorf("expired %d sessions before TTL", n)
	}
	sess, _ := tr.Get("cs_test_123")
	if sess.State != StateAwaitingPayment {
		t.Errorf("state = %s, want awaiting_payment", sess.State)
	}

	// Popup'ın kapanmış olması tamamlama kanıtı değildir: süre dolunca
	// oturum completed değil failed olur.
	now = base.Add(11 * time.Minute)
	if n := tr.ExpireStale(); n != 1 {
		t.Errorf("expired %d sessions, want 1", n)
	}
	sess, ok := tr.Get("cs_test_123")
	if !ok {
		t.Fatal("session dropped instead of failed")
	}
	if sess.State != StateFailed {
		t.Errorf("state = %s, want failed", sess.State)
	}
	if sess.State == StateCompleted {
		t.Error("expiry must never complete a session")
	}
}

func TestRetryDiscardsFailedSession(t *testing.T) {
	tr := NewTracker(0, nil)
	if err := tr.Begin(newTestSession()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Await("cs_test_123"); err != nil {
		t.Fatalf("Await: %v", err)
	}

	// awaiting'den retry edilemez
	if err := tr.Retry("cs_test_123"); err == nil {
		t.Fatal("expected retry from awaiting_payment to fail")
	}

	if err := tr.Fail("cs_test_123", "user reported a problem"); err != nil {
		t.Fatalf("Fail: %v", err)
	}
	if err := tr.Retry("cs_test_123"); err != nil {
		t.Fatalf("Retry: %v", err)
	}

	// Oturum ve checkoutUrl'i tamamen gitmiş olmalı
	if _, ok := tr.Get("cs_test_123"); ok {
		t.Error("retried session must be discarded, not reused")
	}
}

func TestCompletedSessionCannotFail(t *testing.T) {
	tr := NewTracker(0, nil)
	if err := tr.Begin(newTestSession()); err != nil {
		t.Fatalf("Begin: %v", err)
	}
	if err := tr.Await("cs_test_123"); err != nil {
		t.Fatalf("Await: %v", err)
	}
	if _, err := tr.Complete("cs_test_123"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var invalid *InvalidTransitionError
	if err := tr.Fail("cs_test_123", "late failure"); !errors.As(err, &invalid) {
		t.Errorf("expected InvalidTransitionError, got %v", err)
	}
}
