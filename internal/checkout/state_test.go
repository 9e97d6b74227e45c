package checkout

import "testing"

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to State
		want     bool
	}{
		{StateSelecting, StateAwaitingPayment, true},
		{StateSelecting, StateCompleted, false},
		{StateSelecting, StateFailed, false},
		{StateAwaitingPayment, StateCompleted, true},
		{StateAwaitingPayment, StateFailed, true},
		{StateAwaitingPayment, StateSelecting, false},
		{StateCompleted, StateSelecting, false},
		{StateCompleted, StateFailed, false},
		{StateFailed, StateSelecting, true},
		{StateFailed, StateCompleted, false},
		{StateFailed, StateAwaitingPayment, false},
	}

	for _, tt := range tests {
		if got := tt.from.CanTransition(tt.to); got != tt.want {
			t.Errorf("%s -> %s: got %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestCompletedIsTerminal(t *testing.T) {
	if !StateCompleted.Terminal() {
		t.Error("completed must be terminal")
	}
	for _, s := range []State{StateSelecting, StateAwaitingPayment, StateFailed} {
		if s.Terminal() {
			t.Errorf("%s must not be terminal", s)
		}
	}
}

func TestValid(t *testing.T) {
	if State("paid").Valid() {
		t.Error("unknown state must not be valid")
	}
	if !StateAwaitingPayment.Valid() {
		t.Error("awaiting_payment must be valid")
	}
}
