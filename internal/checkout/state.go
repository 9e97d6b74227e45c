// Package checkout satın alma denemesinin state machine'ini ve aktif
// oturumların in-memory kaydını tutar. State'ler yalnızca ileri gider;
// completed ve failed terminal'dir, failed'dan retry ile selecting'e dönülür.
package checkout

// State bir satın alma denemesinin durumu.
type State string

const (
	StateSelecting       State = "selecting"
	StateAwaitingPayment State = "awaiting_payment"
	StateCompleted       State = "completed"
	StateFailed          State = "failed"
)

// Terminal completed için true döner; failed'dan retry mümkündür, o yüzden
// yalnızca completed gerçek terminal'dir.
func (s State) Terminal() bool {
	return s == StateCompleted
}

// CanTransition izinli geçiş tablosu. Selecting'den doğrudan completed'a
// geçiş yoktur; ödeme her zaman awaiting_payment üzerinden geçer.
func (s State) CanTransition(to State) bool {
	switch s {
	case StateSelecting:
		return to == StateAwaitingPayment
	case StateAwaitingPayment:
		return to == StateCompleted || to == StateFailed
	case StateFailed:
		return to == StateSelecting
	default:
		return false
	}
}

func (s State) Valid() bool {
	switch s {
	case StateSelecting, StateAwaitingPayment, StateCompleted, StateFailed:
		return true
	}
	return false
}
