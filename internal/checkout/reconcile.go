package checkout

import (
	"errors"
	"sync"
)

// ErrStaleReconcile daha yeni bir sorgu başladıktan sonra dönen eski provider
// cevabı için döner; cevap uygulanmadan atılır.
var ErrStaleReconcile = errors.New("stale provider status response discarded")

// Reconciler aynı oturum için üst üste tetiklenen provider durum sorgularını
// sıralar. Her sorgu monoton artan bir sequence alır; yalnızca en son
// sequence'ın cevabı uygulanır. Kullanıcı onay butonuna arka arkaya bassa da
// eski cevap yenisini ezemez.
type Reconciler struct {
	mu     sync.Mutex
	next   uint64
	latest map[string]uint64
}

func NewReconciler() *Reconciler {
	return &Reconciler{latest: make(map[string]uint64)}
}

// Begin oturum için yeni bir sorgu sequence'ı üretir ve en son olarak işaretler.
func (r *Reconciler) Begin(sessionID string) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.next++
	r.latest[sessionID] = r.next
	return r.next
}

// Current verilen sequence hâlâ oturumun en son sorgusuysa true döner.
func (r *Reconciler) Current(sessionID string, seq uint64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.latest[sessionID] == seq
}

// Forget oturum kapandığında sequence kaydını temizler.
func (r *Reconciler) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.latest, sessionID)
}
