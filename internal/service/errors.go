package service

import "errors"

// Akışın tipli hataları. Handler'lar HTTP status'u bunlara göre seçer.
var (
	// ErrNotAuthenticated kimlik çözülemedi; placeholder kimlik asla üretilmez.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidPackage paket katalogda yok; deneme için fatal, kullanıcı
	// yeniden seçmeli.
	ErrInvalidPackage = errors.New("invalid credit package")
	// ErrProviderUnavailable provider'a ulaşılamadı; retry edilebilir.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
	// ErrAccountNotFound bakiye hesabı yok.
	ErrAccountNotFound = errors.New("credits account not found")
	// ErrNotSessionOwner oturum başka bir kullanıcıya ait.
	ErrNotSessionOwner = errors.New("checkout session belongs to another user")
)
