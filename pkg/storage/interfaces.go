package storage

import "io"

type StorageService interface {
	Upload(key, contentType string, src io.Reader) error
	Delete(key string) error
	PublicURL(key string) string
}
