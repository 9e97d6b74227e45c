package logger

import (
	"os"

	"go.uber.org/zap"
)

// New APP_ENV'e göre zap logger kurar. Production'da JSON, development'ta
// console encoder.
func New() (*zap.Logger, error) {
	if os.Getenv("APP_ENV") == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
