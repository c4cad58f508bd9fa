package logger

import (
	"go.uber.org/zap"

	"github.com/aliskhannn/techquest/internal/config"
)

// New builds the application logger. Anything that is not a local or dev
// environment gets the JSON production encoder.
func New(cfg *config.Config) (*zap.Logger, error) {
	switch cfg.Env {
	case "local", "dev", "development", "test":
		return zap.NewDevelopment()
	default:
		return zap.NewProduction()
	}
}
