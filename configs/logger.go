package configs

import "go.uber.org/zap"

// NewLogger returns a JSON production logger, or a console logger in development.
func NewLogger(cfg *Config) (*zap.Logger, error) {
	if cfg.Development() {
		return zap.NewDevelopment()
	}

	zc := zap.NewProductionConfig()
	zc.InitialFields = map[string]interface{}{
		"service": "marketplace-api",
		"version": cfg.ServiceVersion,
	}
	return zc.Build()
}
