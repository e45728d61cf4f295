package services

import (
	"go.uber.org/zap"

	appconfig "laynie-fae-storefront/internal/config"
)

// NewStorageService returns R2-backed storage when credentials are
// configured, falling back to local disk for development.
func NewStorageService(cfg appconfig.R2Config, logger *zap.Logger) StorageService {
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		r2, err := NewR2Service(cfg)
		if err == nil {
			logger.Info("using R2 storage", zap.String("bucket", cfg.BucketName))
			return r2
		}
		logger.Warn("failed to initialize R2 storage, falling back to local disk", zap.Error(err))
	}

	local, err := NewLocalStorageService("./uploads", "/uploads")
	if err != nil {
		logger.Fatal("failed to initialize local storage", zap.Error(err))
	}
	logger.Info("using local disk storage")
	return local
}
