package service

import (
	"fmt"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/cache"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/storage"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook"
	"github.com/rs/zerolog/log"
)

// AnalysisConfig converts the configured thresholds into pipeline settings.
func AnalysisConfig(cfg config.AnalysisConfig) abc.Config {
	return abc.Config{
		RatioThreshold: cfg.RatioThreshold,
		TierAThreshold: cfg.TierAThreshold,
		TierBThreshold: cfg.TierBThreshold,
		Years:          cfg.Years(),
	}
}

// NewFromConfig builds an AnalysisService with the cache and object storage
// the configuration enables.
func NewFromConfig(cfg *config.Config, metrics *Metrics) (*AnalysisService, error) {
	resultCache, err := cache.NewResultCache(cfg.Cache)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize result cache: %w", err)
	}

	store, err := NewObjectStorage(cfg.Storage)
	if err != nil {
		return nil, err
	}

	log.Info().
		Bool("cache", cfg.Cache.Enabled).
		Bool("storage", store != nil).
		Msg("analysis service configured")

	return NewAnalysisService(Dependencies{
		Reader: workbook.NewReader(workbook.SheetNames{
			Master:    cfg.Workbook.MasterSheet,
			Movements: cfg.Workbook.MovementsSheet,
			Requests:  cfg.Workbook.RequestsSheet,
		}),
		Pipeline:      abc.NewABCPipeline(AnalysisConfig(cfg.Analysis)),
		Cache:         resultCache,
		Storage:       store,
		StoragePrefix: cfg.Storage.Prefix,
		Metrics:       metrics,
	}), nil
}

// NewObjectStorage returns the configured S3-compatible storage, or nil when
// no endpoint or bucket is configured.
func NewObjectStorage(cfg config.StorageConfig) (storage.ObjectStorage, error) {
	if !cfg.Enabled() {
		return nil, nil
	}
	client, err := storage.NewS3Client(storage.S3Config{
		Endpoint:  cfg.Endpoint,
		AccessKey: cfg.AccessKey,
		SecretKey: cfg.SecretKey,
		Bucket:    cfg.Bucket,
		Region:    cfg.Region,
		UseSSL:    cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize object storage: %w", err)
	}
	return client, nil
}
