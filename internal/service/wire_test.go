package service

import (
	"testing"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFromConfig(t *testing.T) {
	cfg := &config.Config{
		Analysis: config.AnalysisConfig{RatioThreshold: 15, TierAThreshold: 70, TierBThreshold: 90, YearFrom: 2024, YearTo: 2025},
		Workbook: config.WorkbookConfig{MasterSheet: "Maestro"},
	}

	svc, err := NewFromConfig(cfg, nil)
	require.NoError(t, err)
	assert.False(t, svc.StorageEnabled())

	got := svc.pipeline.Config()
	assert.Equal(t, 15.0, got.RatioThreshold)
	assert.Equal(t, 70.0, got.TierAThreshold)
	assert.Equal(t, []int{2024, 2025}, got.Years)
	assert.Equal(t, "Maestro", svc.reader.Sheets().Master)
	assert.Equal(t, "MB51", svc.reader.Sheets().Movements)
}

func TestNewFromConfigInvalidStorage(t *testing.T) {
	cfg := &config.Config{Storage: config.StorageConfig{Endpoint: "localhost:9000", Bucket: "exports"}}

	_, err := NewFromConfig(cfg, nil)
	assert.ErrorContains(t, err, "credentials")
}
