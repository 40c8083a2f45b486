package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
)

func TestReadDefaults(t *testing.T) {
	viper.Reset()
	setDefaults()
	viper.AutomaticEnv()

	cfg := read()
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 10.0, cfg.Analysis.RatioThreshold)
	assert.Equal(t, 80.0, cfg.Analysis.TierAThreshold)
	assert.Equal(t, 95.0, cfg.Analysis.TierBThreshold)
	assert.Equal(t, []int{2022, 2023, 2024, 2025, 2026}, cfg.Analysis.Years())
	assert.Equal(t, "ZMM009", cfg.Workbook.MasterSheet)
	assert.Equal(t, "MB51", cfg.Workbook.MovementsSheet)
	assert.Equal(t, "SC", cfg.Workbook.RequestsSheet)
	assert.False(t, cfg.Cache.Enabled)
	assert.False(t, cfg.Storage.Enabled())
}

func TestReadFromEnvironment(t *testing.T) {
	t.Setenv("ANALYSIS_YEAR_FROM", "2020")
	t.Setenv("ANALYSIS_YEAR_TO", "2021")
	t.Setenv("WORKBOOK_REQUESTS_SHEET", "Solicitudes")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("STORAGE_ENDPOINT", "localhost:9000")
	t.Setenv("STORAGE_BUCKET", "abc")

	viper.Reset()
	setDefaults()
	viper.AutomaticEnv()

	cfg := read()
	assert.Equal(t, []int{2020, 2021}, cfg.Analysis.Years())
	assert.Equal(t, "Solicitudes", cfg.Workbook.RequestsSheet)
	assert.True(t, cfg.Cache.Enabled)
	assert.True(t, cfg.Storage.Enabled())
}

func TestYearsEmptyRange(t *testing.T) {
	assert.Empty(t, AnalysisConfig{YearFrom: 2026, YearTo: 2022}.Years())
}
