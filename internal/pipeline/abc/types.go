package abc

import (
	"fmt"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline"
)

// Config holds the thresholds of the ABC replenishment analysis
type Config struct {
	RatioThreshold float64 // stock ratio (%) at or below which a material needs replenishment
	TierAThreshold float64 // cumulative movement % below which a material is tier A
	TierBThreshold float64 // cumulative movement % below which a material is tier B
	Years          []int   // fiscal years reported as separate quantity columns
}

// DefaultConfig returns the thresholds used by the warehouse team.
func DefaultConfig() Config {
	return Config{
		RatioThreshold: 10,
		TierAThreshold: 80,
		TierBThreshold: 95,
		Years:          []int{2022, 2023, 2024, 2025, 2026},
	}
}

// String identifies the settings, e.g. in cache keys.
func (c Config) String() string {
	return fmt.Sprintf("ratio=%g;a=%g;b=%g;years=%v", c.RatioThreshold, c.TierAThreshold, c.TierBThreshold, c.Years)
}

// Result is the output of one analysis run
type Result struct {
	Run        *pipeline.Run               `json:"run"`
	Digest     string                      `json:"digest"`
	Filter     domain.Filter               `json:"filter"`
	Years      []int                       `json:"years"`
	Materials  []domain.ClassifiedMaterial `json:"materials"`
	Summary    []domain.ZoneSummary        `json:"summary"`
	GrandTotal int                         `json:"grand_total"`
}

// Empty reports whether a filter stage left no materials to classify.
func (r *Result) Empty() bool {
	return len(r.Materials) == 0
}
