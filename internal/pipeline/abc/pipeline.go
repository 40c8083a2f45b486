package abc

import (
	"context"
	"fmt"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline"
)

// ABCPipeline runs the selector, replenishment, movement and classification
// stages over one set of input tables. It holds no state between runs.
type ABCPipeline struct {
	config     Config
	calculator *ReplenishmentCalculator
	classifier *Classifier
}

// NewABCPipeline creates a new ABC pipeline instance. A zero Config{} runs with
// DefaultConfig; otherwise the thresholds are used as given, including 0, and
// only an empty year list falls back to the default years.
func NewABCPipeline(cfg Config) *ABCPipeline {
	def := DefaultConfig()
	if cfg.RatioThreshold == 0 && cfg.TierAThreshold == 0 && cfg.TierBThreshold == 0 {
		cfg.RatioThreshold = def.RatioThreshold
		cfg.TierAThreshold = def.TierAThreshold
		cfg.TierBThreshold = def.TierBThreshold
	}
	if len(cfg.Years) == 0 {
		cfg.Years = def.Years
	}
	return &ABCPipeline{
		config:     cfg,
		calculator: NewReplenishmentCalculator(cfg.RatioThreshold),
		classifier: NewClassifier(cfg.TierAThreshold, cfg.TierBThreshold),
	}
}

// Name returns the unique identifier of this pipeline.
func (p *ABCPipeline) Name() string {
	return "abc"
}

// Config returns the effective configuration.
func (p *ABCPipeline) Config() Config {
	return p.config
}

// Run analyzes tables for filter. A stage that leaves no materials halts the
// run and returns an empty, non-error result. When ctx ends between stages the
// run is marked failed and returned together with the context error.
func (p *ABCPipeline) Run(ctx context.Context, tables *domain.Tables, filter domain.Filter) (*Result, error) {
	if tables == nil {
		return nil, fmt.Errorf("abc: tables are required")
	}

	run := pipeline.NewRun(p.Name(), tables.Source)
	run.Start()

	result := &Result{
		Run:       run,
		Digest:    tables.Digest,
		Filter:    filter,
		Years:     append([]int(nil), p.config.Years...),
		Materials: []domain.ClassifiedMaterial{},
		Summary:   []domain.ZoneSummary{},
	}

	fail := func(err error) (*Result, error) {
		run.Fail(err)
		return result, err
	}

	// 1) Selector
	selected := Select(tables.Materials, filter)
	run.Record(pipeline.StageSelect, len(tables.Materials), len(selected))
	if len(selected) == 0 {
		run.Halt(pipeline.StageSelect)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// 2) Replenishment need, then pending purchase requests
	needy := p.calculator.Apply(selected)
	run.Record(pipeline.StageNeed, len(selected), len(needy))
	if len(needy) == 0 {
		run.Halt(pipeline.StageNeed)
		return result, nil
	}

	uncovered := ExcludeCovered(needy, tables.Requests)
	run.Record(pipeline.StageRequests, len(needy), len(uncovered))
	if len(uncovered) == 0 {
		run.Halt(pipeline.StageRequests)
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// 3) Movement aggregation
	index := NewMovementIndex(tables.Movements, p.config.Years)
	aggregated := index.AggregateAll(uncovered)
	run.Record(pipeline.StageMovements, len(uncovered), len(aggregated))

	if err := ctx.Err(); err != nil {
		return fail(err)
	}

	// 4) ABC classification
	classified, grand := p.classifier.Classify(aggregated)
	run.Record(pipeline.StageClassify, len(aggregated), len(classified))

	result.Materials = classified
	result.Summary = Summarize(classified)
	result.GrandTotal = grand
	run.Complete()

	return result, nil
}
