package abc

import (
	"context"
	"testing"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testFilter = domain.Filter{OwningUnit: "GE", MaterialType: "ZREP", RequestingArea: "X"}

func sampleTables() *domain.Tables {
	return &domain.Tables{
		Source: "sample.xlsx",
		Materials: []domain.Material{
			material("M1", 100, 10, 5),
			material("M2", 0, 0, 50),
			material("M3", 100, 10, 90),
			material("M4", 40, 10, 0),
			material("M5", 40, 10, 1),
			{Code: "OTHER", OwningUnit: "GE", MaterialType: "ZSER", RequestingArea: "X", MaxStock: domain.Num(10)},
		},
		Movements: []domain.Movement{
			{MaterialCode: "M1", Direction: domain.Inbound, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 3},
			{MaterialCode: "M1", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 1},
			{MaterialCode: "M4", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2025, Quantity: 2},
			{MaterialCode: "M4", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2025, Quantity: 2},
			{MaterialCode: "M4", Direction: domain.Inbound, MaterialType: "ZREP", FiscalYear: 2022, Quantity: 8},
		},
		Requests: []domain.PurchaseRequest{
			{MaterialCode: "M5", RequestID: "10001234"},
			{MaterialCode: "M1", RequestID: " "},
		},
	}
}

func TestRunClassifiesMaterials(t *testing.T) {
	p := NewABCPipeline(DefaultConfig())

	res, err := p.Run(context.Background(), sampleTables(), testFilter)
	require.NoError(t, err)
	require.False(t, res.Empty())

	assert.Equal(t, pipeline.StatusCompleted, res.Run.Status)
	assert.Empty(t, res.Run.HaltedAt)
	require.Len(t, res.Materials, 2)

	assert.Equal(t, "M4", res.Materials[0].Code)
	assert.Equal(t, 3, res.Materials[0].TotalMovements)
	assert.Equal(t, 40.0, res.Materials[0].Need.Quantity)
	assert.Equal(t, "M1", res.Materials[1].Code)
	assert.Equal(t, 2, res.Materials[1].TotalMovements)
	assert.Equal(t, 95.0, res.Materials[1].Need.Quantity)
	assert.Equal(t, 5, res.GrandTotal)

	assert.Equal(t, DefaultConfig().Years, res.Years)
	assert.Len(t, res.Materials[0].YearlyInbound, len(res.Years))

	sel, ok := res.Run.Count(pipeline.StageSelect)
	require.True(t, ok)
	assert.Equal(t, pipeline.StageCount{Stage: pipeline.StageSelect, Before: 6, After: 5}, sel)
	need, _ := res.Run.Count(pipeline.StageNeed)
	assert.Equal(t, 3, need.After)
	reqs, _ := res.Run.Count(pipeline.StageRequests)
	assert.Equal(t, 2, reqs.After)

	total := 0
	for _, z := range res.Summary {
		total += z.MaterialCount
	}
	assert.Equal(t, len(res.Materials), total)
}

func TestRunHaltsWhenNothingSelected(t *testing.T) {
	p := NewABCPipeline(DefaultConfig())

	res, err := p.Run(context.Background(), sampleTables(), domain.Filter{OwningUnit: "ge", MaterialType: "ZREP", RequestingArea: "X"})
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.NotNil(t, res.Materials)
	assert.NotNil(t, res.Summary)
	assert.Equal(t, pipeline.StatusHalted, res.Run.Status)
	assert.Equal(t, pipeline.StageSelect, res.Run.HaltedAt)
}

func TestRunHaltsWhenNothingNeedsReplenishment(t *testing.T) {
	tables := sampleTables()
	tables.Materials = []domain.Material{material("M2", 0, 0, 50), material("M3", 100, 10, 90)}

	res, err := NewABCPipeline(DefaultConfig()).Run(context.Background(), tables, testFilter)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, pipeline.StageNeed, res.Run.HaltedAt)
}

func TestRunHaltsWhenEverythingIsRequested(t *testing.T) {
	tables := sampleTables()
	tables.Requests = []domain.PurchaseRequest{
		{MaterialCode: "M1", RequestID: "1"},
		{MaterialCode: "M4", RequestID: "2"},
		{MaterialCode: "M5", RequestID: "3"},
	}

	res, err := NewABCPipeline(DefaultConfig()).Run(context.Background(), tables, testFilter)
	require.NoError(t, err)
	assert.True(t, res.Empty())
	assert.Equal(t, pipeline.StageRequests, res.Run.HaltedAt)
	assert.Empty(t, res.Summary)
}

func TestRunIsIdempotent(t *testing.T) {
	p := NewABCPipeline(DefaultConfig())
	tables := sampleTables()

	first, err := p.Run(context.Background(), tables, testFilter)
	require.NoError(t, err)
	second, err := p.Run(context.Background(), tables, testFilter)
	require.NoError(t, err)

	assert.Equal(t, first.Materials, second.Materials)
	assert.Equal(t, first.Summary, second.Summary)
	assert.NotEqual(t, first.Run.ID, second.Run.ID)
}

func TestRunOutputIsSubsetOfSelection(t *testing.T) {
	tables := sampleTables()
	res, err := NewABCPipeline(DefaultConfig()).Run(context.Background(), tables, testFilter)
	require.NoError(t, err)

	selected := make(map[string]bool)
	for _, m := range Select(tables.Materials, testFilter) {
		selected[m.Code] = true
	}
	for _, row := range res.Materials {
		assert.True(t, selected[row.Code], row.Code)
		assert.True(t, row.Need.IsQuantity())
		assert.Empty(t, row.RequestID)
	}
}

func TestRunRequiresTables(t *testing.T) {
	_, err := NewABCPipeline(DefaultConfig()).Run(context.Background(), nil, testFilter)
	assert.Error(t, err)
}

func TestNewABCPipelineZeroConfigUsesDefaults(t *testing.T) {
	p := NewABCPipeline(Config{})
	assert.Equal(t, DefaultConfig(), p.Config())
	assert.Equal(t, "abc", p.Name())
}

func TestNewABCPipelineKeepsExplicitZeroThreshold(t *testing.T) {
	p := NewABCPipeline(Config{RatioThreshold: 0, TierAThreshold: 70, TierBThreshold: 90})
	cfg := p.Config()
	assert.Equal(t, 0.0, cfg.RatioThreshold)
	assert.Equal(t, 70.0, cfg.TierAThreshold)
	assert.Equal(t, 90.0, cfg.TierBThreshold)
	assert.Equal(t, DefaultConfig().Years, cfg.Years)

	// with a 0% threshold only materials at or below their minimum qualify
	res, err := p.Run(context.Background(), sampleTables(), testFilter)
	require.NoError(t, err)
	for _, m := range res.Materials {
		assert.LessOrEqual(t, m.StockRatio, 0.0, m.Code)
	}
}

func TestRunCancelledMarksRunFailed(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := NewABCPipeline(DefaultConfig()).Run(ctx, sampleTables(), testFilter)
	require.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, res)
	assert.Equal(t, pipeline.StatusFailed, res.Run.Status)
	assert.Equal(t, context.Canceled.Error(), res.Run.ErrorMessage)
	assert.Empty(t, res.Materials)
	_, ok := res.Run.Count(pipeline.StageSelect)
	assert.True(t, ok, "stages before cancellation are still recorded")
}
