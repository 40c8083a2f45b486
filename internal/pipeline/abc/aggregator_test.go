package abc

import (
	"testing"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestMovementIndexAggregate(t *testing.T) {
	movements := []domain.Movement{
		{MaterialCode: "M1", Direction: domain.Inbound, MaterialType: "ZREP", FiscalYear: 2023, Quantity: 10},
		{MaterialCode: "M1", Direction: domain.Inbound, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 4},
		{MaterialCode: "M1", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 3},
		{MaterialCode: "M1", Direction: domain.Outbound, MaterialType: "ZSER", FiscalYear: 2024, Quantity: 100},
		{MaterialCode: "M1", Direction: domain.DirectionUnknown, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 7},
		{MaterialCode: "M1", Direction: domain.Inbound, MaterialType: "ZREP", FiscalYear: 2019, Quantity: 1},
		{MaterialCode: "M2", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2024, Quantity: 9},
	}
	ix := NewMovementIndex(movements, []int{2023, 2024})

	row := ix.Aggregate(domain.ClassifiedMaterial{Material: domain.Material{Code: "M1", MaterialType: "ZREP"}})

	// counts ignore material type
	assert.Equal(t, 3, row.InboundCount)
	assert.Equal(t, 2, row.OutboundCount)
	assert.Equal(t, 6, row.TouchingCount)

	// quantities are restricted to the material's type
	assert.Equal(t, 15.0, row.InboundQty)
	assert.Equal(t, 3.0, row.OutboundQty)
	assert.Equal(t, 3, row.InboundRegisters)
	assert.Equal(t, 1, row.OutboundRegisters)
	assert.Equal(t, map[int]float64{2023: 10, 2024: 4}, row.YearlyInbound)
	assert.Equal(t, map[int]float64{2023: 0, 2024: 3}, row.YearlyOutbound)
}

func TestMovementIndexMaterialWithoutMovements(t *testing.T) {
	ix := NewMovementIndex(nil, []int{2025})
	row := ix.Aggregate(domain.ClassifiedMaterial{Material: domain.Material{Code: "X"}})

	assert.Zero(t, row.InboundCount)
	assert.Zero(t, row.OutboundCount)
	assert.Zero(t, row.TouchingCount)
	assert.Zero(t, row.InboundQty)
	assert.Equal(t, map[int]float64{2025: 0}, row.YearlyInbound)
	assert.Equal(t, map[int]float64{2025: 0}, row.YearlyOutbound)
}

func TestAggregateAllMatchesNaiveScan(t *testing.T) {
	movements := []domain.Movement{
		{MaterialCode: "A", Direction: domain.Inbound, MaterialType: "T1", FiscalYear: 2022, Quantity: 1},
		{MaterialCode: "B", Direction: domain.Outbound, MaterialType: "T1", FiscalYear: 2022, Quantity: 2},
		{MaterialCode: "A", Direction: domain.Outbound, MaterialType: "T2", FiscalYear: 2026, Quantity: 3},
		{MaterialCode: "A", Direction: domain.Outbound, MaterialType: "T1", FiscalYear: 2026, Quantity: 4},
		{MaterialCode: "C", Direction: domain.Inbound, MaterialType: "T1", FiscalYear: 2025, Quantity: 5},
	}
	years := DefaultConfig().Years
	rows := []domain.ClassifiedMaterial{
		{Material: domain.Material{Code: "A", MaterialType: "T1"}},
		{Material: domain.Material{Code: "B", MaterialType: "T2"}},
		{Material: domain.Material{Code: "Z", MaterialType: "T1"}},
	}

	got := NewMovementIndex(movements, years).AggregateAll(rows)

	for i, row := range rows {
		var in, out, touch, inRegs, outRegs int
		var inQty, outQty float64
		for _, mv := range movements {
			if mv.MaterialCode != row.Code {
				continue
			}
			touch++
			if mv.Direction == domain.Inbound {
				in++
			}
			if mv.Direction == domain.Outbound {
				out++
			}
			if mv.MaterialType != row.MaterialType {
				continue
			}
			if mv.Direction == domain.Inbound {
				inRegs++
				inQty += mv.Quantity
			}
			if mv.Direction == domain.Outbound {
				outRegs++
				outQty += mv.Quantity
			}
		}
		assert.Equal(t, in, got[i].InboundCount, row.Code)
		assert.Equal(t, out, got[i].OutboundCount, row.Code)
		assert.Equal(t, touch, got[i].TouchingCount, row.Code)
		assert.Equal(t, inRegs, got[i].InboundRegisters, row.Code)
		assert.Equal(t, outRegs, got[i].OutboundRegisters, row.Code)
		assert.Equal(t, inQty, got[i].InboundQty, row.Code)
		assert.Equal(t, outQty, got[i].OutboundQty, row.Code)
	}

	// inputs are left untouched
	assert.Nil(t, rows[0].YearlyInbound)
}
