package abc

import "github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"

// codeStats holds the direction counts of one material code, regardless of material type.
type codeStats struct {
	inbound  int
	outbound int
	touching int
	byType   map[string]*typeStats
}

// typeStats holds quantities of one material code restricted to one material type.
type typeStats struct {
	inboundQty  float64
	outboundQty float64
	inboundRegs int
	outRegs     int
	yearly      map[int]*yearQty
}

type yearQty struct {
	inbound  float64
	outbound float64
}

// MovementIndex pre-aggregates the movement log by material code, material type
// and fiscal year so each material is resolved with map lookups instead of a
// scan of the whole log. It is read-only once built.
type MovementIndex struct {
	years  []int
	byCode map[string]*codeStats
}

// NewMovementIndex builds the index in a single pass over movements.
func NewMovementIndex(movements []domain.Movement, years []int) *MovementIndex {
	ix := &MovementIndex{
		years:  append([]int(nil), years...),
		byCode: make(map[string]*codeStats),
	}

	for _, mv := range movements {
		cs, ok := ix.byCode[mv.MaterialCode]
		if !ok {
			cs = &codeStats{byType: make(map[string]*typeStats)}
			ix.byCode[mv.MaterialCode] = cs
		}
		cs.touching++

		ts, ok := cs.byType[mv.MaterialType]
		if !ok {
			ts = &typeStats{yearly: make(map[int]*yearQty)}
			cs.byType[mv.MaterialType] = ts
		}
		yq, ok := ts.yearly[mv.FiscalYear]
		if !ok {
			yq = &yearQty{}
			ts.yearly[mv.FiscalYear] = yq
		}

		switch mv.Direction {
		case domain.Inbound:
			cs.inbound++
			ts.inboundRegs++
			ts.inboundQty += mv.Quantity
			yq.inbound += mv.Quantity
		case domain.Outbound:
			cs.outbound++
			ts.outRegs++
			ts.outboundQty += mv.Quantity
			yq.outbound += mv.Quantity
		}
	}

	return ix
}

// Years returns the fiscal years reported per material.
func (ix *MovementIndex) Years() []int {
	return ix.years
}

// Aggregate returns row with its movement counts and quantities filled in.
// Materials without movements get zeros in every column.
func (ix *MovementIndex) Aggregate(row domain.ClassifiedMaterial) domain.ClassifiedMaterial {
	row.YearlyInbound = make(map[int]float64, len(ix.years))
	row.YearlyOutbound = make(map[int]float64, len(ix.years))
	for _, y := range ix.years {
		row.YearlyInbound[y] = 0
		row.YearlyOutbound[y] = 0
	}
	row.InboundCount, row.OutboundCount, row.TouchingCount = 0, 0, 0
	row.InboundQty, row.OutboundQty = 0, 0
	row.InboundRegisters, row.OutboundRegisters = 0, 0

	cs, ok := ix.byCode[row.Code]
	if !ok {
		return row
	}
	row.InboundCount = cs.inbound
	row.OutboundCount = cs.outbound
	row.TouchingCount = cs.touching

	ts, ok := cs.byType[row.MaterialType]
	if !ok {
		return row
	}
	row.InboundQty = ts.inboundQty
	row.OutboundQty = ts.outboundQty
	row.InboundRegisters = ts.inboundRegs
	row.OutboundRegisters = ts.outRegs
	for _, y := range ix.years {
		if yq, ok := ts.yearly[y]; ok {
			row.YearlyInbound[y] = yq.inbound
			row.YearlyOutbound[y] = yq.outbound
		}
	}
	return row
}

// AggregateAll aggregates every row. The input slice is not modified.
func (ix *MovementIndex) AggregateAll(rows []domain.ClassifiedMaterial) []domain.ClassifiedMaterial {
	out := make([]domain.ClassifiedMaterial, len(rows))
	for i, row := range rows {
		out[i] = ix.Aggregate(row)
	}
	return out
}
