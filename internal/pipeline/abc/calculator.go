package abc

import "github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"

// Replenishment holds the stock position of one material
type Replenishment struct {
	StockRatio   float64
	RatioDefined bool
	Need         domain.Need
}

// ReplenishmentCalculator derives the need-to-purchase quantity of a material
type ReplenishmentCalculator struct {
	threshold float64
}

// NewReplenishmentCalculator creates a calculator with the given stock ratio threshold (%).
func NewReplenishmentCalculator(threshold float64) *ReplenishmentCalculator {
	return &ReplenishmentCalculator{threshold: threshold}
}

// Calculate computes the stock ratio and need of a material
func (rc *ReplenishmentCalculator) Calculate(m *domain.Material) Replenishment {
	r := Replenishment{}

	// 1. Stock ratio = (Real - Min) / (Max - Min) × 100, only when all three are present and Max != Min
	if m.MaxStock.Valid && m.MinStock.Valid && m.RealStock.Valid && m.MaxStock.Value != m.MinStock.Value {
		r.StockRatio = (m.RealStock.Value - m.MinStock.Value) / (m.MaxStock.Value - m.MinStock.Value) * 100
		r.RatioDefined = true
	}

	// 2. No maximum configured
	if !m.MaxStock.Valid || m.MaxStock.Value == 0 {
		r.Need = domain.NotApplicable()
		return r
	}

	// 3. Low stock: need = Max - Real (kept even when negative)
	if r.StockRatio <= rc.threshold {
		r.Need = domain.NeedOf(m.MaxStock.Value - m.RealStock.Or(0))
		return r
	}

	r.Need = domain.NotRequired()
	return r
}

// Apply keeps the materials with a numeric need and attaches their stock position.
func (rc *ReplenishmentCalculator) Apply(materials []domain.Material) []domain.ClassifiedMaterial {
	rows := make([]domain.ClassifiedMaterial, 0, len(materials))
	for i := range materials {
		m := materials[i]
		r := rc.Calculate(&m)
		if !r.Need.IsQuantity() {
			continue
		}
		rows = append(rows, domain.ClassifiedMaterial{
			Material:          m,
			DerivedStockTotal: derivedStockTotal(&m),
			StockRatio:        r.StockRatio,
			RatioDefined:      r.RatioDefined,
			Need:              r.Need,
		})
	}
	return rows
}

// ExcludeCovered drops materials that already have a purchase request with a
// non-blank identifier. Retained rows keep a blank request identifier.
func ExcludeCovered(rows []domain.ClassifiedMaterial, requests []domain.PurchaseRequest) []domain.ClassifiedMaterial {
	covered := make(map[string]struct{})
	for _, req := range requests {
		if req.Covered() {
			covered[req.MaterialCode] = struct{}{}
		}
	}

	kept := make([]domain.ClassifiedMaterial, 0, len(rows))
	for _, row := range rows {
		if _, ok := covered[row.Code]; ok {
			continue
		}
		row.RequestID = ""
		kept = append(kept, row)
	}
	return kept
}

// derivedStockTotal prefers the exported total stock and falls back to real stock.
func derivedStockTotal(m *domain.Material) float64 {
	if m.TotalStock.Valid {
		return m.TotalStock.Value
	}
	return m.RealStock.Or(0)
}
