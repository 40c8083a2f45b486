package abc

import "github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"

// Select returns the materials whose owning unit, material type and requesting
// area all equal the filter values. Matching is exact and case-sensitive.
func Select(materials []domain.Material, f domain.Filter) []domain.Material {
	selected := make([]domain.Material, 0)
	for _, m := range materials {
		if m.OwningUnit == f.OwningUnit &&
			m.MaterialType == f.MaterialType &&
			m.RequestingArea == f.RequestingArea {
			selected = append(selected, m)
		}
	}
	return selected
}
