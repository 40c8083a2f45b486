package workbook

import (
	"sort"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
)

// Options returns the distinct selector values present in the master table.
func Options(t *domain.Tables) domain.FilterOptions {
	units := make(map[string]struct{})
	types := make(map[string]struct{})
	areas := make(map[string]struct{})
	for _, m := range t.Materials {
		units[m.OwningUnit] = struct{}{}
		types[m.MaterialType] = struct{}{}
		areas[m.RequestingArea] = struct{}{}
	}

	return domain.FilterOptions{
		OwningUnits:     sortedKeys(units),
		MaterialTypes:   sortedKeys(types),
		RequestingAreas: sortedKeys(areas),
		MasterRows:      len(t.Materials),
		MovementRows:    len(t.Movements),
		RequestRows:     len(t.Requests),
	}
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		if k == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
