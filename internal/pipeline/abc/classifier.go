package abc

import (
	"sort"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
)

// Classifier ranks materials by movement count and assigns ABC tiers
type Classifier struct {
	tierA float64
	tierB float64
}

// NewClassifier creates a classifier with exclusive upper bounds for tiers A and B.
func NewClassifier(tierA, tierB float64) *Classifier {
	return &Classifier{tierA: tierA, tierB: tierB}
}

// TierFor returns the tier of a cumulative movement percentage.
func (c *Classifier) TierFor(cumulativePct float64) domain.Tier {
	switch {
	case cumulativePct < c.tierA:
		return domain.TierA
	case cumulativePct < c.tierB:
		return domain.TierB
	default:
		return domain.TierC
	}
}

// Classify returns the rows sorted by total movements (descending, ties in
// input order) with cumulative counts, percentages and tiers filled in, plus
// the grand total of movements.
func (c *Classifier) Classify(rows []domain.ClassifiedMaterial) ([]domain.ClassifiedMaterial, int) {
	out := make([]domain.ClassifiedMaterial, len(rows))
	copy(out, rows)

	grand := 0
	for i := range out {
		out[i].TotalMovements = out[i].InboundCount + out[i].OutboundCount
		grand += out[i].TotalMovements
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalMovements > out[j].TotalMovements
	})

	running := 0
	for i := range out {
		running += out[i].TotalMovements
		out[i].CumulativeMovements = running
		out[i].CumulativePct = percent(running, grand)
		out[i].MovementPct = percent(out[i].TotalMovements, grand)
		out[i].Tier = c.TierFor(out[i].CumulativePct)
	}

	return out, grand
}

// Summarize groups classified rows by tier. Tiers are reported in A, B, C
// order and tiers without materials are omitted.
func Summarize(rows []domain.ClassifiedMaterial) []domain.ZoneSummary {
	counts := make(map[domain.Tier]int)
	movements := make(map[domain.Tier]int)
	grand := 0
	for _, row := range rows {
		counts[row.Tier]++
		movements[row.Tier] += row.TotalMovements
		grand += row.TotalMovements
	}

	summary := make([]domain.ZoneSummary, 0, len(domain.Tiers))
	cumMaterials, cumMovements := 0, 0
	for _, tier := range domain.Tiers {
		n := counts[tier]
		if n == 0 {
			continue
		}
		cumMaterials += n
		cumMovements += movements[tier]
		summary = append(summary, domain.ZoneSummary{
			Tier:                  tier,
			MaterialCount:         n,
			Movements:             movements[tier],
			MaterialPct:           percent(n, len(rows)),
			CumulativeMaterialPct: percent(cumMaterials, len(rows)),
			MovementPct:           percent(movements[tier], grand),
			CumulativeMovementPct: percent(cumMovements, grand),
		})
	}
	return summary
}

// percent returns part × 100 / total, or 0 when total is zero. Multiplying first
// keeps exact boundaries such as 80/100 at exactly 80.
func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) * 100 / float64(total)
}
