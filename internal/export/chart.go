package export

import (
	"fmt"
	"html/template"
	"math"
	"strings"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
)

// Chart defaults.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 32.0
	DefaultTicks   = 5
)

// ChartOpts customises the chart renderers.
type ChartOpts struct {
	Title       string
	Description string
	AxisColor   string
	GridColor   string
	LineColor   string
	Padding     float64
	TickCount   int
	Guides      []float64 // cumulative % guide lines
}

var tierColors = map[domain.Tier]string{
	domain.TierA: "#16a34a",
	domain.TierB: "#f59e0b",
	domain.TierC: "#dc2626",
}

// ParetoChart renders movement counts per material as bars coloured by tier,
// with the cumulative movement percentage drawn as a line on a 0-100 scale.
func ParetoChart(width, height int, rows []domain.ClassifiedMaterial, opts ChartOpts) (template.HTML, error) {
	if len(rows) == 0 {
		return "", fmt.Errorf("svg: at least one material required")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	tickCount := opts.TickCount
	if tickCount <= 0 {
		tickCount = DefaultTicks
	}
	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5f5")
	lineColor := fallback(opts.LineColor, "#2563eb")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	maxVal := 0.0
	for _, r := range rows {
		maxVal = math.Max(maxVal, float64(r.TotalMovements))
	}
	if almostEqual(maxVal, 0) {
		maxVal = 1
	}
	scale := chartHeight / maxVal
	bottom := padding + chartHeight
	slot := chartWidth / float64(len(rows))
	barWidth := slot * 0.8

	titleID := makeID(opts.Title, "pareto-title")
	descID := makeID(opts.Title, "pareto-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Pareto chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Movements per material and cumulative percentage"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		y := bottom - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, formatTick(maxVal*ratio)))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"start\">%s%%</text>", padding+chartWidth+4, y+4, axisColor, formatTick(100*ratio)))
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\" aria-label=\"Ejes\">", axisColor))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, padding, padding, bottom))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line>", padding, bottom, padding+chartWidth, bottom))
	b.WriteString("</g>")

	var path strings.Builder
	for i, r := range rows {
		x := padding + float64(i)*slot + (slot-barWidth)/2
		h := float64(r.TotalMovements) * scale
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s\"></rect>",
			x, bottom-h, barWidth, h, fallback(tierColors[r.Tier], "#94a3b8"), template.HTMLEscapeString(r.Code)))

		cx := padding + float64(i)*slot + slot/2
		cy := bottom - r.CumulativePct/100*chartHeight
		if i == 0 {
			path.WriteString(fmt.Sprintf("M%.2f %.2f", cx, cy))
		} else {
			path.WriteString(fmt.Sprintf(" L%.2f %.2f", cx, cy))
		}
	}
	b.WriteString(fmt.Sprintf("<path d=\"%s\" fill=\"none\" stroke=\"%s\" stroke-width=\"2\" stroke-linejoin=\"round\" stroke-linecap=\"round\"></path>", path.String(), lineColor))

	for _, g := range opts.Guides {
		y := bottom - g/100*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\" stroke-dasharray=\"6,3\" aria-label=\"%s%%\"></line>", padding, y, padding+chartWidth, y, axisColor, formatTick(g)))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

// TierBars renders one bar per tier with its share of materials and of movements.
func TierBars(width, height int, summary []domain.ZoneSummary, opts ChartOpts) (template.HTML, error) {
	if len(summary) == 0 {
		return "", fmt.Errorf("svg: summary required")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}
	axisColor := fallback(opts.AxisColor, "#475569")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	bottom := padding + chartHeight
	group := chartWidth / float64(len(summary))
	barWidth := group / 3

	titleID := makeID(opts.Title, "tiers-title")
	descID := makeID(opts.Title, "tiers-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Zones"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Share of materials and movements per zone"))))
	b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"1\"></line>", padding, bottom, padding+chartWidth, bottom, axisColor))

	for i, z := range summary {
		base := padding + float64(i)*group
		color := fallback(tierColors[z.Tier], "#94a3b8")
		hm := z.MaterialPct / 100 * chartHeight
		hv := z.MovementPct / 100 * chartHeight
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" fill-opacity=\"0.45\" aria-label=\"%s %s\"></rect>", base+barWidth*0.3, bottom-hm, barWidth, hm, color, HeaderMaterialPct, z.Tier))
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" aria-label=\"%s %s\"></rect>", base+barWidth*1.4, bottom-hv, barWidth, hv, color, HeaderMovementPct, z.Tier))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s (%d)</text>", base+group/2, bottom+14, axisColor, z.Tier, z.MaterialCount))
	}

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}

func fallback(value, defaultValue string) string {
	if strings.TrimSpace(value) == "" {
		return defaultValue
	}
	return value
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func makeID(base, suffix string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, strings.ToLower(strings.TrimSpace(base)))
	cleaned = strings.Trim(cleaned, "-")
	if cleaned == "" {
		cleaned = "chart"
	}
	return fmt.Sprintf("%s-%s", cleaned, suffix)
}

func formatTick(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1_000_000:
		return fmt.Sprintf("%.1fM", v/1_000_000)
	case abs >= 1_000:
		return fmt.Sprintf("%.1fk", v/1_000)
	default:
		if almostEqual(v, math.Round(v)) {
			return fmt.Sprintf("%.0f", v)
		}
		return fmt.Sprintf("%.1f", v)
	}
}
