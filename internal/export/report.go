package export

import (
	"fmt"
	"html/template"
	"io"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
)

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"pct":   formatPct,
	"qty":   formatQty,
	"num":   formatNumber,
	"need":  formatNeed,
	"ratio": formatRatio,
}).Parse(reportHTML))

type reportView struct {
	Title  string
	Result *abc.Result
	Pareto template.HTML
	Tiers  template.HTML
}

// RenderReport writes the HTML analysis page for result.
func RenderReport(w io.Writer, title string, result *abc.Result) error {
	if result == nil {
		return fmt.Errorf("report: result is required")
	}
	view := reportView{
		Title:  fallback(title, "Análisis ABC de Repuestos"),
		Result: result,
	}

	if !result.Empty() {
		pareto, err := ParetoChart(0, 0, result.Materials, ChartOpts{
			Title:  "Pareto de movimientos",
			Guides: []float64{80, 95},
		})
		if err != nil {
			return fmt.Errorf("failed to render pareto chart: %w", err)
		}
		tiers, err := TierBars(0, 0, result.Summary, ChartOpts{Title: "Zonas ABC"})
		if err != nil {
			return fmt.Errorf("failed to render tier chart: %w", err)
		}
		view.Pareto = pareto
		view.Tiers = tiers
	}

	if err := reportTemplate.Execute(w, view); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

const reportHTML = `<!DOCTYPE html>
<html lang="es">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body{font-family:system-ui,sans-serif;margin:2rem;color:#0f172a}
table{border-collapse:collapse;font-size:12px;margin-bottom:1.5rem}
th,td{border:1px solid #cbd5e1;padding:4px 8px;text-align:right}
th{background:#f1f5f9}
td.text{text-align:left}
.chart{max-width:960px;margin-bottom:1.5rem}
</style>
</head>
<body>
<h1>{{.Title}}</h1>
{{with .Result}}
<p>Gerencia: <strong>{{.Filter.OwningUnit}}</strong> · Tipo Material: <strong>{{.Filter.MaterialType}}</strong> · Área Solicitante: <strong>{{.Filter.RequestingArea}}</strong></p>
{{if .Run}}
<h2>Etapas</h2>
<table>
<tr><th>Etapa</th><th>Antes</th><th>Después</th></tr>
{{range .Run.Stages}}<tr><td class="text">{{.Stage}}</td><td>{{.Before}}</td><td>{{.After}}</td></tr>
{{end}}</table>
{{if .Run.HaltedAt}}<p class="halted">Sin materiales tras la etapa <strong>{{.Run.HaltedAt}}</strong>.</p>{{end}}
{{end}}
{{if .Materials}}
<h2>Resumen por zona</h2>
<table>
<tr><th>Zona</th><th>Materiales</th><th>Movimientos</th><th>% Materiales</th><th>% Materiales Acumulado</th><th>% Movimiento</th><th>% Movimiento Acumulado</th></tr>
{{range .Summary}}<tr><td class="text">{{.Tier}}</td><td>{{.MaterialCount}}</td><td>{{.Movements}}</td><td>{{pct .MaterialPct}}</td><td>{{pct .CumulativeMaterialPct}}</td><td>{{pct .MovementPct}}</td><td>{{pct .CumulativeMovementPct}}</td></tr>
{{end}}</table>
{{end}}
{{end}}
{{if .Pareto}}<div class="chart">{{.Pareto}}</div>{{end}}
{{if .Tiers}}<div class="chart">{{.Tiers}}</div>{{end}}
{{with .Result}}{{if .Materials}}
<h2>Materiales clasificados</h2>
<table>
<tr><th>Material</th><th>Descripción</th><th>Stock Máximo</th><th>Stock Mínimo</th><th>Stock Real</th><th>Ratio Stock (%)</th><th>Necesidad Compra</th><th>Cantidad a Comprar</th><th>Entradas</th><th>Salidas</th><th>Total Movimientos</th><th>% Acumulado</th><th>Zona</th></tr>
{{range .Materials}}<tr><td class="text">{{.Code}}</td><td class="text">{{.Description}}</td><td>{{num .MaxStock}}</td><td>{{num .MinStock}}</td><td>{{num .RealStock}}</td><td>{{ratio .RatioDefined .StockRatio}}</td><td>{{need .Need}}</td><td>{{qty .Need.Effective}}</td><td>{{.InboundCount}}</td><td>{{.OutboundCount}}</td><td>{{.TotalMovements}}</td><td>{{pct .CumulativePct}}</td><td class="text">{{.Tier}}</td></tr>
{{end}}</table>
{{end}}{{end}}
</body>
</html>
`
