package export

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook"
	"github.com/shopspring/decimal"
)

const (
	csvFlushEvery = 200
	csvBufferSize = 32 * 1024
)

// Output column headers of the classified materials table.
const (
	HeaderDerivedStock   = "Stock Calculado"
	HeaderStockRatio     = "Ratio Stock (%)"
	HeaderNeed           = "Necesidad Compra"
	HeaderInbound        = "Entradas"
	HeaderOutbound       = "Salidas"
	HeaderTouching       = "Movimientos"
	HeaderInboundQty     = "Cantidad Entradas"
	HeaderOutboundQty    = "Cantidad Salidas"
	HeaderInboundRegs    = "Registros Entradas"
	HeaderOutboundRegs   = "Registros Salidas"
	HeaderTotal          = "Total Movimientos"
	HeaderCumulative     = "Movimientos Acumulados"
	HeaderCumulativePct  = "% Acumulado"
	HeaderTier           = "Zona"
	HeaderMovementPct    = "% Movimiento"
	HeaderMaterialCount  = "Materiales"
	HeaderMaterialPct    = "% Materiales"
	HeaderCumMaterialPct = "% Materiales Acumulado"
	HeaderCumMovementPct = "% Movimiento Acumulado"
)

type csvStreamer struct {
	buf          *bufio.Writer
	csv          *csv.Writer
	flushEvery   int
	pendingLines int
}

func newCSVStreamer(w io.Writer) *csvStreamer {
	buf := bufio.NewWriterSize(w, csvBufferSize)
	return &csvStreamer{buf: buf, csv: csv.NewWriter(buf), flushEvery: csvFlushEvery}
}

func (s *csvStreamer) writeRow(row []string) error {
	if err := s.csv.Write(row); err != nil {
		return err
	}
	s.pendingLines++
	if s.flushEvery > 0 && s.pendingLines >= s.flushEvery {
		return s.Flush()
	}
	return nil
}

func (s *csvStreamer) Flush() error {
	s.csv.Flush()
	if err := s.csv.Error(); err != nil {
		return err
	}
	if err := s.buf.Flush(); err != nil {
		return err
	}
	s.pendingLines = 0
	return nil
}

// MaterialsHeader returns the header row of the classified materials table for years.
func MaterialsHeader(years []int) []string {
	header := []string{
		workbook.ColMaterial,
		workbook.ColLegacyCode,
		workbook.ColDescription,
		workbook.ColOwningUnit,
		workbook.ColRequestingArea,
		workbook.ColMaxStock,
		workbook.ColMinStock,
		workbook.ColMaterialType,
		workbook.ColTotalStock,
		workbook.ColRealStock,
		HeaderDerivedStock,
		workbook.ColUnit,
		HeaderStockRatio,
		HeaderNeed,
		workbook.ColRequestID,
		HeaderInbound,
		HeaderOutbound,
		HeaderTouching,
	}
	for _, y := range years {
		header = append(header,
			fmt.Sprintf("%s %d", HeaderInboundQty, y),
			fmt.Sprintf("%s %d", HeaderOutboundQty, y),
		)
	}
	return append(header,
		HeaderInboundQty,
		HeaderOutboundQty,
		HeaderInboundRegs,
		HeaderOutboundRegs,
		HeaderTotal,
		HeaderCumulative,
		HeaderCumulativePct,
		HeaderTier,
		HeaderMovementPct,
	)
}

// WriteMaterialsCSV writes the classified materials table as comma separated
// UTF-8 text with a header row and no index column.
func WriteMaterialsCSV(w io.Writer, rows []domain.ClassifiedMaterial, years []int) error {
	s := newCSVStreamer(w)
	if err := s.writeRow(MaterialsHeader(years)); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i := range rows {
		if err := s.writeRow(materialRecord(&rows[i], years)); err != nil {
			return fmt.Errorf("failed to write material %s: %w", rows[i].Code, err)
		}
	}
	return s.Flush()
}

func materialRecord(r *domain.ClassifiedMaterial, years []int) []string {
	record := []string{
		r.Code,
		r.LegacyCode,
		r.Description,
		r.OwningUnit,
		r.RequestingArea,
		formatNumber(r.MaxStock),
		formatNumber(r.MinStock),
		r.MaterialType,
		formatNumber(r.TotalStock),
		formatNumber(r.RealStock),
		formatQty(r.DerivedStockTotal),
		r.Unit,
		formatRatio(r.RatioDefined, r.StockRatio),
		formatNeed(r.Need),
		r.RequestID,
		strconv.Itoa(r.InboundCount),
		strconv.Itoa(r.OutboundCount),
		strconv.Itoa(r.TouchingCount),
	}
	for _, y := range years {
		record = append(record, formatQty(r.YearlyInbound[y]), formatQty(r.YearlyOutbound[y]))
	}
	return append(record,
		formatQty(r.InboundQty),
		formatQty(r.OutboundQty),
		strconv.Itoa(r.InboundRegisters),
		strconv.Itoa(r.OutboundRegisters),
		strconv.Itoa(r.TotalMovements),
		strconv.Itoa(r.CumulativeMovements),
		formatPct(r.CumulativePct),
		string(r.Tier),
		formatPct(r.MovementPct),
	)
}

// SummaryHeader returns the header row of the zone summary table.
func SummaryHeader() []string {
	return []string{
		HeaderTier,
		HeaderMaterialCount,
		HeaderTotal,
		HeaderMaterialPct,
		HeaderCumMaterialPct,
		HeaderMovementPct,
		HeaderCumMovementPct,
	}
}

// WriteSummaryCSV writes the zone summary, one row per tier.
func WriteSummaryCSV(w io.Writer, summary []domain.ZoneSummary) error {
	s := newCSVStreamer(w)
	if err := s.writeRow(SummaryHeader()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for _, z := range summary {
		err := s.writeRow([]string{
			string(z.Tier),
			strconv.Itoa(z.MaterialCount),
			strconv.Itoa(z.Movements),
			formatPct(z.MaterialPct),
			formatPct(z.CumulativeMaterialPct),
			formatPct(z.MovementPct),
			formatPct(z.CumulativeMovementPct),
		})
		if err != nil {
			return fmt.Errorf("failed to write tier %s: %w", z.Tier, err)
		}
	}
	return s.Flush()
}

// formatQty renders a quantity with the shortest exact decimal representation.
func formatQty(v float64) string {
	return decimal.NewFromFloat(v).String()
}

// formatPct renders a percentage with two decimals.
func formatPct(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// formatRatio leaves the cell blank when the ratio could not be computed.
func formatRatio(defined bool, v float64) string {
	if !defined {
		return ""
	}
	return formatPct(v)
}

func formatNumber(n domain.Number) string {
	if !n.Valid {
		return ""
	}
	return formatQty(n.Value)
}

func formatNeed(n domain.Need) string {
	if !n.IsQuantity() {
		return n.String()
	}
	return formatQty(n.Quantity)
}
