// Package workbooktest builds in-memory ERP workbooks for tests.
package workbooktest

import (
	"strconv"
	"testing"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// Build writes tables into an XLSX workbook using the default sheet names.
func Build(t testing.TB, tables domain.Tables) []byte {
	t.Helper()
	return BuildSheets(t, map[string][][]interface{}{
		"ZMM009": MasterRows(tables.Materials),
		"MB51":   MovementRows(tables.Movements),
		"SC":     RequestRows(tables.Requests),
	})
}

// BuildSheets writes raw rows (header first) into the named sheets.
func BuildSheets(t testing.TB, sheets map[string][][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for name, rows := range sheets {
		_, err := f.NewSheet(name)
		require.NoError(t, err)
		for i, row := range rows {
			cellRef, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			r := row
			require.NoError(t, f.SetSheetRow(name, cellRef, &r))
		}
	}
	require.NoError(t, f.DeleteSheet("Sheet1"))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// MasterRows renders materials as master sheet rows.
func MasterRows(materials []domain.Material) [][]interface{} {
	rows := [][]interface{}{headerRow(workbook.MasterColumns)}
	for _, m := range materials {
		rows = append(rows, []interface{}{
			m.Code, m.LegacyCode, m.Description, m.OwningUnit, m.RequestingArea, m.MaterialType,
			number(m.MaxStock), number(m.MinStock), number(m.TotalStock), number(m.RealStock), m.Unit,
		})
	}
	return rows
}

// MovementRows renders movements as movement sheet rows.
func MovementRows(movements []domain.Movement) [][]interface{} {
	rows := [][]interface{}{headerRow(workbook.MovementColumns)}
	for _, mv := range movements {
		rows = append(rows, []interface{}{
			mv.MaterialCode, mv.StorageLocation, mv.Direction.String(), mv.MaterialType,
			strconv.Itoa(mv.FiscalYear), mv.Quantity,
		})
	}
	return rows
}

// RequestRows renders purchase requests as request sheet rows.
func RequestRows(requests []domain.PurchaseRequest) [][]interface{} {
	rows := [][]interface{}{headerRow(workbook.RequestColumns)}
	for _, r := range requests {
		rows = append(rows, []interface{}{r.MaterialCode, r.RequestID})
	}
	return rows
}

func headerRow(values []string) []interface{} {
	out := make([]interface{}, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

func number(n domain.Number) interface{} {
	if !n.Valid {
		return ""
	}
	return n.Value
}
