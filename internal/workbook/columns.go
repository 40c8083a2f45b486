package workbook

import "strings"

// Column headers as exported by the ERP. Lookups are done on the normalized
// form, so "Código de\nMaterial" and "código de material" resolve to the same column.
const (
	ColMaterial       = "Material"
	ColLegacyCode     = "Código Antiguo"
	ColDescription    = "Descripción"
	ColOwningUnit     = "Gerencia"
	ColRequestingArea = "Área Solicitante"
	ColMaterialType   = "Tipo Material"
	ColMaxStock       = "Stock Máximo"
	ColMinStock       = "Stock Mínimo"
	ColTotalStock     = "Stock Total"
	ColRealStock      = "Stock Real"
	ColUnit           = "UMB"

	ColStorageLocation = "Almacén"
	ColDirection       = "Debe/Haber"
	ColFiscalYear      = "Ejercicio"
	ColQuantity        = "Cantidad"

	ColRequestMaterial = "Código de\nMaterial"
	ColRequestID       = "Solicitud de Pedido"
)

// MasterColumns lists the master sheet headers in export order.
var MasterColumns = []string{
	ColMaterial, ColLegacyCode, ColDescription, ColOwningUnit, ColRequestingArea,
	ColMaterialType, ColMaxStock, ColMinStock, ColTotalStock, ColRealStock, ColUnit,
}

// MovementColumns lists the movement sheet headers in export order.
var MovementColumns = []string{
	ColMaterial, ColStorageLocation, ColDirection, ColMaterialType, ColFiscalYear, ColQuantity,
}

// RequestColumns lists the purchase-request sheet headers in export order.
var RequestColumns = []string{ColRequestMaterial, ColRequestID}

var columnNameSanitizer = strings.NewReplacer("_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.Join(strings.Fields(strings.ToLower(name)), "")
	return columnNameSanitizer.Replace(name)
}

// header maps normalized column names to their index in a sheet.
type header map[string]int

func newHeader(cells []string) header {
	h := make(header, len(cells))
	for i, c := range cells {
		key := normalizeColumnName(c)
		if key == "" {
			continue
		}
		if _, dup := h[key]; !dup {
			h[key] = i
		}
	}
	return h
}

func (h header) index(name string) int {
	if idx, ok := h[normalizeColumnName(name)]; ok {
		return idx
	}
	return -1
}

// require returns a MissingColumnError for the first absent column.
func (h header) require(sheet string, names ...string) error {
	for _, name := range names {
		if h.index(name) < 0 {
			return missingColumn(sheet, name)
		}
	}
	return nil
}
