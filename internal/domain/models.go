package domain

import "strings"

// Number is a numeric spreadsheet cell. Blank or non-numeric cells are not Valid.
type Number struct {
	Value float64 `json:"value"`
	Valid bool    `json:"valid"`
}

// Num returns a valid Number holding v.
func Num(v float64) Number {
	return Number{Value: v, Valid: true}
}

// Or returns the value when valid, otherwise fallback.
func (n Number) Or(fallback float64) float64 {
	if !n.Valid {
		return fallback
	}
	return n.Value
}

// Material represents a single row from the material master sheet (ZMM009)
type Material struct {
	Code           string `json:"code"`
	LegacyCode     string `json:"legacy_code"`
	Description    string `json:"description"`
	OwningUnit     string `json:"owning_unit"`     // Gerencia
	RequestingArea string `json:"requesting_area"` // Área Solicitante
	MaterialType   string `json:"material_type"`
	MaxStock       Number `json:"max_stock"`
	MinStock       Number `json:"min_stock"`
	TotalStock     Number `json:"total_stock"`
	RealStock      Number `json:"real_stock"` // available, non-reserved
	Unit           string `json:"unit"`
	Row            int    `json:"row"` // position in the master sheet, used for stable ordering
}

// Movement represents a single row from the transaction log (MB51)
type Movement struct {
	MaterialCode    string
	StorageLocation string
	Direction       Direction
	MaterialType    string
	FiscalYear      int // 0 when the cell is blank or malformed
	Quantity        float64
}

// PurchaseRequest represents a single row from the purchase-request sheet (SC)
type PurchaseRequest struct {
	MaterialCode string
	RequestID    string
}

// Covered reports whether the request carries a non-blank identifier.
func (r PurchaseRequest) Covered() bool {
	return strings.TrimSpace(r.RequestID) != ""
}

// Tables holds the three materialized input tables of one analysis.
type Tables struct {
	Source    string // file name the tables were read from
	Digest    string // sha1 of the source bytes
	Materials []Material
	Movements []Movement
	Requests  []PurchaseRequest
}

// Filter is the caller's selection for one analysis run. Values match exactly.
type Filter struct {
	OwningUnit     string `json:"owning_unit" form:"owning_unit" binding:"required"`
	MaterialType   string `json:"material_type" form:"material_type" binding:"required"`
	RequestingArea string `json:"requesting_area" form:"requesting_area" binding:"required"`
}

// KnownAreas lists the requesting areas offered by the report's area selector.
var KnownAreas = []string{
	"EGH - EMBALSE", "EGH - GESTION AMBIENTAL", "EGH - GESTION SOCIAL",
	"EGH - INSTRUMENTACION CIVIL", "EGH - LOGISTICA", "EGH - OBRAS CIVILES",
	"EGH - PRODUCCION DE ENERGIA", "EGH - SEGURIDAD SST", "EGH - SERVICIOS GENERALES",
	"EGH - TALLER ELECTRICO", "EGH - TALLER MECANICO", "EGH - TIC",
	"GE - ADMINISTRACION", "GE - ALMACEN", "GE - ELECTRICO",
	"GE - INSTRUMENTACION Y CONTROL", "GE - LÍNEA DE TRANSMISIÓN LLTT",
	"GE - MECANICO", "GE - OPERRACIONES", "GE - SEGURIDAD EHS",
}
