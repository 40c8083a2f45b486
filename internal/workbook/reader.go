package workbook

import (
	"bytes"
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// SheetNames are the logical names of the three ERP tables inside a workbook.
type SheetNames struct {
	Master    string
	Movements string
	Requests  string
}

// DefaultSheetNames returns the SAP transaction names the tables are exported from.
func DefaultSheetNames() SheetNames {
	return SheetNames{
		Master:    "ZMM009",
		Movements: "MB51",
		Requests:  "SC",
	}
}

// table is a raw sheet: the header row and the data rows below it.
type table struct {
	name   string
	header header
	rows   [][]string
}

// Reader loads the master, movement and request tables from ERP exports.
type Reader struct {
	sheets SheetNames
}

// NewReader creates a Reader. Empty sheet names fall back to the defaults.
func NewReader(sheets SheetNames) *Reader {
	def := DefaultSheetNames()
	if sheets.Master == "" {
		sheets.Master = def.Master
	}
	if sheets.Movements == "" {
		sheets.Movements = def.Movements
	}
	if sheets.Requests == "" {
		sheets.Requests = def.Requests
	}
	return &Reader{sheets: sheets}
}

// Sheets returns the sheet names the reader looks for.
func (r *Reader) Sheets() SheetNames {
	return r.sheets
}

// ReadFile reads an XLSX workbook from disk.
func (r *Reader) ReadFile(path string) (*domain.Tables, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook %s: %w", path, err)
	}
	return r.Read(filepath.Base(path), data)
}

// Read parses an XLSX workbook held in memory. All three sheets are fully
// materialized before returning.
func (r *Reader) Read(name string, data []byte) (*domain.Tables, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx %s: %w", name, err)
	}
	defer f.Close()

	available := make(map[string]string)
	for _, s := range f.GetSheetList() {
		available[strings.ToUpper(strings.TrimSpace(s))] = s
	}

	load := func(logical string) (*table, error) {
		sheet, ok := available[strings.ToUpper(strings.TrimSpace(logical))]
		if !ok {
			return nil, missingSheet(logical)
		}
		return readSheet(f, sheet, logical)
	}

	master, err := load(r.sheets.Master)
	if err != nil {
		return nil, err
	}
	movements, err := load(r.sheets.Movements)
	if err != nil {
		return nil, err
	}
	requests, err := load(r.sheets.Requests)
	if err != nil {
		return nil, err
	}

	return r.build(name, digest(data), master, movements, requests)
}

// ReadCSV reads the three tables from separate CSV exports.
func (r *Reader) ReadCSV(masterPath, movementsPath, requestsPath string) (*domain.Tables, error) {
	h := sha1.New()
	load := func(path, logical string) (*table, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		h.Write(data)
		return readCSV(bytes.NewReader(data), logical)
	}

	master, err := load(masterPath, r.sheets.Master)
	if err != nil {
		return nil, err
	}
	movements, err := load(movementsPath, r.sheets.Movements)
	if err != nil {
		return nil, err
	}
	requests, err := load(requestsPath, r.sheets.Requests)
	if err != nil {
		return nil, err
	}

	return r.build(filepath.Base(masterPath), hex.EncodeToString(h.Sum(nil)), master, movements, requests)
}

func (r *Reader) build(name, sum string, master, movements, requests *table) (*domain.Tables, error) {
	materials, err := parseMaterials(master)
	if err != nil {
		return nil, err
	}
	moves, err := parseMovements(movements)
	if err != nil {
		return nil, err
	}
	reqs, err := parseRequests(requests)
	if err != nil {
		return nil, err
	}

	log.Debug().
		Str("source", name).
		Int("materials", len(materials)).
		Int("movements", len(moves)).
		Int("requests", len(reqs)).
		Msg("workbook loaded")

	return &domain.Tables{
		Source:    name,
		Digest:    sum,
		Materials: materials,
		Movements: moves,
		Requests:  reqs,
	}, nil
}

func readSheet(f *excelize.File, sheet, logical string) (*table, error) {
	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	t := &table{name: logical}
	first := true
	for rows.Next() {
		record, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		if first {
			t.header = newHeader(record)
			first = false
			continue
		}
		if blankRow(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}
	if first {
		t.header = header{}
	}
	return t, nil
}

func readCSV(src io.Reader, logical string) (*table, error) {
	reader := csv.NewReader(src)
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	head, err := reader.Read()
	if err == io.EOF {
		return &table{name: logical, header: header{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s header: %w", logical, err)
	}
	if len(head) > 0 {
		head[0] = strings.TrimPrefix(head[0], "\ufeff")
	}

	t := &table{name: logical, header: newHeader(head)}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s record: %w", logical, err)
		}
		if blankRow(record) {
			continue
		}
		t.rows = append(t.rows, record)
	}
	return t, nil
}

func parseMaterials(t *table) ([]domain.Material, error) {
	if err := t.header.require(t.name,
		ColMaterial, ColDescription, ColOwningUnit, ColRequestingArea, ColMaterialType,
		ColMaxStock, ColMinStock, ColTotalStock, ColRealStock, ColUnit,
	); err != nil {
		return nil, err
	}

	idxCode := t.header.index(ColMaterial)
	idxLegacy := t.header.index(ColLegacyCode)
	idxDesc := t.header.index(ColDescription)
	idxUnit := t.header.index(ColOwningUnit)
	idxArea := t.header.index(ColRequestingArea)
	idxType := t.header.index(ColMaterialType)
	idxMax := t.header.index(ColMaxStock)
	idxMin := t.header.index(ColMinStock)
	idxTotal := t.header.index(ColTotalStock)
	idxReal := t.header.index(ColRealStock)
	idxUoM := t.header.index(ColUnit)

	materials := make([]domain.Material, 0, len(t.rows))
	for _, record := range t.rows {
		code := cell(record, idxCode)
		if code == "" {
			continue
		}
		materials = append(materials, domain.Material{
			Code:           code,
			LegacyCode:     cell(record, idxLegacy),
			Description:    cell(record, idxDesc),
			OwningUnit:     cell(record, idxUnit),
			RequestingArea: cell(record, idxArea),
			MaterialType:   cell(record, idxType),
			MaxStock:       parseNumber(cell(record, idxMax)),
			MinStock:       parseNumber(cell(record, idxMin)),
			TotalStock:     parseNumber(cell(record, idxTotal)),
			RealStock:      parseNumber(cell(record, idxReal)),
			Unit:           cell(record, idxUoM),
			Row:            len(materials),
		})
	}
	return materials, nil
}

func parseMovements(t *table) ([]domain.Movement, error) {
	if err := t.header.require(t.name,
		ColMaterial, ColStorageLocation, ColDirection, ColMaterialType, ColFiscalYear, ColQuantity,
	); err != nil {
		return nil, err
	}

	idxCode := t.header.index(ColMaterial)
	idxLoc := t.header.index(ColStorageLocation)
	idxDir := t.header.index(ColDirection)
	idxType := t.header.index(ColMaterialType)
	idxYear := t.header.index(ColFiscalYear)
	idxQty := t.header.index(ColQuantity)

	movements := make([]domain.Movement, 0, len(t.rows))
	for _, record := range t.rows {
		year := 0
		if n := parseNumber(cell(record, idxYear)); n.Valid {
			year = int(n.Value)
		}
		movements = append(movements, domain.Movement{
			MaterialCode:    cell(record, idxCode),
			StorageLocation: cell(record, idxLoc),
			Direction:       domain.ParseDirection(cell(record, idxDir)),
			MaterialType:    cell(record, idxType),
			FiscalYear:      year,
			Quantity:        parseNumber(cell(record, idxQty)).Or(0),
		})
	}
	return movements, nil
}

func parseRequests(t *table) ([]domain.PurchaseRequest, error) {
	if err := t.header.require(t.name, ColRequestMaterial, ColRequestID); err != nil {
		return nil, err
	}

	idxCode := t.header.index(ColRequestMaterial)
	idxID := t.header.index(ColRequestID)

	requests := make([]domain.PurchaseRequest, 0, len(t.rows))
	for _, record := range t.rows {
		requests = append(requests, domain.PurchaseRequest{
			MaterialCode: cell(record, idxCode),
			RequestID:    cell(record, idxID),
		})
	}
	return requests, nil
}

func cell(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

func blankRow(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// parseNumber parses a numeric cell. Blank or malformed cells are returned as absent.
func parseNumber(v string) domain.Number {
	v = strings.TrimSpace(v)
	if v == "" {
		return domain.Number{}
	}
	v = strings.ReplaceAll(v, ",", "")
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return domain.Number{}
	}
	return domain.Num(f)
}

func digest(data []byte) string {
	sum := sha1.Sum(data)
	return hex.EncodeToString(sum[:])
}
