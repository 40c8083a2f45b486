package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/api/middleware"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/service"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook/workbooktest"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func fixtureWorkbook(t *testing.T) []byte {
	t.Helper()
	return workbooktest.Build(t, domain.Tables{
		Materials: []domain.Material{
			{Code: "M1", Description: "Rodamiento", OwningUnit: "GE", MaterialType: "ZREP", RequestingArea: "GE - ALMACEN",
				MaxStock: domain.Num(100), MinStock: domain.Num(10), TotalStock: domain.Num(5), RealStock: domain.Num(5), Unit: "UN"},
			{Code: "M2", Description: "Sello", OwningUnit: "GE", MaterialType: "ZREP", RequestingArea: "GE - ALMACEN",
				MaxStock: domain.Num(0), MinStock: domain.Num(0), RealStock: domain.Num(50), Unit: "UN"},
		},
		Movements: []domain.Movement{
			{MaterialCode: "M1", StorageLocation: "A001", Direction: domain.Outbound, MaterialType: "ZREP", FiscalYear: 2025, Quantity: 2},
		},
	})
}

func multipartRequest(t *testing.T, path string, workbook []byte, fields map[string]string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if workbook != nil {
		part, err := w.CreateFormFile("workbook", "erp.xlsx")
		require.NoError(t, err)
		_, err = part.Write(workbook)
		require.NoError(t, err)
	}
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

var filterFields = map[string]string{
	"owning_unit":     "GE",
	"material_type":   "ZREP",
	"requesting_area": "GE - ALMACEN",
}

func newTestRouter() *gin.Engine {
	metrics := service.NewMetrics()
	return NewRouter(&Services{
		AnalysisService: service.NewAnalysisService(service.Dependencies{Metrics: metrics}),
		Metrics:         metrics,
	}, []string{"*"})
}

func TestHealth(t *testing.T) {
	rec := httptest.NewRecorder()
	NewRouter(nil, nil).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestRequestID(t *testing.T) {
	router := NewRouter(nil, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(middleware.RequestIDHeader, "req-42")
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, "req-42", rec.Header().Get(middleware.RequestIDHeader))
}

func TestAnalyzeEndpoint(t *testing.T) {
	router := newTestRouter()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", fixtureWorkbook(t), filterFields))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body struct {
		Materials []struct {
			Code string      `json:"code"`
			Need interface{} `json:"need"`
			Tier string      `json:"tier"`
		} `json:"materials"`
		Summary []domain.ZoneSummary `json:"summary"`
		Run     struct {
			Status string `json:"status"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Materials, 1)
	assert.Equal(t, "M1", body.Materials[0].Code)
	assert.Equal(t, 95.0, body.Materials[0].Need)
	assert.Equal(t, "C", body.Materials[0].Tier)
	assert.Equal(t, "completed", body.Run.Status)
	require.Len(t, body.Summary, 1)
}

func TestAnalyzeEndpointHalted(t *testing.T) {
	fields := map[string]string{"owning_unit": "EGH", "material_type": "ZREP", "requesting_area": "EGH - TIC"}
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", fixtureWorkbook(t), fields))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"halted_at":"select"`)
	assert.Contains(t, rec.Body.String(), `"materials":[]`)
}

func TestAnalyzeEndpointMissingFilter(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", fixtureWorkbook(t), map[string]string{"owning_unit": "GE"}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAnalyzeEndpointMissingWorkbook(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", nil, filterFields))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAnalyzeEndpointMissingSheet(t *testing.T) {
	data := workbooktest.BuildSheets(t, map[string][][]interface{}{
		"ZMM009": workbooktest.MasterRows(nil),
		"MB51":   workbooktest.MovementRows(nil),
	})
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", data, filterFields))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "SC")
}

func TestAnalyzeEndpointInvalidWorkbook(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", []byte("not a zip"), filterFields))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOptionsEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/options", fixtureWorkbook(t), nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var opts domain.FilterOptions
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &opts))
	assert.Equal(t, []string{"GE - ALMACEN"}, opts.RequestingAreas)
	assert.Equal(t, 2, opts.MasterRows)
}

func TestExportEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/export", fixtureWorkbook(t), filterFields))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "abc_ge_zrep_ge-almacen.csv")
	assert.Empty(t, rec.Header().Get("X-Export-Key"))

	records, err := csv.NewReader(rec.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "M1", records[1][0])
}

func TestExportEndpointHalted(t *testing.T) {
	fields := map[string]string{"owning_unit": "NOPE", "material_type": "ZREP", "requesting_area": "GE - ALMACEN"}
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/export?upload=true", fixtureWorkbook(t), fields))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Empty(t, rec.Header().Get("X-Export-Key"))

	var body struct {
		Halted   bool   `json:"halted"`
		HaltedAt string `json:"halted_at"`
		Run      struct {
			Status string `json:"status"`
			Stages []struct {
				Stage  string `json:"stage"`
				Before int    `json:"before"`
				After  int    `json:"after"`
			} `json:"stages"`
		} `json:"run"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Halted)
	assert.Equal(t, "select", body.HaltedAt)
	assert.Equal(t, "halted", body.Run.Status)
	require.Len(t, body.Run.Stages, 1)
	assert.Equal(t, 2, body.Run.Stages[0].Before)
	assert.Equal(t, 0, body.Run.Stages[0].After)
}

func TestReportEndpoint(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter().ServeHTTP(rec, multipartRequest(t, "/report", fixtureWorkbook(t), filterFields))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "<svg")
}

func TestIndexAndAreas(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "GE - SEGURIDAD EHS")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/abc/areas", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Areas []string `json:"areas"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Len(t, body.Areas, 20)
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter()

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, multipartRequest(t, "/api/v1/abc/analyze", fixtureWorkbook(t), filterFields))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `abc_analysis_runs_total{status="completed"} 1`)
}

func TestNormalizeAllowedOrigins(t *testing.T) {
	origins, all := normalizeAllowedOrigins([]string{"http://a.test, http://b.test", " "})
	assert.False(t, all)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, origins)

	_, all = normalizeAllowedOrigins([]string{"*"})
	assert.True(t, all)
}
