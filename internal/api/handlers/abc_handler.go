// backend-go/internal/api/handlers/abc_handler.go
package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/service"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

const (
	workbookField         = "workbook"
	defaultMaxUploadBytes = 64 << 20
)

type ABCHandler struct {
	svc            *service.AnalysisService
	maxUploadBytes int64
}

func NewABCHandler(svc *service.AnalysisService, maxUploadMB int64) *ABCHandler {
	maxBytes := maxUploadMB << 20
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ABCHandler{svc: svc, maxUploadBytes: maxBytes}
}

// Options returns the selector values found in the uploaded workbook
func (h *ABCHandler) Options(c *gin.Context) {
	tables, ok := h.loadWorkbook(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.svc.Options(tables))
}

// Analyze runs the ABC analysis for the uploaded workbook and filter
func (h *ABCHandler) Analyze(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, result)
}

// Export returns the classified materials as a CSV attachment. A halted
// analysis answers with its run and stage counts instead of a file.
func (h *ABCHandler) Export(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}

	upload, _ := strconv.ParseBool(c.DefaultQuery("upload", "false"))
	file, err := h.svc.Export(c.Request.Context(), result, upload)
	if errors.Is(err, service.ErrHalted) {
		c.JSON(http.StatusOK, gin.H{
			"halted":    true,
			"halted_at": result.Run.HaltedAt,
			"run":       result.Run,
			"filter":    result.Filter,
		})
		return
	}
	if err != nil {
		log.Error().Err(err).Msg("abc: export failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export result"})
		return
	}

	if file.Key != "" {
		c.Header("X-Export-Key", file.Key)
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", file.Data)
}

// Report renders the HTML analysis page
func (h *ABCHandler) Report(c *gin.Context) {
	result, ok := h.analyze(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.svc.Report(&buf, result); err != nil {
		log.Error().Err(err).Msg("abc: report failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render report"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

// Areas returns the requesting areas known to the warehouse team
func (h *ABCHandler) Areas(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"areas": domain.KnownAreas})
}

// Index serves the upload form
func (h *ABCHandler) Index(c *gin.Context) {
	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, gin.H{"Areas": domain.KnownAreas}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render page"})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (h *ABCHandler) analyze(c *gin.Context) (*abc.Result, bool) {
	var filter domain.Filter
	if err := c.ShouldBind(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "owning_unit, material_type and requesting_area are required"})
		return nil, false
	}

	tables, ok := h.loadWorkbook(c)
	if !ok {
		return nil, false
	}

	result, err := h.svc.Analyze(c.Request.Context(), tables, filter)
	if err != nil {
		log.Error().Err(err).Msg("abc: analysis failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis failed"})
		return nil, false
	}
	return result, true
}

// LimitUpload caps the request body at the configured upload size
func (h *ABCHandler) LimitUpload() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
		c.Next()
	}
}

func (h *ABCHandler) loadWorkbook(c *gin.Context) (*domain.Tables, bool) {
	header, err := c.FormFile(workbookField)
	if errors.Is(err, http.ErrMissingFile) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "workbook file is required"})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid form data"})
		return nil, false
	}

	f, err := header.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read workbook"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to read workbook"})
		return nil, false
	}

	tables, err := h.svc.Load(c.Request.Context(), header.Filename, data)
	switch {
	case errors.Is(err, workbook.ErrMissingInput):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return nil, false
	case err != nil:
		log.Warn().Err(err).Str("filename", header.Filename).Msg("abc: unreadable workbook")
		c.JSON(http.StatusBadRequest, gin.H{"error": "workbook is not a valid xlsx file"})
		return nil, false
	}
	return tables, true
}
