package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andresuchdata/abc-repuestos/backend-go/internal/cache"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/domain"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/export"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/pipeline/abc"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/storage"
	"github.com/andresuchdata/abc-repuestos/backend-go/internal/workbook"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// ErrHalted is returned when a result has no classified materials to export
// because a filter stage left the candidate set empty.
var ErrHalted = errors.New("analysis halted before classification")

// Dependencies wires the collaborators of AnalysisService. Only Reader and
// Pipeline are required.
type Dependencies struct {
	Reader        *workbook.Reader
	Pipeline      *abc.ABCPipeline
	Cache         cache.ResultCache
	Storage       storage.ObjectStorage
	StoragePrefix string
	Metrics       *Metrics
}

// AnalysisService loads ERP workbooks and runs the ABC replenishment analysis
// over them. Every call works on the tables it is given; nothing is shared
// between requests except the result cache.
type AnalysisService struct {
	reader   *workbook.Reader
	pipeline *abc.ABCPipeline
	cache    cache.ResultCache
	storage  storage.ObjectStorage
	prefix   string
	metrics  *Metrics
	group    singleflight.Group
}

func NewAnalysisService(deps Dependencies) *AnalysisService {
	if deps.Reader == nil {
		deps.Reader = workbook.NewReader(workbook.DefaultSheetNames())
	}
	if deps.Pipeline == nil {
		deps.Pipeline = abc.NewABCPipeline(abc.DefaultConfig())
	}
	if deps.Cache == nil {
		deps.Cache = cache.NewNoopResultCache()
	}
	prefix := strings.Trim(deps.StoragePrefix, "/")
	if prefix == "" {
		prefix = "exports"
	}
	return &AnalysisService{
		reader:   deps.Reader,
		pipeline: deps.Pipeline,
		cache:    deps.Cache,
		storage:  deps.Storage,
		prefix:   prefix,
		metrics:  deps.Metrics,
	}
}

// Load parses an uploaded workbook.
func (s *AnalysisService) Load(ctx context.Context, name string, data []byte) (*domain.Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.Read(name, data)
}

// LoadFile parses a workbook from disk.
func (s *AnalysisService) LoadFile(ctx context.Context, path string) (*domain.Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.ReadFile(path)
}

// LoadCSV parses the three tables from separate CSV exports.
func (s *AnalysisService) LoadCSV(ctx context.Context, masterPath, movementsPath, requestsPath string) (*domain.Tables, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.reader.ReadCSV(masterPath, movementsPath, requestsPath)
}

// Options lists the selector values present in the loaded tables.
func (s *AnalysisService) Options(tables *domain.Tables) domain.FilterOptions {
	return workbook.Options(tables)
}

// Analyze runs the analysis for filter. Results are cached per workbook
// contents, filter and settings, and identical concurrent calls share one run.
func (s *AnalysisService) Analyze(ctx context.Context, tables *domain.Tables, filter domain.Filter) (*abc.Result, error) {
	if tables == nil {
		return nil, fmt.Errorf("analyze: tables are required")
	}

	key := cache.ResultKey{
		Digest:   tables.Digest,
		Filter:   filter,
		Settings: s.pipeline.Config().String(),
	}

	// without a digest two different table sets are indistinguishable, so
	// they are neither cached nor coalesced
	if tables.Digest == "" {
		return s.run(ctx, key, tables, filter)
	}

	if result, ok, err := s.cache.Get(ctx, key); err == nil && ok {
		s.metrics.observeCache(true)
		return result, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("abc: cache get result failed")
		if err := s.cache.Invalidate(ctx, key); err != nil {
			log.Warn().Err(err).Msg("abc: cache invalidate result failed")
		}
	}
	s.metrics.observeCache(false)

	ch := s.group.DoChan(key.Hash(), func() (interface{}, error) {
		return s.run(context.WithoutCancel(ctx), key, tables, filter)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*abc.Result), nil
	}
}

func (s *AnalysisService) run(ctx context.Context, key cache.ResultKey, tables *domain.Tables, filter domain.Filter) (*abc.Result, error) {
	result, err := s.pipeline.Run(ctx, tables, filter)
	if err != nil {
		if result != nil {
			s.metrics.observeRun(result.Run)
		} else {
			s.metrics.observeFailure()
		}
		return nil, err
	}
	s.metrics.observeRun(result.Run)

	if tables.Digest != "" {
		if err := s.cache.Set(ctx, key, result); err != nil {
			log.Warn().Err(err).Msg("abc: cache set result failed")
		}
	}
	return result, nil
}

// ClearCache drops every cached analysis result.
func (s *AnalysisService) ClearCache(ctx context.Context) error {
	return s.cache.InvalidateAll(ctx)
}

// ExportFile is a serialized classified materials table.
type ExportFile struct {
	Name string
	Data []byte
	Key  string // object storage key, empty when not uploaded
}

// Export serializes the classified materials of result as CSV. When upload is
// set and object storage is configured the file is also stored remotely.
func (s *AnalysisService) Export(ctx context.Context, result *abc.Result, upload bool) (*ExportFile, error) {
	if result == nil {
		return nil, fmt.Errorf("export: result is required")
	}
	if result.Empty() {
		return nil, ErrHalted
	}

	var buf bytes.Buffer
	if err := export.WriteMaterialsCSV(&buf, result.Materials, result.Years); err != nil {
		return nil, fmt.Errorf("failed to export materials: %w", err)
	}

	file := &ExportFile{Name: ExportName(result.Filter), Data: buf.Bytes()}
	if !upload || s.storage == nil {
		return file, nil
	}

	file.Key = s.exportKey(result)
	if err := s.storage.UploadObject(ctx, file.Key, file.Data); err != nil {
		return nil, err
	}
	log.Info().Str("key", file.Key).Int("bytes", len(file.Data)).Msg("abc: export uploaded")
	return file, nil
}

// WriteSummary serializes the zone summary of result as CSV.
func (s *AnalysisService) WriteSummary(w io.Writer, result *abc.Result) error {
	return export.WriteSummaryCSV(w, result.Summary)
}

// Report renders the HTML report of result.
func (s *AnalysisService) Report(w io.Writer, result *abc.Result) error {
	return export.RenderReport(w, "", result)
}

// StorageEnabled reports whether exports can be uploaded.
func (s *AnalysisService) StorageEnabled() bool {
	return s.storage != nil
}

func (s *AnalysisService) exportKey(result *abc.Result) string {
	digest := result.Digest
	if digest == "" {
		digest = "adhoc"
	}
	key := cache.ResultKey{Digest: result.Digest, Filter: result.Filter, Settings: s.pipeline.Config().String()}
	return path.Join(s.prefix, digest, key.Hash()+".csv")
}

// ExportName returns the download file name for a filter.
func ExportName(f domain.Filter) string {
	return fmt.Sprintf("abc_%s_%s_%s.csv", slug(f.OwningUnit), slug(f.MaterialType), slug(f.RequestingArea))
}

func slug(v string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(v)) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	out := strings.TrimSuffix(b.String(), "-")
	if out == "" {
		return "all"
	}
	return out
}
