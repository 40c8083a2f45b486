package drive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
)

const xlsxMimeType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// FileSource is the part of the Drive API the downloader needs.
type FileSource interface {
	ListFiles(ctx context.Context, folderID string) ([]*File, error)
	GetFile(ctx context.Context, fileID string) (*File, error)
	DownloadFile(ctx context.Context, fileID string, w io.Writer) error
}

// Downloader pulls ERP workbooks from Google Drive into memory.
type Downloader struct {
	source FileSource
}

// NewDownloader creates a new Downloader.
func NewDownloader(source FileSource) *Downloader {
	return &Downloader{source: source}
}

// Workbook is a downloaded workbook.
type Workbook struct {
	Name string
	Data []byte
}

// FetchWorkbook downloads the workbook with the given file id.
func (d *Downloader) FetchWorkbook(ctx context.Context, fileID string) (*Workbook, error) {
	if fileID == "" {
		return nil, fmt.Errorf("file id is required")
	}
	f, err := d.source.GetFile(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !isWorkbook(f) {
		return nil, fmt.Errorf("file %s (%s) is not an xlsx workbook", f.Name, f.MimeType)
	}
	return d.download(ctx, f)
}

// LatestWorkbook downloads the most recently modified xlsx workbook in folderID.
func (d *Downloader) LatestWorkbook(ctx context.Context, folderID string) (*Workbook, error) {
	files, err := d.source.ListFiles(ctx, folderID)
	if err != nil {
		return nil, err
	}

	var latest *File
	for _, f := range files {
		if !isWorkbook(f) {
			continue
		}
		// RFC 3339 timestamps from the API compare lexically
		if latest == nil || f.ModifiedTime > latest.ModifiedTime {
			latest = f
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("no xlsx workbook found in folder %s", folderID)
	}
	return d.download(ctx, latest)
}

func (d *Downloader) download(ctx context.Context, f *File) (*Workbook, error) {
	var buf bytes.Buffer
	if err := d.source.DownloadFile(ctx, f.ID, &buf); err != nil {
		return nil, fmt.Errorf("failed to download %s: %w", f.Name, err)
	}

	log.Info().
		Str("file_id", f.ID).
		Str("name", f.Name).
		Int("bytes", buf.Len()).
		Msg("workbook downloaded from drive")

	return &Workbook{Name: f.Name, Data: buf.Bytes()}, nil
}

func isWorkbook(f *File) bool {
	return f.MimeType == xlsxMimeType || strings.EqualFold(filepath.Ext(f.Name), ".xlsx")
}
