package drive

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	files    []*File
	contents map[string]string
}

func (f *fakeSource) ListFiles(ctx context.Context, folderID string) ([]*File, error) {
	return f.files, nil
}

func (f *fakeSource) GetFile(ctx context.Context, fileID string) (*File, error) {
	for _, file := range f.files {
		if file.ID == fileID {
			return file, nil
		}
	}
	return nil, errors.New("not found")
}

func (f *fakeSource) DownloadFile(ctx context.Context, fileID string, w io.Writer) error {
	content, ok := f.contents[fileID]
	if !ok {
		return errors.New("no content")
	}
	_, err := io.WriteString(w, content)
	return err
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		files: []*File{
			{ID: "1", Name: "old.xlsx", ModifiedTime: "2025-01-01T10:00:00Z"},
			{ID: "2", Name: "notes.txt", ModifiedTime: "2026-01-01T10:00:00Z"},
			{ID: "3", Name: "export", MimeType: xlsxMimeType, ModifiedTime: "2025-06-01T10:00:00Z"},
		},
		contents: map[string]string{"1": "old", "2": "text", "3": "new"},
	}
}

func TestFetchWorkbook(t *testing.T) {
	d := NewDownloader(newFakeSource())

	wb, err := d.FetchWorkbook(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "old.xlsx", wb.Name)
	assert.Equal(t, []byte("old"), wb.Data)

	_, err = d.FetchWorkbook(context.Background(), "2")
	assert.ErrorContains(t, err, "not an xlsx workbook")

	_, err = d.FetchWorkbook(context.Background(), "")
	assert.Error(t, err)

	_, err = d.FetchWorkbook(context.Background(), "missing")
	assert.Error(t, err)
}

func TestLatestWorkbook(t *testing.T) {
	d := NewDownloader(newFakeSource())

	wb, err := d.LatestWorkbook(context.Background(), "folder")
	require.NoError(t, err)
	assert.Equal(t, "export", wb.Name)
	assert.Equal(t, []byte("new"), wb.Data)
}

func TestLatestWorkbookEmptyFolder(t *testing.T) {
	d := NewDownloader(&fakeSource{})
	_, err := d.LatestWorkbook(context.Background(), "folder")
	assert.ErrorContains(t, err, "no xlsx workbook")
}
