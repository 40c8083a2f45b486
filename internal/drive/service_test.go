package drive

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChildrenQuery(t *testing.T) {
	assert.Equal(t, "'root' in parents and trashed=false", childrenQuery("root"))
	assert.Equal(t,
		"'abc' in parents and trashed=false and name='Exportes' and mimeType='application/vnd.google-apps.folder'",
		childrenQuery("abc", "name='Exportes'", "mimeType='"+folderMimeType+"'"))
}

func TestEscapeQuery(t *testing.T) {
	assert.Equal(t, `Repuestos d\'Almacén`, escapeQuery("Repuestos d'Almacén"))
	assert.Equal(t, `a\\b`, escapeQuery(`a\b`))
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"SAP", "Exportes"}, splitPath("/SAP//Exportes/ "))
	assert.Empty(t, splitPath(""))
}

func TestNewServiceFromFileRequiresPath(t *testing.T) {
	_, err := NewServiceFromFile(context.Background(), "")
	require.Error(t, err)

	_, err = NewServiceFromFile(context.Background(), "testdata/missing.json")
	require.Error(t, err)
}

func TestNewServiceRejectsInvalidCredentials(t *testing.T) {
	_, err := NewService(context.Background(), []byte("{}"))
	assert.Error(t, err)
}
