package blobstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func TestFSStoreListAndRead(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "thoughts/alpha.md", "macro outlook")
	writeFile(t, root, "thoughts/beta.txt", "rate cuts ahead")
	writeFile(t, root, "other/ignored.txt", "not under prefix")

	store := NewFSStore(root)
	objects, err := store.List(context.Background(), "thoughts")
	require.NoError(t, err)
	require.Len(t, objects, 2)

	// Lexical walk order.
	assert.Equal(t, "blob://thoughts/alpha.md", objects[0].Locator)
	assert.Equal(t, FormatMarkdown, objects[0].Format)
	assert.Equal(t, "blob://thoughts/beta.txt", objects[1].Locator)
	assert.Equal(t, FormatText, objects[1].Format)

	data, err := store.Read(context.Background(), objects[1].Locator)
	require.NoError(t, err)
	assert.Equal(t, "rate cuts ahead", string(data))
}

func TestFSStoreListMissingPrefix(t *testing.T) {
	store := NewFSStore(t.TempDir())
	_, err := store.List(context.Background(), "nope")
	assert.Error(t, err)
}

func TestFSStoreReadRejectsBadLocators(t *testing.T) {
	store := NewFSStore(t.TempDir())

	_, err := store.Read(context.Background(), "s3://bucket/key")
	assert.Error(t, err)

	_, err = store.Read(context.Background(), "blob://../../etc/passwd")
	assert.Error(t, err)
}

func TestFormatFromLocator(t *testing.T) {
	tests := []struct {
		locator string
		want    Format
	}{
		{"blob://a/b.txt", FormatText},
		{"blob://a/b.md", FormatMarkdown},
		{"blob://a/b.PDF", FormatPDF},
		{"blob://a/b.docx", FormatWord},
		{"blob://a/b.xlsx", FormatSpreadsheet},
		{"blob://a/b.xls", FormatSpreadsheet},
		{"blob://a/b.png", FormatUnknown},
		{"blob://a/noext", FormatUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatFromLocator(tt.locator), tt.locator)
	}
}
