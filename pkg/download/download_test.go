package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilename(t *testing.T) {
	assert.Equal(t, "Python Programming.pdf", Filename(DefaultURL))
	assert.Equal(t, "file.zip", Filename("https://example.com/a/b/file.zip?x=1"))
	assert.Equal(t, FallbackName, Filename("https://example.com/"))
	assert.Equal(t, FallbackName, Filename("https://example.com"))
	assert.Equal(t, FallbackName, Filename("::bad"))
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		_, _ = w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "out.pdf")

	res, err := New(srv.Client()).Download(context.Background(), srv.URL+"/doc.pdf", dest)
	require.NoError(t, err)
	assert.Equal(t, dest, res.Path)
	assert.EqualValues(t, 13, res.Bytes)
	assert.Equal(t, "application/pdf", res.ContentType)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 fake", string(data))
}

func TestDownload_BadStatusLeavesNoFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	dir := t.TempDir()
	dest := filepath.Join(dir, "missing.pdf")

	_, err := New(nil).Download(context.Background(), srv.URL+"/missing.pdf", dest)
	assert.ErrorContains(t, err, "404")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDownload_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Download(ctx, "http://127.0.0.1:1/x", filepath.Join(t.TempDir(), "x"))
	assert.ErrorIs(t, err, context.Canceled)
}
