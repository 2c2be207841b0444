package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/errand/internal/logging"
	"github.com/aretw0/errand/pkg/adapters/memory"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/download"
	"github.com/aretw0/errand/pkg/explorer"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubMemory struct {
	stats domain.MemoryStats
	err   error
}

func (m stubMemory) ReadMemory(context.Context) (domain.MemoryStats, error) {
	return m.stats, m.err
}

type stubSearcher struct {
	links []string
	query string
	limit int
}

func (s *stubSearcher) Search(_ context.Context, query string, limit int) ([]string, error) {
	s.query, s.limit = query, limit
	return s.links, nil
}

func request(args map[string]any) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func text(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	tc, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return tc.Text
}

func newExplorer(t *testing.T) *explorer.Explorer {
	t.Helper()
	ex, err := explorer.New(t.TempDir(), explorer.WithLocker(memory.NewLocker()))
	require.NoError(t, err)
	return ex
}

func TestMemoryStats(t *testing.T) {
	s := NewServer(WithMemoryReader(stubMemory{stats: domain.MemoryStats{
		Total:       8 * domain.GiB,
		Available:   2 * domain.GiB,
		Used:        6 * domain.GiB,
		UsedPercent: 75,
	}}), WithLogger(logging.NewNop()))

	report, err := s.handleMemoryStats(context.Background(), request(nil), nil)
	require.NoError(t, err)
	assert.InDelta(t, 8.0, report.TotalGB, 1e-9)
	assert.InDelta(t, 2.0, report.AvailableGB, 1e-9)
	assert.InDelta(t, 6.0, report.UsedGB, 1e-9)
	assert.InDelta(t, 75.0, report.UsedPercent, 1e-9)

	failing := NewServer(WithMemoryReader(stubMemory{err: errors.New("no procfs")}))
	_, err = failing.handleMemoryStats(context.Background(), request(nil), nil)
	assert.ErrorContains(t, err, "no procfs")
}

func TestWebSearch(t *testing.T) {
	searcher := &stubSearcher{links: []string{"https://go.dev/", "https://pkg.go.dev/"}}
	s := NewServer(WithSearcher(searcher))

	res, err := s.handleWebSearch(context.Background(), request(map[string]any{"query": "golang", "limit": 2}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "https://go.dev/\nhttps://pkg.go.dev/", text(t, res))
	assert.Equal(t, "golang", searcher.query)
	assert.Equal(t, 2, searcher.limit)

	res, err = s.handleWebSearch(context.Background(), request(map[string]any{"query": " "}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	searcher.links = nil
	res, err = s.handleWebSearch(context.Background(), request(map[string]any{"query": "nothing"}))
	require.NoError(t, err)
	assert.Equal(t, "No results found.", text(t, res))
	assert.Equal(t, 10, searcher.limit)
}

func TestListAndSearchFiles(t *testing.T) {
	ex := newExplorer(t)
	require.NoError(t, os.MkdirAll(filepath.Join(ex.Root(), "notes"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(ex.Root(), "notes", "plan.md"), []byte("Ship it"), 0o644))
	s := NewServer(WithExplorer(ex))

	res, err := s.handleListDirectory(context.Background(), request(map[string]any{"path": "notes"}))
	require.NoError(t, err)
	var entries []domain.FileInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "plan.md", entries[0].Name)

	res, err = s.handleSearchFiles(context.Background(), request(map[string]any{"query": "ship", "in_content": true}))
	require.NoError(t, err)
	var found []domain.FileInfo
	require.NoError(t, json.Unmarshal([]byte(text(t, res)), &found))
	require.Len(t, found, 1)
	assert.Equal(t, "plan.md", found[0].Name)

	res, err = s.handleListDirectory(context.Background(), request(map[string]any{"path": "/"}))
	require.NoError(t, err)
	assert.True(t, res.IsError, "paths outside the root are refused")
}

func TestDrawArt(t *testing.T) {
	ex := newExplorer(t)
	s := NewServer(WithExplorer(ex))

	res, err := s.handleDrawArt(context.Background(), request(map[string]any{"output": "../../picture.png"}))
	require.NoError(t, err)
	assert.False(t, res.IsError, text(t, res))
	assert.FileExists(t, filepath.Join(ex.Root(), "picture.png"))
}

func TestDownloadFile(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("payload"))
	}))
	defer upstream.Close()

	ex := newExplorer(t)
	s := NewServer(WithExplorer(ex), WithDownloader(download.New(upstream.Client())))

	res, err := s.handleDownloadFile(context.Background(), request(map[string]any{"url": upstream.URL + "/files/report.pdf"}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(t, res))
	assert.Contains(t, text(t, res), "7.00 B")

	data, err := os.ReadFile(filepath.Join(ex.Root(), "report.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
}
