package google

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var wantLinks = []string{
	"https://go.dev/",
	"https://en.wikipedia.org/wiki/Go_(programming_language)",
	"https://github.com/golang/go",
	"https://pkg.go.dev/std",
}

func TestParseResults(t *testing.T) {
	f, err := os.Open("testdata/results.html")
	require.NoError(t, err)
	defer f.Close()

	links, err := ParseResults(f, "www.google.com", 10)
	require.NoError(t, err)
	assert.Equal(t, wantLinks, links)
}

func TestParseResults_Limit(t *testing.T) {
	f, err := os.Open("testdata/results.html")
	require.NoError(t, err)
	defer f.Close()

	links, err := ParseResults(f, "www.google.com", 2)
	require.NoError(t, err)
	assert.Equal(t, wantLinks[:2], links)
}

func TestSearcher_Search(t *testing.T) {
	page, err := os.ReadFile("testdata/results.html")
	require.NoError(t, err)

	var gotQuery, gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotUA = r.Header.Get("User-Agent")
		assert.Equal(t, "12", r.URL.Query().Get("num"))
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write(page)
	}))
	defer srv.Close()

	s := New(WithBaseURL(srv.URL+"/search"), WithHTTPClient(srv.Client()), WithUserAgent("errand-test"))
	links, err := s.Search(context.Background(), "  golang  ", 10)

	require.NoError(t, err)
	assert.Equal(t, "golang", gotQuery)
	assert.Equal(t, "errand-test", gotUA)
	assert.Equal(t, wantLinks, links)
}

func TestSearcher_Errors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unusual traffic", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	s := New(WithBaseURL(srv.URL))

	_, err := s.Search(context.Background(), "   ", 10)
	assert.ErrorIs(t, err, domain.ErrEmptyQuery)

	_, err = s.Search(context.Background(), "golang", 10)
	assert.ErrorContains(t, err, "429")
}
