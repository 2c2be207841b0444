// Package download fetches a URL over HTTP and saves the body to disk.
package download

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"
)

// DefaultURL is the document fetched when no URL is given.
const DefaultURL = "https://www.halvorsen.blog/documents/programming/python/resources/Python%20Programming.pdf"

// FallbackName is used when the URL path has no usable last segment.
const FallbackName = "download.bin"

// Result describes a completed download.
type Result struct {
	Path        string `json:"path"`
	Bytes       int64  `json:"bytes"`
	ContentType string `json:"content_type,omitempty"`
}

// Downloader performs single GET requests.
type Downloader struct {
	client *http.Client
}

// New creates a Downloader. A nil client gets a 10 minute timeout.
func New(client *http.Client) *Downloader {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Minute}
	}
	return &Downloader{client: client}
}

// Filename derives a local file name from the last path segment of rawURL.
func Filename(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return FallbackName
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" {
		return FallbackName
	}
	return name
}

// Download fetches rawURL and writes it to dest. When dest is empty the name
// comes from Filename. The body is streamed into a temporary file next to
// dest which is renamed into place only after the copy succeeds.
func (d *Downloader) Download(ctx context.Context, rawURL, dest string) (Result, error) {
	if dest == "" {
		dest = Filename(rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Result{}, fmt.Errorf("invalid url %q: %w", rawURL, err)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("get %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Result{}, fmt.Errorf("get %s: unexpected status %s", rawURL, resp.Status)
	}

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".errand-*.part")
	if err != nil {
		return Result{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	n, err := io.Copy(tmp, resp.Body)
	if err != nil {
		cleanup()
		return Result{}, fmt.Errorf("read body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return Result{}, fmt.Errorf("write %s: %w", dest, err)
	}
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return Result{}, fmt.Errorf("save %s: %w", dest, err)
	}

	return Result{Path: dest, Bytes: n, ContentType: resp.Header.Get("Content-Type")}, nil
}
