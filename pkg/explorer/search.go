package explorer

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/aretw0/errand/pkg/domain"
	"golang.org/x/text/cases"
)

// contentExtensions lists the file types whose text is searched when
// content search is enabled. Extensions are compared as written.
var contentExtensions = map[string]bool{
	".txt":  true,
	".py":   true,
	".js":   true,
	".html": true,
	".css":  true,
	".md":   true,
	".json": true,
}

// maxContentSize bounds how much of a file is read for content search.
const maxContentSize = 10 << 20

// Search walks dir and returns every directory or file whose name contains
// query, ignoring case. With inContent, text files whose content contains
// query match as well.
func (e *Explorer) Search(ctx context.Context, dir, query string, inContent bool) ([]domain.FileInfo, error) {
	if strings.TrimSpace(query) == "" {
		return nil, domain.ErrEmptyQuery
	}
	root, err := e.Resolve(dir)
	if err != nil {
		return nil, err
	}

	fold := cases.Fold()
	needle := fold.String(query)
	results := []domain.FileInfo{}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories are skipped, not fatal.
			if d != nil && d.IsDir() && path != root {
				return fs.SkipDir
			}
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if path == root {
			return nil
		}

		match := strings.Contains(fold.String(d.Name()), needle)
		if !match && inContent && !d.IsDir() && contentExtensions[filepath.Ext(path)] {
			match = contentContains(path, needle, fold)
		}
		if !match {
			return nil
		}

		fi, err := d.Info()
		if err != nil {
			return nil
		}
		results = append(results, fileInfo(path, fi))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", root, err)
	}
	return results, nil
}

func contentContains(path, needle string, fold cases.Caser) bool {
	fi, err := os.Stat(path)
	if err != nil || fi.Size() > maxContentSize {
		return false
	}
	data, err := os.ReadFile(path)
	if err != nil || !utf8.Valid(data) {
		return false
	}
	return strings.Contains(fold.String(string(data)), needle)
}
