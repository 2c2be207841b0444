package explorer_test

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func names(entries []domain.FileInfo) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Name)
	}
	sort.Strings(out)
	return out
}

func TestSearch(t *testing.T) {
	ctx := context.Background()
	ex := newExplorer(t)
	root := ex.Root()
	writeFile(t, filepath.Join(root, "Reports", "q1.txt"), "quarterly numbers")
	writeFile(t, filepath.Join(root, "notes", "report-draft.md"), "nothing here")
	writeFile(t, filepath.Join(root, "notes", "meeting.md"), "Discuss the REPORT tomorrow")
	writeFile(t, filepath.Join(root, "notes", "binary.bin"), "report")
	writeFile(t, filepath.Join(root, "notes", "latin.txt"), "\xff\xfe report")

	t.Run("names only", func(t *testing.T) {
		got, err := ex.Search(ctx, "", "REPORT", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"Reports", "report-draft.md"}, names(got))
	})

	t.Run("with content", func(t *testing.T) {
		got, err := ex.Search(ctx, "", "report", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"Reports", "meeting.md", "report-draft.md"}, names(got))
	})

	t.Run("content extensions are case-sensitive", func(t *testing.T) {
		writeFile(t, filepath.Join(root, "upper", "SHOUT.TXT"), "needle")
		writeFile(t, filepath.Join(root, "upper", "quiet.txt"), "needle")

		got, err := ex.Search(ctx, "upper", "needle", true)
		require.NoError(t, err)
		assert.Equal(t, []string{"quiet.txt"}, names(got))
	})

	t.Run("scoped to directory", func(t *testing.T) {
		got, err := ex.Search(ctx, "Reports", "q1", false)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, filepath.Join(root, "Reports", "q1.txt"), got[0].Path)
	})

	t.Run("empty query", func(t *testing.T) {
		_, err := ex.Search(ctx, "", "  ", false)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})

	t.Run("outside root", func(t *testing.T) {
		_, err := ex.Search(ctx, "..", "x", false)
		assert.ErrorIs(t, err, domain.ErrOutsideRoot)
	})
}
