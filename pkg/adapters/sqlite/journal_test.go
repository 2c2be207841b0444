package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/adapters/sqlite"
	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openJournal(t *testing.T) *sqlite.Journal {
	t.Helper()
	j, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })
	return j
}

func TestJournal_Contract(t *testing.T) {
	ports.RunJournalContract(t, openJournal(t))
}

func TestJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, domain.Record{
		ID: "a", Errand: "download", Status: domain.StatusOK, StartedAt: time.Now(),
	}))
	require.NoError(t, j.Close())

	j, err = sqlite.Open(path)
	require.NoError(t, err)
	defer j.Close()

	got, err := j.Recent(ctx, "download", 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}

func TestJournal_DuplicateID(t *testing.T) {
	j := openJournal(t)
	ctx := context.Background()
	r := domain.Record{ID: "dup", Errand: "ram", Status: domain.StatusOK, StartedAt: time.Now()}

	require.NoError(t, j.Append(ctx, r))
	assert.Error(t, j.Append(ctx, r))
}
