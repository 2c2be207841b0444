package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore implementation
// adheres to the defined interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		session := domain.NewSession(sessionID, "/srv/files")
		session.CopySource = "/srv/files/report.pdf"
		session.Arm("/srv/files/old")

		err := store.Save(ctx, session)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, session.CurrentPath, loaded.CurrentPath)
		assert.Equal(t, session.CopySource, loaded.CopySource)
		assert.True(t, loaded.IsArmed("/srv/files/old"))
	})

	t.Run("Load is isolated from caller mutations", func(t *testing.T) {
		session := domain.NewSession(sessionID, "/srv")
		require.NoError(t, store.Save(ctx, session))

		session.CurrentPath = "/mutated"
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "/srv", loaded.CurrentPath)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, domain.NewSession(sessionID, "/"))
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, domain.NewSession(id1, "/"))
		_ = store.Save(ctx, domain.NewSession(id2, "/"))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunLockerContract verifies mutual exclusion and release semantics of a Locker.
func RunLockerContract(t *testing.T, locker Locker) {
	ctx := context.Background()

	t.Run("Lock and Unlock", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-a", time.Second)
		require.NoError(t, err)
		require.NoError(t, unlock(ctx))

		unlock, err = locker.Lock(ctx, "contract-a", time.Second)
		require.NoError(t, err, "lock should be reacquirable after unlock")
		require.NoError(t, unlock(ctx))
	})

	t.Run("Held lock blocks until context is done", func(t *testing.T) {
		unlock, err := locker.Lock(ctx, "contract-b", 5*time.Second)
		require.NoError(t, err)
		defer func() { _ = unlock(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
		defer cancel()

		_, err = locker.Lock(waitCtx, "contract-b", time.Second)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("Distinct keys do not contend", func(t *testing.T) {
		u1, err := locker.Lock(ctx, "contract-c1", time.Second)
		require.NoError(t, err)
		defer func() { _ = u1(ctx) }()

		waitCtx, cancel := context.WithTimeout(ctx, time.Second)
		defer cancel()
		u2, err := locker.Lock(waitCtx, "contract-c2", time.Second)
		require.NoError(t, err)
		_ = u2(ctx)
	})
}

// RunJournalContract verifies ordering and filtering of a Journal.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	records := []domain.Record{
		{ID: "r1", Errand: "sms", Status: domain.StatusOK, Detail: "SM1", StartedAt: base, Duration: time.Second},
		{ID: "r2", Errand: "ram", Status: domain.StatusOK, StartedAt: base.Add(time.Minute), Duration: 10 * time.Millisecond},
		{ID: "r3", Errand: "sms", Status: domain.StatusError, Detail: "unauthorized", StartedAt: base.Add(2 * time.Minute)},
	}
	for _, r := range records {
		require.NoError(t, journal.Append(ctx, r))
	}

	t.Run("Recent is newest first", func(t *testing.T) {
		got, err := journal.Recent(ctx, "", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "r3", got[0].ID)
		assert.Equal(t, "r1", got[2].ID)
		assert.Equal(t, time.Second, got[2].Duration)
		assert.True(t, base.Equal(got[2].StartedAt))
	})

	t.Run("Filter by errand", func(t *testing.T) {
		got, err := journal.Recent(ctx, "sms", 10)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, domain.StatusError, got[0].Status)
		assert.Equal(t, "unauthorized", got[0].Detail)
	})

	t.Run("Limit", func(t *testing.T) {
		got, err := journal.Recent(ctx, "", 1)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}
