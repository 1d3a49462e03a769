package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/waypoint/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunReportStoreContract runs a suite of tests to verify that a ReportStore
// implementation adheres to the defined interface contract.
func RunReportStoreContract(t *testing.T, store ReportStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		report := &domain.RunReport{
			Initial:     "init",
			Final:       "landing",
			Path:        []string{"init", "login", "landing"},
			Transitions: 2,
			Elapsed:     1500 * time.Millisecond,
			Terminated:  true,
		}

		require.NoError(t, store.Save(ctx, sessionID, report), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, report, loaded)

		// Mutating the loaded copy must not affect the store.
		loaded.Path[0] = "mutated"
		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "init", again.Path[0])
	})

	t.Run("Overwrite", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, &domain.RunReport{Initial: "init", Final: "login"}))
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "login", loaded.Final)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Delete(ctx, sessionID))
		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-session")
		assert.ErrorIs(t, err, domain.ErrReportNotFound)
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, id1, &domain.RunReport{Initial: "init"}))
		require.NoError(t, store.Save(ctx, id2, &domain.RunReport{Initial: "init"}))
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
