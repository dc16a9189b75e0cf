package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/commercekit/order-orchestrator/internal/coordinator/runlog"
)

func TestRepository_SaveAndList(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "runlog.db"))
	require.NoError(t, err)
	defer repo.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	entries := []*runlog.Entry{
		{RunID: "corr-1", Status: runlog.StatusStarted, UpdatedAt: now},
		{RunID: "corr-1", Status: runlog.StatusStepDone, Step: "customer_precheck", UpdatedAt: now.Add(time.Millisecond)},
		{RunID: "corr-1", Status: runlog.StatusFailed, Step: "create_order", Error: "upstream status 503", UpdatedAt: now.Add(2 * time.Millisecond)},
		{RunID: "corr-2", Status: runlog.StatusStarted, UpdatedAt: now},
	}
	for _, e := range entries {
		require.NoError(t, repo.Save(ctx, e))
	}

	got, err := repo.ListByRun(ctx, "corr-1")
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, runlog.StatusStarted, got[0].Status)
	assert.Equal(t, runlog.StatusStepDone, got[1].Status)
	assert.Equal(t, "customer_precheck", got[1].Step)
	assert.Equal(t, runlog.StatusFailed, got[2].Status)
	assert.Equal(t, "upstream status 503", got[2].Error)
}

func TestRepository_ListUnknownRunIsEmpty(t *testing.T) {
	repo, err := Open(filepath.Join(t.TempDir(), "runlog.db"))
	require.NoError(t, err)
	defer repo.Close()

	got, err := repo.ListByRun(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, got)
}
