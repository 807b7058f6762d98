package core

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/huangsam/covevo/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProjectStoreFinalize(t *testing.T) {
	store := NewProjectStore(nil)
	assert.Equal(t, Accumulating, store.State())

	require.NoError(t, store.Add(schema.CoverageCounters{LinesToCover: 37, UncoveredLines: 13}))
	require.NoError(t, store.Add(schema.CoverageCounters{}))

	want := CoverageRatio(37, 13)
	assert.InDelta(t, 64.86486486486487, want, 1e-9)
	assert.Equal(t, want, store.Finalize())
	assert.Equal(t, want, store.Finalize())
	assert.Equal(t, Finalized, store.State())
	assert.Equal(t, schema.CoverageCounters{LinesToCover: 37, UncoveredLines: 13}, store.Totals())
}

func TestProjectStoreEmpty(t *testing.T) {
	store := NewProjectStore(nil)
	assert.Equal(t, MaxPercentage, store.Finalize())
}

func TestProjectStoreAddAfterFinalize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	store := NewProjectStore(logger)

	require.NoError(t, store.Add(schema.CoverageCounters{LinesToCover: 100, UncoveredLines: 50}))
	first := store.Finalize()

	err := store.Add(schema.CoverageCounters{LinesToCover: 100, UncoveredLines: 0})
	require.ErrorIs(t, err, ErrUpdateAfterFinalize)
	assert.Equal(t, 1, store.Violations())
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "after the total has been calculated")

	// The late counters reach the totals but not the cached ratio.
	assert.Equal(t, schema.CoverageCounters{LinesToCover: 200, UncoveredLines: 50}, store.Totals())
	assert.Equal(t, first, store.Finalize())
	assert.InDelta(t, 50.0, store.Finalize(), 1e-9)

	require.ErrorIs(t, store.Add(schema.CoverageCounters{}), ErrUpdateAfterFinalize)
	assert.Equal(t, 2, store.Violations())
}

func TestStoreStateString(t *testing.T) {
	assert.Equal(t, "accumulating", Accumulating.String())
	assert.Equal(t, "finalized", Finalized.String())
	assert.Equal(t, "unknown", StoreState(7).String())
}
