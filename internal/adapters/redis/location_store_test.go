package redis

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
	"github.com/tourprism/tp-ui-api/internal/testutil"
)

func TestLocationStore_SaveAndGet(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocationStore(client)
	ctx := context.Background()

	loc := model.ResolvedLocation{
		City:           "Edinburgh",
		Latitude:       testutil.Float64Ptr(55.9533),
		Longitude:      testutil.Float64Ptr(-3.1883),
		AccuracyMeters: testutil.Float64Ptr(42),
		Source:         model.SourceGPSHigh,
	}

	require.NoError(t, store.Save(ctx, "sess-1", loc))

	got, err := store.Get(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, "Edinburgh", got.City)
	require.NotNil(t, got.Latitude)
	assert.InDelta(t, 55.9533, *got.Latitude, 1e-9)
	require.NotNil(t, got.AccuracyMeters)
	assert.InDelta(t, 42, *got.AccuracyMeters, 1e-9)
	assert.Equal(t, model.SourceGPSHigh, got.Source)
}

func TestLocationStore_RejectsMalformed(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocationStore(client)
	ctx := context.Background()

	// No city.
	err := store.Save(ctx, "sess-1", model.ResolvedLocation{Source: model.SourceManual})
	assert.Error(t, err)

	// Out-of-range latitude.
	err = store.Save(ctx, "sess-1", model.ResolvedLocation{
		City:      "X",
		Latitude:  testutil.Float64Ptr(120),
		Longitude: testutil.Float64Ptr(0),
	})
	assert.Error(t, err)

	// Nothing was persisted by the failed saves.
	_, err = store.Get(ctx, "sess-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestLocationStore_DeleteRemovesWholeRecord(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocationStore(client)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "sess-1", model.ResolvedLocation{City: "Glasgow", Source: model.SourceManual}))
	require.NoError(t, store.Delete(ctx, "sess-1"))

	_, err := store.Get(ctx, "sess-1")
	assert.Equal(t, ErrNotFound, err)
}

func TestLocationStore_GetMissing(t *testing.T) {
	client := setupTestRedis(t)
	defer client.Close()

	store := NewLocationStore(client)

	_, err := store.Get(context.Background(), "nope")
	assert.Equal(t, ErrNotFound, err)
	_, err = store.Get(context.Background(), "")
	assert.Equal(t, ErrNotFound, err)
}
