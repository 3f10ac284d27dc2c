package seed_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trove/internal/seed"
	"trove/internal/storage"
	"trove/internal/storage/memstore"
)

func TestLoadCatalog(t *testing.T) {
	c, err := seed.LoadCatalog()
	require.NoError(t, err)

	assert.Len(t, c.Categories, 6)
	assert.Len(t, c.Achievements, 7)

	slugs := make(map[string]bool, len(c.Categories))
	for _, cat := range c.Categories {
		assert.NotEmpty(t, cat.Name)
		assert.NotEmpty(t, cat.Slug)
		assert.False(t, slugs[cat.Slug], "duplicate slug %q", cat.Slug)
		slugs[cat.Slug] = true
		assert.Zero(t, cat.ID, "catalog entries carry no identifiers")
	}
	assert.True(t, slugs["general"])

	for _, a := range c.Achievements {
		assert.NotEmpty(t, a.Name)
		assert.Positive(t, a.Points)
	}
}

func TestDemoSeedsThroughFacade(t *testing.T) {
	store, err := memstore.Open(filepath.Join(t.TempDir(), "trove.json"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	require.NoError(t, seed.Demo(ctx, store, seed.Options{NumUsers: 4, NumPosts: 6, NumFinds: 3}))

	users, err := store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 4)

	posts, err := store.ListPosts(ctx, storage.PostFilter{})
	require.NoError(t, err)
	assert.Len(t, posts, 6)

	finds, err := store.ListFinds(ctx, storage.FindFilter{})
	require.NoError(t, err)
	assert.Len(t, finds, 3)

	// Everything went through the public operations, so counters are clean.
	fixes, err := store.ReconcileAllCounters(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixes)
}
