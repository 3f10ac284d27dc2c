package memstore

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trove/internal/storage"
)

func newTestStore(t *testing.T) *MemStore {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "trove.json"))
	require.NoError(t, err)
	return s
}

func seedUser(t *testing.T, s *MemStore, username string) uint {
	t.Helper()
	u, err := s.CreateUser(context.Background(), storage.NewUser{
		Username: username,
		Email:    username + "@example.com",
		Password: "hunter2!",
	})
	require.NoError(t, err)
	return u.ID
}

func TestOpenInitializesSeedCatalog(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	cats, err := s.ListCategories(ctx)
	require.NoError(t, err)
	assert.Len(t, cats, 6)

	achs, err := s.ListAchievements(ctx)
	require.NoError(t, err)
	assert.Len(t, achs, 7)

	general, err := s.GetCategoryBySlug(ctx, "general")
	require.NoError(t, err)
	require.NotNil(t, general)
	assert.Equal(t, "general", general.Slug)
}

func TestOpenPersistsAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.json")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	u, err := s1.CreateUser(ctx, storage.NewUser{Username: "magnet_mike", Email: "mike@example.com", Password: "pw123456"})
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	got, err := s2.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "magnet_mike", got.Username)
	// Timestamps must survive the encode/decode round trip exactly.
	assert.True(t, got.CreatedAt.Equal(u.CreatedAt), "CreatedAt changed across restart")
}

func TestIdentifiersNeverReusedAcrossRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.json")
	ctx := context.Background()

	s1, err := Open(path)
	require.NoError(t, err)
	u1, err := s1.CreateUser(ctx, storage.NewUser{Username: "a", Email: "a@example.com", Password: "pw123456"})
	require.NoError(t, err)
	u2, err := s1.CreateUser(ctx, storage.NewUser{Username: "b", Email: "b@example.com", Password: "pw123456"})
	require.NoError(t, err)
	deleted, err := s1.DeleteUser(ctx, u2.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	s2, err := Open(path)
	require.NoError(t, err)
	u3, err := s2.CreateUser(ctx, storage.NewUser{Username: "c", Email: "c@example.com", Password: "pw123456"})
	require.NoError(t, err)
	assert.Greater(t, u3.ID, u2.ID, "identifier reused after delete and restart")
	assert.Greater(t, u3.ID, u1.ID)
}

func TestOpenMovesCorruptSnapshotAside(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	s, err := Open(path)
	require.NoError(t, err)

	cats, err := s.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Len(t, cats, 6, "seed snapshot expected after corrupt file")

	_, err = os.Stat(path + ".corrupt")
	assert.NoError(t, err, "corrupt file should be preserved under .corrupt")
}

func TestOpenReadsSnapshotMissingNewerCollections(t *testing.T) {
	// A snapshot written before a collection existed must still load, with
	// the absent collections usable.
	path := filepath.Join(t.TempDir(), "trove.json")
	old := map[string]any{
		"initialized": true,
		"counters":    map[string]uint{"users": 1},
		"users": map[string]any{
			"1": map[string]any{
				"id": 1, "username": "og", "email": "og@example.com", "password": "x",
				"createdAt": "2024-03-01T10:00:00Z", "updatedAt": "2024-03-01T10:00:00Z",
			},
		},
	}
	raw, err := json.Marshal(old)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	s, err := Open(path)
	require.NoError(t, err)
	ctx := context.Background()

	u, err := s.GetUser(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "og", u.Username)

	// Writing into a collection the old snapshot never mentioned works.
	_, err = s.CreateStory(ctx, storage.NewStory{UserID: 1, Title: "first dig", Content: "..."})
	require.NoError(t, err)
}

func TestMutationIsDurableBeforeReturn(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	u, err := s.CreateUser(ctx, storage.NewUser{Username: "durable", Email: "d@example.com", Password: "pw123456"})
	require.NoError(t, err)

	// Re-open from disk without closing: the create must already be there.
	s2, err := Open(path)
	require.NoError(t, err)
	got, err := s2.GetUser(ctx, u.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
}

func TestPersistFailureRollsBackAndReportsIntegrity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "rollback")

	// Point the store at an unwritable path so the next commit fails.
	s.mu.Lock()
	s.path = filepath.Join(t.TempDir(), "missing", "sub", "\x00bad")
	s.mu.Unlock()

	_, err := s.CreateUser(ctx, storage.NewUser{Username: "ghost", Email: "g@example.com", Password: "pw123456"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persisted")

	// In-memory state rolled back: the failed create is invisible.
	ghost, gerr := s.GetUserByUsername(ctx, "ghost")
	require.NoError(t, gerr)
	assert.Nil(t, ghost)

	// Pre-existing state survived the rollback.
	u, gerr := s.GetUser(ctx, id)
	require.NoError(t, gerr)
	require.NotNil(t, u)
}

func TestNoOpMutationsDoNotRewriteSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trove.json")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	before, err := os.Stat(path)
	require.NoError(t, err)

	// Deleting a record that does not exist must not touch the file.
	ok, err := s.DeleteStory(ctx, 9999)
	require.NoError(t, err)
	assert.False(t, ok)

	after, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

func TestPingChecksSnapshotDirectory(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "data")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	s, err := Open(filepath.Join(nested, "trove.json"))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, s.Ping(ctx))

	require.NoError(t, os.RemoveAll(nested))
	assert.Error(t, s.Ping(ctx))
}
