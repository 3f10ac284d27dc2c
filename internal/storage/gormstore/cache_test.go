package gormstore

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"trove/internal/cache"
	"trove/internal/storage"
)

func newCachedTestStore(t *testing.T) (*GormStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	s, err := New(db, c)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s, mr
}

func TestGetUserPopulatesCache(t *testing.T) {
	s, mr := newCachedTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "cached")

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.True(t, mr.Exists(cache.UserKey(id)))

	// Serve from the cache even if the row disappears underneath.
	require.NoError(t, s.db.Exec("DELETE FROM users WHERE id = ?", id).Error)
	u, err = s.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "cached", u.Username)
}

func TestUpdateUserInvalidatesCache(t *testing.T) {
	s, mr := newCachedTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "stale")

	_, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserKey(id)))

	bio := "found my first cartwheel penny"
	_, err = s.UpdateUser(ctx, id, storage.UpdateUser{Bio: &bio})
	require.NoError(t, err)
	assert.False(t, mr.Exists(cache.UserKey(id)), "update must drop the cached record")

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, bio, u.Bio)
}

func TestDeleteUserInvalidatesCache(t *testing.T) {
	s, mr := newCachedTestStore(t)
	ctx := context.Background()
	id := seedUser(t, s, "gone")

	_, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	require.True(t, mr.Exists(cache.UserKey(id)))

	ok, err := s.DeleteUser(ctx, id)
	require.NoError(t, err)
	require.True(t, ok)
	assert.False(t, mr.Exists(cache.UserKey(id)))

	u, err := s.GetUser(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestGetUserMissIsNotNegativelyCached(t *testing.T) {
	s, mr := newCachedTestStore(t)
	ctx := context.Background()

	u, err := s.GetUser(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, u)
	assert.False(t, mr.Exists(cache.UserKey(9999)))
}
