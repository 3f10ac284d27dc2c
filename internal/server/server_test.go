package server

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trove/internal/config"
	"trove/internal/storage"
	"trove/internal/storage/memstore"
)

func newTestServer(t *testing.T) (*Server, *memstore.MemStore) {
	t.Helper()
	store, err := memstore.Open(filepath.Join(t.TempDir(), "trove.json"))
	require.NoError(t, err)
	cfg := &config.Config{Port: "0", SnapshotPath: "unused"}
	s := New(cfg, store)
	t.Cleanup(func() { _ = store.Close() })
	return s, store
}

func TestHealthzReportsOK(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/healthz", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestMetricsEndpointExposed(t *testing.T) {
	s, _ := newTestServer(t)

	resp, err := s.App().Test(httptest.NewRequest("GET", "/metrics", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)
}

func TestReconcileEndpointReportsCorrections(t *testing.T) {
	s, store := newTestServer(t)
	ctx := context.Background()

	u, err := store.CreateUser(ctx, storage.NewUser{
		Username: "ops", Email: "ops@example.com", Password: "hunter2!",
	})
	require.NoError(t, err)
	cats, err := store.ListCategories(ctx)
	require.NoError(t, err)
	_, err = store.CreatePost(ctx, storage.NewPost{
		UserID: u.ID, CategoryID: cats[0].ID, Title: "t", Content: "c",
	})
	require.NoError(t, err)

	resp, err := s.App().Test(httptest.NewRequest("POST", "/admin/reconcile", nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]int
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Zero(t, body["corrections"], "a consistent store needs no fixes")
}
