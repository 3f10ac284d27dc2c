// Package memstore implements the storage facade as an embedded in-process
// entity store with file-based durability. The whole store is one snapshot
// document; every mutating operation rewrites it atomically before the
// operation is reported complete, so a crash immediately after a successful
// call never loses that mutation.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"trove/internal/models"
	"trove/internal/observability"
	"trove/internal/seed"
	"trove/internal/storage"
)

var _ storage.Storage = (*MemStore)(nil)

// MemStore is the embedded backend. A single mutex serializes every
// read-modify-persist sequence; the store has no other synchronization and
// must not be bypassed by sharing its internals.
type MemStore struct {
	mu       sync.Mutex
	path     string
	data     *snapshot
	lastGood []byte // encoding of the last successfully persisted snapshot
	log      *observability.StoreLogger
}

// Open loads the snapshot at path, or builds the built-in seed snapshot on
// first run. A corrupt snapshot is moved aside and replaced by the seed
// snapshot rather than crashing the process; the event is logged for
// operator attention.
func Open(path string) (*MemStore, error) {
	s := &MemStore{
		path: path,
		log:  observability.NewStoreLogger("memstore"),
	}

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		if err := s.initialize(); err != nil {
			return nil, err
		}
		s.log.Info("snapshot initialized", slog.String("path", path))
	case err != nil:
		return nil, fmt.Errorf("read snapshot: %w", err)
	default:
		data, decErr := decodeSnapshot(raw)
		if decErr != nil {
			serr := models.NewSerializationError(decErr)
			s.log.Error("snapshot corrupt, falling back to seed snapshot",
				slog.String("path", path), slog.String("error", serr.Error()))
			if mvErr := os.Rename(path, path+".corrupt"); mvErr != nil {
				return nil, fmt.Errorf("move corrupt snapshot aside: %w", mvErr)
			}
			if err := s.initialize(); err != nil {
				return nil, err
			}
			break
		}
		s.data = data
		s.lastGood = raw
		s.log.Info("snapshot loaded",
			slog.String("path", path),
			slog.Int("users", len(data.Users)),
			slog.Int("posts", len(data.Posts)),
			slog.Int("finds", len(data.Finds)))
	}

	return s, nil
}

// initialize builds and persists the default seed snapshot: the built-in
// category and achievement catalog with fresh identifiers.
func (s *MemStore) initialize() error {
	catalog, err := seed.LoadCatalog()
	if err != nil {
		return err
	}

	data := newSnapshot()
	now := time.Now().UTC()
	for _, c := range catalog.Categories {
		c.ID = data.nextID(kindCategories)
		c.CreatedAt = now
		c.UpdatedAt = now
		data.Categories[c.ID] = &c
	}
	for _, a := range catalog.Achievements {
		a.ID = data.nextID(kindAchievements)
		a.CreatedAt = now
		data.Achievements[a.ID] = &a
	}
	data.Initialized = true

	s.data = data
	return s.commit()
}

// commit serializes the current state and replaces the durable file. On
// write failure the in-memory state is rolled back to the last durable
// snapshot and the failure surfaces as an integrity violation, so callers
// never observe a mutation that was not made durable.
func (s *MemStore) commit() error {
	encoded, err := encodeSnapshot(s.data)
	if err != nil {
		s.rollback()
		observability.SnapshotPersistFailures.Inc()
		return models.NewIntegrityError("snapshot could not be serialized", err)
	}
	if err := writeFileAtomic(s.path, encoded); err != nil {
		s.rollback()
		observability.SnapshotPersistFailures.Inc()
		s.log.Error("snapshot persist failed, state rolled back", slog.String("error", err.Error()))
		return models.NewIntegrityError("snapshot could not be persisted", err)
	}
	s.lastGood = encoded
	observability.SnapshotPersists.Inc()
	return nil
}

func (s *MemStore) rollback() {
	if s.lastGood == nil {
		s.data = newSnapshot()
		return
	}
	if restored, err := decodeSnapshot(s.lastGood); err == nil {
		s.data = restored
	}
}

// errNoMutation is returned by a mutate callback that decided not to touch
// state (record absent, token expired). It skips the persist without
// surfacing an error to the caller.
var errNoMutation = errors.New("memstore: no mutation")

// mutate runs fn under the store lock and persists on success. fn must
// validate before touching state: once it mutates it may not fail, because
// in-memory rollback only happens on persist errors.
func (s *MemStore) mutate(kind string, fn func(d *snapshot) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := fn(s.data)
	if errors.Is(err, errNoMutation) {
		return nil
	}
	if err != nil {
		return err
	}
	observability.StorageMutations.WithLabelValues(kind).Inc()
	return s.commit()
}

// view runs fn under the store lock without persisting.
func (s *MemStore) view(fn func(d *snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.data)
}

// Ping reports whether the snapshot directory is reachable.
func (s *MemStore) Ping(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.data == nil {
		return fmt.Errorf("store not initialized")
	}
	if _, err := os.Stat(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("snapshot directory unreachable: %w", err)
	}
	return nil
}

// Close is a no-op: every mutation is already durable.
func (s *MemStore) Close() error {
	return nil
}

// collect copies every record matching pred out of table, ordered by
// ascending identifier (creation order). Records are copied so callers can
// never mutate store state through a returned value.
func collect[T any](table map[uint]*T, idOf func(*T) uint, pred func(*T) bool) []T {
	out := make([]T, 0, len(table))
	for _, rec := range table {
		if pred == nil || pred(rec) {
			out = append(out, *rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return idOf(&out[i]) < idOf(&out[j]) })
	return out
}

// countWhere counts records matching pred.
func countWhere[T any](table map[uint]*T, pred func(*T) bool) int {
	n := 0
	for _, rec := range table {
		if pred(rec) {
			n++
		}
	}
	return n
}

// deleteWhere removes every record matching pred, invoking each (may be
// nil) per deleted record. Cascade steps are built from this.
func deleteWhere[T any](table map[uint]*T, pred func(*T) bool, each func(*T)) int {
	removed := 0
	for id, rec := range table {
		if pred(rec) {
			if each != nil {
				each(rec)
			}
			delete(table, id)
			removed++
		}
	}
	return removed
}

// copyOf returns a defensive copy of a record pointer, nil-safe.
func copyOf[T any](rec *T) *T {
	if rec == nil {
		return nil
	}
	c := *rec
	return &c
}
