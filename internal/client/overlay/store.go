// Package overlay implements the local overlay the directory client layers
// on top of the remote API: records created, patched or deleted on this
// machine, persisted across restarts, merged into every read so the
// directory feels persistent even though the backend is not.
package overlay

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/dmitrijs2005/dirkeeper/internal/client/models"
	"github.com/dmitrijs2005/dirkeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/dirkeeper/internal/dbx"
	"github.com/dmitrijs2005/dirkeeper/internal/logging"
)

// Store is the overlay content. An id lives in at most one of Created and
// Deleted; a deleted id never carries a patch.
type Store struct {
	// Patches maps entity id to the accumulated partial update applied
	// over whatever the remote API returns for that id.
	Patches map[int64]models.UserPatch `json:"patches"`
	// Created maps client-generated id to a full entity that exists only
	// locally and is never fetched remotely.
	Created map[int64]models.User `json:"created"`
	// Deleted lists ids this client considers removed, regardless of
	// remote state.
	Deleted []int64 `json:"deleted"`
}

// NewStore returns an empty overlay.
func NewStore() Store {
	return Store{
		Patches: make(map[int64]models.UserPatch),
		Created: make(map[int64]models.User),
		Deleted: []int64{},
	}
}

// IsDeleted reports whether id is locally deleted.
func (s Store) IsDeleted(id int64) bool {
	for _, d := range s.Deleted {
		if d == id {
			return true
		}
	}
	return false
}

func (s *Store) addCreated(u models.User) {
	s.Created[u.ID] = u
}

func (s *Store) addPatch(id int64, p models.UserPatch) {
	s.Patches[id] = MergePatch(s.Patches[id], p)
}

// markDeleted removes any local trace of id and records the deletion.
// Deleting a locally created entity drops it from Created instead of
// tombstoning it twice. Idempotent.
func (s *Store) markDeleted(id int64) {
	delete(s.Created, id)
	delete(s.Patches, id)
	if !s.IsDeleted(id) {
		s.Deleted = append(s.Deleted, id)
	}
}

// now is a test seam for the local id generator.
var now = time.Now

// NewLocalID generates a client-side id for a created entity: the current
// millisecond timestamp, bumped while it collides with an already created
// id. Server ids are small integers, so collisions with remote entities do
// not occur in practice; there is no stronger uniqueness guarantee.
func NewLocalID(s Store) int64 {
	id := now().UnixMilli()
	for {
		if _, taken := s.Created[id]; !taken {
			return id
		}
		id++
	}
}

// Service persists the overlay as a single JSON blob in the metadata table,
// read-modify-written whole inside one transaction per mutation.
//
// Failure policy: reads fall back to the empty overlay, writes are
// best-effort. The caller must never be blocked or failed by persistence;
// a lost write costs durability, not correctness of the current operation.
type Service struct {
	db  *sql.DB
	log logging.Logger
}

// NewService returns a Service bound to the given database handle.
func NewService(db *sql.DB, log logging.Logger) *Service {
	return &Service{db: db, log: log.With("component", "overlay")}
}

// Read returns the current overlay. A missing or corrupt persisted blob
// yields the empty default; Read never fails.
func (s *Service) Read(ctx context.Context) Store {
	repo := metadata.NewSQLiteRepository(s.db)
	return s.decode(ctx, func() ([]byte, error) { return repo.Get(ctx, metadata.KeyOverlay) })
}

func (s *Service) decode(ctx context.Context, get func() ([]byte, error)) Store {
	raw, err := get()
	if err != nil {
		s.log.Warn(ctx, "overlay read failed, using empty overlay", "error", err)
		return NewStore()
	}
	if len(raw) == 0 {
		return NewStore()
	}
	store := NewStore()
	if err := json.Unmarshal(raw, &store); err != nil {
		s.log.Warn(ctx, "overlay blob corrupt, using empty overlay", "error", err)
		return NewStore()
	}
	if store.Patches == nil {
		store.Patches = make(map[int64]models.UserPatch)
	}
	if store.Created == nil {
		store.Created = make(map[int64]models.User)
	}
	if store.Deleted == nil {
		store.Deleted = []int64{}
	}
	return store
}

// Write persists the overlay. Failures are logged and swallowed.
func (s *Service) Write(ctx context.Context, store Store) {
	raw, err := json.Marshal(store)
	if err != nil {
		s.log.Warn(ctx, "overlay encode failed, write skipped", "error", err)
		return
	}
	repo := metadata.NewSQLiteRepository(s.db)
	if err := repo.Set(ctx, metadata.KeyOverlay, raw); err != nil {
		s.log.Warn(ctx, "overlay write failed", "error", err)
	}
}

// mutate runs fn against the current overlay and persists the result in one
// transaction, returning the mutated overlay. Persistence failures are
// swallowed: the returned value always reflects the mutation.
func (s *Service) mutate(ctx context.Context, fn func(*Store)) Store {
	var result Store

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		store := s.decode(ctx, func() ([]byte, error) { return repo.Get(ctx, metadata.KeyOverlay) })
		fn(&store)
		result = store

		raw, err := json.Marshal(store)
		if err != nil {
			return err
		}
		return repo.Set(ctx, metadata.KeyOverlay, raw)
	})
	if err != nil {
		s.log.Warn(ctx, "overlay mutation not persisted", "error", err)
		// the in-memory result still applies; fall back to a fresh copy
		if result.Patches == nil {
			result = NewStore()
			fn(&result)
		}
	}
	return result
}

// AddCreated inserts (or overwrites) a locally created entity.
func (s *Service) AddCreated(ctx context.Context, u models.User) Store {
	return s.mutate(ctx, func(st *Store) { st.addCreated(u) })
}

// AddPatch deep-merges p onto the accumulated patch for id.
func (s *Service) AddPatch(ctx context.Context, id int64, p models.UserPatch) Store {
	return s.mutate(ctx, func(st *Store) { st.addPatch(id, p) })
}

// MarkDeleted records a local deletion of id. Idempotent.
func (s *Service) MarkDeleted(ctx context.Context, id int64) Store {
	return s.mutate(ctx, func(st *Store) { st.markDeleted(id) })
}
