package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/Jhuly1215/SimulacionInvasores/internal/domain/raster"
	"github.com/Jhuly1215/SimulacionInvasores/pkg/errors"
)

// MemoryStore is an in-memory raster.Store.  Grids are cloned on the way in
// and out.
type MemoryStore struct {
	mu    sync.Mutex
	grids map[string]*raster.Grid
	puts  []string

	// PutErr, when set, is returned by Put for the matching id.
	PutErr func(id string) error
}

// NewMemoryStore returns a store seeded with grids.
func NewMemoryStore(grids map[string]*raster.Grid) *MemoryStore {
	s := &MemoryStore{grids: make(map[string]*raster.Grid, len(grids))}
	for k, g := range grids {
		s.grids[k] = g.Clone()
	}
	return s
}

func (s *MemoryStore) Open(ctx context.Context, key string) (*raster.Grid, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[key]
	if !ok {
		return nil, errors.NotFound("raster not found").WithDetail("key=" + key)
	}
	return g.Clone(), nil
}

func (s *MemoryStore) Put(ctx context.Context, id string, g *raster.Grid) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.PutErr != nil {
		if err := s.PutErr(id); err != nil {
			return err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.grids[id] = g.Clone()
	s.puts = append(s.puts, id)
	return nil
}

// Get returns the stored grid without cloning.
func (s *MemoryStore) Get(id string) (*raster.Grid, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, ok := s.grids[id]
	return g, ok
}

// Puts returns the ids written, in call order.
func (s *MemoryStore) Puts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.puts...)
}

// Keys returns every stored key, sorted.
func (s *MemoryStore) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]string, 0, len(s.grids))
	for k := range s.grids {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

//Personal.AI order the ending
