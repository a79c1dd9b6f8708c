/*
registry.go - In-memory award registry

PURPOSE:

	Holds the current set of known awards and answers lookups by code.
	Seed awards are added at process start; ingested awards are upserted
	as they arrive.

UPSERT CONTRACT:
  - Empty code: rejected with ErrEmptyCode
  - Existing code: award replaced wholesale, list position kept
  - New code: appended
  - No other validation (see ingest/parse.go for the optional strict stage)

WRITE-THROUGH:

	When a Store is attached, Upsert persists first. A failed save leaves
	the in-memory set untouched, so a failed ingestion never alters state.

CHANGE LISTENERS:

	OnChange registers callbacks run after each successful upsert. The
	calculator sessions use this to re-derive their classification when
	the active award changes.

CONCURRENCY:

	RWMutex guarded. Concurrent upserts of the same code: last write wins.
*/
package award

import (
	"context"
	"fmt"
	"slices"
	"sync"
)

// Registry is the owned store of known awards.
type Registry struct {
	// writeMu serializes upserts so the store, the in-memory set and the
	// listeners all see the same order of writes.
	writeMu sync.Mutex

	mu     sync.RWMutex
	awards []Award
	index  map[string]int

	store     Store
	listeners []func(Award)
}

// NewRegistry creates an empty registry. store may be nil.
func NewRegistry(store Store) *Registry {
	return &Registry{
		index: make(map[string]int),
		store: store,
	}
}

// Load replaces the in-memory set with the contents of the store.
func (r *Registry) Load(ctx context.Context) error {
	if r.store == nil {
		return nil
	}
	awards, err := r.store.ListAwards(ctx)
	if err != nil {
		return fmt.Errorf("failed to load awards: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.awards = make([]Award, 0, len(awards))
	r.index = make(map[string]int, len(awards))
	for _, a := range awards {
		if a.Code == "" {
			continue
		}
		if i, ok := r.index[a.Code]; ok {
			r.awards[i] = a.Clone()
			continue
		}
		r.index[a.Code] = len(r.awards)
		r.awards = append(r.awards, a.Clone())
	}
	return nil
}

// Seed upserts each award whose code is not present yet.
// Returns the number of awards added.
func (r *Registry) Seed(ctx context.Context, awards []Award) (int, error) {
	added := 0
	for _, a := range awards {
		if _, ok := r.Find(a.Code); ok {
			continue
		}
		if err := r.Upsert(ctx, a); err != nil {
			return added, err
		}
		added++
	}
	return added, nil
}

// Upsert inserts a or replaces the award with the same code. Listeners
// run before Upsert returns and must not call Upsert themselves.
func (r *Registry) Upsert(ctx context.Context, a Award) error {
	if a.Code == "" {
		return ErrEmptyCode
	}
	a = a.Clone()

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	if r.store != nil {
		if err := r.store.SaveAward(ctx, a); err != nil {
			return fmt.Errorf("failed to save award %s: %w", a.Code, err)
		}
	}

	r.mu.Lock()
	if i, ok := r.index[a.Code]; ok {
		r.awards[i] = a
	} else {
		r.index[a.Code] = len(r.awards)
		r.awards = append(r.awards, a)
	}
	listeners := slices.Clone(r.listeners)
	r.mu.Unlock()

	for _, fn := range listeners {
		fn(a.Clone())
	}
	return nil
}

// Find returns the award with the exact code.
func (r *Registry) Find(code string) (Award, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.index[code]
	if !ok {
		return Award{}, false
	}
	return r.awards[i].Clone(), true
}

// Get is Find with a NotFoundError.
func (r *Registry) Get(code string) (Award, error) {
	a, ok := r.Find(code)
	if !ok {
		return Award{}, &NotFoundError{Code: code}
	}
	return a, nil
}

// List returns all awards in insertion order.
func (r *Registry) List() []Award {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Award, len(r.awards))
	for i, a := range r.awards {
		out[i] = a.Clone()
	}
	return out
}

// First returns the first award in insertion order, if any.
func (r *Registry) First() (Award, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if len(r.awards) == 0 {
		return Award{}, false
	}
	return r.awards[0].Clone(), true
}

// Codes returns the set of known codes.
func (r *Registry) Codes() map[string]bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]bool, len(r.index))
	for code := range r.index {
		out[code] = true
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.awards)
}

// OnChange registers fn to be called with each upserted award.
// Listeners run synchronously, in upsert order, without the read lock held.
func (r *Registry) OnChange(fn func(Award)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, fn)
}
