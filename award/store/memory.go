// Package store provides award.Store implementations.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/fairpay/award-engine/award"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	awards []award.Award
	index  map[string]int

	// FailSaves makes every SaveAward fail. Used to exercise write-through rollback.
	FailSaves bool
}

// ErrSaveFailed is returned by SaveAward when FailSaves is set.
var ErrSaveFailed = errors.New("memory store: save failed")

func NewMemory() *Memory {
	return &Memory{index: make(map[string]int)}
}

// SaveAward inserts or replaces in place.
func (m *Memory) SaveAward(_ context.Context, a award.Award) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.FailSaves {
		return ErrSaveFailed
	}
	if i, ok := m.index[a.Code]; ok {
		m.awards[i] = a.Clone()
		return nil
	}
	m.index[a.Code] = len(m.awards)
	m.awards = append(m.awards, a.Clone())
	return nil
}

func (m *Memory) ListAwards(_ context.Context) ([]award.Award, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]award.Award, len(m.awards))
	for i, a := range m.awards {
		result[i] = a.Clone()
	}
	return result, nil
}

var _ award.Store = (*Memory)(nil)
