// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package versioned

import (
	"fmt"
	"sync"

	"github.com/tidwall/btree"
)

// Version is the position of a transaction in a batch. Higher is later.
type Version uint64

// ReadFunc fetches the base value of a cell, the value before any write of the batch.
// It must be pure: repeated calls for the same cell return the same value.
type ReadFunc[K comparable, V any] func(cell K) (V, error)

// BaseReadError is the panic value raised when the base value of a cell can not be read.
type BaseReadError struct {
	Cell  any
	Cause error
}

func (e *BaseReadError) Error() string {
	return fmt.Sprintf("versioned: read base value of %v: %v", e.Cell, e.Cause)
}

func (e *BaseReadError) Unwrap() error {
	return e.Cause
}

type write[V any] struct {
	version Version
	value   V
}

// history is the write history of one cell.
type history[V any] struct {
	mu         sync.RWMutex
	writes     *btree.BTreeG[write[V]]
	base       V
	baseLoaded bool
}

func newHistory[V any]() *history[V] {
	return &history[V]{
		writes: btree.NewBTreeGOptions(func(a, b write[V]) bool {
			return a.version < b.version
		}, btree.Options{NoLocks: true}),
	}
}

// latest returns the value of the highest write with version <= v.
func (h *history[V]) latest(v Version) (value V, found bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	h.writes.Descend(write[V]{version: v}, func(w write[V]) bool {
		value, found = w.value, true
		return false
	})
	return
}

// Storage is a multi-version store of cells of one category.
// It is safe for concurrent use, cells are locked independently.
type Storage[K comparable, V any] struct {
	read  ReadFunc[K, V]
	cells sync.Map // K -> *history[V]

	writeLabels, baseLabels, fetchLabels map[string]string
}

// New creates a Storage, base values are fetched through read.
func New[K comparable, V any](read ReadFunc[K, V]) *Storage[K, V] {
	return newStorage("", read)
}

func newStorage[K comparable, V any](kind string, read ReadFunc[K, V]) *Storage[K, V] {
	return &Storage[K, V]{
		read:        read,
		writeLabels: map[string]string{"kind": kind, "source": "write"},
		baseLabels:  map[string]string{"kind": kind, "source": "base"},
		fetchLabels: map[string]string{"kind": kind, "source": "fetch"},
	}
}

func (s *Storage[K, V]) history(cell K) *history[V] {
	if h, ok := s.cells.Load(cell); ok {
		return h.(*history[V])
	}
	h, _ := s.cells.LoadOrStore(cell, newHistory[V]())
	return h.(*history[V])
}

// Read returns the value written by the highest version <= version, or the base
// value if no such write exists. It panics with *BaseReadError if the base value
// can not be fetched.
func (s *Storage[K, V]) Read(cell K, version Version) V {
	h := s.history(cell)
	if v, ok := h.latest(version); ok {
		metricReadCounter().AddWithLabel(1, s.writeLabels)
		return v
	}

	h.mu.RLock()
	base, loaded := h.base, h.baseLoaded
	h.mu.RUnlock()
	if loaded {
		metricReadCounter().AddWithLabel(1, s.baseLabels)
		return base
	}

	v, err := s.read(cell)
	if err != nil {
		panic(&BaseReadError{Cell: cell, Cause: err})
	}
	metricReadCounter().AddWithLabel(1, s.fetchLabels)

	h.mu.Lock()
	defer h.mu.Unlock()
	if !h.baseLoaded {
		h.base, h.baseLoaded = v, true
	}
	return h.base
}

// Write records value for cell at version. A second write at the same version overwrites.
func (s *Storage[K, V]) Write(cell K, version Version, value V) {
	h := s.history(cell)

	h.mu.Lock()
	defer h.mu.Unlock()
	h.writes.Set(write[V]{version, value})
}

// Range calls fn with the latest write of every written cell, in no particular order.
// It stops when fn returns false.
func (s *Storage[K, V]) Range(fn func(cell K, version Version, value V) bool) {
	s.cells.Range(func(k, h any) bool {
		hist := h.(*history[V])
		hist.mu.RLock()
		w, ok := hist.writes.Max()
		hist.mu.RUnlock()
		if !ok {
			return true
		}
		return fn(k.(K), w.version, w.value)
	})
}
