// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/vechain/l2exec/stackedmap"
	"github.com/vechain/l2exec/stark"
)

// Cached is a scoped transaction over a parent State.
// Reads fall back to the parent, writes are buffered until Commit or Abort,
// which both end the scope.
type Cached struct {
	parent State
	sm     *stackedmap.StackedMap[any, any]
	done   bool
}

var _ State = (*Cached)(nil)

// NewCached begins a new overlay on parent.
func NewCached(parent State) *Cached {
	c := &Cached{parent: parent}
	c.sm = stackedmap.New[any, any](c.parentGetter)
	c.sm.Push()
	return c
}

// parentGetter implements stackedmap.MapGetter.
func (c *Cached) parentGetter(key any) (value any, exist bool, err error) {
	switch k := key.(type) {
	case storageKey:
		v, err := c.parent.GetStorageAt(k.Address, k.Key)
		return v, true, err
	case nonceKey:
		v, err := c.parent.GetNonceAt(stark.Address(k))
		return v, true, err
	case classHashKey:
		v, err := c.parent.GetClassHashAt(stark.Address(k))
		return v, true, err
	case compiledClassHashKey:
		v, err := c.parent.GetCompiledClassHash(stark.ClassHash(k))
		return v, true, err
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

func getAs[T any](c *Cached, key any) (T, error) {
	v, _, err := c.sm.Get(key)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

func (c *Cached) put(key, value any) {
	if c.done {
		panic("state: write to a finished overlay")
	}
	c.sm.Put(key, value)
}

func (c *Cached) GetStorageAt(addr stark.Address, key stark.StorageKey) (stark.Felt, error) {
	return getAs[stark.Felt](c, storageKey{addr, key})
}

func (c *Cached) GetNonceAt(addr stark.Address) (stark.Nonce, error) {
	return getAs[stark.Nonce](c, nonceKey(addr))
}

func (c *Cached) GetClassHashAt(addr stark.Address) (stark.ClassHash, error) {
	return getAs[stark.ClassHash](c, classHashKey(addr))
}

func (c *Cached) GetCompiledClassHash(classHash stark.ClassHash) (stark.CompiledClassHash, error) {
	return getAs[stark.CompiledClassHash](c, compiledClassHashKey(classHash))
}

func (c *Cached) SetStorageAt(addr stark.Address, key stark.StorageKey, value stark.Felt) error {
	c.put(storageKey{addr, key}, value)
	return nil
}

func (c *Cached) IncrementNonce(addr stark.Address) error {
	return incrementNonce(c, addr)
}

func (c *Cached) SetNonce(addr stark.Address, nonce stark.Nonce) error {
	c.put(nonceKey(addr), nonce)
	return nil
}

func (c *Cached) SetClassHashAt(addr stark.Address, classHash stark.ClassHash) error {
	c.put(classHashKey(addr), classHash)
	return nil
}

func (c *Cached) SetCompiledClassHash(classHash stark.ClassHash, compiled stark.CompiledClassHash) error {
	c.put(compiledClassHashKey(classHash), compiled)
	return nil
}

// Commit replays buffered writes into the parent in write order and ends the scope.
// A parent DB receives them in one batch, so a failed commit leaves it untouched.
func (c *Cached) Commit() error {
	if c.done {
		panic("state: commit a finished overlay")
	}
	c.done = true
	defer c.sm.PopTo(0)

	if b, ok := c.parent.(batcher); ok {
		return b.writeBatch(c.replay)
	}
	return c.replay(c.parent)
}

func (c *Cached) replay(dst setter) error {
	var err error
	c.sm.Journal(func(k, v any) bool {
		switch key := k.(type) {
		case storageKey:
			err = dst.SetStorageAt(key.Address, key.Key, v.(stark.Felt))
		case nonceKey:
			err = dst.SetNonce(stark.Address(key), v.(stark.Nonce))
		case classHashKey:
			err = dst.SetClassHashAt(stark.Address(key), v.(stark.ClassHash))
		case compiledClassHashKey:
			err = dst.SetCompiledClassHash(stark.ClassHash(key), v.(stark.CompiledClassHash))
		}
		return err == nil
	})
	return err
}

// Abort drops buffered writes and ends the scope.
func (c *Cached) Abort() {
	if c.done {
		return
	}
	c.done = true
	c.sm.PopTo(0)
}

// Changes reports the net writes of the overlay. Writes that leave a
// value equal to the parent's are not counted.
func (c *Cached) Changes() (*StateChanges, error) {
	changes := NewStateChanges()

	var err error
	seen := make(map[any]struct{})
	c.sm.Journal(func(k, _ any) bool {
		if _, ok := seen[k]; ok {
			return true
		}
		seen[k] = struct{}{}

		var cur, orig any
		if cur, _, err = c.sm.Get(k); err != nil {
			return false
		}
		if orig, _, err = c.parentGetter(k); err != nil {
			return false
		}
		if cur == orig {
			return true
		}
		switch key := k.(type) {
		case storageKey:
			changes.Storage[StorageCell(key)] = cur.(stark.Felt)
		case nonceKey:
			changes.Nonces[stark.Address(key)] = cur.(stark.Nonce)
		case classHashKey:
			changes.ClassHashes[stark.Address(key)] = cur.(stark.ClassHash)
		case compiledClassHashKey:
			changes.CompiledClassHashes[stark.ClassHash(key)] = cur.(stark.CompiledClassHash)
		}
		return true
	})
	if err != nil {
		return nil, err
	}
	return changes, nil
}
