// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package versioned_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/l2exec/kv"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/versioned"
)

var (
	alice = stark.MustParseAddress("0xa11ce")
	bob   = stark.MustParseAddress("0xb0b")
	slot  = stark.StorageKey(stark.FeltFromUint64(5))
)

func newBase(t *testing.T) *state.DB {
	store, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return state.NewDB(store)
}

func TestStateDispatch(t *testing.T) {
	base := newBase(t)
	require.NoError(t, base.SetStorageAt(alice, slot, stark.FeltFromUint64(1)))
	require.NoError(t, base.SetNonce(alice, stark.NewNonce(9)))

	s := versioned.NewState(base)

	cell := versioned.StorageCell{Address: alice, Key: slot}
	assert.Equal(t, stark.FeltFromUint64(1), versioned.Read(s, versioned.ContractStorage, cell, 0))
	versioned.Write(s, versioned.ContractStorage, cell, 2, stark.FeltFromUint64(2))
	assert.Equal(t, stark.FeltFromUint64(2), s.GetStorageAt(alice, slot, 3))
	assert.Equal(t, stark.FeltFromUint64(1), s.GetStorageAt(alice, slot, 1))

	assert.Equal(t, stark.NewNonce(9), versioned.Read(s, versioned.Nonce, alice, 0))
	s.SetNonceAt(alice, 1, stark.NewNonce(10))
	assert.Equal(t, stark.NewNonce(10), s.GetNonceAt(alice, 1))
	assert.True(t, s.GetNonceAt(bob, 1).IsZero())

	ch := stark.ClassHash(stark.FeltFromUint64(0xc1))
	versioned.Write(s, versioned.ClassHash, bob, 4, ch)
	assert.Equal(t, ch, s.GetClassHashAt(bob, 4))
	assert.True(t, s.GetClassHashAt(bob, 3).IsZero())

	cch := stark.CompiledClassHash(stark.FeltFromUint64(0xcc))
	s.SetCompiledClassHash(ch, 0, cch)
	assert.Equal(t, cch, versioned.Read(s, versioned.CompiledClassHash, ch, 0))

	assert.Equal(t, "storage", versioned.ContractStorage.String())
	assert.Equal(t, "compiled_class_hash", versioned.CompiledClassHash.String())

	// the base is never written
	v, err := base.GetStorageAt(alice, slot)
	require.NoError(t, err)
	assert.Equal(t, stark.FeltFromUint64(1), v)
}

func TestView(t *testing.T) {
	base := newBase(t)
	require.NoError(t, base.SetNonce(alice, stark.NewNonce(5)))
	s := versioned.NewState(base)

	v0 := s.View(0)
	require.NoError(t, v0.IncrementNonce(alice))
	require.NoError(t, v0.SetStorageAt(alice, slot, stark.FeltFromUint64(3)))

	v1 := s.View(1)
	n, err := v1.GetNonceAt(alice)
	require.NoError(t, err)
	assert.Equal(t, stark.NewNonce(6), n, "later view observes earlier writes")

	require.NoError(t, v1.IncrementNonce(alice))
	n, err = v0.GetNonceAt(alice)
	require.NoError(t, err)
	assert.Equal(t, stark.NewNonce(6), n, "earlier view never observes later writes")

	// a view composes with the overlay used by the runtime
	c := state.NewCached(v1)
	require.NoError(t, c.SetStorageAt(alice, slot, stark.FeltFromUint64(4)))
	require.NoError(t, c.Commit())
	got, err := s.View(1).GetStorageAt(alice, slot)
	require.NoError(t, err)
	assert.Equal(t, stark.FeltFromUint64(4), got)
	assert.Equal(t, versioned.Version(1), v1.Version())
}

func TestApply(t *testing.T) {
	base := newBase(t)
	s := versioned.NewState(base)

	s.SetStorageAt(alice, slot, 0, stark.FeltFromUint64(1))
	s.SetStorageAt(alice, slot, 7, stark.FeltFromUint64(7))
	s.SetNonceAt(bob, 3, stark.NewNonce(1))
	ch := stark.ClassHash(stark.FeltFromUint64(0xc1))
	s.SetClassHashAt(bob, 3, ch)
	s.SetCompiledClassHash(ch, 2, stark.CompiledClassHash(stark.FeltFromUint64(2)))

	require.NoError(t, s.Apply(base))

	v, err := base.GetStorageAt(alice, slot)
	require.NoError(t, err)
	assert.Equal(t, stark.FeltFromUint64(7), v)
	n, err := base.GetNonceAt(bob)
	require.NoError(t, err)
	assert.Equal(t, stark.NewNonce(1), n)
	got, err := base.GetClassHashAt(bob)
	require.NoError(t, err)
	assert.Equal(t, ch, got)
	cch, err := base.GetCompiledClassHash(ch)
	require.NoError(t, err)
	assert.Equal(t, stark.CompiledClassHash(stark.FeltFromUint64(2)), cch)
}
