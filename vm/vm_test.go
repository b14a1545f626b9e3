// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/vm"
)

func newBlock(t *testing.T) *block.Context {
	blk, err := block.DefaultConfig().Context()
	require.NoError(t, err)
	blk.MaxRecursionDepth = 2
	return blk
}

func TestStepBudget(t *testing.T) {
	ctx := vm.NewContext(newBlock(t), tx.AccountContext{}, 100)
	assert.Equal(t, uint64(100), ctx.MaxSteps())

	require.NoError(t, ctx.UseSteps(60))
	assert.Equal(t, uint64(40), ctx.RemainingSteps())

	assert.ErrorIs(t, ctx.UseSteps(41), vm.ErrOutOfSteps)
	assert.Equal(t, uint64(0), ctx.RemainingSteps())

	ctx.SetStepLimit(10)
	assert.Equal(t, uint64(10), ctx.RemainingSteps())
	assert.Equal(t, uint64(10), ctx.MaxSteps())
}

func TestRecursionDepth(t *testing.T) {
	ctx := vm.NewContext(newBlock(t), tx.AccountContext{}, 100)
	require.NoError(t, ctx.Enter())
	require.NoError(t, ctx.Enter())
	assert.ErrorIs(t, ctx.Enter(), vm.ErrRecursionDepth)
	assert.Equal(t, uint64(2), ctx.Depth())
	ctx.Leave()
	assert.NoError(t, ctx.Enter())
}

func TestErrorTrace(t *testing.T) {
	ctx := vm.NewContext(newBlock(t), tx.AccountContext{}, 100)
	assert.Empty(t, ctx.ErrorTrace())

	ctx.PushError("inner: %v", "boom")
	ctx.PushError("outer")
	assert.Equal(t, "outer\ninner: boom", ctx.ErrorTrace())
}

func TestExecutionError(t *testing.T) {
	remaining := uint64(7)
	err := error(&vm.ExecutionError{Cause: vm.ErrOutOfSteps, Remaining: &remaining})

	var execErr *vm.ExecutionError
	require.True(t, errors.As(err, &execErr))
	n, ok := execErr.RemainingSteps()
	assert.True(t, ok)
	assert.Equal(t, uint64(7), n)
	assert.ErrorIs(t, err, vm.ErrOutOfSteps)

	_, ok = (&vm.ExecutionError{}).RemainingSteps()
	assert.False(t, ok)
}

func TestCallInfoIter(t *testing.T) {
	leaf := func(n uint64) *vm.CallInfo {
		return &vm.CallInfo{Call: vm.CallEntryPoint{StorageAddress: stark.Address(stark.FeltFromUint64(n))}}
	}
	root := leaf(1)
	mid := leaf(2)
	mid.InnerCalls = []*vm.CallInfo{leaf(3)}
	root.InnerCalls = []*vm.CallInfo{mid, leaf(4)}

	var order []uint64
	root.Iter(func(c *vm.CallInfo) bool {
		n, _ := stark.Felt(c.Call.StorageAddress).Uint64()
		order = append(order, n)
		return true
	})
	assert.Equal(t, []uint64{1, 2, 3, 4}, order)

	count := 0
	root.Iter(func(*vm.CallInfo) bool {
		count++
		return count < 2
	})
	assert.Equal(t, 2, count)
}

func TestExecutionResources(t *testing.T) {
	r := vm.ExecutionResources{NSteps: 10, NMemoryHoles: 2}
	r.Add(&vm.ExecutionResources{NSteps: 5, Builtins: map[string]uint64{block.RangeCheckBuiltin: 3}})

	m := r.ToMapping()
	assert.Equal(t, uint64(17), m.Get(block.NSteps))
	assert.Equal(t, uint64(3), m.Get(block.RangeCheckBuiltin))
}
