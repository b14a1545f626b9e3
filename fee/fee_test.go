// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package fee_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/fee"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

func newBlock(t *testing.T, ethPrice, strkPrice uint64) *block.Context {
	cfg := block.DefaultConfig()
	cfg.EthL1GasPrice = stark.FeltFromUint64(ethPrice)
	cfg.StrkL1GasPrice = stark.FeltFromUint64(strkPrice)
	blk, err := cfg.Context()
	require.NoError(t, err)
	return blk
}

func TestL1GasByVMUsage(t *testing.T) {
	costs := map[string]float64{block.NSteps: 0.5, block.RangeCheckBuiltin: 2}

	gas, err := fee.L1GasByVMUsage(costs, tx.ResourcesMapping{block.NSteps: 10, block.RangeCheckBuiltin: 3, block.L1GasUsage: 1000})
	require.NoError(t, err)
	assert.Equal(t, 6.0, gas)

	_, err = fee.L1GasByVMUsage(costs, tx.ResourcesMapping{"unknown_builtin": 1})
	assert.Error(t, err)
}

func TestCalculateTxFee(t *testing.T) {
	blk := newBlock(t, 3, 7)
	resources := tx.ResourcesMapping{block.NSteps: 1001, block.L1GasUsage: 100}

	// ceil(1001 * 0.005 + 100) = 106
	f, err := fee.Default{}.CalculateTxFee(resources, blk, stark.TransactionVersion1)
	require.NoError(t, err)
	assert.Equal(t, stark.NewFee(106*3), f)

	f, err = fee.Default{}.CalculateTxFee(resources, blk, stark.TransactionVersion3)
	require.NoError(t, err)
	assert.Equal(t, stark.NewFee(106*7), f)

	f, err = fee.Default{}.CalculateTxFee(tx.ResourcesMapping{}, blk, stark.TransactionVersion1)
	require.NoError(t, err)
	assert.True(t, f.IsZero())
}

func TestCalculateTxFeeOverflow(t *testing.T) {
	cfg := block.DefaultConfig()
	cfg.EthL1GasPrice = stark.MustParseFelt("0x100000000000000000000000000000000")
	blk, err := cfg.Context()
	require.NoError(t, err)

	_, err = fee.Default{}.CalculateTxFee(tx.ResourcesMapping{block.L1GasUsage: 1}, blk, stark.TransactionVersion1)
	assert.Error(t, err, "fee above 128 bits")
}

func TestL1GasUsage(t *testing.T) {
	assert.Equal(t, uint64(0), fee.L1GasUsage(state.StateChangesCount{}))
	assert.Equal(t, uint64((2*2+2*3+2*1)*612), fee.L1GasUsage(state.StateChangesCount{
		ModifiedContracts:        2,
		StorageUpdates:           3,
		ClassHashUpdates:         5,
		CompiledClassHashUpdates: 1,
		NonceUpdates:             4,
	}))
}
