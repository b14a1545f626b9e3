// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package fee computes transaction fees from consumed resources.
package fee

import (
	"math"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// GasPerMemoryWord is the l1 gas paid for each word of on-chain data.
const GasPerMemoryWord = 612

// Calculator computes the fee owed for resources.
type Calculator interface {
	CalculateTxFee(resources tx.ResourcesMapping, blk *block.Context, version stark.TransactionVersion) (stark.Fee, error)
}

// Default is the calculator pricing vm usage through the block's resource cost table.
type Default struct{}

var _ Calculator = Default{}

// CalculateTxFee returns ceil(l1 gas by vm usage + l1_gas_usage) * gas price.
func (Default) CalculateTxFee(resources tx.ResourcesMapping, blk *block.Context, version stark.TransactionVersion) (stark.Fee, error) {
	vmGas, err := L1GasByVMUsage(blk.VMResourceFeeCosts, resources)
	if err != nil {
		return stark.Fee{}, err
	}
	total := math.Ceil(vmGas + float64(resources.Get(block.L1GasUsage)))
	if total >= math.MaxUint64 {
		return stark.Fee{}, errors.Errorf("fee: l1 gas %v overflows", total)
	}

	amount, overflow := new(uint256.Int).MulOverflow(uint256.NewInt(uint64(total)), blk.GasPrice(version))
	if overflow {
		return stark.Fee{}, errors.New("fee: amount overflows")
	}
	fee, err := stark.FeeFromUint256(amount)
	if err != nil {
		return stark.Fee{}, errors.Wrap(err, "fee")
	}
	return fee, nil
}

// L1GasByVMUsage returns the l1 gas equivalent of vm resources, which is the
// most expensive resource under the cost table. l1_gas_usage is not a vm resource.
func L1GasByVMUsage(costs map[string]float64, resources tx.ResourcesMapping) (float64, error) {
	var l1Gas float64
	for name, amount := range resources {
		if name == block.L1GasUsage {
			continue
		}
		cost, ok := costs[name]
		if !ok {
			return 0, errors.Errorf("fee: resource %v has no fee cost", name)
		}
		if gas := cost * float64(amount); gas > l1Gas {
			l1Gas = gas
		}
	}
	return l1Gas, nil
}

// L1GasUsage returns the l1 gas paid to publish the state changes.
func L1GasUsage(count state.StateChangesCount) uint64 {
	words := 2*count.ModifiedContracts + 2*count.StorageUpdates + 2*count.CompiledClassHashUpdates
	return uint64(words) * GasPerMemoryWord
}
