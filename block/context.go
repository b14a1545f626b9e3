// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"github.com/holiman/uint256"

	"github.com/vechain/l2exec/stark"
)

// Resource names of the vm resource fee costs.
const (
	NSteps              = "n_steps"
	L1GasUsage          = "l1_gas_usage"
	PedersenBuiltin     = "pedersen_builtin"
	RangeCheckBuiltin   = "range_check_builtin"
	EcdsaBuiltin        = "ecdsa_builtin"
	BitwiseBuiltin      = "bitwise_builtin"
	PoseidonBuiltin     = "poseidon_builtin"
	OutputBuiltin       = "output_builtin"
	EcOpBuiltin         = "ec_op_builtin"
	KeccakBuiltin       = "keccak_builtin"
	SegmentArenaBuiltin = "segment_arena_builtin"
)

// FeeTokenAddresses are the fee token contracts.
type FeeTokenAddresses struct {
	StrkFeeTokenAddress stark.Address
	EthFeeTokenAddress  stark.Address
}

// GasPrices are the prices of one unit of l1 gas, in each fee token.
type GasPrices struct {
	EthL1GasPrice  *uint256.Int
	StrkL1GasPrice *uint256.Int
}

// Context is the immutable context of the block a transaction executes in.
type Context struct {
	ChainID          stark.ChainID
	BlockNumber      uint64
	BlockTimestamp   uint64
	SequencerAddress stark.Address
	FeeTokens        FeeTokenAddresses
	GasPrices        GasPrices
	// VMResourceFeeCosts is the l1 gas cost of one unit of each vm resource.
	VMResourceFeeCosts map[string]float64

	InvokeTxMaxNSteps uint64
	ValidateMaxNSteps uint64
	MaxRecursionDepth uint64
}

// FeeTokenAddress returns the fee token charged for transactions of version.
// Version 3 and above pay in STRK, earlier versions in ETH.
func (c *Context) FeeTokenAddress(version stark.TransactionVersion) stark.Address {
	if version.Cmp(stark.TransactionVersion3) >= 0 {
		return c.FeeTokens.StrkFeeTokenAddress
	}
	return c.FeeTokens.EthFeeTokenAddress
}

// GasPrice returns the l1 gas price for transactions of version.
func (c *Context) GasPrice(version stark.TransactionVersion) *uint256.Int {
	if version.Cmp(stark.TransactionVersion3) >= 0 {
		return new(uint256.Int).Set(c.GasPrices.StrkL1GasPrice)
	}
	return new(uint256.Int).Set(c.GasPrices.EthL1GasPrice)
}
