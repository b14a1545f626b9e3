// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package block

import (
	"maps"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/l2exec/stark"
)

// Config is the yaml form of Context.
type Config struct {
	ChainID            string             `yaml:"chain_id"`
	BlockNumber        uint64             `yaml:"block_number"`
	BlockTimestamp     uint64             `yaml:"block_timestamp"`
	SequencerAddress   stark.Address      `yaml:"sequencer_address"`
	StrkFeeToken       stark.Address      `yaml:"strk_fee_token_address"`
	EthFeeToken        stark.Address      `yaml:"eth_fee_token_address"`
	EthL1GasPrice      stark.Felt         `yaml:"eth_l1_gas_price"`
	StrkL1GasPrice     stark.Felt         `yaml:"strk_l1_gas_price"`
	VMResourceFeeCosts map[string]float64 `yaml:"vm_resource_fee_costs"`
	InvokeTxMaxNSteps  uint64             `yaml:"invoke_tx_max_n_steps"`
	ValidateMaxNSteps  uint64             `yaml:"validate_max_n_steps"`
	MaxRecursionDepth  uint64             `yaml:"max_recursion_depth"`
}

// DefaultVMResourceFeeCosts returns the default l1 gas cost of vm resources.
func DefaultVMResourceFeeCosts() map[string]float64 {
	return map[string]float64{
		NSteps:              0.005,
		PedersenBuiltin:     0.16,
		RangeCheckBuiltin:   0.08,
		EcdsaBuiltin:        10.24,
		BitwiseBuiltin:      0.32,
		PoseidonBuiltin:     0.16,
		OutputBuiltin:       0,
		EcOpBuiltin:         5.12,
		KeccakBuiltin:       10.24,
		SegmentArenaBuiltin: 0,
	}
}

// DefaultConfig returns the config with default limits and prices.
func DefaultConfig() *Config {
	return &Config{
		ChainID:            "SN_GOERLI",
		SequencerAddress:   stark.MustParseAddress("0x1000"),
		StrkFeeToken:       stark.MustParseAddress("0x4718f5a0fc34cc1af16a1cdee98ffb20c31f5cd61d6ab07201858f4287c938d"),
		EthFeeToken:        stark.MustParseAddress("0x49d36570d4e46f48e99674bd3fcc84644ddd6b96f7c741b1562b82f9e004dc7"),
		EthL1GasPrice:      stark.FeltFromUint64(1),
		StrkL1GasPrice:     stark.FeltFromUint64(1),
		VMResourceFeeCosts: DefaultVMResourceFeeCosts(),
		InvokeTxMaxNSteps:  3_000_000,
		ValidateMaxNSteps:  1_000_000,
		MaxRecursionDepth:  50,
	}
}

// LoadConfig reads the yaml config at path. Fields absent from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read block config")
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "decode block config")
	}
	return cfg, nil
}

// Context converts the config into a block context.
func (c *Config) Context() (*Context, error) {
	if c.InvokeTxMaxNSteps == 0 || c.ValidateMaxNSteps == 0 {
		return nil, errors.New("block config: step limits must be positive")
	}
	if c.MaxRecursionDepth == 0 {
		return nil, errors.New("block config: max recursion depth must be positive")
	}
	for name, cost := range c.VMResourceFeeCosts {
		if cost < 0 {
			return nil, errors.Errorf("block config: negative fee cost of %v", name)
		}
	}
	return &Context{
		ChainID:          stark.ChainID(c.ChainID),
		BlockNumber:      c.BlockNumber,
		BlockTimestamp:   c.BlockTimestamp,
		SequencerAddress: c.SequencerAddress,
		FeeTokens: FeeTokenAddresses{
			StrkFeeTokenAddress: c.StrkFeeToken,
			EthFeeTokenAddress:  c.EthFeeToken,
		},
		GasPrices: GasPrices{
			EthL1GasPrice:  c.EthL1GasPrice.Uint256(),
			StrkL1GasPrice: c.StrkL1GasPrice.Uint256(),
		},
		VMResourceFeeCosts: maps.Clone(c.VMResourceFeeCosts),
		InvokeTxMaxNSteps:  c.InvokeTxMaxNSteps,
		ValidateMaxNSteps:  c.ValidateMaxNSteps,
		MaxRecursionDepth:  c.MaxRecursionDepth,
	}, nil
}
