// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/builtin"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// Batch is the yaml form of a genesis and the transactions executed on top of it.
type Batch struct {
	Genesis      Genesis  `yaml:"genesis"`
	Transactions []TxSpec `yaml:"transactions"`
}

// Genesis deploys native accounts and funds them with fee tokens.
type Genesis struct {
	Accounts []GenesisAccount `yaml:"accounts"`
}

// GenesisAccount is a native account, or a fee token when Class is fee_token.
type GenesisAccount struct {
	Address   stark.Address `yaml:"address"`
	Class     string        `yaml:"class"`
	PublicKey stark.Felt    `yaml:"public_key"`
	Nonce     stark.Nonce   `yaml:"nonce"`
	// Balance in the fee tokens.
	Balance stark.Fee `yaml:"balance"`
}

// TxSpec is a transaction of any kind, Type selects the fields used.
type TxSpec struct {
	Type              string                   `yaml:"type"`
	Hash              stark.TransactionHash    `yaml:"hash"`
	Version           stark.TransactionVersion `yaml:"version"`
	Sender            stark.Address            `yaml:"sender"`
	Nonce             stark.Nonce              `yaml:"nonce"`
	MaxFee            stark.Fee                `yaml:"max_fee"`
	Signature         []stark.Felt             `yaml:"signature"`
	Calldata          []stark.Felt             `yaml:"calldata"`
	Contract          stark.Address            `yaml:"contract"`
	EntryPoint        string                   `yaml:"entry_point"`
	Class             string                   `yaml:"class"`
	CompiledClassHash stark.CompiledClassHash  `yaml:"compiled_class_hash"`
	Salt              stark.Felt               `yaml:"salt"`
}

// LoadBatch reads the yaml batch at path.
func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read batch")
	}
	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, errors.Wrap(err, "decode batch")
	}
	return &batch, nil
}

// resolveClass maps builtin class names to their hashes, anything else is parsed as a hash.
func resolveClass(name string) (stark.ClassHash, error) {
	switch name {
	case "account", "":
		return builtin.AccountClassHash, nil
	case "fee_token":
		return builtin.FeeTokenClassHash, nil
	}
	f, err := stark.ParseFelt(name)
	if err != nil {
		return stark.ClassHash{}, errors.Wrap(err, "class")
	}
	return stark.ClassHash(f), nil
}

// Apply writes the genesis into st. Fee tokens are deployed at the block's fee token addresses.
func (g *Genesis) Apply(st state.State, blk *block.Context) error {
	tokens := []stark.Address{blk.FeeTokens.EthFeeTokenAddress, blk.FeeTokens.StrkFeeTokenAddress}
	for _, token := range tokens {
		if err := st.SetClassHashAt(token, builtin.FeeTokenClassHash); err != nil {
			return err
		}
	}

	for _, acc := range g.Accounts {
		classHash, err := resolveClass(acc.Class)
		if err != nil {
			return errors.WithMessagef(err, "genesis account %v", acc.Address)
		}
		if err := st.SetClassHashAt(acc.Address, classHash); err != nil {
			return err
		}
		if classHash == builtin.AccountClassHash {
			if acc.PublicKey.IsZero() {
				return errors.Errorf("genesis account %v: public key required", acc.Address)
			}
			if err := builtin.SetPublicKey(st, acc.Address, acc.PublicKey); err != nil {
				return err
			}
		}
		if err := st.SetNonce(acc.Address, acc.Nonce); err != nil {
			return err
		}
		if acc.Balance.IsZero() {
			continue
		}
		for _, token := range tokens {
			if err := builtin.Mint(st, token, acc.Address, acc.Balance.Uint256()); err != nil {
				return err
			}
		}
	}
	return nil
}

// Transaction converts the spec into an account transaction.
func (s *TxSpec) Transaction() (tx.Account, error) {
	switch strings.ToLower(s.Type) {
	case "invoke":
		if s.Version == stark.TransactionVersion0 {
			if s.EntryPoint == "" {
				return nil, errors.New("invoke v0: entry_point required")
			}
			return &tx.InvokeV0{
				TransactionHash:    s.Hash,
				ContractAddress:    s.Contract,
				EntryPointSelector: stark.SelectorFromName(s.EntryPoint),
				Calldata:           s.Calldata,
				MaxFee:             s.MaxFee,
				Signature:          s.Signature,
			}, nil
		}
		return &tx.InvokeV1{
			TransactionHash: s.Hash,
			Version:         s.Version,
			SenderAddress:   s.Sender,
			Calldata:        s.Calldata,
			Nonce:           s.Nonce,
			MaxFee:          s.MaxFee,
			Signature:       s.Signature,
		}, nil
	case "declare":
		classHash, err := resolveClass(s.Class)
		if err != nil {
			return nil, err
		}
		return &tx.Declare{
			TransactionHash:   s.Hash,
			Version:           s.Version,
			ClassHash:         classHash,
			CompiledClassHash: s.CompiledClassHash,
			SenderAddress:     s.Sender,
			Nonce:             s.Nonce,
			MaxFee:            s.MaxFee,
			Signature:         s.Signature,
		}, nil
	case "deploy_account":
		classHash, err := resolveClass(s.Class)
		if err != nil {
			return nil, err
		}
		return &tx.DeployAccount{
			TransactionHash:     s.Hash,
			Version:             s.Version,
			ClassHash:           classHash,
			ContractAddressSalt: s.Salt,
			ConstructorCalldata: s.Calldata,
			ContractAddress:     s.Sender,
			Nonce:               s.Nonce,
			MaxFee:              s.MaxFee,
			Signature:           s.Signature,
		}, nil
	}
	return nil, errors.Errorf("unknown transaction type %q", s.Type)
}
