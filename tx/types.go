// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"github.com/vechain/l2exec/stark"
)

// Type is the kind of an account transaction.
type Type byte

const (
	TypeDeclare Type = iota + 1
	TypeDeployAccount
	TypeInvokeFunction
)

func (t Type) String() string {
	switch t {
	case TypeDeclare:
		return "declare"
	case TypeDeployAccount:
		return "deploy_account"
	case TypeInvokeFunction:
		return "invoke_function"
	}
	return "unknown"
}

// Entry point names called by the runtime.
const (
	ValidateEntryPoint        = "__validate__"
	ValidateDeclareEntryPoint = "__validate_declare__"
	ValidateDeployEntryPoint  = "__validate_deploy__"
	ExecuteEntryPoint         = "__execute__"
	ConstructorEntryPoint     = "constructor"
	TransferEntryPoint        = "transfer"
)

// AccountContext is the immutable per-transaction facts visible to the
// executing contracts.
type AccountContext struct {
	TransactionHash stark.TransactionHash
	MaxFee          stark.Fee
	Version         stark.TransactionVersion
	Signature       []stark.Felt
	Nonce           stark.Nonce
	SenderAddress   stark.Address
}

// IsV0 returns whether the transaction is of version 0, which skips nonce and validation.
func (c *AccountContext) IsV0() bool {
	return c.Version == stark.TransactionVersion0
}

// EnforceFee returns whether a fee is charged. Max fee 0 disables fee charging.
func (c *AccountContext) EnforceFee() bool {
	return !c.MaxFee.IsZero()
}

// ResourcesMapping maps resource names to amounts. It only grows.
type ResourcesMapping map[string]uint64

// Add adds n to the amount of name.
func (r ResourcesMapping) Add(name string, n uint64) {
	r[name] += n
}

// Get returns the amount of name, 0 if absent.
func (r ResourcesMapping) Get(name string) uint64 {
	return r[name]
}

// Merge adds every amount of other.
func (r ResourcesMapping) Merge(other ResourcesMapping) {
	for name, n := range other {
		r[name] += n
	}
}

// Clone returns a copy.
func (r ResourcesMapping) Clone() ResourcesMapping {
	c := make(ResourcesMapping, len(r))
	c.Merge(r)
	return c
}
