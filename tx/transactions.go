// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package tx

import (
	"slices"

	"github.com/vechain/l2exec/stark"
)

// Account is an account transaction. Every kind specific fact the runtime
// needs before execution is answered here.
type Account interface {
	Type() Type
	Context() AccountContext
	// ValidateEntryPoint is the name of the account entry point validating the transaction.
	ValidateEntryPoint() string
	ValidateCalldata() []stark.Felt
	AllowedVersions() []stark.TransactionVersion
}

var (
	_ Account = (*Declare)(nil)
	_ Account = (*DeployAccount)(nil)
	_ Account = (*InvokeV0)(nil)
	_ Account = (*InvokeV1)(nil)
)

// Declare declares a contract class.
type Declare struct {
	TransactionHash stark.TransactionHash
	Version         stark.TransactionVersion
	ClassHash       stark.ClassHash
	// CompiledClassHash is only set by version 2.
	CompiledClassHash stark.CompiledClassHash
	SenderAddress     stark.Address
	Nonce             stark.Nonce
	MaxFee            stark.Fee
	Signature         []stark.Felt
}

func (d *Declare) Type() Type { return TypeDeclare }

func (d *Declare) Context() AccountContext {
	return AccountContext{
		TransactionHash: d.TransactionHash,
		MaxFee:          d.MaxFee,
		Version:         d.Version,
		Signature:       slices.Clone(d.Signature),
		Nonce:           d.Nonce,
		SenderAddress:   d.SenderAddress,
	}
}

func (d *Declare) ValidateEntryPoint() string { return ValidateDeclareEntryPoint }

func (d *Declare) ValidateCalldata() []stark.Felt {
	return []stark.Felt{stark.Felt(d.ClassHash)}
}

// AllowedVersions includes version 0 to bootstrap a new chain.
func (d *Declare) AllowedVersions() []stark.TransactionVersion {
	return []stark.TransactionVersion{stark.TransactionVersion0, stark.TransactionVersion1, stark.TransactionVersion2}
}

// DeployAccount deploys an account contract, which pays for its own deployment.
type DeployAccount struct {
	TransactionHash     stark.TransactionHash
	Version             stark.TransactionVersion
	ClassHash           stark.ClassHash
	ContractAddressSalt stark.Felt
	ConstructorCalldata []stark.Felt
	ContractAddress     stark.Address
	Nonce               stark.Nonce
	MaxFee              stark.Fee
	Signature           []stark.Felt
}

func (d *DeployAccount) Type() Type { return TypeDeployAccount }

func (d *DeployAccount) Context() AccountContext {
	return AccountContext{
		TransactionHash: d.TransactionHash,
		MaxFee:          d.MaxFee,
		Version:         d.Version,
		Signature:       slices.Clone(d.Signature),
		Nonce:           d.Nonce,
		SenderAddress:   d.ContractAddress,
	}
}

func (d *DeployAccount) ValidateEntryPoint() string { return ValidateDeployEntryPoint }

// ValidateCalldata is [class_hash, salt, constructor calldata...].
func (d *DeployAccount) ValidateCalldata() []stark.Felt {
	calldata := make([]stark.Felt, 0, 2+len(d.ConstructorCalldata))
	calldata = append(calldata, stark.Felt(d.ClassHash), d.ContractAddressSalt)
	return append(calldata, d.ConstructorCalldata...)
}

func (d *DeployAccount) AllowedVersions() []stark.TransactionVersion {
	return []stark.TransactionVersion{stark.TransactionVersion1}
}

// InvokeV0 calls an entry point of a contract directly, without account validation.
type InvokeV0 struct {
	TransactionHash    stark.TransactionHash
	ContractAddress    stark.Address
	EntryPointSelector stark.EntryPointSelector
	Calldata           []stark.Felt
	MaxFee             stark.Fee
	Signature          []stark.Felt
}

func (i *InvokeV0) Type() Type { return TypeInvokeFunction }

func (i *InvokeV0) Context() AccountContext {
	return AccountContext{
		TransactionHash: i.TransactionHash,
		MaxFee:          i.MaxFee,
		Version:         stark.TransactionVersion0,
		Signature:       slices.Clone(i.Signature),
		SenderAddress:   i.ContractAddress,
	}
}

func (i *InvokeV0) ValidateEntryPoint() string { return ValidateEntryPoint }

// ValidateCalldata is the execute calldata itself.
func (i *InvokeV0) ValidateCalldata() []stark.Felt { return slices.Clone(i.Calldata) }

func (i *InvokeV0) AllowedVersions() []stark.TransactionVersion {
	return []stark.TransactionVersion{stark.TransactionVersion0, stark.TransactionVersion1}
}

// InvokeV1 calls __execute__ of the sender account.
type InvokeV1 struct {
	TransactionHash stark.TransactionHash
	// Version is the stated version, checked against AllowedVersions by the runtime.
	Version         stark.TransactionVersion
	SenderAddress   stark.Address
	Calldata        []stark.Felt
	Nonce           stark.Nonce
	MaxFee          stark.Fee
	Signature       []stark.Felt
}

func (i *InvokeV1) Type() Type { return TypeInvokeFunction }

func (i *InvokeV1) Context() AccountContext {
	return AccountContext{
		TransactionHash: i.TransactionHash,
		MaxFee:          i.MaxFee,
		Version:         i.Version,
		Signature:       slices.Clone(i.Signature),
		Nonce:           i.Nonce,
		SenderAddress:   i.SenderAddress,
	}
}

func (i *InvokeV1) ValidateEntryPoint() string { return ValidateEntryPoint }

func (i *InvokeV1) ValidateCalldata() []stark.Felt { return slices.Clone(i.Calldata) }

func (i *InvokeV1) AllowedVersions() []stark.TransactionVersion {
	return []stark.TransactionVersion{stark.TransactionVersion0, stark.TransactionVersion1}
}
