// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"fmt"

	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/tx"
)

// InvalidVersionError rejects a transaction whose version its kind does not accept.
type InvalidVersionError struct {
	Type    tx.Type
	Version stark.TransactionVersion
	Allowed []stark.TransactionVersion
}

func (e *InvalidVersionError) Error() string {
	return fmt.Sprintf("%v version %v is not supported, allowed versions: %v", e.Type, e.Version, e.Allowed)
}

// InvalidNonceError rejects a transaction whose nonce differs from the sender's.
type InvalidNonceError struct {
	Address  stark.Address
	Expected stark.Nonce
	Actual   stark.Nonce
}

func (e *InvalidNonceError) Error() string {
	return fmt.Sprintf("invalid transaction nonce of contract at address %v: expected %v, got %v", e.Address, e.Expected, e.Actual)
}

// MaxFeeExceedsBalanceError rejects a transaction whose sender cannot cover its max fee.
type MaxFeeExceedsBalanceError struct {
	MaxFee      stark.Fee
	BalanceLow  stark.Felt
	BalanceHigh stark.Felt
}

func (e *MaxFeeExceedsBalanceError) Error() string {
	return fmt.Sprintf("max fee %v exceeds balance (low %v, high %v)", e.MaxFee, e.BalanceLow, e.BalanceHigh)
}

// ValidateError rejects a transaction failing account validation.
type ValidateError struct {
	Cause error
}

func (e *ValidateError) Error() string {
	return fmt.Sprintf("validate transaction: %v", e.Cause)
}

func (e *ValidateError) Unwrap() error {
	return e.Cause
}

// UnauthorizedInnerCallError rejects a validation calling another contract.
type UnauthorizedInnerCallError struct {
	EntryPoint string
	Address    stark.Address
}

func (e *UnauthorizedInnerCallError) Error() string {
	return fmt.Sprintf("unauthorized call to %v in %v", e.Address, e.EntryPoint)
}

// FeeTransferError is the actual fee exceeding the max fee, which the balance
// check makes a cost model bug.
type FeeTransferError struct {
	MaxFee    stark.Fee
	ActualFee stark.Fee
}

func (e *FeeTransferError) Error() string {
	return fmt.Sprintf("actual fee %v exceeds max fee %v", e.ActualFee, e.MaxFee)
}

// ClassAlreadyDeclaredError fails a declare of a class with a compiled class hash.
type ClassAlreadyDeclaredError struct {
	ClassHash stark.ClassHash
}

func (e *ClassAlreadyDeclaredError) Error() string {
	return fmt.Sprintf("class with hash %v is already declared", e.ClassHash)
}

// ContractAddressUnavailableError fails a deploy to an address holding a contract.
type ContractAddressUnavailableError struct {
	Address stark.Address
}

func (e *ContractAddressUnavailableError) Error() string {
	return fmt.Sprintf("requested contract address %v is unavailable for deployment", e.Address)
}
