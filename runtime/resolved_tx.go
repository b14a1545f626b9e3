// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"slices"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// ResolvedTransaction is an account transaction with its version checked.
type ResolvedTransaction struct {
	tx      tx.Account
	Type    tx.Type
	Context tx.AccountContext
}

// ResolveTransaction resolves the transaction and checks its version against
// the versions its kind accepts.
func ResolveTransaction(t tx.Account) (*ResolvedTransaction, error) {
	ctx := t.Context()
	allowed := t.AllowedVersions()
	if !slices.Contains(allowed, ctx.Version) {
		return nil, &InvalidVersionError{Type: t.Type(), Version: ctx.Version, Allowed: allowed}
	}
	return &ResolvedTransaction{
		tx:      t,
		Type:    t.Type(),
		Context: ctx,
	}, nil
}

// HandleNonce checks the stated nonce against the sender's and increments it.
// Version 0 transactions carry no nonce.
func (r *ResolvedTransaction) HandleNonce(st state.State) error {
	if r.Context.IsV0() {
		return nil
	}
	addr := r.Context.SenderAddress
	current, err := st.GetNonceAt(addr)
	if err != nil {
		return err
	}
	if current != r.Context.Nonce {
		return &InvalidNonceError{Address: addr, Expected: current, Actual: r.Context.Nonce}
	}
	return st.IncrementNonce(addr)
}

// CheckBalance checks the sender's fee token balance covers the max fee.
func (r *ResolvedTransaction) CheckBalance(st state.Reader, blk *block.Context) error {
	if !r.Context.EnforceFee() {
		return nil
	}
	low, high, err := state.GetFeeTokenBalance(st, blk.FeeTokenAddress(r.Context.Version), r.Context.SenderAddress)
	if err != nil {
		return err
	}
	maxFee := r.Context.MaxFee
	if high.IsZero() && low.Uint256().Cmp(maxFee.Uint256()) < 0 {
		return &MaxFeeExceedsBalanceError{MaxFee: maxFee, BalanceLow: low, BalanceHigh: high}
	}
	return nil
}

// feeStorageCells returns the storage cells the fee transfer will write,
// counted ahead of it.
func (r *ResolvedTransaction) feeStorageCells(blk *block.Context) []state.StorageCell {
	if !r.Context.EnforceFee() {
		return nil
	}
	return []state.StorageCell{{
		Address: blk.FeeTokenAddress(r.Context.Version),
		Key:     state.FeeTokenBalanceKey(r.Context.SenderAddress),
	}}
}

// feeContracts returns the contracts modified by the transaction beyond its
// recorded state changes.
func (r *ResolvedTransaction) feeContracts(blk *block.Context) []stark.Address {
	contracts := []stark.Address{r.Context.SenderAddress}
	if r.Context.EnforceFee() {
		contracts = append(contracts, blk.FeeTokenAddress(r.Context.Version))
	}
	return contracts
}
