// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"github.com/vechain/l2exec/stark"
)

// balancesVar is the storage variable holding fee token balances.
var balancesVar = stark.Keccak250([]byte("ERC20_balances"))

// FeeTokenBalanceKey returns the storage key of the low 128 bits of the
// fee token balance of account. The high 128 bits live at the next key.
func FeeTokenBalanceKey(account stark.Address) stark.StorageKey {
	k := stark.Keccak250(balancesVar.Bytes(), account.Felt().Bytes())
	return stark.StorageKey(k)
}

// GetFeeTokenBalance returns the (low, high) balance of account on feeToken.
func GetFeeTokenBalance(r Reader, feeToken, account stark.Address) (low, high stark.Felt, err error) {
	lowKey := FeeTokenBalanceKey(account)
	highKey, err := lowKey.Offset(1)
	if err != nil {
		return stark.Felt{}, stark.Felt{}, err
	}
	if low, err = r.GetStorageAt(feeToken, lowKey); err != nil {
		return stark.Felt{}, stark.Felt{}, err
	}
	if high, err = r.GetStorageAt(feeToken, highKey); err != nil {
		return stark.Felt{}, stark.Felt{}, err
	}
	return low, high, nil
}
