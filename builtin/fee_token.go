// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// FeeTokenClassHash is the class hash of the native fee token.
var FeeTokenClassHash = stark.ClassHash(stark.Keccak250([]byte("builtin.FeeToken")))

var (
	one = stark.FeltFromUint64(1)

	u128 = new(uint256.Int).Lsh(uint256.NewInt(1), 128)
)

// FeeToken is the native ERC20-like fee token class. Balances are (low, high)
// 128-bit halves stored at state.FeeTokenBalanceKey.
var FeeToken = NewClass(FeeTokenClassHash,
	&Method{
		Name:     tx.TransferEntryPoint,
		Steps:    200,
		Builtins: map[string]uint64{block.RangeCheckBuiltin: 4},
		Run: func(env *Env) []stark.Felt {
			args := env.Args(3)
			recipient, err := stark.AddressFromFelt(args[0])
			if err != nil {
				env.Stop(err)
			}
			amount, err := joinHalves(args[1], args[2])
			if err != nil {
				env.Stop(err)
			}
			sender := env.Caller()

			balance := envBalance(env, sender)
			env.Require(balance.Cmp(amount) >= 0, "transfer amount exceeds balance")
			setEnvBalance(env, sender, new(uint256.Int).Sub(balance, amount))

			received, overflow := new(uint256.Int).AddOverflow(envBalance(env, recipient), amount)
			env.Require(!overflow, "balance overflow")
			setEnvBalance(env, recipient, received)
			return []stark.Felt{one}
		},
	},
	&Method{
		Name:  "balanceOf",
		Steps: 40,
		Run: func(env *Env) []stark.Felt {
			args := env.Args(1)
			account, err := stark.AddressFromFelt(args[0])
			if err != nil {
				env.Stop(err)
			}
			low, high := splitHalves(envBalance(env, account))
			return []stark.Felt{low, high}
		},
	},
)

func balanceKeys(account stark.Address) (low, high stark.StorageKey) {
	low = state.FeeTokenBalanceKey(account)
	// the key is masked to 250 bits, the next key is always in range
	high, _ = low.Offset(1)
	return
}

func envBalance(env *Env, account stark.Address) *uint256.Int {
	lowKey, highKey := balanceKeys(account)
	v, err := joinHalves(env.Storage(lowKey), env.Storage(highKey))
	if err != nil {
		env.Stop(err)
	}
	return v
}

func setEnvBalance(env *Env, account stark.Address, v *uint256.Int) {
	lowKey, highKey := balanceKeys(account)
	low, high := splitHalves(v)
	env.SetStorage(lowKey, low)
	env.SetStorage(highKey, high)
}

// joinHalves returns low + high << 128.
func joinHalves(low, high stark.Felt) (*uint256.Int, error) {
	l, h := low.Uint256(), high.Uint256()
	if l.Cmp(u128) >= 0 || h.Cmp(u128) >= 0 {
		return nil, errors.New("amount half exceeds 128 bits")
	}
	return l.Or(l, h.Lsh(h, 128)), nil
}

func splitHalves(v *uint256.Int) (low, high stark.Felt) {
	l := new(uint256.Int).And(v, new(uint256.Int).Sub(u128, uint256.NewInt(1)))
	h := new(uint256.Int).Rsh(v, 128)
	return stark.Felt(l.Bytes32()), stark.Felt(h.Bytes32())
}

// Mint credits amount to account on the fee token deployed at token.
// It writes state directly and is meant for genesis.
func Mint(st state.State, token, account stark.Address, amount *uint256.Int) error {
	low, high, err := state.GetFeeTokenBalance(st, token, account)
	if err != nil {
		return err
	}
	balance, err := joinHalves(low, high)
	if err != nil {
		return err
	}
	balance, overflow := new(uint256.Int).AddOverflow(balance, amount)
	if overflow {
		return errors.New("mint: balance overflow")
	}
	newLow, newHigh := splitHalves(balance)
	lowKey, highKey := balanceKeys(account)
	if err := st.SetStorageAt(token, lowKey, newLow); err != nil {
		return err
	}
	return st.SetStorageAt(token, highKey, newHigh)
}
