// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// AccountClassHash is the class hash of the native account.
var AccountClassHash = stark.ClassHash(stark.Keccak250([]byte("builtin.Account")))

var publicKeyVar = storageVar("Account_public_key")

// Account is the native account class. Its signature is the public key itself,
// a placeholder for a real signature scheme.
var Account = NewClass(AccountClassHash,
	&Method{
		Name:  tx.ConstructorEntryPoint,
		Steps: 50,
		Run: func(env *Env) []stark.Felt {
			args := env.Args(1)
			env.Require(!args[0].IsZero(), "public key is zero")
			env.SetStorage(publicKeyVar, args[0])
			return nil
		},
	},
	&Method{Name: tx.ValidateEntryPoint, Steps: 80, Builtins: ecdsa, Run: validateSignature},
	&Method{Name: tx.ValidateDeclareEntryPoint, Steps: 80, Builtins: ecdsa, Run: validateSignature},
	&Method{Name: tx.ValidateDeployEntryPoint, Steps: 80, Builtins: ecdsa, Run: validateSignature},
	&Method{
		Name:     tx.ExecuteEntryPoint,
		Steps:    120,
		Builtins: map[string]uint64{block.RangeCheckBuiltin: 2},
		Run:      execute,
	},
	&Method{
		Name:  "get_public_key",
		Steps: 10,
		Run: func(env *Env) []stark.Felt {
			env.Args(0)
			return []stark.Felt{env.Storage(publicKeyVar)}
		},
	},
)

var ecdsa = map[string]uint64{block.EcdsaBuiltin: 1}

func validateSignature(env *Env) []stark.Felt {
	sig := env.TxInfo().Signature
	env.Require(len(sig) == 1 && sig[0] == env.Storage(publicKeyVar), "invalid signature")
	return nil
}

// execute forwards one call. Calldata is [to, selector, n, args...].
func execute(env *Env) []stark.Felt {
	calldata := env.Calldata()
	env.Require(len(calldata) >= 3, "calldata too short")
	n, ok := calldata[2].Uint64()
	env.Require(ok && uint64(len(calldata)-3) == n, "calldata length mismatch")

	to, err := stark.AddressFromFelt(calldata[0])
	if err != nil {
		env.Stop(err)
	}
	return env.Call(to, stark.EntryPointSelector(calldata[1]), calldata[3:])
}

// SetPublicKey writes the public key of the account at addr directly, as the
// constructor would. It is meant for genesis.
func SetPublicKey(st state.State, addr stark.Address, publicKey stark.Felt) error {
	return st.SetStorageAt(addr, publicKeyVar, publicKey)
}
