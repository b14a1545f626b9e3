// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"errors"
	"fmt"

	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/vm"
)

// Env is the environment of a native call invocation.
// Failures inside a call abort it by panicking, the executor turns them into errors.
type Env struct {
	executor *Executor
	state    state.State
	ctx      *vm.Context
	call     *vm.CallEntryPoint
	info     *vm.CallInfo
}

// Calldata returns the call arguments.
func (env *Env) Calldata() []stark.Felt { return env.call.Calldata }

// Caller returns the calling contract, zero for top level calls.
func (env *Env) Caller() stark.Address { return env.call.CallerAddress }

// ContractAddress returns the address whose storage the call runs on.
func (env *Env) ContractAddress() stark.Address { return env.call.StorageAddress }

// TxInfo returns the context of the running transaction.
func (env *Env) TxInfo() *tx.AccountContext { return &env.ctx.Account }

// UseSteps charges n steps.
func (env *Env) UseSteps(n uint64) {
	if err := env.ctx.UseSteps(n); err != nil {
		panic(&vmError{err})
	}
}

// UseBuiltin records usage of a vm builtin.
func (env *Env) UseBuiltin(name string, n uint64) {
	if env.info.Resources.Builtins == nil {
		env.info.Resources.Builtins = make(map[string]uint64)
	}
	env.info.Resources.Builtins[name] += n
}

// Require stops the call with msg unless cond holds.
func (env *Env) Require(cond bool, msg string) {
	if !cond {
		panic(&vmError{errors.New(msg)})
	}
}

// Stop stops the call with err.
func (env *Env) Stop(err error) {
	panic(&vmError{err})
}

// Args checks the calldata length and returns it.
func (env *Env) Args(n int) []stark.Felt {
	if len(env.call.Calldata) != n {
		env.Stop(fmt.Errorf("expected %d calldata items, got %d", n, len(env.call.Calldata)))
	}
	return env.call.Calldata
}

// Storage reads key of the contract storage.
func (env *Env) Storage(key stark.StorageKey) stark.Felt {
	env.UseSteps(storageReadSteps)
	v, err := env.state.GetStorageAt(env.call.StorageAddress, key)
	if err != nil {
		panic(&stateError{err})
	}
	return v
}

// SetStorage writes key of the contract storage.
func (env *Env) SetStorage(key stark.StorageKey, value stark.Felt) {
	env.UseSteps(storageWriteSteps)
	if err := env.state.SetStorageAt(env.call.StorageAddress, key, value); err != nil {
		panic(&stateError{err})
	}
}

// Call calls selector of the contract at to and returns its retdata.
// A failing inner call fails the caller.
func (env *Env) Call(to stark.Address, selector stark.EntryPointSelector, calldata []stark.Felt) []stark.Felt {
	inner, err := env.executor.Execute(&vm.CallEntryPoint{
		EntryPointType: vm.EntryPointExternal,
		Selector:       selector,
		Calldata:       calldata,
		StorageAddress: to,
		CallerAddress:  env.call.StorageAddress,
		CallType:       vm.CallTypeCall,
		InitialGas:     env.call.InitialGas,
	}, env.state, env.ctx)
	if err != nil {
		var execErr *vm.ExecutionError
		if errors.As(err, &execErr) {
			panic(&vmError{err})
		}
		panic(&stateError{err})
	}
	env.info.InnerCalls = append(env.info.InnerCalls, inner)
	for name, n := range inner.Resources.Builtins {
		env.UseBuiltin(name, n)
	}
	return inner.Retdata
}
