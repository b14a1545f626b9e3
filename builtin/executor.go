// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"errors"
	"fmt"

	"github.com/vechain/l2exec/log"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/vm"
)

var logger = log.WithContext("pkg", "builtin")

var (
	errNotDeployed      = errors.New("contract not deployed")
	errUndeclaredClass  = errors.New("class not declared")
	errEntryPointAbsent = errors.New("entry point not found")
)

// Executor runs native classes. It implements vm.Executor.
type Executor struct {
	classes map[stark.ClassHash]*Class
}

var _ vm.Executor = (*Executor)(nil)

// NewExecutor creates an executor knowing classes.
func NewExecutor(classes ...*Class) *Executor {
	e := &Executor{classes: make(map[stark.ClassHash]*Class)}
	for _, c := range classes {
		e.classes[c.Hash] = c
	}
	return e
}

// Class returns the class of hash.
func (e *Executor) Class(hash stark.ClassHash) (*Class, bool) {
	c, ok := e.classes[hash]
	return c, ok
}

// vmError is the panic value of a failing native call.
type vmError struct {
	cause error
}

func (e *vmError) Error() string {
	return e.cause.Error()
}

// stateError is the panic value of a failed state access.
type stateError struct {
	cause error
}

func (e *stateError) Error() string {
	return e.cause.Error()
}

// Execute runs call. Contract failures return *vm.ExecutionError, state access
// failures are returned as they are.
func (e *Executor) Execute(call *vm.CallEntryPoint, st state.State, ctx *vm.Context) (info *vm.CallInfo, err error) {
	fail := func(cause error) error {
		remaining := ctx.RemainingSteps()
		ctx.PushError("Error in the called contract (%v), selector %v: %v", call.StorageAddress, call.Selector, cause)
		return &vm.ExecutionError{
			StorageAddress: call.StorageAddress,
			Selector:       call.Selector,
			Cause:          cause,
			Remaining:      &remaining,
		}
	}

	if err := ctx.Enter(); err != nil {
		return nil, fail(err)
	}
	defer ctx.Leave()

	stepsBefore := ctx.RemainingSteps()
	info = &vm.CallInfo{Call: *call}

	method, err := e.resolve(call, st)
	if err != nil {
		if se, ok := err.(*stateError); ok {
			return nil, se.cause
		}
		return nil, fail(err)
	}
	if method == nil {
		// absent constructor with empty calldata
		return info, nil
	}

	defer func() {
		if r := recover(); r != nil {
			switch v := r.(type) {
			case *vmError:
				info, err = nil, fail(v.cause)
			case *stateError:
				info, err = nil, v.cause
			default:
				panic(r)
			}
			return
		}
		info.Resources.NSteps = stepsBefore - ctx.RemainingSteps()
		info.GasConsumed = info.Resources.NSteps
	}()

	env := &Env{executor: e, state: st, ctx: ctx, call: call, info: info}
	env.UseSteps(callSteps + method.Steps)
	for name, n := range method.Builtins {
		env.UseBuiltin(name, n)
	}
	info.Retdata = method.Run(env)

	logger.Trace("native call", "addr", call.StorageAddress, "method", method.Name, "depth", ctx.Depth())
	return info, nil
}

// resolve finds the method called. A nil method with nil error is an absent constructor.
func (e *Executor) resolve(call *vm.CallEntryPoint, st state.State) (*Method, error) {
	var classHash stark.ClassHash
	if call.ClassHash != nil {
		classHash = *call.ClassHash
	} else {
		h, err := st.GetClassHashAt(call.StorageAddress)
		if err != nil {
			return nil, &stateError{err}
		}
		if h.IsZero() {
			return nil, errNotDeployed
		}
		classHash = h
	}

	class, ok := e.classes[classHash]
	if !ok {
		return nil, fmt.Errorf("%w: %v", errUndeclaredClass, classHash)
	}
	method, ok := class.Method(call.Selector)
	if !ok {
		if call.EntryPointType == vm.EntryPointConstructor && len(call.Calldata) == 0 {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: %v", errEntryPointAbsent, call.Selector)
	}
	return method, nil
}
