// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
)

// EntryPointType is the kind of a contract entry point.
type EntryPointType byte

const (
	EntryPointExternal EntryPointType = iota
	EntryPointL1Handler
	EntryPointConstructor
)

// CallType distinguishes regular calls from library calls.
type CallType byte

const (
	CallTypeCall CallType = iota
	CallTypeDelegate
)

// InitialGas is the gas given to every top level call.
const InitialGas uint64 = 1_000_000_000_000

// CallEntryPoint describes a call into a contract.
type CallEntryPoint struct {
	// ClassHash overrides the class of StorageAddress when set.
	ClassHash      *stark.ClassHash
	CodeAddress    *stark.Address
	EntryPointType EntryPointType
	Selector       stark.EntryPointSelector
	Calldata       []stark.Felt
	StorageAddress stark.Address
	CallerAddress  stark.Address
	CallType       CallType
	InitialGas     uint64
}

// ExecutionResources are the vm resources consumed by a call.
type ExecutionResources struct {
	NSteps       uint64
	NMemoryHoles uint64
	Builtins     map[string]uint64
}

// Add adds other into r.
func (r *ExecutionResources) Add(other *ExecutionResources) {
	r.NSteps += other.NSteps
	r.NMemoryHoles += other.NMemoryHoles
	for name, n := range other.Builtins {
		if r.Builtins == nil {
			r.Builtins = make(map[string]uint64)
		}
		r.Builtins[name] += n
	}
}

// ToMapping converts r into a resources mapping.
func (r *ExecutionResources) ToMapping() tx.ResourcesMapping {
	m := tx.ResourcesMapping{}
	m.Add(block.NSteps, r.NSteps+r.NMemoryHoles)
	for name, n := range r.Builtins {
		m.Add(name, n)
	}
	return m
}

// CallInfo is the trace of an executed call.
type CallInfo struct {
	Call        CallEntryPoint
	Retdata     []stark.Felt
	Resources   ExecutionResources
	InnerCalls  []*CallInfo
	GasConsumed uint64
	Failed      bool
}

// Iter visits the call and all nested calls in pre-order until fn returns false.
func (c *CallInfo) Iter(fn func(*CallInfo) bool) bool {
	if !fn(c) {
		return false
	}
	for _, inner := range c.InnerCalls {
		if !inner.Iter(fn) {
			return false
		}
	}
	return true
}

// Executor runs contract code.
type Executor interface {
	// Execute runs call against st. Failures are reported as *ExecutionError.
	Execute(call *CallEntryPoint, st state.State, ctx *Context) (*CallInfo, error)
}
