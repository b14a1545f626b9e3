// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"errors"
	"fmt"

	"github.com/vechain/l2exec/stark"
)

var (
	ErrOutOfSteps     = errors.New("out of steps")
	ErrRecursionDepth = errors.New("max recursion depth exceeded")
)

// ExecutionError is a failed call.
type ExecutionError struct {
	StorageAddress stark.Address
	Selector       stark.EntryPointSelector
	Cause          error
	// Remaining is the step budget left when the call failed, if known.
	Remaining *uint64
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("execute %v at %v: %v", e.Selector, e.StorageAddress, e.Cause)
}

func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

// RemainingSteps returns the steps left when the call failed.
func (e *ExecutionError) RemainingSteps() (uint64, bool) {
	if e.Remaining == nil {
		return 0, false
	}
	return *e.Remaining, true
}
