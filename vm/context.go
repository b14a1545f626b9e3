// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vm

import (
	"fmt"
	"strings"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/tx"
)

// Context is the execution context of one phase of a transaction.
type Context struct {
	Block   *block.Context
	Account tx.AccountContext

	depth     uint64
	maxSteps  uint64
	remaining uint64
	errStack  []string
}

// NewContext creates a context with the step budget maxSteps.
func NewContext(blk *block.Context, account tx.AccountContext, maxSteps uint64) *Context {
	return &Context{
		Block:     blk,
		Account:   account,
		maxSteps:  maxSteps,
		remaining: maxSteps,
	}
}

// SetStepLimit resets the step budget.
func (c *Context) SetStepLimit(maxSteps uint64) {
	c.maxSteps = maxSteps
	c.remaining = maxSteps
}

// MaxSteps returns the step budget.
func (c *Context) MaxSteps() uint64 { return c.maxSteps }

// RemainingSteps returns the unused steps of the budget.
func (c *Context) RemainingSteps() uint64 { return c.remaining }

// UseSteps consumes n steps. ErrOutOfSteps is returned and the budget drained
// if fewer than n steps remain.
func (c *Context) UseSteps(n uint64) error {
	if n > c.remaining {
		c.remaining = 0
		return ErrOutOfSteps
	}
	c.remaining -= n
	return nil
}

// Enter increases the call depth. ErrRecursionDepth is returned when the block limit is exceeded.
func (c *Context) Enter() error {
	if c.depth >= c.Block.MaxRecursionDepth {
		return ErrRecursionDepth
	}
	c.depth++
	return nil
}

// Leave decreases the call depth.
func (c *Context) Leave() {
	c.depth--
}

// Depth returns the current call depth.
func (c *Context) Depth() uint64 { return c.depth }

// PushError records a failure frame of the error trace.
func (c *Context) PushError(format string, args ...any) {
	c.errStack = append(c.errStack, fmt.Sprintf(format, args...))
}

// ErrorTrace renders the recorded failure frames, outermost first.
func (c *Context) ErrorTrace() string {
	var b strings.Builder
	for i := len(c.errStack) - 1; i >= 0; i-- {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(c.errStack[i])
	}
	return b.String()
}
