// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package builtin implements native contract classes and an executor running them.
package builtin

import (
	"github.com/vechain/l2exec/stark"
)

// step costs charged by the native executor.
const (
	callSteps         = 100
	storageReadSteps  = 20
	storageWriteSteps = 40
)

// Method is a native entry point.
type Method struct {
	Name string
	// Steps is charged before Run.
	Steps uint64
	// Builtins used by every invocation.
	Builtins map[string]uint64
	Run      func(env *Env) []stark.Felt
}

// Class is a native contract class.
type Class struct {
	Hash    stark.ClassHash
	methods map[stark.EntryPointSelector]*Method
}

// NewClass creates a class with the given entry points.
func NewClass(hash stark.ClassHash, methods ...*Method) *Class {
	c := &Class{
		Hash:    hash,
		methods: make(map[stark.EntryPointSelector]*Method, len(methods)),
	}
	for _, m := range methods {
		c.methods[stark.SelectorFromName(m.Name)] = m
	}
	return c
}

// Method returns the entry point of selector.
func (c *Class) Method(selector stark.EntryPointSelector) (*Method, bool) {
	m, ok := c.methods[selector]
	return m, ok
}

// storage variable keys of native contracts.
func storageVar(name string) stark.StorageKey {
	return stark.StorageKey(stark.Keccak250([]byte(name)))
}
