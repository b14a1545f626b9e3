// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"fmt"
	"sync"
)

// Goes to run and manage life-cycle of go routines.
// A panic in a go routine is recovered and reported by Wait.
type Goes struct {
	wg    sync.WaitGroup
	mu    sync.Mutex
	panic any
}

// Go run f in go routine.
func (g *Goes) Go(f func()) {
	g.wg.Add(1)
	go func() {
		defer g.wg.Done()
		defer func() {
			if r := recover(); r != nil {
				g.mu.Lock()
				if g.panic == nil {
					g.panic = r
				}
				g.mu.Unlock()
			}
		}()
		f()
	}()
}

// Wait wait for all go routines started by 'Go' done.
// It re-panics with the first recovered panic value.
func (g *Goes) Wait() {
	g.wg.Wait()
	if p := g.Recovered(); p != nil {
		panic(fmt.Errorf("co: go routine panicked: %v", p))
	}
}

// Recovered returns the first panic value recovered from go routines, or nil.
func (g *Goes) Recovered() any {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.panic
}

// Done return the done channel for exiting of all go routines.
func (g *Goes) Done() chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		g.wg.Wait()
	}()
	return done
}
