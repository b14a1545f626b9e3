// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"runtime"
)

// Parallel to run a batch of work using as many CPU as it can.
// Works are fed through the queue passed to cb. The returned channel is
// closed after all works done.
func Parallel(cb func(queue chan<- func())) <-chan struct{} {
	queue := make(chan func(), runtime.NumCPU()*2)
	var goes Goes
	for range runtime.NumCPU() {
		goes.Go(func() {
			for work := range queue {
				work()
			}
		})
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		cb(queue)
		close(queue)
		<-goes.Done()
	}()
	return done
}
