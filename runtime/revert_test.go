// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/l2exec/vm"
)

func TestRevertStepsUsed(t *testing.T) {
	remaining := uint64(400)

	var none *revertData
	assert.Zero(t, none.stepsUsed(nil, 1000))
	assert.Zero(t, (&revertData{errorTrace: "failed"}).stepsUsed(nil, 1000))
	assert.Equal(t, uint64(600), (&revertData{remaining: &remaining}).stepsUsed(nil, 1000))
	assert.Zero(t, (&revertData{remaining: &remaining}).stepsUsed(nil, 400))

	assert.Panics(t, func() { (&revertData{remaining: &remaining}).stepsUsed(nil, 399) })
	assert.Panics(t, func() { (&revertData{remaining: &remaining}).stepsUsed(&vm.CallInfo{}, 1000) })
}
