// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime

import (
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/vm"
)

// ExecutionInfo is the outcome of an included transaction.
type ExecutionInfo struct {
	ValidateCallInfo    *vm.CallInfo
	ExecuteCallInfo     *vm.CallInfo
	FeeTransferCallInfo *vm.CallInfo
	ActualFee           stark.Fee
	ActualResources     tx.ResourcesMapping
	// RevertError is the error trace of a reverted execution.
	RevertError string
}

// Reverted returns whether the execution was reverted.
func (info *ExecutionInfo) Reverted() bool {
	return info.RevertError != ""
}

// NonOptionalCallInfos returns the present validate and execute traces.
func (info *ExecutionInfo) NonOptionalCallInfos() []*vm.CallInfo {
	var infos []*vm.CallInfo
	for _, c := range []*vm.CallInfo{info.ValidateCallInfo, info.ExecuteCallInfo} {
		if c != nil {
			infos = append(infos, c)
		}
	}
	return infos
}
