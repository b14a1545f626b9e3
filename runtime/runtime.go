// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes account transactions.
package runtime

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/fee"
	"github.com/vechain/l2exec/log"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/vm"
)

var logger = log.WithContext("pkg", "runtime")

// Runtime is to support transaction execution.
type Runtime struct {
	executor vm.Executor
	fees     fee.Calculator
	blk      *block.Context
}

// New create a Runtime object.
func New(executor vm.Executor, fees fee.Calculator, blk *block.Context) *Runtime {
	return &Runtime{
		executor: executor,
		fees:     fees,
		blk:      blk,
	}
}

func (rt *Runtime) BlockContext() *block.Context { return rt.blk }

// revertData is the failure of a reverted execution.
type revertData struct {
	errorTrace string
	// remaining steps of the execute budget, if known
	remaining *uint64
}

// stepsUsed returns the steps burned by the reverted execution, zero if
// nothing was reverted or the remainder is unknown. It panics if the revert
// comes with an execute trace or if more steps remain than the budget holds.
func (r *revertData) stepsUsed(executeInfo *vm.CallInfo, maxSteps uint64) uint64 {
	if r == nil || r.remaining == nil {
		return 0
	}
	if executeInfo != nil {
		panic(fmt.Sprintf("reverted transaction cannot carry an execute trace: %+v", executeInfo))
	}
	if *r.remaining > maxSteps {
		panic(fmt.Sprintf("remaining steps %d exceed the budget %d", *r.remaining, maxSteps))
	}
	return maxSteps - *r.remaining
}

// ExecuteTransaction executes an account transaction on st.
//
// A returned error means the transaction is rejected, nothing but its nonce
// increment is applied. A failed execution is reverted instead, reported by
// ExecutionInfo.RevertError, and the transaction is still charged.
func (rt *Runtime) ExecuteTransaction(st state.State, t tx.Account) (info *ExecutionInfo, err error) {
	defer func() {
		if err == nil && info == nil {
			// panicking
			return
		}
		outcome := "success"
		if err != nil {
			outcome = "rejected"
		} else if info.Reverted() {
			outcome = "reverted"
		}
		metricTxCounter().AddWithLabel(1, map[string]string{"type": t.Type().String(), "outcome": outcome})
	}()

	resolved, err := ResolveTransaction(t)
	if err != nil {
		return nil, err
	}

	// the nonce increment is kept even if the transaction is rejected later
	if err := resolved.HandleNonce(st); err != nil {
		return nil, err
	}

	txState := state.NewCached(st)
	info, err = rt.execute(txState, resolved)
	if err != nil {
		txState.Abort()
		return nil, err
	}
	if err := txState.Commit(); err != nil {
		return nil, err
	}

	metricTxSteps().Observe(int64(info.ActualResources.Get(block.NSteps)))
	return info, nil
}

func (rt *Runtime) execute(st *state.Cached, r *ResolvedTransaction) (*ExecutionInfo, error) {
	if err := r.CheckBalance(st, rt.blk); err != nil {
		return nil, err
	}

	ctx := vm.NewContext(rt.blk, r.Context, rt.blk.InvokeTxMaxNSteps)
	validateInfo, executeInfo, revert, err := rt.runOrRevert(st, r, ctx)
	if err != nil {
		return nil, err
	}

	resources, err := rt.calculateResources(st, r, validateInfo, executeInfo)
	if err != nil {
		return nil, err
	}
	// a reverted execution is billed by the steps it burned
	resources.Add(block.NSteps, revert.stepsUsed(executeInfo, ctx.MaxSteps()))

	actualFee, feeTransferInfo, err := rt.chargeFee(st, r, resources)
	if err != nil {
		return nil, err
	}

	info := &ExecutionInfo{
		ValidateCallInfo:    validateInfo,
		ExecuteCallInfo:     executeInfo,
		FeeTransferCallInfo: feeTransferInfo,
		ActualFee:           actualFee,
		ActualResources:     resources,
	}
	if revert != nil {
		info.RevertError = revert.errorTrace
		logger.Info("transaction reverted", "hash", r.Context.TransactionHash, "sender", r.Context.SenderAddress, "error", revert.errorTrace)
	}
	logger.Debug("transaction executed", "hash", r.Context.TransactionHash, "type", r.Type, "fee", actualFee, "steps", resources.Get(block.NSteps))
	return info, nil
}

// runOrRevert runs validation and execution. Execution runs on an overlay
// discarded when it fails, which keeps the validation effects.
func (rt *Runtime) runOrRevert(st state.State, r *ResolvedTransaction, ctx *vm.Context) (validateInfo, executeInfo *vm.CallInfo, revert *revertData, err error) {
	// deploying an account has nothing to validate against before the account exists
	if r.Type == tx.TypeDeployAccount {
		ctx.SetStepLimit(rt.blk.InvokeTxMaxNSteps)
		if executeInfo, err = rt.runExecute(st, r, ctx); err != nil {
			return nil, nil, nil, err
		}
		if validateInfo, err = rt.validate(st, r, ctx); err != nil {
			return nil, nil, nil, err
		}
		return validateInfo, executeInfo, nil, nil
	}

	if validateInfo, err = rt.validate(st, r, ctx); err != nil {
		return nil, nil, nil, err
	}

	ctx.SetStepLimit(rt.blk.InvokeTxMaxNSteps)
	execState := state.NewCached(st)
	executeInfo, err = rt.runExecute(execState, r, ctx)
	if err != nil {
		execState.Abort()
		if !isRevertible(err) {
			return nil, nil, nil, err
		}
		revert = &revertData{errorTrace: ctx.ErrorTrace()}
		if revert.errorTrace == "" {
			revert.errorTrace = err.Error()
		}
		var execErr *vm.ExecutionError
		if errors.As(err, &execErr) {
			if remaining, ok := execErr.RemainingSteps(); ok {
				revert.remaining = &remaining
			}
		}
		return validateInfo, nil, revert, nil
	}
	if err := execState.Commit(); err != nil {
		return nil, nil, nil, err
	}
	logger.Trace("executed", "hash", r.Context.TransactionHash, "steps", ctx.MaxSteps()-ctx.RemainingSteps())
	return validateInfo, executeInfo, nil, nil
}

// isRevertible returns whether an execute failure reverts the transaction.
// Other failures, such as state access errors, are fatal.
func isRevertible(err error) bool {
	var (
		execErr     *vm.ExecutionError
		declaredErr *ClassAlreadyDeclaredError
		deployErr   *ContractAddressUnavailableError
	)
	return errors.As(err, &execErr) || errors.As(err, &declaredErr) || errors.As(err, &deployErr)
}

// validate calls the validate entry point of the sender. Version 0 transactions are not validated.
func (rt *Runtime) validate(st state.State, r *ResolvedTransaction, ctx *vm.Context) (*vm.CallInfo, error) {
	if r.Context.IsV0() {
		return nil, nil
	}
	ctx.SetStepLimit(rt.blk.ValidateMaxNSteps)

	sender := r.Context.SenderAddress
	entryPoint := r.tx.ValidateEntryPoint()
	info, err := rt.executor.Execute(&vm.CallEntryPoint{
		EntryPointType: vm.EntryPointExternal,
		Selector:       stark.SelectorFromName(entryPoint),
		Calldata:       r.tx.ValidateCalldata(),
		StorageAddress: sender,
		CallType:       vm.CallTypeCall,
		InitialGas:     vm.InitialGas,
	}, st, ctx)
	if err != nil {
		var execErr *vm.ExecutionError
		if errors.As(err, &execErr) {
			return nil, &ValidateError{Cause: err}
		}
		return nil, err
	}

	var unauthorized *UnauthorizedInnerCallError
	info.Iter(func(c *vm.CallInfo) bool {
		if c.Call.StorageAddress != sender {
			unauthorized = &UnauthorizedInnerCallError{EntryPoint: entryPoint, Address: c.Call.StorageAddress}
			return false
		}
		return true
	})
	if unauthorized != nil {
		return nil, unauthorized
	}
	logger.Trace("validated", "hash", r.Context.TransactionHash, "steps", info.Resources.NSteps)
	return info, nil
}

// runExecute runs the kind specific execution.
func (rt *Runtime) runExecute(st state.State, r *ResolvedTransaction, ctx *vm.Context) (*vm.CallInfo, error) {
	switch t := r.tx.(type) {
	case *tx.Declare:
		return nil, declare(st, t)
	case *tx.DeployAccount:
		return rt.deployAccount(st, t, ctx)
	case *tx.InvokeV0:
		return rt.executor.Execute(&vm.CallEntryPoint{
			EntryPointType: vm.EntryPointExternal,
			Selector:       t.EntryPointSelector,
			Calldata:       t.Calldata,
			StorageAddress: t.ContractAddress,
			CallType:       vm.CallTypeCall,
			InitialGas:     vm.InitialGas,
		}, st, ctx)
	case *tx.InvokeV1:
		return rt.executor.Execute(&vm.CallEntryPoint{
			EntryPointType: vm.EntryPointExternal,
			Selector:       stark.SelectorFromName(tx.ExecuteEntryPoint),
			Calldata:       t.Calldata,
			StorageAddress: t.SenderAddress,
			CallType:       vm.CallTypeCall,
			InitialGas:     vm.InitialGas,
		}, st, ctx)
	default:
		return nil, fmt.Errorf("unsupported transaction %T", t)
	}
}

// declare records the compiled class hash of version 2 declares. Earlier
// versions declare classes without compiled class hash.
func declare(st state.State, t *tx.Declare) error {
	if t.Version.Cmp(stark.TransactionVersion2) < 0 {
		return nil
	}
	compiled, err := st.GetCompiledClassHash(t.ClassHash)
	if err != nil {
		return err
	}
	if !compiled.IsZero() {
		return &ClassAlreadyDeclaredError{ClassHash: t.ClassHash}
	}
	return st.SetCompiledClassHash(t.ClassHash, t.CompiledClassHash)
}

func (rt *Runtime) deployAccount(st state.State, t *tx.DeployAccount, ctx *vm.Context) (*vm.CallInfo, error) {
	current, err := st.GetClassHashAt(t.ContractAddress)
	if err != nil {
		return nil, err
	}
	if !current.IsZero() {
		return nil, &ContractAddressUnavailableError{Address: t.ContractAddress}
	}
	if err := st.SetClassHashAt(t.ContractAddress, t.ClassHash); err != nil {
		return nil, err
	}

	classHash := t.ClassHash
	return rt.executor.Execute(&vm.CallEntryPoint{
		ClassHash:      &classHash,
		EntryPointType: vm.EntryPointConstructor,
		Selector:       stark.SelectorFromName(tx.ConstructorEntryPoint),
		Calldata:       t.ConstructorCalldata,
		StorageAddress: t.ContractAddress,
		CallType:       vm.CallTypeCall,
		InitialGas:     vm.InitialGas,
	}, st, ctx)
}

// calculateResources sums the resources of the calls and the l1 gas paid
// for the state changes, including the fee transfer yet to run.
func (rt *Runtime) calculateResources(st *state.Cached, r *ResolvedTransaction, calls ...*vm.CallInfo) (tx.ResourcesMapping, error) {
	var total vm.ExecutionResources
	for _, c := range calls {
		if c != nil {
			total.Add(&c.Resources)
		}
	}
	resources := total.ToMapping()

	changes, err := st.Changes()
	if err != nil {
		return nil, err
	}
	count := changes.Count(r.feeContracts(rt.blk), r.feeStorageCells(rt.blk))
	resources.Add(block.L1GasUsage, fee.L1GasUsage(count))
	return resources, nil
}

// chargeFee transfers the actual fee from the sender to the sequencer.
func (rt *Runtime) chargeFee(st state.State, r *ResolvedTransaction, resources tx.ResourcesMapping) (stark.Fee, *vm.CallInfo, error) {
	if !r.Context.EnforceFee() {
		return stark.Fee{}, nil, nil
	}

	actualFee, err := rt.fees.CalculateTxFee(resources, rt.blk, r.Context.Version)
	if err != nil {
		return stark.Fee{}, nil, err
	}
	maxFee := r.Context.MaxFee
	if actualFee.Cmp(maxFee) > 0 {
		return stark.Fee{}, nil, &FeeTransferError{MaxFee: maxFee, ActualFee: actualFee}
	}

	// a fresh context, the fee transfer is not billed
	ctx := vm.NewContext(rt.blk, r.Context, rt.blk.InvokeTxMaxNSteps)
	info, err := rt.executor.Execute(&vm.CallEntryPoint{
		EntryPointType: vm.EntryPointExternal,
		Selector:       stark.SelectorFromName(tx.TransferEntryPoint),
		Calldata:       []stark.Felt{rt.blk.SequencerAddress.Felt(), actualFee.Felt(), {}},
		StorageAddress: rt.blk.FeeTokenAddress(r.Context.Version),
		CallerAddress:  r.Context.SenderAddress,
		CallType:       vm.CallTypeCall,
		InitialGas:     vm.InitialGas,
	}, st, ctx)
	if err != nil {
		return stark.Fee{}, nil, errors.WithMessage(err, "fee transfer")
	}
	return actualFee, info, nil
}
