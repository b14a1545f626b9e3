// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package runtime_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/l2exec/block"
	"github.com/vechain/l2exec/builtin"
	"github.com/vechain/l2exec/fee"
	"github.com/vechain/l2exec/kv"
	"github.com/vechain/l2exec/runtime"
	"github.com/vechain/l2exec/stark"
	"github.com/vechain/l2exec/state"
	"github.com/vechain/l2exec/tx"
	"github.com/vechain/l2exec/versioned"
	"github.com/vechain/l2exec/vm"
)

var (
	alice  = stark.MustParseAddress("0xa11ce")
	bob    = stark.MustParseAddress("0xb0b")
	carol  = stark.MustParseAddress("0xca401")
	eve    = stark.MustParseAddress("0xe7e")
	pubKey = stark.FeltFromUint64(0x1234)

	transferSelector = stark.Felt(stark.SelectorFromName(tx.TransferEntryPoint))
)

// fixedFee charges the same fee whatever the resources.
type fixedFee uint64

func (f fixedFee) CalculateTxFee(tx.ResourcesMapping, *block.Context, stark.TransactionVersion) (stark.Fee, error) {
	return stark.NewFee(uint64(f)), nil
}

// snooper validates by reading the fee token balance of the sender.
var snooper = builtin.NewClass(stark.ClassHash(stark.Keccak250([]byte("test.Snooper"))),
	&builtin.Method{
		Name: tx.ValidateEntryPoint,
		Run: func(env *builtin.Env) []stark.Felt {
			sender := env.TxInfo().SenderAddress
			return env.Call(feeToken(), stark.SelectorFromName("balanceOf"), []stark.Felt{sender.Felt()})
		},
	},
	&builtin.Method{Name: tx.ExecuteEntryPoint, Run: func(*builtin.Env) []stark.Felt { return nil }},
)

func blockContext(t *testing.T) *block.Context {
	blk, err := block.DefaultConfig().Context()
	require.NoError(t, err)
	return blk
}

func feeToken() stark.Address {
	return block.DefaultConfig().EthFeeToken
}

type testChain struct {
	t   *testing.T
	db  *state.DB
	blk *block.Context
}

// newChain creates a chain holding the fee token and alice's account with nonce 5.
func newChain(t *testing.T, aliceBalance uint64) *testChain {
	store, err := kv.NewMemLevelDB()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	c := &testChain{t: t, db: state.NewDB(store), blk: blockContext(t)}
	require.NoError(t, c.db.SetClassHashAt(feeToken(), builtin.FeeTokenClassHash))
	c.deployAccount(alice, builtin.AccountClassHash)
	require.NoError(t, c.db.SetNonce(alice, stark.NewNonce(5)))
	c.mint(alice, aliceBalance)
	return c
}

func (c *testChain) deployAccount(addr stark.Address, classHash stark.ClassHash) {
	e := builtin.NewExecutor(builtin.Account, builtin.FeeToken, snooper)
	require.NoError(c.t, c.db.SetClassHashAt(addr, classHash))
	if classHash == builtin.AccountClassHash {
		ctx := vm.NewContext(c.blk, tx.AccountContext{}, c.blk.InvokeTxMaxNSteps)
		_, err := e.Execute(&vm.CallEntryPoint{
			EntryPointType: vm.EntryPointConstructor,
			Selector:       stark.SelectorFromName(tx.ConstructorEntryPoint),
			Calldata:       []stark.Felt{pubKey},
			StorageAddress: addr,
		}, c.db, ctx)
		require.NoError(c.t, err)
	}
}

func (c *testChain) mint(addr stark.Address, amount uint64) {
	require.NoError(c.t, builtin.Mint(c.db, feeToken(), addr, uint256.NewInt(amount)))
}

func (c *testChain) newRuntime(calc fee.Calculator) *runtime.Runtime {
	return runtime.New(builtin.NewExecutor(builtin.Account, builtin.FeeToken, snooper), calc, c.blk)
}

func (c *testChain) balance(addr stark.Address) uint64 {
	low, high, err := state.GetFeeTokenBalance(c.db, feeToken(), addr)
	require.NoError(c.t, err)
	require.True(c.t, high.IsZero())
	v, ok := low.Uint64()
	require.True(c.t, ok)
	return v
}

func (c *testChain) nonce(addr stark.Address) stark.Nonce {
	n, err := c.db.GetNonceAt(addr)
	require.NoError(c.t, err)
	return n
}

// transferTx invokes alice's account to transfer amount to bob.
func transferTx(nonce, maxFee, amount uint64) *tx.InvokeV1 {
	return &tx.InvokeV1{
		Version:       stark.TransactionVersion1,
		SenderAddress: alice,
		Calldata: []stark.Felt{
			feeToken().Felt(), transferSelector, stark.FeltFromUint64(3),
			bob.Felt(), stark.FeltFromUint64(amount), {},
		},
		Nonce:     stark.NewNonce(nonce),
		MaxFee:    stark.NewFee(maxFee),
		Signature: []stark.Felt{pubKey},
	}
}

func TestInvoke(t *testing.T) {
	c := newChain(t, 2000)
	rt := c.newRuntime(fixedFee(300))

	info, err := rt.ExecuteTransaction(c.db, transferTx(5, 1000, 10))
	require.NoError(t, err)

	assert.False(t, info.Reverted())
	assert.NotNil(t, info.ValidateCallInfo)
	assert.NotNil(t, info.ExecuteCallInfo)
	require.NotNil(t, info.FeeTransferCallInfo)
	assert.Equal(t, c.blk.SequencerAddress.Felt(), info.FeeTransferCallInfo.Call.Calldata[0])
	assert.Equal(t, alice, info.FeeTransferCallInfo.Call.CallerAddress)
	assert.Equal(t, stark.NewFee(300), info.ActualFee)
	assert.Len(t, info.NonOptionalCallInfos(), 2)

	assert.Equal(t, stark.NewNonce(6), c.nonce(alice))
	assert.Equal(t, uint64(2000-10-300), c.balance(alice))
	assert.Equal(t, uint64(10), c.balance(bob))
	assert.Equal(t, uint64(300), c.balance(c.blk.SequencerAddress))

	steps := info.ValidateCallInfo.Resources.NSteps + info.ExecuteCallInfo.Resources.NSteps
	assert.Equal(t, steps, info.ActualResources.Get(block.NSteps))
	// alice, bob and the fee token: 2 contracts, 2 storage cells
	assert.Equal(t, uint64(8*fee.GasPerMemoryWord), info.ActualResources.Get(block.L1GasUsage))
}

func TestInvalidNonce(t *testing.T) {
	c := newChain(t, 2000)

	_, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, transferTx(4, 1000, 10))
	var nonceErr *runtime.InvalidNonceError
	require.ErrorAs(t, err, &nonceErr)
	assert.Equal(t, runtime.InvalidNonceError{Address: alice, Expected: stark.NewNonce(5), Actual: stark.NewNonce(4)}, *nonceErr)

	assert.Equal(t, stark.NewNonce(5), c.nonce(alice))
	assert.Equal(t, uint64(2000), c.balance(alice))
}

func TestMaxFeeExceedsBalance(t *testing.T) {
	c := newChain(t, 500)

	_, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, transferTx(5, 1000, 10))
	var balanceErr *runtime.MaxFeeExceedsBalanceError
	require.ErrorAs(t, err, &balanceErr)
	assert.Equal(t, stark.NewFee(1000), balanceErr.MaxFee)
	assert.Equal(t, stark.FeltFromUint64(500), balanceErr.BalanceLow)
	assert.True(t, balanceErr.BalanceHigh.IsZero())

	// only the nonce increment survives a rejection
	assert.Equal(t, stark.NewNonce(6), c.nonce(alice))
	assert.Equal(t, uint64(500), c.balance(alice))
	assert.Zero(t, c.balance(bob))
}

func TestZeroMaxFee(t *testing.T) {
	c := newChain(t, 2000)

	info, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, transferTx(5, 0, 10))
	require.NoError(t, err)
	assert.True(t, info.ActualFee.IsZero())
	assert.Nil(t, info.FeeTransferCallInfo)
	assert.Zero(t, c.balance(c.blk.SequencerAddress))
	assert.Equal(t, uint64(1990), c.balance(alice))
}

func TestRevert(t *testing.T) {
	c := newChain(t, 2000)

	info, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, transferTx(5, 1000, 5000))
	require.NoError(t, err)

	assert.True(t, info.Reverted())
	assert.Contains(t, info.RevertError, "transfer amount exceeds balance")
	assert.Nil(t, info.ExecuteCallInfo)
	require.NotNil(t, info.ValidateCallInfo)
	require.NotNil(t, info.FeeTransferCallInfo)

	// validate: call, method and the public key read.
	// execute: __execute__ call, transfer call and the sender balance reads.
	assert.Equal(t, uint64(200), info.ValidateCallInfo.Resources.NSteps)
	assert.Equal(t, uint64(200+560), info.ActualResources.Get(block.NSteps))

	assert.Equal(t, stark.NewNonce(6), c.nonce(alice))
	assert.Equal(t, uint64(1700), c.balance(alice))
	assert.Zero(t, c.balance(bob))
	assert.Equal(t, uint64(300), c.balance(c.blk.SequencerAddress))
}

// overspent reports more steps left than the budget when __execute__ fails.
type overspent struct {
	vm.Executor
}

func (e overspent) Execute(call *vm.CallEntryPoint, st state.State, ctx *vm.Context) (*vm.CallInfo, error) {
	if call.Selector != stark.SelectorFromName(tx.ExecuteEntryPoint) {
		return e.Executor.Execute(call, st, ctx)
	}
	remaining := ctx.MaxSteps() + 1
	return nil, &vm.ExecutionError{
		StorageAddress: call.StorageAddress,
		Selector:       call.Selector,
		Cause:          vm.ErrOutOfSteps,
		Remaining:      &remaining,
	}
}

func TestRevertRemainingExceedsBudget(t *testing.T) {
	c := newChain(t, 2000)
	rt := runtime.New(overspent{builtin.NewExecutor(builtin.Account, builtin.FeeToken)}, fixedFee(300), c.blk)

	assert.Panics(t, func() {
		_, _ = rt.ExecuteTransaction(c.db, transferTx(5, 1000, 10))
	})
}

func TestValidateFailure(t *testing.T) {
	c := newChain(t, 2000)

	transaction := transferTx(5, 1000, 10)
	transaction.Signature = []stark.Felt{stark.FeltFromUint64(1)}
	_, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, transaction)

	var validateErr *runtime.ValidateError
	require.ErrorAs(t, err, &validateErr)
	assert.ErrorContains(t, err, "invalid signature")
	assert.Equal(t, uint64(2000), c.balance(alice))
}

func TestUnauthorizedInnerCall(t *testing.T) {
	c := newChain(t, 2000)
	c.deployAccount(eve, snooper.Hash)

	_, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, &tx.InvokeV1{Version: stark.TransactionVersion1, SenderAddress: eve})
	var callErr *runtime.UnauthorizedInnerCallError
	require.ErrorAs(t, err, &callErr)
	assert.Equal(t, feeToken(), callErr.Address)
	assert.Equal(t, tx.ValidateEntryPoint, callErr.EntryPoint)
	assert.Equal(t, stark.NewNonce(1), c.nonce(eve))
}

func TestInvalidVersion(t *testing.T) {
	c := newChain(t, 2000)
	rt := c.newRuntime(fixedFee(300))

	_, err := rt.ExecuteTransaction(c.db, &tx.DeployAccount{Version: stark.TransactionVersion0})
	var versionErr *runtime.InvalidVersionError
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, tx.TypeDeployAccount, versionErr.Type)

	_, err = rt.ExecuteTransaction(c.db, &tx.Declare{Version: stark.TransactionVersion3, SenderAddress: alice, Nonce: stark.NewNonce(5)})
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, stark.NewNonce(5), c.nonce(alice))

	invoke := transferTx(5, 300, 10)
	invoke.Version = stark.TransactionVersion3
	_, err = rt.ExecuteTransaction(c.db, invoke)
	require.ErrorAs(t, err, &versionErr)
	assert.Equal(t, tx.TypeInvokeFunction, versionErr.Type)
	assert.Equal(t, stark.TransactionVersion3, versionErr.Version)
	assert.Equal(t, []stark.TransactionVersion{stark.TransactionVersion0, stark.TransactionVersion1}, versionErr.Allowed)
	assert.Equal(t, stark.NewNonce(5), c.nonce(alice))
	assert.Equal(t, uint64(2000), c.balance(alice))
	assert.Equal(t, uint64(0), c.balance(bob))
}

func TestDeployAccount(t *testing.T) {
	c := newChain(t, 2000)
	c.mint(carol, 1000)

	info, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, &tx.DeployAccount{
		Version:             stark.TransactionVersion1,
		ClassHash:           builtin.AccountClassHash,
		ConstructorCalldata: []stark.Felt{pubKey},
		ContractAddress:     carol,
		MaxFee:              stark.NewFee(500),
		Signature:           []stark.Felt{pubKey},
	})
	require.NoError(t, err)
	assert.NotNil(t, info.ExecuteCallInfo)
	assert.NotNil(t, info.ValidateCallInfo)

	classHash, err := c.db.GetClassHashAt(carol)
	require.NoError(t, err)
	assert.Equal(t, builtin.AccountClassHash, classHash)
	assert.Equal(t, stark.NewNonce(1), c.nonce(carol))
	assert.Equal(t, uint64(700), c.balance(carol))

	// the address is taken now
	_, err = c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, &tx.DeployAccount{
		Version:         stark.TransactionVersion1,
		ClassHash:       builtin.AccountClassHash,
		ContractAddress: carol,
		Nonce:           stark.NewNonce(1),
	})
	var deployErr *runtime.ContractAddressUnavailableError
	assert.ErrorAs(t, err, &deployErr)
}

func TestDeclare(t *testing.T) {
	c := newChain(t, 2000)
	rt := c.newRuntime(fixedFee(300))

	classHash := stark.ClassHash(stark.FeltFromUint64(0xc1a55))
	compiled := stark.CompiledClassHash(stark.FeltFromUint64(0xc0de))
	declare := func(nonce uint64) *tx.Declare {
		return &tx.Declare{
			Version:           stark.TransactionVersion2,
			ClassHash:         classHash,
			CompiledClassHash: compiled,
			SenderAddress:     alice,
			Nonce:             stark.NewNonce(nonce),
			MaxFee:            stark.NewFee(1000),
			Signature:         []stark.Felt{pubKey},
		}
	}

	info, err := rt.ExecuteTransaction(c.db, declare(5))
	require.NoError(t, err)
	assert.False(t, info.Reverted())
	assert.Nil(t, info.ExecuteCallInfo)
	got, err := c.db.GetCompiledClassHash(classHash)
	require.NoError(t, err)
	assert.Equal(t, compiled, got)

	info, err = rt.ExecuteTransaction(c.db, declare(6))
	require.NoError(t, err)
	assert.Contains(t, info.RevertError, "already declared")
	assert.Equal(t, info.ValidateCallInfo.Resources.NSteps, info.ActualResources.Get(block.NSteps))
	assert.Equal(t, uint64(2000-600), c.balance(alice))
}

func TestInvokeV0(t *testing.T) {
	c := newChain(t, 2000)

	info, err := c.newRuntime(fixedFee(300)).ExecuteTransaction(c.db, &tx.InvokeV0{
		ContractAddress:    feeToken(),
		EntryPointSelector: stark.SelectorFromName("balanceOf"),
		Calldata:           []stark.Felt{alice.Felt()},
	})
	require.NoError(t, err)
	assert.Nil(t, info.ValidateCallInfo)
	require.NotNil(t, info.ExecuteCallInfo)
	assert.Equal(t, []stark.Felt{stark.FeltFromUint64(2000), {}}, info.ExecuteCallInfo.Retdata)
	assert.Equal(t, stark.NewNonce(5), c.nonce(alice))
}

func TestDefaultCalculator(t *testing.T) {
	c := newChain(t, 1_000_000)
	rt := c.newRuntime(fee.Default{})

	info, err := rt.ExecuteTransaction(c.db, transferTx(5, 100_000, 10))
	require.NoError(t, err)
	expected, err := fee.Default{}.CalculateTxFee(info.ActualResources, c.blk, stark.TransactionVersion1)
	require.NoError(t, err)
	assert.Equal(t, expected, info.ActualFee)
	assert.False(t, info.ActualFee.IsZero())

	_, err = rt.ExecuteTransaction(c.db, transferTx(6, 10, 10))
	var feeErr *runtime.FeeTransferError
	require.ErrorAs(t, err, &feeErr)
	assert.Equal(t, stark.NewFee(10), feeErr.MaxFee)
	assert.Equal(t, stark.NewNonce(7), c.nonce(alice))
	assert.Equal(t, uint64(10), c.balance(bob))
}

func TestVersionedViews(t *testing.T) {
	c := newChain(t, 2000)
	rt := c.newRuntime(fixedFee(300))
	vs := versioned.NewState(c.db)

	for i, nonce := range []uint64{5, 6} {
		info, err := rt.ExecuteTransaction(vs.View(versioned.Version(i)), transferTx(nonce, 1000, 10))
		require.NoError(t, err)
		assert.False(t, info.Reverted())
	}
	assert.Equal(t, stark.NewNonce(5), c.nonce(alice), "db untouched before apply")

	require.NoError(t, vs.Apply(c.db))
	assert.Equal(t, stark.NewNonce(7), c.nonce(alice))
	assert.Equal(t, uint64(2000-2*310), c.balance(alice))
	assert.Equal(t, uint64(20), c.balance(bob))
}
