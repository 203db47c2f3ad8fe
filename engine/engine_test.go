// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package engine

import (
	"testing"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/chain"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/state"
	"github.com/kanari-chain/kanari/txn"
	"github.com/kanari-chain/kanari/vm"
)

func newTestEngine(t *testing.T) (*ExecutionEngine, *state.Manager) {
	t.Helper()
	st := state.New()
	reg := vm.NewRegistry()
	eng := New(chain.NewMempool(), st, chain.NewBlockchain(), reg)
	eng.SkipSignature = true
	return eng, st
}

func mintDirect(t *testing.T, st *state.Manager, addr address.Address, amount uint64) {
	t.Helper()
	cs := changeset.New()
	cs.GetOrCreateChange(addr).Credit(amount)
	if err := st.Apply(cs); err != nil {
		t.Fatalf("unexpected error minting: %v", err)
	}
}

func TestProduceBlock_SimpleTransfer(t *testing.T) {
	eng, st := newTestEngine(t)
	alice := address.MustParse("0xA11CE")
	bob := address.MustParse("0xB0B")
	mintDirect(t, st, alice, 1000)

	eng.Mempool.Submit(txn.SignedTransaction{Body: txn.NewTransfer(alice, bob, 300, 1000, 1)})

	summary, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Executed != 1 || summary.Failed != 0 {
		t.Fatalf("wanted 1 executed 0 failed, got executed=%d failed=%d", summary.Executed, summary.Failed)
	}
	if got, want := st.GetBalance(alice), uint64(500); got != want {
		t.Errorf("wanted alice balance %d, got %d", want, got)
	}
	if got, want := st.GetBalance(bob), uint64(300); got != want {
		t.Errorf("wanted bob balance %d, got %d", want, got)
	}
	if got, want := st.GetBalance(address.Dao), uint64(200); got != want {
		t.Errorf("wanted dao balance %d, got %d", want, got)
	}
	if got, want := st.GetSequence(alice), uint64(1); got != want {
		t.Errorf("wanted alice sequence %d, got %d", want, got)
	}
}

func TestProduceBlock_InsufficientFundsLeavesStateUntouched(t *testing.T) {
	eng, st := newTestEngine(t)
	alice := address.MustParse("0xA11CE")
	bob := address.MustParse("0xB0B")
	mintDirect(t, st, alice, 100)

	eng.Mempool.Submit(txn.SignedTransaction{Body: txn.NewTransfer(alice, bob, 200, 1000, 1)})

	summary, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Executed != 0 || summary.Failed != 1 {
		t.Fatalf("wanted 0 executed 1 failed, got executed=%d failed=%d", summary.Executed, summary.Failed)
	}
	if got, want := st.GetBalance(alice), uint64(100); got != want {
		t.Errorf("expected balance untouched, wanted %d, got %d", want, got)
	}
	if got, want := st.GetSequence(alice), uint64(0); got != want {
		t.Errorf("expected sequence untouched, wanted %d, got %d", want, got)
	}
}

func TestProduceBlock_MissingEntryFunctionIsIngressRejectionNoGas(t *testing.T) {
	eng, st := newTestEngine(t)
	dev := address.Dev
	mintDirect(t, st, dev, 10_000)

	id, err := address.NewModuleId(address.KanariSystem, "genesis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	eng.Mempool.Submit(txn.SignedTransaction{Body: txn.NewExecuteFunction(dev, id, "nonexistent", nil, nil, 10_000, 1)})

	summary, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("wanted 1 failed, got %d", summary.Failed)
	}
	if got, want := st.GetBalance(dev), uint64(10_000); got != want {
		t.Errorf("expected no gas charged for ingress rejection, wanted balance %d, got %d", want, got)
	}
	if got, want := st.GetSequence(dev), uint64(0); got != want {
		t.Errorf("expected sequence untouched for ingress rejection, wanted %d, got %d", want, got)
	}
}

func TestProduceBlock_AbortChargesGasAndIncrementsSequence(t *testing.T) {
	eng, st := newTestEngine(t)
	vm.RegisterCoin(eng.Registry)
	attacker := address.MustParse("0xBAD")
	mintDirect(t, st, attacker, 10_000)

	addrAmount := make([]byte, 40)
	copy(addrAmount[:32], attacker[:])

	eng.Mempool.Submit(txn.SignedTransaction{Body: txn.NewExecuteFunction(attacker, vm.CoinModuleId, "mint", nil, [][]byte{addrAmount[:32], addrAmount[32:]}, 10_000, 1)})

	summary, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("wanted 1 failed, got %d", summary.Failed)
	}
	if got, want := st.GetBalance(attacker), uint64(10_000-500); got != want {
		t.Errorf("expected ExecuteFunction gas charged on abort, wanted %d, got %d", want, got)
	}
	if got, want := st.GetSequence(attacker), uint64(1); got != want {
		t.Errorf("expected sequence incremented on abort, wanted %d, got %d", want, got)
	}
	if got, want := st.GetBalance(address.Dao), uint64(500); got != want {
		t.Errorf("expected dao credited gas on abort, wanted %d, got %d", want, got)
	}
}

func TestProduceBlock_BlockLinkage(t *testing.T) {
	eng, st := newTestEngine(t)
	alice := address.MustParse("0xA11CE")
	bob := address.MustParse("0xB0B")
	mintDirect(t, st, alice, 10_000)

	first, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := first.Height, uint64(0); got != want {
		t.Fatalf("wanted genesis-style first block height %d, got %d", want, got)
	}

	eng.Mempool.Submit(txn.SignedTransaction{Body: txn.NewTransfer(alice, bob, 100, 1000, 1)})
	second, err := eng.ProduceBlock(2000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := second.Height, uint64(1); got != want {
		t.Fatalf("wanted second block height %d, got %d", want, got)
	}

	block1, ok := eng.Chain.GetBlock(1)
	if !ok {
		t.Fatalf("expected block 1 to be retrievable")
	}
	if block1.Header.PrevHash != first.Hash {
		t.Errorf("expected block 1's prev_hash to match block 0's hash")
	}
}

// TestProduceBlock_OutOfGasDuringExecutionChargesGasLimit covers §4.3's
// "an OutOfGas abort still charges gas_limit*gas_price to the sender":
// a PublishModule whose module size prices above its gas_limit aborts
// mid-session (past ingress), but still pays the full worst-case cost,
// not whatever partial amount the meter had consumed before failing.
func TestProduceBlock_OutOfGasDuringExecutionChargesGasLimit(t *testing.T) {
	eng, st := newTestEngine(t)
	alice := address.MustParse("0xA11CE")
	mintDirect(t, st, alice, 10_000)

	const gasLimit, gasPrice = 500, 2
	moduleBytes := make([]byte, 10) // cost = 1000 + 10*10 = 1100 > gasLimit
	eng.Mempool.Submit(txn.SignedTransaction{
		Body: txn.NewPublishModule(alice, "m", moduleBytes, gasLimit, gasPrice),
	})

	summary, err := eng.ProduceBlock(1000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Executed != 0 || summary.Failed != 1 {
		t.Fatalf("wanted 0 executed 1 failed, got executed=%d failed=%d", summary.Executed, summary.Failed)
	}

	const wantCost = uint64(gasLimit) * uint64(gasPrice)
	if got, want := st.GetBalance(alice), uint64(10_000)-wantCost; got != want {
		t.Errorf("wanted alice balance %d after OOG charge, got %d", want, got)
	}
	if got, want := st.GetBalance(address.Dao), wantCost; got != want {
		t.Errorf("wanted dao credited %d from OOG charge, got %d", want, got)
	}
}
