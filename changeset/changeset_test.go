// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package changeset

import (
	"testing"

	"github.com/kanari-chain/kanari/address"
)

func TestChangeSet_Transfer(t *testing.T) {
	cs := New()
	from := address.MustParse("0x1")
	to := address.MustParse("0x2")

	cs.Transfer(from, to, 100)

	if got, want := cs.AccountCount(), 2; got != want {
		t.Fatalf("wanted %d touched accounts, got %d", want, got)
	}
	if got, want := cs.AccountChanges[from].BalanceDelta, int64(-100); got != want {
		t.Errorf("wanted sender delta %d, got %d", want, got)
	}
	if got, want := cs.AccountChanges[to].BalanceDelta, int64(100); got != want {
		t.Errorf("wanted receiver delta %d, got %d", want, got)
	}
	if got, want := cs.AccountChanges[from].SequenceIncrement, uint64(1); got != want {
		t.Errorf("wanted sender sequence increment %d, got %d", want, got)
	}
}

func TestChangeSet_Mint(t *testing.T) {
	cs := New()
	to := address.MustParse("0x1")

	cs.Mint(to, 1000)

	if got, want := cs.AccountCount(), 1; got != want {
		t.Fatalf("wanted %d touched accounts, got %d", want, got)
	}
	if got, want := cs.AccountChanges[to].BalanceDelta, int64(1000); got != want {
		t.Errorf("wanted delta %d, got %d", want, got)
	}
}

func TestChangeSet_Burn(t *testing.T) {
	cs := New()
	from := address.MustParse("0x1")

	cs.Burn(from, 250)

	if got, want := cs.AccountChanges[from].BalanceDelta, int64(-250); got != want {
		t.Errorf("wanted delta %d, got %d", want, got)
	}
}

func TestChangeSet_PublishModule(t *testing.T) {
	cs := New()
	publisher := address.MustParse("0x1")

	cs.PublishModule(publisher, "coin", []byte("bytecode"))

	change := cs.AccountChanges[publisher]
	if got, want := len(change.ModulesAdded), 1; got != want {
		t.Fatalf("wanted %d modules added, got %d", want, got)
	}
	if got, want := change.ModulesAdded[0], address.Name("coin"); got != want {
		t.Errorf("wanted module %q, got %q", want, got)
	}
	if got, want := change.SequenceIncrement, uint64(1); got != want {
		t.Errorf("wanted sequence increment %d, got %d", want, got)
	}
}

func TestChangeSet_CollectGas(t *testing.T) {
	cs := New()
	dao := address.MustParse("0xda0")

	cs.CollectGas(dao, 42)

	if got, want := cs.AccountChanges[dao].BalanceDelta, int64(42); got != want {
		t.Errorf("wanted delta %d, got %d", want, got)
	}
}

func TestChangeSet_IsEmpty(t *testing.T) {
	cs := New()
	if !cs.IsEmpty() {
		t.Errorf("expected a fresh ChangeSet to be empty")
	}
	cs.Mint(address.MustParse("0x1"), 1)
	if cs.IsEmpty() {
		t.Errorf("expected a touched ChangeSet to not be empty")
	}
}

func TestChangeSet_MergeAccumulatesDeltasAndEvents(t *testing.T) {
	a := New()
	addr := address.MustParse("0x1")
	a.Mint(addr, 100)
	a.AddEvent(Event{TypeTag: "a"})
	a.SetGasUsed(10)

	b := New()
	b.Mint(addr, 50)
	b.AddEvent(Event{TypeTag: "b"})
	b.SetGasUsed(5)

	a.Merge(b)

	if got, want := a.AccountChanges[addr].BalanceDelta, int64(150); got != want {
		t.Errorf("wanted merged delta %d, got %d", want, got)
	}
	if got, want := a.GasUsed, uint64(15); got != want {
		t.Errorf("wanted merged gas %d, got %d", want, got)
	}
	if got, want := len(a.Events), 2; got != want {
		t.Fatalf("wanted %d events, got %d", want, got)
	}
	if a.Events[0].TypeTag != "a" || a.Events[1].TypeTag != "b" {
		t.Errorf("expected events to concatenate in (a, b) order, got %v", a.Events)
	}
}

func TestChangeSet_MergeDedupesModulesAddedLastWriterWins(t *testing.T) {
	addr := address.MustParse("0x1")
	a := New()
	a.PublishModule(addr, "coin", []byte("bytecode-v1"))
	a.PublishModule(addr, "escrow", []byte("bytecode-escrow"))

	b := New()
	b.PublishModule(addr, "coin", []byte("bytecode-v2"))

	a.Merge(b)

	got := a.AccountChanges[addr].ModulesAdded
	want := []address.Name{"escrow", "coin"}
	if len(got) != len(want) {
		t.Fatalf("wanted %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("wanted %v, got %v", want, got)
		}
	}
}

func TestChangeSet_MergePropagatesFailure(t *testing.T) {
	a := New()
	b := Failed("abort by move", 30)

	a.Merge(b)

	if a.Success {
		t.Errorf("expected merging a failed ChangeSet to mark the receiver failed")
	}
	if a.ErrorMessage != "abort by move" {
		t.Errorf("expected error message to propagate, got %q", a.ErrorMessage)
	}
}

func TestChangeSet_MergeIsNotCommutativeOverEventOrder(t *testing.T) {
	base := func() *ChangeSet {
		cs := New()
		cs.AddEvent(Event{TypeTag: "base"})
		return cs
	}
	other := New()
	other.AddEvent(Event{TypeTag: "other"})

	ab := base()
	ab.Merge(other)

	ba := New()
	ba.AddEvent(Event{TypeTag: "other"})
	ba.Merge(base())

	if ab.Events[0].TypeTag == ba.Events[0].TypeTag && ab.Events[1].TypeTag == ba.Events[1].TypeTag {
		t.Fatalf("expected merge order to be observable in event ordering")
	}
}

func TestChangeSet_Failed(t *testing.T) {
	cs := Failed("out of gas", 1000)
	if cs.Success {
		t.Errorf("expected Failed() to produce an unsuccessful ChangeSet")
	}
	if cs.ErrorMessage != "out of gas" {
		t.Errorf("unexpected error message: %q", cs.ErrorMessage)
	}
	if cs.GasUsed != 1000 {
		t.Errorf("unexpected gas used: %d", cs.GasUsed)
	}
}
