// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package changeset implements the staged-delta output of a VM session
// (§4.2): a ChangeSet accumulates account balance/sequence/module
// deltas and events during execution, and is only ever applied to the
// StateManager as a single atomic unit.
package changeset

import "github.com/kanari-chain/kanari/address"

// ModuleKey identifies a pending module publication within a ChangeSet's
// ModuleBytes map.
type ModuleKey struct {
	Address address.Address
	Name    address.Name
}

// Event is a Move-VM event emitted during execution, carried verbatim into
// a produced block.
type Event struct {
	Key            []byte
	SequenceNumber uint64
	TypeTag        string
	Data           []byte
}

// AccountChange accumulates the pending balance, sequence-number, and
// module-publication deltas for a single address within a ChangeSet.
// BalanceDelta is signed: positive is a credit, negative a debit.
type AccountChange struct {
	Address           address.Address
	BalanceDelta      int64
	SequenceIncrement uint64
	ModulesAdded      []address.Name
}

// NewAccountChange returns a zeroed change for addr.
func NewAccountChange(addr address.Address) *AccountChange {
	return &AccountChange{Address: addr}
}

// Debit records a debit of amount, lowering BalanceDelta.
func (c *AccountChange) Debit(amount uint64) {
	c.BalanceDelta -= int64(amount)
}

// Credit records a credit of amount, raising BalanceDelta.
func (c *AccountChange) Credit(amount uint64) {
	c.BalanceDelta += int64(amount)
}

// IncrementSequence records one more sequence-number advance.
func (c *AccountChange) IncrementSequence() {
	c.SequenceIncrement++
}

// AddModule records a newly published module name under this account.
func (c *AccountChange) AddModule(name address.Name) {
	c.ModulesAdded = append(c.ModulesAdded, name)
}

// ChangeSet is the canonical output of a VM session: every state mutation
// the session produced, staged until the engine decides to apply or discard
// it. A ChangeSet is never partially applied (§4.2, §4.5).
type ChangeSet struct {
	AccountChanges map[address.Address]*AccountChange
	ModuleBytes    map[ModuleKey][]byte
	Events         []Event
	GasUsed        uint64
	Success        bool
	ErrorMessage   string // empty means no error
}

// New returns an empty, successful ChangeSet.
func New() *ChangeSet {
	return &ChangeSet{
		AccountChanges: make(map[address.Address]*AccountChange),
		ModuleBytes:    make(map[ModuleKey][]byte),
		Success:        true,
	}
}

// WithGas returns an empty, successful ChangeSet pre-stamped with gasUsed.
func WithGas(gasUsed uint64) *ChangeSet {
	cs := New()
	cs.GasUsed = gasUsed
	return cs
}

// Failed returns an empty, unsuccessful ChangeSet carrying errMsg and the
// gas consumed before the abort.
func Failed(errMsg string, gasUsed uint64) *ChangeSet {
	cs := New()
	cs.Success = false
	cs.ErrorMessage = errMsg
	cs.GasUsed = gasUsed
	return cs
}

// GetOrCreateChange returns the AccountChange for addr, creating it on first
// access.
func (cs *ChangeSet) GetOrCreateChange(addr address.Address) *AccountChange {
	if existing, ok := cs.AccountChanges[addr]; ok {
		return existing
	}
	change := NewAccountChange(addr)
	cs.AccountChanges[addr] = change
	return change
}

// Transfer debits from and credits to by amount, and advances from's
// sequence number, per §4.2's Transfer operation.
func (cs *ChangeSet) Transfer(from, to address.Address, amount uint64) {
	sender := cs.GetOrCreateChange(from)
	sender.Debit(amount)
	sender.IncrementSequence()

	receiver := cs.GetOrCreateChange(to)
	receiver.Credit(amount)
}

// Mint credits to with newly created tokens, used by genesis allocation.
func (cs *ChangeSet) Mint(to address.Address, amount uint64) {
	cs.GetOrCreateChange(to).Credit(amount)
}

// Burn debits from, destroying tokens.
func (cs *ChangeSet) Burn(from address.Address, amount uint64) {
	cs.GetOrCreateChange(from).Debit(amount)
}

// PublishModule records a module publication under publisher, stages its
// bytes for state.Manager.Apply to durably store, and advances publisher's
// sequence number.
func (cs *ChangeSet) PublishModule(publisher address.Address, moduleName address.Name, moduleBytes []byte) {
	account := cs.GetOrCreateChange(publisher)
	account.AddModule(moduleName)
	account.IncrementSequence()
	cs.ModuleBytes[ModuleKey{Address: publisher, Name: moduleName}] = moduleBytes
}

// CollectGas credits dao with gasAmount, per §4.5's gas-collection
// step.
func (cs *ChangeSet) CollectGas(dao address.Address, gasAmount uint64) {
	cs.GetOrCreateChange(dao).Credit(gasAmount)
}

// SetGasUsed overwrites the recorded gas consumption.
func (cs *ChangeSet) SetGasUsed(gas uint64) {
	cs.GasUsed = gas
}

// MarkFailed marks the ChangeSet unsuccessful, recording errMsg.
func (cs *ChangeSet) MarkFailed(errMsg string) {
	cs.Success = false
	cs.ErrorMessage = errMsg
}

// IsEmpty reports whether no account has been touched.
func (cs *ChangeSet) IsEmpty() bool {
	return len(cs.AccountChanges) == 0
}

// AccountCount returns the number of distinct touched accounts.
func (cs *ChangeSet) AccountCount() int {
	return len(cs.AccountChanges)
}

// AddEvent appends event to the ChangeSet's event log.
func (cs *ChangeSet) AddEvent(event Event) {
	cs.Events = append(cs.Events, event)
}

// Merge folds other into cs: account deltas add, event logs concatenate in
// (cs, then other) order, gas used accumulates, and an unsuccessful other
// marks cs unsuccessful. Per §4.6, the first error message wins: if cs
// is already unsuccessful, other's message never overwrites it.
//
// Merge is associative over account deltas and gas, but NOT commutative
// over event ordering — merging b into a then c differs from merging c
// into a then b whenever both contribute events, since event order is
// caller-observable. Callers that depend on event order must merge in the
// order they want it preserved.
func (cs *ChangeSet) Merge(other *ChangeSet) {
	for addr, otherChange := range other.AccountChanges {
		existing := cs.GetOrCreateChange(addr)
		existing.BalanceDelta += otherChange.BalanceDelta
		existing.SequenceIncrement += otherChange.SequenceIncrement
		existing.ModulesAdded = dedupeLastWriterWins(existing.ModulesAdded, otherChange.ModulesAdded)
	}
	for key, bytes := range other.ModuleBytes {
		cs.ModuleBytes[key] = bytes
	}
	cs.Events = append(cs.Events, other.Events...)
	cs.GasUsed += other.GasUsed
	if !other.Success {
		if cs.Success {
			cs.ErrorMessage = other.ErrorMessage
		}
		cs.Success = false
	}
}

// dedupeLastWriterWins concatenates existing and incoming, then collapses
// repeated names to their last occurrence, per §4.2's merge rule
// ("modules_added de-duplicated, last writer wins").
func dedupeLastWriterWins(existing, incoming []address.Name) []address.Name {
	combined := make([]address.Name, 0, len(existing)+len(incoming))
	combined = append(combined, existing...)
	combined = append(combined, incoming...)

	lastIndex := make(map[address.Name]int, len(combined))
	for i, name := range combined {
		lastIndex[name] = i
	}
	result := make([]address.Name, 0, len(lastIndex))
	for i, name := range combined {
		if lastIndex[name] == i {
			result = append(result, name)
		}
	}
	return result
}
