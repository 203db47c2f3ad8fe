// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package state implements the authoritative account+module store
// (§4.2): atomic apply of change-sets, snapshot/restore for
// per-transaction rollback, and a deterministic state root for block
// commitment.
package state

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/modulestore"
)

// Account is the externally visible view of one address's ledger entry.
// Balance is denominated in MIST (§3; 10^9 MIST = 1 KANARI).
type Account struct {
	Address  address.Address
	Balance  uint64
	Sequence uint64
	Modules  []address.Name
}

var (
	// ErrNegativeBalance is returned by Apply when a change-set would drive
	// an account's balance below zero.
	ErrNegativeBalance = errors.New("state: resulting balance would be negative")
	// ErrDuplicateModule mirrors modulestore.ErrDuplicateModule, surfaced at
	// the Apply boundary so callers only depend on the state package.
	ErrDuplicateModule = modulestore.ErrDuplicateModule
)

// Manager is the canonical, concurrency-safe account and module store.
// Per §5, it is one of three RWMutex-guarded logical resources;
// writers (Apply) require exclusive access, readers only a shared lock.
type Manager struct {
	mu        sync.RWMutex
	balances  map[address.Address]uint64
	sequences map[address.Address]uint64
	modules   *modulestore.Store
}

// New returns an empty Manager with no accounts or modules.
func New() *Manager {
	return &Manager{
		balances:  make(map[address.Address]uint64),
		sequences: make(map[address.Address]uint64),
		modules:   modulestore.New(),
	}
}

// GetAccount returns the account at addr, and whether it has ever been
// touched (a never-touched address reports ok=false, with a zeroed
// Account; §3's "Created lazily on first credit" is reflected by
// Apply, not by GetAccount materializing rows).
func (m *Manager) GetAccount(addr address.Address) (Account, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	balance, hasBalance := m.balances[addr]
	sequence, hasSequence := m.sequences[addr]
	modules := m.modules.Names(addr)

	if !hasBalance && !hasSequence && len(modules) == 0 {
		return Account{Address: addr}, false
	}
	return Account{
		Address:  addr,
		Balance:  balance,
		Sequence: sequence,
		Modules:  modules,
	}, true
}

// GetBalance returns addr's balance, or 0 if the address has never been
// touched.
func (m *Manager) GetBalance(addr address.Address) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.balances[addr]
}

// GetSequence returns addr's sequence number, or 0 if untouched.
func (m *Manager) GetSequence(addr address.Address) uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sequences[addr]
}

// GetModule returns the bytecode published under id, if any.
func (m *Manager) GetModule(id address.ModuleId) ([]byte, bool) {
	return m.modules.Get(id)
}

// AccountCount returns the number of distinct addresses the manager has
// ever recorded a balance or sequence entry for.
func (m *Manager) AccountCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[address.Address]struct{}, len(m.balances))
	for addr := range m.balances {
		seen[addr] = struct{}{}
	}
	for addr := range m.sequences {
		seen[addr] = struct{}{}
	}
	return len(seen)
}

// Apply stages cs in a scratch map, validates it in full (no negative
// balances, module uniqueness), and only then swaps the validated deltas
// into the canonical maps. On any validation failure, state is left
// completely untouched and the rejection reason is returned, per §4.2's
// atomicity contract.
func (m *Manager) Apply(cs *changeset.ChangeSet) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	scratchBalances := make(map[address.Address]uint64, len(cs.AccountChanges))
	for addr, change := range cs.AccountChanges {
		current := int64(m.balances[addr]) + change.BalanceDelta
		if current < 0 {
			return fmt.Errorf("%w: address %s", ErrNegativeBalance, addr)
		}
		scratchBalances[addr] = uint64(current)
	}

	// Module publications are validated (and, on success, durably recorded)
	// before any balance or sequence mutation is committed, so a duplicate
	// rejection never leaves partial effects behind.
	type pendingModule struct {
		id    address.ModuleId
		bytes []byte
	}
	var pending []pendingModule
	for addr, change := range cs.AccountChanges {
		for _, name := range change.ModulesAdded {
			blob, ok := cs.ModuleBytes[changeset.ModuleKey{Address: addr, Name: name}]
			if !ok {
				continue
			}
			id, err := address.NewModuleId(addr, string(name))
			if err != nil {
				return fmt.Errorf("state: invalid module name %q: %w", name, err)
			}
			pending = append(pending, pendingModule{id: id, bytes: blob})
		}
	}
	for _, p := range pending {
		if existing, ok := m.modules.Get(p.id); ok && !bytes.Equal(existing, p.bytes) {
			return ErrDuplicateModule
		}
	}
	for _, p := range pending {
		if err := m.modules.Publish(p.id, p.bytes); err != nil {
			return err
		}
	}

	for addr, balance := range scratchBalances {
		m.balances[addr] = balance
	}
	for addr, change := range cs.AccountChanges {
		if change.SequenceIncrement > 0 {
			m.sequences[addr] += change.SequenceIncrement
		}
	}
	return nil
}

// snapshot is an immutable point-in-time copy of the manager's account
// state, used to roll back a failed transaction mid-block (§4.2,
// §5).
type snapshot struct {
	balances  map[address.Address]uint64
	sequences map[address.Address]uint64
}

// Snapshot returns an opaque restore point capturing the current account
// balances and sequence numbers. Published modules are immutable once
// written (§3) and are therefore not part of the snapshot.
func (m *Manager) Snapshot() interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := &snapshot{
		balances:  make(map[address.Address]uint64, len(m.balances)),
		sequences: make(map[address.Address]uint64, len(m.sequences)),
	}
	for addr, balance := range m.balances {
		s.balances[addr] = balance
	}
	for addr, seq := range m.sequences {
		s.sequences[addr] = seq
	}
	return s
}

// Restore rolls the manager's account state back to a value previously
// returned by Snapshot.
func (m *Manager) Restore(point interface{}) {
	s, ok := point.(*snapshot)
	if !ok {
		panic("state: Restore called with a value not returned by Snapshot")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.balances = s.balances
	m.sequences = s.sequences
}

// ComputeStateRoot returns a deterministic digest of the sorted-by-address
// account map plus the sorted module-id map, per §4.2. It is used
// only for block commitment and need not be Merkle-incremental.
func (m *Manager) ComputeStateRoot() [32]byte {
	m.mu.RLock()
	addrs := make([]address.Address, 0, len(m.balances)+len(m.sequences))
	seen := make(map[address.Address]struct{})
	for addr := range m.balances {
		if _, ok := seen[addr]; !ok {
			addrs = append(addrs, addr)
			seen[addr] = struct{}{}
		}
	}
	for addr := range m.sequences {
		if _, ok := seen[addr]; !ok {
			addrs = append(addrs, addr)
			seen[addr] = struct{}{}
		}
	}
	balances := make(map[address.Address]uint64, len(m.balances))
	for k, v := range m.balances {
		balances[k] = v
	}
	sequences := make(map[address.Address]uint64, len(m.sequences))
	for k, v := range m.sequences {
		sequences[k] = v
	}
	modules := m.modules.All()
	m.mu.RUnlock()

	sort.Slice(addrs, func(i, j int) bool {
		return lessAddress(addrs[i], addrs[j])
	})

	moduleIds := make([]address.ModuleId, 0, len(modules))
	for id := range modules {
		moduleIds = append(moduleIds, id)
	}
	sort.Slice(moduleIds, func(i, j int) bool {
		return moduleIds[i].String() < moduleIds[j].String()
	})

	h := sha256.New()
	for _, addr := range addrs {
		h.Write(addr[:])
		writeUint64(h, balances[addr])
		writeUint64(h, sequences[addr])
	}
	for _, id := range moduleIds {
		h.Write([]byte(id.String()))
		h.Write(modules[id])
	}

	var digest [32]byte
	copy(digest[:], h.Sum(nil))
	return digest
}

func lessAddress(a, b address.Address) bool {
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

func writeUint64(h interface{ Write([]byte) (int, error) }, v uint64) {
	var buf [8]byte
	for i := 0; i < 8; i++ {
		buf[i] = byte(v >> (56 - 8*i))
	}
	h.Write(buf[:])
}
