// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package vm

import (
	"fmt"
	"sync"

	"golang.org/x/exp/maps"

	"github.com/kanari-chain/kanari/address"
)

// EntryFunction is a Go closure standing in for a compiled Move function,
// invoked by Session.ExecuteEntry in place of bytecode interpretation
// (§9's "Dynamic dispatch over VM natives").
type EntryFunction func(ctx *EntryContext) error

type entryKey struct {
	module   string
	function string
}

// Registry is a dispatch table keyed by (ModuleId, function name), the Go
// analogue of the Rust source's in-VM function lookup. Unlike Tosca's
// package-global interpreter registry (go/tosca/interpreter_registry.go),
// Registry is instance-scoped: each Session is opened against an explicit
// Registry rather than a shared global, so builtin registration in one
// test cannot leak into another.
type Registry struct {
	mu      sync.RWMutex
	entries map[entryKey]EntryFunction
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{entries: make(map[entryKey]EntryFunction)}
}

// Register binds fn under (id, function). It returns an error if the slot
// is already occupied.
func (r *Registry) Register(id address.ModuleId, function string, fn EntryFunction) error {
	if fn == nil {
		return fmt.Errorf("vm: cannot register a nil entry function for %s::%s", id, function)
	}
	key := entryKey{module: id.String(), function: function}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[key]; exists {
		return fmt.Errorf("vm: entry function already registered for %s::%s", id, function)
	}
	r.entries[key] = fn
	return nil
}

// MustRegister is like Register but panics on error; intended for use in
// builtin-registration code paths where a collision is a programming error.
func (r *Registry) MustRegister(id address.ModuleId, function string, fn EntryFunction) {
	if err := r.Register(id, function, fn); err != nil {
		panic(err)
	}
}

// Lookup returns the entry function registered for (id, function), if any.
func (r *Registry) Lookup(id address.ModuleId, function string) (EntryFunction, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.entries[entryKey{module: id.String(), function: function}]
	return fn, ok
}

// Size returns the number of registered entry functions.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// clone returns a snapshot copy of the registered entries; used only by
// tests that need to assert on registry contents without racing writers.
func (r *Registry) clone() map[entryKey]EntryFunction {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return maps.Clone(r.entries)
}
