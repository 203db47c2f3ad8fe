// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package modulestore implements the content-addressed bytecode store
// (§4.1, §4.6): compiled module blobs keyed by ModuleId, with at
// most one bytes-blob per ModuleId.
package modulestore

import (
	"bytes"
	"errors"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/kanari-chain/kanari/address"
)

// ErrDuplicateModule is returned by Publish when a ModuleId is already
// registered with bytes that differ from the ones being published.
// Re-publishing byte-identical bytes is a no-op success, per the
// idempotent-when-identical policy.
var ErrDuplicateModule = errors.New("modulestore: module already published with different bytes")

// hotCacheSize bounds the decoded-module read cache sitting in front of the
// canonical map; it only affects lookup latency, never correctness.
const hotCacheSize = 256

// Store is the authoritative, content-addressed module bytecode store. It
// is safe for concurrent use.
type Store struct {
	mu      sync.RWMutex
	modules map[address.ModuleId][]byte
	hot     *lru.Cache[address.ModuleId, []byte]
}

// New returns an empty Store.
func New() *Store {
	hot, err := lru.New[address.ModuleId, []byte](hotCacheSize)
	if err != nil {
		// Only returns an error for a non-positive size, which hotCacheSize
		// never is.
		panic(err)
	}
	return &Store{
		modules: make(map[address.ModuleId][]byte),
		hot:     hot,
	}
}

// Publish registers moduleBytes under id. If id is already registered with
// identical bytes, Publish succeeds as a no-op. If it is registered with
// different bytes, Publish returns ErrDuplicateModule and leaves the store
// untouched.
func (s *Store) Publish(id address.ModuleId, moduleBytes []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.modules[id]; ok {
		if bytes.Equal(existing, moduleBytes) {
			return nil
		}
		return ErrDuplicateModule
	}

	stored := make([]byte, len(moduleBytes))
	copy(stored, moduleBytes)
	s.modules[id] = stored
	s.hot.Add(id, stored)
	return nil
}

// Get returns the bytecode registered under id, if any.
func (s *Store) Get(id address.ModuleId) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cached, ok := s.hot.Get(id); ok {
		return cached, true
	}
	blob, ok := s.modules[id]
	if ok {
		s.hot.Add(id, blob)
	}
	return blob, ok
}

// Has reports whether id is registered.
func (s *Store) Has(id address.ModuleId) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.modules[id]
	return ok
}

// Size returns the gas-relevant byte size of the bytecode published under
// id, used by gas.PublishModuleCost; ok is false if id is unregistered.
func (s *Store) Size(id address.ModuleId) (size int, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	blob, ok := s.modules[id]
	return len(blob), ok
}

// Names returns the registered module names published under addr, in no
// particular order; used by the account view's `modules` field.
func (s *Store) Names(addr address.Address) []address.Name {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var names []address.Name
	for id := range s.modules {
		if id.Address == addr {
			names = append(names, id.Name)
		}
	}
	return names
}

// All returns a snapshot copy of every registered ModuleId and its bytes,
// used by state.ComputeStateRoot's sorted-module-map hashing.
func (s *Store) All() map[address.ModuleId][]byte {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[address.ModuleId][]byte, len(s.modules))
	for id, blob := range s.modules {
		cp := make([]byte, len(blob))
		copy(cp, blob)
		out[id] = cp
	}
	return out
}
