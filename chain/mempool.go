// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package chain

import (
	"sync"

	"github.com/kanari-chain/kanari/txn"
)

// Mempool is an ordered, in-memory FIFO queue of pending signed
// transactions, guarded by its own read-write lock — one of the three
// logical resources §5 calls out as independently lockable
// (mempool, state, blockchain).
type Mempool struct {
	mu    sync.RWMutex
	queue []txn.SignedTransaction
}

// NewMempool returns an empty Mempool.
func NewMempool() *Mempool {
	return &Mempool{}
}

// Submit appends tx to the back of the queue and returns its hash.
// Duplicate submissions are not rejected (§4.8: "no dedup
// guarantee is required").
func (m *Mempool) Submit(tx txn.SignedTransaction) [32]byte {
	hash := txn.Hash(tx.Body)
	m.mu.Lock()
	m.queue = append(m.queue, tx)
	m.mu.Unlock()
	return hash
}

// Len reports the number of pending transactions.
func (m *Mempool) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.queue)
}

// Drain removes and returns all pending transactions in FIFO submission
// order, leaving the mempool empty. Used by the engine to form the next
// block's transaction batch (§4.5 step 1).
func (m *Mempool) Drain() []txn.SignedTransaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	drained := m.queue
	m.queue = nil
	return drained
}

// Restore re-queues txs at the front of the mempool, ahead of anything
// submitted since Drain.
func (m *Mempool) Restore(txs []txn.SignedTransaction) {
	if len(txs) == 0 {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(txs, m.queue...)
}
