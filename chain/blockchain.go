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

import "sync"

// Blockchain is the append-only block store, guarded by its own
// read-write lock independent of Mempool's and state.Manager's
// (§5).
type Blockchain struct {
	mu     sync.RWMutex
	blocks []Block
}

// NewBlockchain returns an empty chain.
func NewBlockchain() *Blockchain {
	return &Blockchain{}
}

// Append adds b as the new head of the chain. Callers are responsible for
// ensuring b.Header.Height and b.Header.PrevHash are consistent with the
// current head.
func (c *Blockchain) Append(b Block) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blocks = append(c.blocks, b)
}

// Height returns the height of the latest block, or 0 with ok=false if
// the chain is empty (no genesis block produced yet).
func (c *Blockchain) Height() (height uint64, ok bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.blocks) == 0 {
		return 0, false
	}
	return c.blocks[len(c.blocks)-1].Header.Height, true
}

// LatestBlock returns the chain's head block, if any.
func (c *Blockchain) LatestBlock() (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.blocks) == 0 {
		return Block{}, false
	}
	return c.blocks[len(c.blocks)-1], true
}

// GetBlock returns the block at height, an O(1) lookup per §4.8.
func (c *Blockchain) GetBlock(height uint64) (Block, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if height >= uint64(len(c.blocks)) {
		return Block{}, false
	}
	return c.blocks[height], true
}

// Len returns the number of blocks committed, including genesis.
func (c *Blockchain) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.blocks)
}
