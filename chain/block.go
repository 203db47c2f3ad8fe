// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package chain implements the append-only block store and FIFO mempool
// of §4.8.
package chain

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"

	"github.com/kanari-chain/kanari/gas"
	"github.com/kanari-chain/kanari/txn"
)

// BlockHeader carries a block's identity and linkage to its parent.
// Genesis has Height 0 and a zero PrevHash. StateRoot and TxRoot are
// distinct digests (§9 open question 4): TxRoot covers only the
// ordered transaction hashes, StateRoot is state.Manager.ComputeStateRoot
// as of this block's commit.
type BlockHeader struct {
	Height    uint64
	PrevHash  [32]byte
	Timestamp uint64
	TxRoot    [32]byte
	StateRoot [32]byte
}

// Hash returns the SHA-256 digest of the header's canonical encoding; this
// is the value the next block's PrevHash links to.
func (h BlockHeader) Hash() [32]byte {
	var buf bytes.Buffer
	var tmp [8]byte
	binary.BigEndian.PutUint64(tmp[:], h.Height)
	buf.Write(tmp[:])
	buf.Write(h.PrevHash[:])
	binary.BigEndian.PutUint64(tmp[:], h.Timestamp)
	buf.Write(tmp[:])
	buf.Write(h.TxRoot[:])
	buf.Write(h.StateRoot[:])
	return sha256.Sum256(buf.Bytes())
}

// ExecutedTransaction records a transaction as it was included in a block,
// alongside its execution outcome. Failed transactions are still recorded:
// one rejected before execution leaves state untouched and is charged no
// gas; one that aborts during execution is charged gas_used*gas_price
// (gas_limit*gas_price for OutOfGas) and advances the sender's sequence.
type ExecutedTransaction struct {
	Hash         [32]byte
	Signed       txn.SignedTransaction
	Success      bool
	GasUsed      gas.Units
	ErrorMessage string
}

// Block is an ordered batch of executed transactions committed under a
// single header.
type Block struct {
	Header       BlockHeader
	Transactions []ExecutedTransaction
}

// Hash returns the block's identity hash (its header hash).
func (b Block) Hash() [32]byte {
	return b.Header.Hash()
}

// ComputeTxRoot hashes the concatenation of hashes in order, per §4.8
// ("a flat digest suffices; no Merkle required for the single-node
// model").
func ComputeTxRoot(hashes [][32]byte) [32]byte {
	var buf bytes.Buffer
	for _, h := range hashes {
		buf.Write(h[:])
	}
	return sha256.Sum256(buf.Bytes())
}

// GenesisHeader returns the fixed header of the genesis block: height 0,
// zero prev_hash, tx_root of an empty transaction list, stateRoot as
// computed over the post-genesis-allocation state.
func GenesisHeader(timestamp uint64, stateRoot [32]byte) BlockHeader {
	return BlockHeader{
		Height:    0,
		PrevHash:  [32]byte{},
		Timestamp: timestamp,
		TxRoot:    ComputeTxRoot(nil),
		StateRoot: stateRoot,
	}
}
