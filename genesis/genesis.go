// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package genesis drives the one-time genesis bootstrap of §6:
// invoking 0x2::genesis::init under the fixed prescribed TxContext,
// applying the resulting change-set to state, and committing
// the genesis block (height 0, zero prev_hash). This is the higher-level
// orchestration entry point the `run-genesis` CLI subcommand calls; the
// builtin entry function itself lives in vm.RegisterGenesis.
package genesis

import (
	"fmt"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/chain"
	"github.com/kanari-chain/kanari/gas"
	"github.com/kanari-chain/kanari/state"
	"github.com/kanari-chain/kanari/vm"
)

// Result summarizes the committed genesis block.
type Result struct {
	Block chain.Block
}

// Run invokes 0x2::genesis::init against the fixed TxContext of §6
// (sender GENESIS, zero tx_hash, epoch 0, epoch_timestamp_ms 0, ids_created
// 0), applies the resulting change-set to st, and appends the genesis
// block to bc. reg must have vm.RegisterGenesis bound (Run does not
// register it itself, so callers control which builtins a node carries).
// It is an error to call Run on a non-empty chain.
func Run(reg *vm.Registry, st *state.Manager, bc *chain.Blockchain, timestampMs uint64) (Result, error) {
	if bc.Len() != 0 {
		return Result{}, fmt.Errorf("genesis: chain is not empty, height already %d", bc.Len()-1)
	}

	tctx := vm.TxContext{
		Sender:           address.Genesis,
		TxHash:           [32]byte{},
		Epoch:            0,
		EpochTimestampMs: 0,
		IdsCreated:       0,
	}
	session := vm.Open(reg, st, tctx)
	meter := gas.NewMeter(gas.ExecuteFunction, 0)

	if err := session.ExecuteEntry(vm.GenesisModuleId, "init", nil, nil, meter); err != nil {
		return Result{}, fmt.Errorf("genesis: init aborted: %w", err)
	}
	cs, _ := session.Finish()
	if err := st.Apply(cs); err != nil {
		return Result{}, fmt.Errorf("genesis: applying genesis change-set: %w", err)
	}

	header := chain.GenesisHeader(timestampMs, st.ComputeStateRoot())
	block := chain.Block{Header: header}
	bc.Append(block)

	return Result{Block: block}, nil
}
