// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package engine implements ExecutionEngine.ProduceBlock, the deterministic
// drain-snapshot-execute-commit pipeline of §4.5.
package engine

import (
	"errors"
	"fmt"
	"math"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/chain"
	"github.com/kanari-chain/kanari/gas"
	"github.com/kanari-chain/kanari/state"
	"github.com/kanari-chain/kanari/txn"
	"github.com/kanari-chain/kanari/vm"
)

// saturatingAdd computes a+b, clamping to math.MaxUint64 on overflow
// rather than wrapping, mirroring gas.SaturatingMul's overflow policy.
func saturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}
	return sum
}

// Summary is the result of a single ProduceBlock call (§4.5 step 5).
type Summary struct {
	Height   uint64
	Hash     [32]byte
	TxCount  int
	Executed int
	Failed   int
}

// ExecutionEngine owns the three independently lock-guarded resources of
// §5 (mempool, state, blockchain) plus the entry-function
// registry, and drives produce_block sequentially on a single goroutine's
// call stack, matching the "transactions execute strictly sequentially on
// a single thread" invariant.
type ExecutionEngine struct {
	Mempool  *chain.Mempool
	State    *state.Manager
	Chain    *chain.Blockchain
	Registry *vm.Registry

	// SkipSignature disables signature verification at ingress. Node
	// testing only (§4.7).
	SkipSignature bool
}

// New constructs an ExecutionEngine over the given resources.
func New(mempool *chain.Mempool, st *state.Manager, bc *chain.Blockchain, registry *vm.Registry) *ExecutionEngine {
	return &ExecutionEngine{Mempool: mempool, State: st, Chain: bc, Registry: registry}
}

// ingressRejection kinds never charge gas or touch state: they are
// detected before a VM session has begun real execution (§9 open
// question 3, "pre-execution failures consume no gas"). LinkerError and
// VerifyError/DuplicateModule are classified here alongside AuthError and
// InsufficientFunds, since missing-function and invalid-module-name
// failures are dispatch-time rejections rather than mid-execution aborts.
func isIngressRejection(kind vm.AbortKind) bool {
	switch kind {
	case vm.AbortLinkerError, vm.AbortVerifyError, vm.AbortDuplicateModule:
		return true
	default:
		return false
	}
}

// ProduceBlock drains the mempool, executes each pending transaction in
// FIFO order, and commits the resulting block. The returned error is
// non-nil only for an InternalError fatal to the whole block (§7);
// per-transaction failures are reflected in Summary.Failed and the
// per-transaction ExecutedTransaction records, never returned as an error.
func (e *ExecutionEngine) ProduceBlock(timestampMs uint64) (Summary, error) {
	pending := e.Mempool.Drain()

	executedTxs := make([]chain.ExecutedTransaction, 0, len(pending))
	executed, failed := 0, 0

	for _, signed := range pending {
		hash := txn.Hash(signed.Body)
		record, ok := e.executeOne(signed, hash, timestampMs)
		executedTxs = append(executedTxs, record)
		if !ok {
			failed++
			continue
		}
		if record.Success {
			executed++
		} else {
			failed++
		}
	}

	prevHash := [32]byte{}
	height := uint64(0)
	if latest, hasPrev := e.Chain.LatestBlock(); hasPrev {
		height = latest.Header.Height + 1
		prevHash = latest.Hash()
	}

	hashes := make([][32]byte, len(executedTxs))
	for i, r := range executedTxs {
		hashes[i] = r.Hash
	}
	block := chain.Block{
		Header: chain.BlockHeader{
			Height:    height,
			PrevHash:  prevHash,
			Timestamp: timestampMs,
			TxRoot:    chain.ComputeTxRoot(hashes),
			StateRoot: e.State.ComputeStateRoot(),
		},
		Transactions: executedTxs,
	}
	e.Chain.Append(block)

	return Summary{
		Height:   height,
		Hash:     block.Hash(),
		TxCount:  len(pending),
		Executed: executed,
		Failed:   failed,
	}, nil
}

// executeOne runs a single transaction to completion. ok is false for an
// ingress-level rejection (no gas charged, no sequence increment); the
// record's Success field distinguishes an applied-but-aborted transaction
// (gas charged) from one that fully succeeded.
func (e *ExecutionEngine) executeOne(signed txn.SignedTransaction, hash [32]byte, timestampMs uint64) (chain.ExecutedTransaction, bool) {
	reject := func(message string) (chain.ExecutedTransaction, bool) {
		return chain.ExecutedTransaction{Hash: hash, Signed: signed, Success: false, ErrorMessage: message}, false
	}

	if !e.SkipSignature {
		ok, err := txn.Verify(signed)
		if err != nil || !ok {
			return reject("AuthError: invalid or missing signature")
		}
	}

	body := signed.Body
	sender := body.Sender

	meter := gas.NewMeter(body.GasLimit, body.GasPrice)
	worstCase := meter.LimitCost()
	required := worstCase
	if body.Kind == txn.KindTransfer {
		required = saturatingAdd(worstCase, body.Amount)
	}
	if e.State.GetBalance(sender) < required {
		return reject("InsufficientFunds")
	}

	tctx := vm.TxContext{Sender: sender, TxHash: hash, EpochTimestampMs: timestampMs}
	session := vm.Open(e.Registry, e.State, tctx)

	var opErr error
	switch body.Kind {
	case txn.KindPublishModule:
		opErr = session.PublishModule(body.ModuleBytes, sender, body.ModuleName, meter)
	case txn.KindExecuteFunction:
		opErr = session.ExecuteEntry(body.ModuleId, body.Function, body.TypeArgs, body.Args, meter)
	case txn.KindTransfer:
		opErr = session.Transfer(body.To, body.Amount, meter)
	default:
		opErr = fmt.Errorf("engine: unknown transaction kind %d", body.Kind)
	}

	var abortErr *vm.Abort
	if opErr != nil && errors.As(opErr, &abortErr) && isIngressRejection(abortErr.Kind) {
		return reject(opErr.Error())
	}

	var cs *changeset.ChangeSet
	if opErr == nil {
		cs, _ = session.Finish()
	} else {
		cs = changeset.New()
	}

	// An OutOfGas abort still charges gas_limit*gas_price to the sender
	// (§4.3, §4.5 step c): meter.Consume never advances used on the
	// failing call, so TotalCost() alone would under-charge. LimitCost
	// restores the full worst-case pre-charge in that one case.
	gasCost := meter.TotalCost()
	if abortErr != nil && abortErr.Kind == vm.AbortOutOfGas {
		gasCost = meter.LimitCost()
	}
	gasChange := changeset.New()
	gasChange.GetOrCreateChange(sender).Debit(gasCost)
	gasChange.GetOrCreateChange(sender).IncrementSequence()
	gasChange.GetOrCreateChange(address.Dao).Credit(gasCost)
	gasChange.GasUsed = gasCost
	cs.Merge(gasChange)

	if opErr != nil {
		cs.Success = false
		cs.ErrorMessage = opErr.Error()
	}

	if err := e.State.Apply(cs); err != nil {
		return reject(fmt.Sprintf("InsufficientFunds: %v", err))
	}

	return chain.ExecutedTransaction{
		Hash:         hash,
		Signed:       signed,
		Success:      opErr == nil,
		GasUsed:      meter.Used(),
		ErrorMessage: cs.ErrorMessage,
	}, true
}
