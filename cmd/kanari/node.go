// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Command kanari is the node binary: the `run`/`run-genesis`/
// `publish-all`/`publish-file`/`list-wallets` CLI surface of §6,
// built with urfave/cli/v2 following go/ct/driver/main.go's app+subcommand
// structure (see DESIGN.md).
package main

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/chain"
	"github.com/kanari-chain/kanari/engine"
	"github.com/kanari-chain/kanari/gas"
	"github.com/kanari-chain/kanari/genesis"
	"github.com/kanari-chain/kanari/state"
	"github.com/kanari-chain/kanari/vm"
)

// dbDirName is the state directory under $HOME named by §6:
// "$HOME/.kari/kanari-db/".
const dbDirName = ".kari/kanari-db"

// node bundles the three lock-guarded resources of §5 plus the
// execution engine that drives them, along with the chain-linkage
// metadata (total supply, committed height, head hash) persisted
// alongside state.Manager's own account/module data.
type node struct {
	Engine      *engine.ExecutionEngine
	Registry    *vm.Registry
	TotalSupply uint64
	DBDir       string
}

// defaultDBDir resolves $HOME/.kari/kanari-db, honoring $HOME so tests
// and CI containers without a conventional home directory still work.
func defaultDBDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, dbDirName), nil
}

// openNode loads persisted state from dbDir if present, or starts from an
// empty, not-yet-genesis Manager otherwise. The builtin genesis and coin
// entry functions are always registered, regardless of whether genesis
// has actually run yet, mirroring vm.RegisterGenesis/RegisterCoin being
// wired unconditionally at node start in the original source.
func openNode(dbDir string) (*node, error) {
	reg := vm.NewRegistry()
	vm.RegisterGenesis(reg)
	vm.RegisterCoin(reg)

	st := state.New()
	bc := chain.NewBlockchain()
	totalSupply := uint64(0)

	result, err := state.Load(dbDir)
	switch {
	case err == nil:
		st = result.Manager
		totalSupply = result.TotalSupply
		if result.Height > 0 || result.HeadHash != ([32]byte{}) {
			bc.Append(chain.Block{Header: chain.BlockHeader{
				Height:    result.Height,
				PrevHash:  result.HeadHash,
				TxRoot:    chain.ComputeTxRoot(nil),
				StateRoot: st.ComputeStateRoot(),
			}})
		}
	case os.IsNotExist(errors.Unwrap(err)):
		// No prior snapshot: a fresh node pending `run-genesis`.
	default:
		return nil, err
	}

	eng := engine.New(chain.NewMempool(), st, bc, reg)
	return &node{Engine: eng, Registry: reg, TotalSupply: totalSupply, DBDir: dbDir}, nil
}

// persist writes the node's current state to disk, per §5:
// "the state store commits to disk after each block."
func (n *node) persist() error {
	height, headHash := uint64(0), [32]byte{}
	if latest, ok := n.Engine.Chain.LatestBlock(); ok {
		height = latest.Header.Height
		headHash = latest.Hash()
	}
	supply := n.TotalSupply
	if supply == 0 {
		supply = vm.TotalSupply
	}
	return n.Engine.State.Persist(n.DBDir, supply, height, headHash)
}

// runGenesis drives genesis::init once and persists the result, refusing
// a non-empty chain (genesis.Run's own invariant).
func (n *node) runGenesis() error {
	result, err := genesis.Run(n.Registry, n.Engine.State, n.Engine.Chain, uint64(time.Now().UnixMilli()))
	if err != nil {
		return err
	}
	n.TotalSupply = vm.TotalSupply
	fmt.Printf("genesis committed: height=%d hash=%x\n", result.Block.Header.Height, result.Block.Hash())
	return n.persist()
}

// publishModuleDirect publishes moduleBytes under (sender, moduleName)
// without going through the mempool/engine pipeline — used by the
// `publish-all`/`publish-file` subcommands, which are privileged
// node-operator actions rather than ordinary user transactions.
func (n *node) publishModuleDirect(sender address.Address, moduleName string, moduleBytes []byte) error {
	tctx := vm.TxContext{Sender: sender}
	session := vm.Open(n.Registry, n.Engine.State, tctx)
	// gas_price 0: a direct node-operator publish is not charged, unlike
	// an ordinary PublishModule transaction routed through the engine.
	meter := gas.NewMeter(gas.Units(math.MaxInt64), 0)
	if err := session.PublishModule(moduleBytes, sender, address.Name(moduleName), meter); err != nil {
		return fmt.Errorf("publishing %s::%s: %w", sender, moduleName, err)
	}
	cs, _ := session.Finish()
	return n.Engine.State.Apply(cs)
}
