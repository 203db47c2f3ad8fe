// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package state

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kanari-chain/kanari/address"
)

// snapshotDoc is the on-disk shape of move_vm_data.json (§6):
// `{accounts, modules, total_supply, height, blocks_head_hash}`. Field
// names are internal — the only requirement is a deterministic round-trip
// — so this is a hand-shaped JSON document rather than an adopted wire
// format (see DESIGN.md: no ecosystem serialization library in the corpus
// targets this use case).
type snapshotDoc struct {
	Accounts       map[string]accountDoc `json:"accounts"`
	Modules        map[string]string     `json:"modules"`
	TotalSupply    uint64                `json:"total_supply"`
	Height         uint64                `json:"height"`
	BlocksHeadHash string                `json:"blocks_head_hash"`
}

type accountDoc struct {
	Balance  uint64 `json:"balance"`
	Sequence uint64 `json:"sequence"`
}

// moduleFileName renders a ModuleId as the file-system-safe name used both
// as the JSON document's module key and the bytecode_modules/<name>.mv
// side-car's base name.
func moduleFileName(id address.ModuleId) string {
	return fmt.Sprintf("%s__%s", id.Address.String()[2:], id.Name)
}

// Persist writes the manager's full state to dir/move_vm_data.json, plus
// one bytecode_modules/<address hex without 0x>__<module-name>.mv side-car
// per published module
// (§6: "optional side-car for debugging"). totalSupply, height and
// headHash are supplied by the caller (genesis/engine own those values;
// Manager itself does not track total supply or chain linkage).
func (m *Manager) Persist(dir string, totalSupply, height uint64, headHash [32]byte) error {
	m.mu.RLock()
	accounts := make(map[string]accountDoc, len(m.balances)+len(m.sequences))
	for addr, balance := range m.balances {
		doc := accounts[addr.String()]
		doc.Balance = balance
		accounts[addr.String()] = doc
	}
	for addr, seq := range m.sequences {
		doc := accounts[addr.String()]
		doc.Sequence = seq
		accounts[addr.String()] = doc
	}
	modules := m.modules.All()
	m.mu.RUnlock()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("state: creating %s: %w", dir, err)
	}
	sidecarDir := filepath.Join(dir, "bytecode_modules")
	if len(modules) > 0 {
		if err := os.MkdirAll(sidecarDir, 0o755); err != nil {
			return fmt.Errorf("state: creating %s: %w", sidecarDir, err)
		}
	}

	moduleIndex := make(map[string]string, len(modules))
	for id, bytes := range modules {
		name := moduleFileName(id)
		moduleIndex[name] = hex.EncodeToString(bytes)
		path := filepath.Join(sidecarDir, name+".mv")
		if err := os.WriteFile(path, bytes, 0o644); err != nil {
			return fmt.Errorf("state: writing %s: %w", path, err)
		}
	}

	doc := snapshotDoc{
		Accounts:       accounts,
		Modules:        moduleIndex,
		TotalSupply:    totalSupply,
		Height:         height,
		BlocksHeadHash: hex.EncodeToString(headHash[:]),
	}
	encoded, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("state: encoding snapshot: %w", err)
	}

	path := filepath.Join(dir, "move_vm_data.json")
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, encoded, 0o644); err != nil {
		return fmt.Errorf("state: writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("state: committing %s: %w", path, err)
	}
	return nil
}

// LoadResult carries the chain-linkage metadata a persisted snapshot
// stores alongside account/module state, which Manager itself has no
// field for.
type LoadResult struct {
	Manager     *Manager
	TotalSupply uint64
	Height      uint64
	HeadHash    [32]byte
}

// Load reads dir/move_vm_data.json and reconstructs a Manager plus the
// chain-linkage metadata persisted alongside it. A missing file is
// reported via os.IsNotExist-compatible error wrapping so callers (the
// `run` CLI subcommand) can distinguish "no prior state" from corruption
// and fall back to an empty genesis-pending Manager.
func Load(dir string) (LoadResult, error) {
	path := filepath.Join(dir, "move_vm_data.json")
	raw, err := os.ReadFile(path)
	if err != nil {
		return LoadResult{}, fmt.Errorf("state: reading %s: %w", path, err)
	}

	var doc snapshotDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return LoadResult{}, fmt.Errorf("state: decoding %s: %w", path, err)
	}

	m := New()
	for addrHex, acc := range doc.Accounts {
		addr, err := address.Parse(addrHex)
		if err != nil {
			return LoadResult{}, fmt.Errorf("state: invalid account address %q: %w", addrHex, err)
		}
		m.balances[addr] = acc.Balance
		if acc.Sequence != 0 {
			m.sequences[addr] = acc.Sequence
		}
	}
	for name, hexBytes := range doc.Modules {
		addrPart, moduleName, err := splitModuleFileName(name)
		if err != nil {
			return LoadResult{}, err
		}
		id, err := address.NewModuleId(addrPart, moduleName)
		if err != nil {
			return LoadResult{}, fmt.Errorf("state: invalid module id in snapshot %q: %w", name, err)
		}
		blob, err := hex.DecodeString(hexBytes)
		if err != nil {
			return LoadResult{}, fmt.Errorf("state: decoding module bytes for %q: %w", name, err)
		}
		if err := m.modules.Publish(id, blob); err != nil {
			return LoadResult{}, fmt.Errorf("state: replaying module publish for %q: %w", name, err)
		}
	}

	var headHash [32]byte
	decodedHead, err := hex.DecodeString(doc.BlocksHeadHash)
	if err != nil {
		return LoadResult{}, fmt.Errorf("state: decoding blocks_head_hash: %w", err)
	}
	copy(headHash[:], decodedHead)

	return LoadResult{
		Manager:     m,
		TotalSupply: doc.TotalSupply,
		Height:      doc.Height,
		HeadHash:    headHash,
	}, nil
}

func splitModuleFileName(name string) (address.Address, string, error) {
	for i := 0; i < len(name); i++ {
		if name[i] == '_' && i+1 < len(name) && name[i+1] == '_' {
			addr, err := address.Parse(name[:i])
			if err != nil {
				return address.Address{}, "", fmt.Errorf("state: invalid module file name %q: %w", name, err)
			}
			return addr, name[i+2:], nil
		}
	}
	return address.Address{}, "", fmt.Errorf("state: malformed module file name %q", name)
}
