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

import "github.com/kanari-chain/kanari/address"

// TotalSupply is the fixed total supply allocated at genesis, in MIST
// (§9 open question 2, resolved as exactly 10^19, which fits a
// uint64: 2^64-1 ≈ 1.8x10^19).
const TotalSupply uint64 = 10_000_000_000_000_000_000

// GenesisModuleId identifies the builtin genesis module, published at the
// reserved KanariSystem address.
var GenesisModuleId = mustModuleId(address.KanariSystem, "genesis")

// RegisterGenesis binds the 0x2::genesis::init entry function into reg.
func RegisterGenesis(reg *Registry) {
	reg.MustRegister(GenesisModuleId, "init", genesisInit)
}

// genesisInit allocates TotalSupply to the DEV reserved address and
// materializes zero-balance rows for the remaining reserved addresses
// (§4.2 "Genesis: allocate TOTAL_SUPPLY to DEV_ADDRESS; zero-balance
// accounts for GENESIS, STD, SYSTEM, DAO addresses").
func genesisInit(ctx *EntryContext) error {
	ctx.Credit(address.Dev, TotalSupply)
	ctx.Touch(address.Genesis)
	ctx.Touch(address.Std)
	ctx.Touch(address.KanariSystem)
	ctx.Touch(address.Dao)
	return nil
}

func mustModuleId(addr address.Address, name string) address.ModuleId {
	id, err := address.NewModuleId(addr, name)
	if err != nil {
		panic(err)
	}
	return id
}
