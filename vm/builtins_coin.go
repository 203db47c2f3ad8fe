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
	"encoding/binary"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
)

// CoinModuleId identifies the builtin coin module, published at the
// reserved KanariSystem address. Modeled on kanari-types/src/coin.rs's
// CoinRecord/TreasuryCap functions, restated as entry functions that
// operate directly on account balances rather than a typed resource
// store, since generic Move resource typing is out of scope (§1).
var CoinModuleId = mustModuleId(address.KanariSystem, "coin")

const coinEventType = "0x2::coin::CoinEvent"

// RegisterCoin binds the 0x2::coin entry functions into reg.
func RegisterCoin(reg *Registry) {
	reg.MustRegister(CoinModuleId, "create_currency", coinCreateCurrency)
	reg.MustRegister(CoinModuleId, "mint", coinMint)
	reg.MustRegister(CoinModuleId, "burn", coinBurn)
	reg.MustRegister(CoinModuleId, "split", coinSplit)
	reg.MustRegister(CoinModuleId, "join", coinJoin)
}

// coinCreateCurrency records a currency-creation event. It carries no
// balance effect; TreasuryCap issuance authority is out of scope, so mint
// simply requires the KanariSystem address as sender (see coinMint).
func coinCreateCurrency(ctx *EntryContext) error {
	if len(ctx.Args) < 1 {
		return abortByMove(1)
	}
	ctx.EmitEvent(changeset.Event{
		TypeTag: coinEventType,
		Data:    append([]byte("create_currency:"), ctx.Args[0]...),
	})
	return nil
}

// coinMint credits Args[0] (a 32-byte address) with Args[1] (an 8-byte
// big-endian amount). Only the KanariSystem address may mint.
func coinMint(ctx *EntryContext) error {
	if ctx.Sender != address.KanariSystem {
		return abort(AbortResourceMissing)
	}
	to, amount, err := parseAddrAmount(ctx.Args)
	if err != nil {
		return err
	}
	ctx.Credit(to, amount)
	ctx.EmitEvent(changeset.Event{TypeTag: coinEventType, Data: append([]byte("mint:"), ctx.Args[0]...)})
	return nil
}

// coinBurn debits Args[0] (a 32-byte address) by Args[1] (an 8-byte
// big-endian amount).
func coinBurn(ctx *EntryContext) error {
	from, amount, err := parseAddrAmount(ctx.Args)
	if err != nil {
		return err
	}
	if err := ctx.Debit(from, amount); err != nil {
		return err
	}
	ctx.EmitEvent(changeset.Event{TypeTag: coinEventType, Data: append([]byte("burn:"), ctx.Args[0]...)})
	return nil
}

// coinSplit debits the sender and credits Args[0] (a 32-byte address) with
// Args[1] (an 8-byte big-endian amount) — a named alias for a direct
// balance transfer, kept distinct from Transaction{Transfer} so the coin
// module has an entry point of its own.
func coinSplit(ctx *EntryContext) error {
	to, amount, err := parseAddrAmount(ctx.Args)
	if err != nil {
		return err
	}
	if err := ctx.Debit(ctx.Sender, amount); err != nil {
		return err
	}
	ctx.Credit(to, amount)
	return nil
}

// coinJoin moves the entire balance of Args[0] (a 32-byte address) into
// the sender's balance.
func coinJoin(ctx *EntryContext) error {
	if len(ctx.Args) < 1 {
		return abort(AbortTypeMismatch)
	}
	from, err := parseAddress(ctx.Args[0])
	if err != nil {
		return err
	}
	amount := ctx.BalanceOf(from)
	if amount == 0 {
		return nil
	}
	if err := ctx.Debit(from, amount); err != nil {
		return err
	}
	ctx.Credit(ctx.Sender, amount)
	return nil
}

func parseAddrAmount(args [][]byte) (address.Address, uint64, error) {
	if len(args) < 2 {
		return address.Address{}, 0, abort(AbortTypeMismatch)
	}
	addr, err := parseAddress(args[0])
	if err != nil {
		return address.Address{}, 0, err
	}
	amount, err := parseAmount(args[1])
	if err != nil {
		return address.Address{}, 0, err
	}
	return addr, amount, nil
}

func parseAddress(b []byte) (address.Address, error) {
	if len(b) != address.Length {
		return address.Address{}, abort(AbortTypeMismatch)
	}
	var addr address.Address
	copy(addr[:], b)
	return addr, nil
}

func parseAmount(b []byte) (uint64, error) {
	if len(b) != 8 {
		return 0, abort(AbortTypeMismatch)
	}
	return binary.BigEndian.Uint64(b), nil
}
