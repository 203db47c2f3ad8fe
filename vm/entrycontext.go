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
	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/gas"
)

// EntryContext is the handle an EntryFunction receives: read access to
// chain state through Resolver, the transaction context, its raw
// arguments, and a staging surface onto the session's in-flight
// ChangeSet. It never grants direct access to state.Manager.
type EntryContext struct {
	Resolver Resolver
	Tx       TxContext
	Sender   address.Address
	TypeArgs []string
	Args     [][]byte

	changes *changeset.ChangeSet
	meter   *gas.Meter
}

// BalanceOf returns addr's balance as it would stand if the session's
// staged changes were applied, without touching the underlying resolver.
func (c *EntryContext) BalanceOf(addr address.Address) uint64 {
	return stagedBalance(c.Resolver, c.changes, addr)
}

// stagedBalance computes addr's resolver balance adjusted by any pending
// delta in changes, shared by EntryContext.BalanceOf and Session.Transfer.
func stagedBalance(resolver Resolver, changes *changeset.ChangeSet, addr address.Address) uint64 {
	base := resolver.GetBalance(addr)
	if change, ok := changes.AccountChanges[addr]; ok {
		adjusted := int64(base) + change.BalanceDelta
		if adjusted < 0 {
			return 0
		}
		return uint64(adjusted)
	}
	return base
}

// Credit stages a credit of amount to addr.
func (c *EntryContext) Credit(addr address.Address, amount uint64) {
	c.changes.GetOrCreateChange(addr).Credit(amount)
}

// Debit stages a debit of amount from addr, failing with
// AbortArithmeticError if the resulting balance (accounting for any
// already-staged changes) would go negative.
func (c *EntryContext) Debit(addr address.Address, amount uint64) error {
	if c.BalanceOf(addr) < amount {
		return abort(AbortArithmeticError)
	}
	c.changes.GetOrCreateChange(addr).Debit(amount)
	return nil
}

// Touch ensures addr appears in the resulting ChangeSet even with a
// zero delta, used by genesis to materialize zero-balance reserved
// accounts (§4.2's genesis allocation).
func (c *EntryContext) Touch(addr address.Address) {
	c.changes.GetOrCreateChange(addr)
}

// EmitEvent appends event to the session's in-flight ChangeSet.
func (c *EntryContext) EmitEvent(event changeset.Event) {
	c.changes.AddEvent(event)
}

// ConsumeGas charges units against the session's gas meter, translating
// ErrOutOfGas into an AbortOutOfGas abort. Entry functions use this to
// price per-instruction or per-native work beyond the flat
// gas.ExecuteFunction charge the session already levies.
func (c *EntryContext) ConsumeGas(units gas.Units) error {
	if err := c.meter.Consume(units); err != nil {
		return abort(AbortOutOfGas)
	}
	return nil
}

