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
	"bytes"
	"errors"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/gas"
)

// Session is a short-lived, owning view over state that collects a
// ChangeSet and never mutates state directly (§4.1). A session's
// observable state is a snapshot: it never calls back into the resolver's
// backing store for writes, only for reads through Resolver.
type Session struct {
	resolver Resolver
	registry *Registry
	tx       TxContext
	changes  *changeset.ChangeSet
}

// Open borrows resolver (conceptually immutably) and returns a new Session
// scoped to tx. registry supplies the entry-function dispatch table.
func Open(registry *Registry, resolver Resolver, tx TxContext) *Session {
	return &Session{
		resolver: resolver,
		registry: registry,
		tx:       tx,
		changes:  changeset.New(),
	}
}

// ExecuteEntry looks up the entry function registered for
// (moduleId, function) and invokes it. A static gas.ExecuteFunction charge
// is levied before dispatch; entry functions may levy further charges via
// EntryContext.ConsumeGas.
func (s *Session) ExecuteEntry(moduleId address.ModuleId, function string, typeArgs []string, args [][]byte, meter *gas.Meter) error {
	if err := meter.Consume(gas.ExecuteFunction); err != nil {
		return abort(AbortOutOfGas)
	}

	fn, ok := s.registry.Lookup(moduleId, function)
	if !ok {
		return abort(AbortLinkerError)
	}

	ctx := &EntryContext{
		Resolver: s.resolver,
		Tx:       s.tx,
		Sender:   s.tx.Sender,
		TypeArgs: typeArgs,
		Args:     args,
		changes:  s.changes,
		meter:    meter,
	}
	if err := fn(ctx); err != nil {
		var a *Abort
		if errors.As(err, &a) {
			return a
		}
		return abort(AbortByMove)
	}
	return nil
}

// PublishModule verifies (by way of ModuleId construction) and records the
// publication of moduleBytes under (sender, moduleName). Re-publishing
// identical bytes under an existing ModuleId is accepted as a no-op;
// re-publishing different bytes aborts with AbortDuplicateModule (§9's
// open question, resolved as reject-unless-identical).
func (s *Session) PublishModule(moduleBytes []byte, sender address.Address, moduleName address.Name, meter *gas.Meter) error {
	cost := gas.PublishModuleCost(len(moduleBytes))
	if err := meter.Consume(cost); err != nil {
		return abort(AbortOutOfGas)
	}

	id, err := address.NewModuleId(sender, string(moduleName))
	if err != nil {
		return abort(AbortVerifyError)
	}
	if existing, ok := s.resolver.GetModule(id); ok && !bytes.Equal(existing, moduleBytes) {
		return abort(AbortDuplicateModule)
	}

	s.changes.PublishModule(sender, moduleName, moduleBytes)
	return nil
}

// Transfer stages a direct balance move from the session's sender to to,
// charging the static gas.Transfer cost. It is the engine-level handling
// of a Transaction{Transfer}; unlike ExecuteEntry/PublishModule it is not
// resolved through the entry-function registry, since a plain transfer is
// not expressed as a Move entry function (§4.5 step 3d).
func (s *Session) Transfer(to address.Address, amount uint64, meter *gas.Meter) error {
	if err := meter.Consume(gas.Transfer); err != nil {
		return abort(AbortOutOfGas)
	}
	sender := s.tx.Sender
	if stagedBalance(s.resolver, s.changes, sender) < amount {
		return abort(AbortArithmeticError)
	}
	s.changes.GetOrCreateChange(sender).Debit(amount)
	s.changes.GetOrCreateChange(to).Credit(amount)
	return nil
}

// Finish consumes the session, returning its accumulated ChangeSet and the
// events recorded within it.
func (s *Session) Finish() (*changeset.ChangeSet, []changeset.Event) {
	return s.changes, s.changes.Events
}
