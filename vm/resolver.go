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

// Resolver is the read-only view of modules and account state a Session is
// opened against (§2's "Resource/module resolver"). state.Manager
// satisfies this interface; tests may substitute a fake.
type Resolver interface {
	GetBalance(addr address.Address) uint64
	GetSequence(addr address.Address) uint64
	GetModule(id address.ModuleId) ([]byte, bool)
}

// TxContext is the per-transaction context synthesized by the engine and
// passed into entry functions (§3).
type TxContext struct {
	Sender           address.Address
	TxHash           [32]byte
	Epoch            uint64
	EpochTimestampMs uint64
	IdsCreated       uint64
}
