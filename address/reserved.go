// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package address

// Reserved addresses, encoded as compile-time constants per §9
// ("Global addresses") rather than inferred from string comparison at
// runtime.
var (
	// Genesis is the synthetic sender of the genesis transaction (0x0).
	Genesis = MustParse("0x0")

	// Std is the standard-library module owner (0x1).
	Std = MustParse("0x1")

	// KanariSystem is the system-module owner (0x2), e.g. 0x2::genesis,
	// 0x2::coin.
	KanariSystem = MustParse("0x2")

	// Dao is the gas sink: every transaction's gas fee is credited here.
	Dao = MustParse("0xda0")

	// Dev is the initial holder of the entire genesis supply.
	Dev = MustParse("0xdeb")
)

// IsReserved reports whether addr is one of the compile-time reserved
// addresses.
func IsReserved(addr Address) bool {
	switch addr {
	case Genesis, Std, KanariSystem, Dao, Dev:
		return true
	default:
		return false
	}
}
