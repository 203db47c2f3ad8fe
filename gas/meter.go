// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package gas implements the pre-priced operation catalogue and the
// per-session gas meter described in §4.3.
package gas

import (
	"errors"
	"math"

	"github.com/holiman/uint256"
)

// Units is the type used to represent gas quantities.
type Units uint64

// Pre-priced operation catalogue (§4.3). Costs are parameters of
// the system; these are the defaults used by tests and the reference node.
const (
	Transfer        Units = 200
	ExecuteFunction Units = 500 // complexity=1
	PublishModuleBase Units = 1000
	PublishModulePerByte Units = 10
	Instruction     Units = 1
	SignatureVerify Units = 250
)

// PublishModuleCost computes the gas cost of publishing a module blob of the
// given size: 1000 + 10*byte_size.
func PublishModuleCost(byteSize int) Units {
	return PublishModuleBase + Units(byteSize)*PublishModulePerByte
}

// ErrOutOfGas is returned by Consume when the meter's gas_limit would be
// exceeded.
var ErrOutOfGas = errors.New("gas: out of gas")

// Meter is a monotone, per-session gas accumulator bounded by a gas_limit.
// It is not safe for concurrent use; sessions are single-threaded per
// §5.
type Meter struct {
	limit    Units
	price    uint64
	used     Units
}

// NewMeter creates a meter instantiated from (gas_limit, gas_price), per
// §4.5 step (a).
func NewMeter(limit Units, price uint64) *Meter {
	return &Meter{limit: limit, price: price}
}

// Limit returns the meter's gas_limit.
func (m *Meter) Limit() Units {
	return m.limit
}

// Price returns the meter's gas_price.
func (m *Meter) Price() uint64 {
	return m.price
}

// Used returns the cumulative gas consumed so far.
func (m *Meter) Used() Units {
	return m.used
}

// Remaining returns the gas still available before exhausting limit.
func (m *Meter) Remaining() Units {
	if m.used >= m.limit {
		return 0
	}
	return m.limit - m.used
}

// Consume charges units of gas. It returns ErrOutOfGas (without mutating the
// used counter) if the charge would exceed the meter's limit.
func (m *Meter) Consume(units Units) error {
	if units > m.Remaining() {
		return ErrOutOfGas
	}
	m.used += units
	return nil
}

// TotalCost returns used * gas_price, saturating to math.MaxUint64 on
// overflow per §4.3 ("Overflow on multiplication saturates to
// u64::MAX and is treated as insufficient funds").
func (m *Meter) TotalCost() uint64 {
	return SaturatingMul(uint64(m.used), m.price)
}

// LimitCost returns gas_limit * gas_price, saturating on overflow. Used to
// pre-charge the worst-case cost before a transaction is known to succeed
// (§4.5 step c, §4.3 "OutOfGas abort still charges gas_limit*gas_price").
func (m *Meter) LimitCost() uint64 {
	return SaturatingMul(uint64(m.limit), m.price)
}

// SaturatingMul computes a*b, clamping the result to math.MaxUint64 instead
// of wrapping on overflow. The multiplication is performed at 256 bits
// (via uint256.Int, the same library Tosca uses for its own 256-bit
// arithmetic in go/tosca/types.go) so no overflow can occur before the
// clamp is applied.
func SaturatingMul(a, b uint64) uint64 {
	x := new(uint256.Int).SetUint64(a)
	y := new(uint256.Int).SetUint64(b)
	product := new(uint256.Int).Mul(x, y)
	if !product.IsUint64() {
		return math.MaxUint64
	}
	return product.Uint64()
}
