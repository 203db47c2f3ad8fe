// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package address defines the 32-byte account identity used throughout the
// chain, its canonical hex codec, and the ModuleId naming convention for
// published bytecode.
package address

import (
	"fmt"
	"regexp"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Length is the size, in bytes, of an Address.
const Length = 32

// Address represents the 256-bit account identity of the chain. Equality is
// bytewise.
type Address [Length]byte

// Parse decodes a canonical textual address ("0x" + hex). Shorter inputs are
// tolerated and right-aligned (padded with leading zeros), matching the
// parse rule of §3.
func Parse(s string) (Address, error) {
	raw, err := hexutil.Decode(normalize(s))
	if err != nil {
		return Address{}, fmt.Errorf("invalid address %q: %w", s, err)
	}
	if len(raw) > Length {
		return Address{}, fmt.Errorf("invalid address %q: %d bytes exceeds %d", s, len(raw), Length)
	}
	var a Address
	copy(a[Length-len(raw):], raw)
	return a, nil
}

// MustParse is like Parse but panics on error. Intended for constant-like
// initialization of reserved addresses.
func MustParse(s string) Address {
	a, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return a
}

// normalize tolerates a missing "0x" prefix and odd-length hex, both of
// which hexutil.Decode otherwise rejects.
func normalize(s string) string {
	if len(s) < 2 || s[0:2] != "0x" {
		s = "0x" + s
	}
	if len(s)%2 != 0 {
		s = "0x0" + s[2:]
	}
	return s
}

// String renders the address in its canonical lowercase form, leading zeros
// preserved.
func (a Address) String() string {
	return hexutil.Encode(a[:])
}

// MarshalText implements encoding.TextMarshaler.
func (a Address) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *Address) UnmarshalText(data []byte) error {
	parsed, err := Parse(string(data))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// IsZero reports whether the address is the all-zero address.
func (a Address) IsZero() bool {
	return a == Address{}
}

var moduleNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// MaxModuleNameLength is the longest accepted module name, per §3.
const MaxModuleNameLength = 127

// Name is a module identifier component: a non-empty ASCII identifier
// matching [A-Za-z_][A-Za-z0-9_]*, length <= MaxModuleNameLength.
type Name string

// ValidateName reports whether n is a well-formed module name.
func ValidateName(n string) error {
	if len(n) == 0 {
		return fmt.Errorf("module name must not be empty")
	}
	if len(n) > MaxModuleNameLength {
		return fmt.Errorf("module name %q exceeds %d characters", n, MaxModuleNameLength)
	}
	if !moduleNamePattern.MatchString(n) {
		return fmt.Errorf("module name %q is not a valid identifier", n)
	}
	return nil
}

// ModuleId uniquely identifies a published module: the publishing address
// plus its name. At most one bytecode blob may exist per ModuleId
// (§3).
type ModuleId struct {
	Address Address
	Name    Name
}

// NewModuleId validates name and constructs a ModuleId.
func NewModuleId(addr Address, name string) (ModuleId, error) {
	if err := ValidateName(name); err != nil {
		return ModuleId{}, err
	}
	return ModuleId{Address: addr, Name: Name(name)}, nil
}

// String renders a ModuleId as "<address>::<name>".
func (m ModuleId) String() string {
	return fmt.Sprintf("%s::%s", m.Address, m.Name)
}
