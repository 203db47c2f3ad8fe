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

import (
	"encoding/json"
	"testing"
)

func TestAddress_ZeroValue(t *testing.T) {
	var a Address
	if !a.IsZero() {
		t.Errorf("zero-value address must be IsZero()")
	}
}

func TestAddress_ParseRightAlignsShortInput(t *testing.T) {
	got, err := Parse("0x1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Address{}
	want[Length-1] = 1
	if got != want {
		t.Errorf("unexpected address, wanted %v, got %v", want, got)
	}
}

func TestAddress_ParseTolerantOfMissingPrefix(t *testing.T) {
	withPrefix, err := Parse("0xab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	withoutPrefix, err := Parse("ab")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if withPrefix != withoutPrefix {
		t.Errorf("parse should be equivalent with or without 0x prefix")
	}
}

func TestAddress_ParseRejectsOversizedInput(t *testing.T) {
	big := ""
	for i := 0; i < (Length+1)*2; i++ {
		big += "a"
	}
	if _, err := Parse(big); err == nil {
		t.Errorf("expected an error for an address longer than %d bytes", Length)
	}
}

func TestAddress_StringRoundTrip(t *testing.T) {
	a := Address{0xAB, 0xCD}
	parsed, err := Parse(a.String())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed != a {
		t.Errorf("round trip mismatch: wanted %v, got %v", a, parsed)
	}
}

func TestAddress_JSONRoundTrip(t *testing.T) {
	a := Address{1, 2, 3}
	encoded, err := json.Marshal(a)
	if err != nil {
		t.Fatalf("failed to encode: %v", err)
	}
	var restored Address
	if err := json.Unmarshal(encoded, &restored); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	if restored != a {
		t.Errorf("unexpected restored value, wanted %v, got %v", a, restored)
	}
}

func TestAddress_EqualityIsBytewise(t *testing.T) {
	a := Address{1}
	b := Address{1}
	c := Address{2}
	if a != b {
		t.Errorf("expected equal addresses to compare equal")
	}
	if a == c {
		t.Errorf("expected different addresses to compare unequal")
	}
}

func TestModuleId_ValidName(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
	}{
		{"", false},
		{"_private", true},
		{"coin", true},
		{"Coin_2", true},
		{"2coin", false},
		{"has space", false},
		{"has-dash", false},
	}
	for _, test := range tests {
		err := ValidateName(test.name)
		if got := err == nil; got != test.valid {
			t.Errorf("ValidateName(%q): wanted valid=%v, got valid=%v (err=%v)", test.name, test.valid, got, err)
		}
	}
}

func TestModuleId_NameTooLong(t *testing.T) {
	name := ""
	for i := 0; i < MaxModuleNameLength+1; i++ {
		name += "a"
	}
	if err := ValidateName(name); err == nil {
		t.Errorf("expected an error for a name longer than %d characters", MaxModuleNameLength)
	}
}

func TestModuleId_String(t *testing.T) {
	id, err := NewModuleId(KanariSystem, "genesis")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := id.String(), KanariSystem.String()+"::genesis"; got != want {
		t.Errorf("unexpected ModuleId string, wanted %q, got %q", want, got)
	}
}

func TestReserved_IsReserved(t *testing.T) {
	for _, a := range []Address{Genesis, Std, KanariSystem, Dao, Dev} {
		if !IsReserved(a) {
			t.Errorf("expected %v to be reserved", a)
		}
	}
	if IsReserved(Address{0x99}) {
		t.Errorf("did not expect an arbitrary address to be reserved")
	}
}
