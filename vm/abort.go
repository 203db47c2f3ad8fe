// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package vm implements the bounded, side-effect-free VM session
// (§4.1): entry-function dispatch over a registry keyed by
// (ModuleId, function name), since the bytecode compiler and interpreter
// loop are explicitly out of scope (§1).
package vm

import "fmt"

// AbortKind enumerates the gas/session abort kinds of §4.1.
type AbortKind int

const (
	AbortOutOfGas AbortKind = iota + 1
	AbortLinkerError
	AbortVerifyError
	AbortByMove
	AbortArithmeticError
	AbortTypeMismatch
	AbortResourceMissing
	AbortDuplicateModule
)

func (k AbortKind) String() string {
	switch k {
	case AbortOutOfGas:
		return "OutOfGas"
	case AbortLinkerError:
		return "LinkerError"
	case AbortVerifyError:
		return "VerifyError"
	case AbortByMove:
		return "AbortByMove"
	case AbortArithmeticError:
		return "ArithmeticError"
	case AbortTypeMismatch:
		return "TypeMismatch"
	case AbortResourceMissing:
		return "ResourceMissing"
	case AbortDuplicateModule:
		return "DuplicateModule"
	default:
		return fmt.Sprintf("AbortKind(%d)", int(k))
	}
}

// Abort is the error type returned by a failed session operation. MoveCode
// carries the explicit abort code for AbortByMove; it is zero otherwise.
type Abort struct {
	Kind     AbortKind
	MoveCode uint64
}

func (a *Abort) Error() string {
	if a.Kind == AbortByMove {
		return fmt.Sprintf("vm: aborted by move, code=%d", a.MoveCode)
	}
	return fmt.Sprintf("vm: %s", a.Kind)
}

func abort(kind AbortKind) error {
	return &Abort{Kind: kind}
}

func abortByMove(code uint64) error {
	return &Abort{Kind: AbortByMove, MoveCode: code}
}
