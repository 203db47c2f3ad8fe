// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package txn implements the transaction envelope of §4.7: a
// tagged union over PublishModule/ExecuteFunction/Transfer, its canonical
// binary encoding, SHA-256 hashing, and curve-dispatched signing and
// verification.
package txn

import (
	"fmt"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/gas"
)

// Kind discriminates the Transaction tagged union.
type Kind uint8

const (
	KindPublishModule Kind = iota + 1
	KindExecuteFunction
	KindTransfer
)

func (k Kind) String() string {
	switch k {
	case KindPublishModule:
		return "PublishModule"
	case KindExecuteFunction:
		return "ExecuteFunction"
	case KindTransfer:
		return "Transfer"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Transaction is the tagged union of §4.7. Only the fields
// relevant to Kind are populated; the zero value of the rest is ignored
// both by Encode and by the engine.
type Transaction struct {
	Kind     Kind
	Sender   address.Address
	GasLimit gas.Units
	GasPrice uint64

	// PublishModule
	ModuleName  address.Name
	ModuleBytes []byte

	// ExecuteFunction
	ModuleId address.ModuleId
	Function string
	TypeArgs []string
	Args     [][]byte

	// Transfer
	To     address.Address
	Amount uint64
}

// NewPublishModule builds a PublishModule transaction.
func NewPublishModule(sender address.Address, moduleName address.Name, moduleBytes []byte, gasLimit gas.Units, gasPrice uint64) Transaction {
	return Transaction{
		Kind:        KindPublishModule,
		Sender:      sender,
		GasLimit:    gasLimit,
		GasPrice:    gasPrice,
		ModuleName:  moduleName,
		ModuleBytes: moduleBytes,
	}
}

// NewExecuteFunction builds an ExecuteFunction transaction.
func NewExecuteFunction(sender address.Address, moduleId address.ModuleId, function string, typeArgs []string, args [][]byte, gasLimit gas.Units, gasPrice uint64) Transaction {
	return Transaction{
		Kind:     KindExecuteFunction,
		Sender:   sender,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		ModuleId: moduleId,
		Function: function,
		TypeArgs: typeArgs,
		Args:     args,
	}
}

// NewTransfer builds a Transfer transaction.
func NewTransfer(from, to address.Address, amount uint64, gasLimit gas.Units, gasPrice uint64) Transaction {
	return Transaction{
		Kind:     KindTransfer,
		Sender:   from,
		GasLimit: gasLimit,
		GasPrice: gasPrice,
		To:       to,
		Amount:   amount,
	}
}
