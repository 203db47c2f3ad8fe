// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rpcserver

import (
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/gas"
	"github.com/kanari-chain/kanari/txn"
)

// signedTransactionData is the wire shape of the `SignedTransactionData`
// parameter of `kanari_submitTransaction` (§6). It is a flat
// struct covering all three Transaction variants; only the fields
// relevant to Kind need be set by the caller. Byte fields use
// hexutil.Bytes, which (un)marshals as a "0x"-prefixed hex string
// rather than JSON's default base64, matching every other hex field on
// this wire (addresses, hashes).
type signedTransactionData struct {
	Kind     string `json:"kind"`
	Sender   string `json:"sender"`
	GasLimit uint64 `json:"gas_limit"`
	GasPrice uint64 `json:"gas_price"`

	ModuleName  string        `json:"module_name,omitempty"`
	ModuleBytes hexutil.Bytes `json:"module_bytes,omitempty"`

	ModuleIdAddress string          `json:"module_id_address,omitempty"`
	ModuleIdName    string          `json:"module_id_name,omitempty"`
	Function        string          `json:"function,omitempty"`
	TypeArgs        []string        `json:"type_args,omitempty"`
	Args            []hexutil.Bytes `json:"args,omitempty"`

	To     string `json:"to,omitempty"`
	Amount uint64 `json:"amount,omitempty"`

	Signature hexutil.Bytes `json:"signature"`
	PublicKey hexutil.Bytes `json:"public_key"`
	Curve     string        `json:"curve"`
}

func decodeSignedTransaction(params json.RawMessage) (txn.SignedTransaction, error) {
	var data signedTransactionData
	if err := json.Unmarshal(params, &data); err != nil {
		return txn.SignedTransaction{}, err
	}

	sender, err := address.Parse(data.Sender)
	if err != nil {
		return txn.SignedTransaction{}, fmt.Errorf("invalid sender: %w", err)
	}

	var body txn.Transaction
	switch data.Kind {
	case "PublishModule":
		body = txn.NewPublishModule(sender, address.Name(data.ModuleName), []byte(data.ModuleBytes), gas.Units(data.GasLimit), data.GasPrice)
	case "ExecuteFunction":
		moduleAddr, err := address.Parse(data.ModuleIdAddress)
		if err != nil {
			return txn.SignedTransaction{}, fmt.Errorf("invalid module_id_address: %w", err)
		}
		moduleId, err := address.NewModuleId(moduleAddr, data.ModuleIdName)
		if err != nil {
			return txn.SignedTransaction{}, fmt.Errorf("invalid module id: %w", err)
		}
		args := make([][]byte, len(data.Args))
		for i, a := range data.Args {
			args[i] = []byte(a)
		}
		body = txn.NewExecuteFunction(sender, moduleId, data.Function, data.TypeArgs, args, gas.Units(data.GasLimit), data.GasPrice)
	case "Transfer":
		to, err := address.Parse(data.To)
		if err != nil {
			return txn.SignedTransaction{}, fmt.Errorf("invalid to address: %w", err)
		}
		body = txn.NewTransfer(sender, to, data.Amount, gas.Units(data.GasLimit), data.GasPrice)
	default:
		return txn.SignedTransaction{}, fmt.Errorf("unknown transaction kind %q", data.Kind)
	}

	curve, err := parseCurveTag(data.Curve)
	if err != nil {
		return txn.SignedTransaction{}, err
	}

	return txn.SignedTransaction{
		Body:      body,
		Signature: []byte(data.Signature),
		PublicKey: []byte(data.PublicKey),
		Curve:     curve,
	}, nil
}

func parseCurveTag(s string) (txn.CurveTag, error) {
	switch s {
	case "ed25519":
		return txn.CurveEd25519, nil
	case "secp256k1":
		return txn.CurveSecp256k1, nil
	case "p256":
		return txn.CurveP256, nil
	case "":
		return 0, nil
	default:
		return 0, fmt.Errorf("unknown curve %q", s)
	}
}
