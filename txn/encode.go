// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package txn

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
)

// Encode produces the canonical byte representation of tx: a tag byte
// followed by its variant's fields in fixed order, each variable-length
// field length-prefixed with a uint64 big-endian count. This is a
// from-scratch, struct-specific encoder rather than a general
// serialization format (see DESIGN.md); it need only be deterministic and
// collision-resistant across the three variants, not self-describing.
func Encode(tx Transaction) []byte {
	var buf bytes.Buffer
	buf.WriteByte(byte(tx.Kind))
	buf.Write(tx.Sender[:])
	writeUint64(&buf, uint64(tx.GasLimit))
	writeUint64(&buf, tx.GasPrice)

	switch tx.Kind {
	case KindPublishModule:
		writeString(&buf, string(tx.ModuleName))
		writeBytes(&buf, tx.ModuleBytes)
	case KindExecuteFunction:
		buf.Write(tx.ModuleId.Address[:])
		writeString(&buf, string(tx.ModuleId.Name))
		writeString(&buf, tx.Function)
		writeUint64(&buf, uint64(len(tx.TypeArgs)))
		for _, arg := range tx.TypeArgs {
			writeString(&buf, arg)
		}
		writeUint64(&buf, uint64(len(tx.Args)))
		for _, arg := range tx.Args {
			writeBytes(&buf, arg)
		}
	case KindTransfer:
		buf.Write(tx.To[:])
		writeUint64(&buf, tx.Amount)
	default:
		panic(fmt.Sprintf("txn: cannot encode unknown kind %d", tx.Kind))
	}

	return buf.Bytes()
}

// Hash returns the SHA-256 digest of tx's canonical encoding. Per §4.7,
// the hash covers the transaction body only, never a signature.
func Hash(tx Transaction) [32]byte {
	return sha256.Sum256(Encode(tx))
}

func writeUint64(buf *bytes.Buffer, v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	buf.Write(b[:])
}

func writeBytes(buf *bytes.Buffer, b []byte) {
	writeUint64(buf, uint64(len(b)))
	buf.Write(b)
}

func writeString(buf *bytes.Buffer, s string) {
	writeBytes(buf, []byte(s))
}
