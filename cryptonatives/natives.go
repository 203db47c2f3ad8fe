// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package cryptonatives implements the cryptographic verification natives
// callable from the VM (§4.4): ed25519 and ECDSA verification over
// secp256k1 ("k1") and P-256 ("r1"), BIP-340 Schnorr, and secp256k1 ECDSA
// public-key recovery.
//
// Each native returns either a successful value or one of the documented
// abort codes in ErrorCode; natives never panic.
package cryptonatives

import (
	"crypto/sha256"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

// ErrorCode enumerates the abort codes documented in §4.4.
type ErrorCode int

const (
	ErrRecoveryFailed          ErrorCode = 1
	ErrInvalidSignature        ErrorCode = 2
	ErrInvalidPubKey           ErrorCode = 3
	ErrInvalidXOnlyPubKey      ErrorCode = 5
	ErrInvalidMessage          ErrorCode = 6
	ErrInvalidSchnorrSignature ErrorCode = 7
)

// NativeError wraps a native's documented abort code.
type NativeError struct {
	Code ErrorCode
}

func (e *NativeError) Error() string {
	switch e.Code {
	case ErrRecoveryFailed:
		return "cryptonatives: recovery failed"
	case ErrInvalidSignature:
		return "cryptonatives: invalid signature"
	case ErrInvalidPubKey:
		return "cryptonatives: invalid public key"
	case ErrInvalidXOnlyPubKey:
		return "cryptonatives: invalid x-only public key"
	case ErrInvalidMessage:
		return "cryptonatives: invalid message"
	case ErrInvalidSchnorrSignature:
		return "cryptonatives: invalid schnorr signature"
	default:
		return fmt.Sprintf("cryptonatives: error %d", e.Code)
	}
}

func abort(code ErrorCode) error {
	return &NativeError{Code: code}
}

// HashTag selects the message digest used ahead of signature verification,
// per §4.4.
type HashTag uint8

const (
	HashKeccak256 HashTag = 0
	HashSHA256    HashTag = 1
)

// digest hashes msg according to tag. Determinism across platforms is
// required by §4.4; both Keccak-256 (via go-ethereum's crypto
// package, a direct Tosca dependency) and SHA-256 (stdlib) are
// deterministic, allocation-free digests.
func digest(msg []byte, tag HashTag) [32]byte {
	if tag == HashKeccak256 {
		return crypto.Keccak256Hash(msg)
	}
	return sha256.Sum256(msg)
}
