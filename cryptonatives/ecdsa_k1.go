// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cryptonatives

import (
	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// Ecrecover implements ecdsa_k1::ecrecover: given a 65-byte recoverable
// signature (r || s || v) and a message, recover the 33-byte compressed
// public key that produced it. Recovery id is v mod 4, per §4.4.
func Ecrecover(sig65, msg []byte, tag HashTag) ([]byte, error) {
	if len(sig65) != 65 {
		return nil, abort(ErrInvalidSignature)
	}
	hash := digest(msg, tag)

	v := sig65[64] % 4
	compact := make([]byte, 65)
	compact[0] = 27 + v
	copy(compact[1:], sig65[:64])

	pubKey, _, err := ecdsa.RecoverCompact(compact, hash[:])
	if err != nil {
		return nil, abort(ErrRecoveryFailed)
	}
	return pubKey.SerializeCompressed(), nil
}

// DecompressPubkey implements ecdsa_k1::decompress_pubkey: accepts a 33-byte
// (compressed) or 65-byte (uncompressed) secp256k1 public key and returns
// the 65-byte uncompressed form.
func DecompressPubkey(pk []byte) ([]byte, error) {
	if len(pk) != 33 && len(pk) != 65 {
		return nil, abort(ErrInvalidPubKey)
	}
	parsed, err := btcec.ParsePubKey(pk)
	if err != nil {
		return nil, abort(ErrInvalidPubKey)
	}
	return parsed.SerializeUncompressed(), nil
}

// VerifyK1 implements ecdsa_k1::verify. It accepts a DER-encoded or raw
// 64-byte ECDSA signature against a 33/65-byte public key, OR — when sig is
// 64 bytes and pk is exactly 32 bytes — dispatches to BIP-340 Schnorr
// verification against an x-only public key, per §4.4's Schnorr
// dispatch rule.
func VerifyK1(sig, pk, msg []byte, tag HashTag) (bool, error) {
	if len(sig) == 64 && len(pk) == 32 {
		return verifySchnorr(sig, pk, msg)
	}
	if len(pk) == 32 {
		// 32-byte key without a 64-byte signature cannot be a valid
		// x-only schnorr attempt either.
		return false, abort(ErrInvalidXOnlyPubKey)
	}
	if len(pk) != 33 && len(pk) != 65 {
		return false, abort(ErrInvalidPubKey)
	}
	if len(sig) == 0 {
		return false, abort(ErrInvalidSignature)
	}

	pubKey, err := btcec.ParsePubKey(pk)
	if err != nil {
		return false, abort(ErrInvalidPubKey)
	}

	parsedSig, ok := parseK1Signature(sig)
	if !ok {
		return false, nil
	}

	hash := digest(msg, tag)
	return parsedSig.Verify(hash[:], pubKey), nil
}

// parseK1Signature accepts a DER-encoded signature, falling back to a raw
// 64-byte (r || s) encoding, matching move_natives.rs's
// "from_der(...).or(raw 64 bytes)" acceptance rule.
func parseK1Signature(sig []byte) (*ecdsa.Signature, bool) {
	if parsed, err := ecdsa.ParseDERSignature(sig); err == nil {
		return parsed, true
	}
	if len(sig) != 64 {
		return nil, false
	}
	var r, s btcec.ModNScalar
	if overflow := r.SetByteSlice(sig[:32]); overflow {
		return nil, false
	}
	if overflow := s.SetByteSlice(sig[32:64]); overflow {
		return nil, false
	}
	return ecdsa.NewSignature(&r, &s), true
}

// verifySchnorr implements the BIP-340 path of ecdsa_k1::verify. The
// message MUST be exactly 32 bytes (§4.4), else ErrInvalidMessage.
func verifySchnorr(sig, pkXOnly, msg []byte) (bool, error) {
	if len(msg) != 32 {
		return false, abort(ErrInvalidMessage)
	}
	pubKey, err := schnorr.ParsePubKey(pkXOnly)
	if err != nil {
		return false, abort(ErrInvalidXOnlyPubKey)
	}
	parsedSig, err := schnorr.ParseSignature(sig)
	if err != nil {
		return false, abort(ErrInvalidSchnorrSignature)
	}
	return parsedSig.Verify(msg, pubKey), nil
}
