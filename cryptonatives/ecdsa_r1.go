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
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"math/big"
)

// VerifyR1 implements ecdsa_r1::native_verify: ECDSA verification over the
// NIST P-256 curve, accepting either a DER-encoded or a raw 64-byte (r || s)
// signature against a 33-byte (compressed) or 65-byte (uncompressed) public
// key, per §4.4.
func VerifyR1(sig, pk, msg []byte, tag HashTag) (bool, error) {
	pub, err := parseR1PublicKey(pk)
	if err != nil {
		return false, err
	}
	r, s, err := parseR1Signature(sig)
	if err != nil {
		return false, err
	}
	hash := digest(msg, tag)
	return ecdsa.Verify(pub, hash[:], r, s), nil
}

func parseR1PublicKey(pk []byte) (*ecdsa.PublicKey, error) {
	curve := elliptic.P256()
	var x, y *big.Int
	switch len(pk) {
	case 33:
		x, y = elliptic.UnmarshalCompressed(curve, pk)
	case 65:
		x, y = elliptic.Unmarshal(curve, pk)
	default:
		return nil, abort(ErrInvalidPubKey)
	}
	if x == nil || y == nil {
		return nil, abort(ErrInvalidPubKey)
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

// r1Signature mirrors the ASN.1 SEQUENCE{INTEGER r, INTEGER s} structure of
// a DER-encoded ECDSA signature.
type r1Signature struct {
	R, S *big.Int
}

func parseR1Signature(sig []byte) (r, s *big.Int, err error) {
	var parsed r1Signature
	if _, derErr := asn1.Unmarshal(sig, &parsed); derErr == nil {
		return parsed.R, parsed.S, nil
	}
	if len(sig) != 64 {
		return nil, nil, abort(ErrInvalidSignature)
	}
	r = new(big.Int).SetBytes(sig[:32])
	s = new(big.Int).SetBytes(sig[32:64])
	return r, s, nil
}
