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
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rand"
	"fmt"

	"github.com/btcsuite/btcd/btcec/v2"
	btcecdsa "github.com/btcsuite/btcd/btcec/v2/ecdsa"

	"github.com/kanari-chain/kanari/cryptonatives"
)

// CurveTag selects the signature scheme of a SignedTransaction, per
// §4.7.
type CurveTag uint8

const (
	CurveEd25519 CurveTag = iota + 1
	CurveSecp256k1
	CurveP256
)

func (c CurveTag) String() string {
	switch c {
	case CurveEd25519:
		return "ed25519"
	case CurveSecp256k1:
		return "secp256k1"
	case CurveP256:
		return "p256"
	default:
		return fmt.Sprintf("CurveTag(%d)", int(c))
	}
}

// SignedTransaction pairs a Transaction body with an optional signature.
// A zero-value Signature/PublicKey is permitted by this type but rejected
// by the engine unless a skip_signature flag is set (§4.7, node
// testing only).
type SignedTransaction struct {
	Body      Transaction
	Signature []byte
	PublicKey []byte
	Curve     CurveTag
}

// SignEd25519 signs tx's hash with priv and returns the resulting
// SignedTransaction.
func SignEd25519(tx Transaction, priv ed25519.PrivateKey) SignedTransaction {
	hash := Hash(tx)
	sig := ed25519.Sign(priv, hash[:])
	return SignedTransaction{
		Body:      tx,
		Signature: sig,
		PublicKey: []byte(priv.Public().(ed25519.PublicKey)),
		Curve:     CurveEd25519,
	}
}

// SignSecp256k1 signs tx's hash with priv, producing a raw 64-byte (r||s)
// signature over the compressed public key.
func SignSecp256k1(tx Transaction, priv *btcec.PrivateKey) SignedTransaction {
	hash := Hash(tx)
	sig := btcecdsa.Sign(priv, hash[:])
	r, s := sig.R(), sig.S()
	rBytes, sBytes := r.Bytes(), s.Bytes()

	raw := make([]byte, 64)
	copy(raw[:32], rBytes[:])
	copy(raw[32:], sBytes[:])

	return SignedTransaction{
		Body:      tx,
		Signature: raw,
		PublicKey: priv.PubKey().SerializeCompressed(),
		Curve:     CurveSecp256k1,
	}
}

// SignP256 signs tx's hash with priv, producing a DER-encoded ECDSA
// signature over the compressed public key.
func SignP256(tx Transaction, priv *ecdsa.PrivateKey) (SignedTransaction, error) {
	hash := Hash(tx)
	sig, err := ecdsa.SignASN1(rand.Reader, priv, hash[:])
	if err != nil {
		return SignedTransaction{}, fmt.Errorf("txn: p256 signing failed: %w", err)
	}
	pub := elliptic.MarshalCompressed(priv.Curve, priv.PublicKey.X, priv.PublicKey.Y)
	return SignedTransaction{
		Body:      tx,
		Signature: sig,
		PublicKey: pub,
		Curve:     CurveP256,
	}, nil
}

// Verify dispatches verification to cryptonatives per st.Curve, per
// §4.7. Ed25519 signs over the already-hashed tx digest directly (as
// Sign/Verify take an arbitrary message with no internal hashing), so
// CurveEd25519 passes Hash(st.Body) straight through. The K1/R1 natives
// hash their input themselves (cryptonatives.digest), matching
// SignSecp256k1/SignP256's use of btcecdsa.Sign/ecdsa.SignASN1 — both of
// which sign a pre-hashed digest — so those two paths must pass the raw
// canonical encoding and let the native produce the same digest that was
// signed, rather than hashing it twice.
func Verify(st SignedTransaction) (bool, error) {
	switch st.Curve {
	case CurveEd25519:
		hash := Hash(st.Body)
		return cryptonatives.VerifyEd25519(st.Signature, st.PublicKey, hash[:]), nil
	case CurveSecp256k1:
		return cryptonatives.VerifyK1(st.Signature, st.PublicKey, Encode(st.Body), cryptonatives.HashSHA256)
	case CurveP256:
		return cryptonatives.VerifyR1(st.Signature, st.PublicKey, Encode(st.Body), cryptonatives.HashSHA256)
	default:
		return false, fmt.Errorf("txn: unknown curve tag %d", st.Curve)
	}
}
