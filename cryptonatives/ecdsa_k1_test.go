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
	"testing"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
)

func mustPrivKey(t *testing.T) *btcec.PrivateKey {
	t.Helper()
	priv, err := btcec.NewPrivateKey()
	if err != nil {
		t.Fatalf("unexpected error generating key: %v", err)
	}
	return priv
}

func TestEcrecover_RoundTrip(t *testing.T) {
	priv := mustPrivKey(t)
	msg := []byte("transfer payload")
	hash := digest(msg, HashKeccak256)

	compact := ecdsa.SignCompact(priv, hash[:], false)
	sig65 := make([]byte, 65)
	copy(sig65[:64], compact[1:65])
	sig65[64] = (compact[0] - 27) % 4

	got, err := Ecrecover(sig65, msg, HashKeccak256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := priv.PubKey().SerializeCompressed()
	if string(got) != string(want) {
		t.Errorf("recovered pubkey mismatch")
	}
}

func TestEcrecover_WrongLengthSignature(t *testing.T) {
	if _, err := Ecrecover(make([]byte, 64), []byte("m"), HashKeccak256); err == nil {
		t.Errorf("expected an error for a 64-byte signature")
	} else if ne, ok := err.(*NativeError); !ok || ne.Code != ErrInvalidSignature {
		t.Errorf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestDecompressPubkey_RoundTrip(t *testing.T) {
	priv := mustPrivKey(t)
	compressed := priv.PubKey().SerializeCompressed()

	got, err := DecompressPubkey(compressed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := priv.PubKey().SerializeUncompressed()
	if string(got) != string(want) {
		t.Errorf("decompressed pubkey mismatch")
	}
}

func TestDecompressPubkey_InvalidLength(t *testing.T) {
	if _, err := DecompressPubkey(make([]byte, 10)); err == nil {
		t.Errorf("expected an error for an invalid length key")
	}
}

func TestVerifyK1_DERSignatureRoundTrip(t *testing.T) {
	priv := mustPrivKey(t)
	msg := []byte("publish module payload")
	hash := digest(msg, HashKeccak256)
	sig := ecdsa.Sign(priv, hash[:])

	ok, err := VerifyK1(sig.Serialize(), priv.PubKey().SerializeCompressed(), msg, HashKeccak256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected DER signature to verify")
	}
}

func TestVerifyK1_RawSignatureRoundTrip(t *testing.T) {
	priv := mustPrivKey(t)
	msg := []byte("publish module payload")
	hash := digest(msg, HashKeccak256)
	compact := ecdsa.SignCompact(priv, hash[:], false)

	ok, err := VerifyK1(compact[1:65], priv.PubKey().SerializeUncompressed(), msg, HashKeccak256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected raw 64-byte signature to verify")
	}
}

func TestVerifyK1_TamperedByteFailsVerification(t *testing.T) {
	priv := mustPrivKey(t)
	msg := []byte("publish module payload")
	hash := digest(msg, HashKeccak256)
	sig := ecdsa.Sign(priv, hash[:]).Serialize()
	sig[len(sig)-1] ^= 0xFF

	ok, err := VerifyK1(sig, priv.PubKey().SerializeCompressed(), msg, HashKeccak256)
	if err != nil {
		return // a malformed DER tail aborting is also an acceptable outcome
	}
	if ok {
		t.Errorf("expected tampered signature to fail verification")
	}
}

func TestVerifyK1_InvalidPubKeyLength(t *testing.T) {
	if _, err := VerifyK1(make([]byte, 64), make([]byte, 10), []byte("m"), HashKeccak256); err == nil {
		t.Errorf("expected an error for an invalid length pubkey")
	}
}

func TestVerifyK1_SchnorrDispatchRoundTrip(t *testing.T) {
	priv := mustPrivKey(t)
	msg := digest([]byte("schnorr payload"), HashSHA256) // schnorr requires a 32-byte message

	sig, err := schnorrSign(priv, msg[:])
	if err != nil {
		t.Fatalf("unexpected error signing: %v", err)
	}
	pkXOnly := schnorrSerializePubKey(priv)

	ok, err := VerifyK1(sig, pkXOnly, msg[:], HashSHA256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Errorf("expected schnorr signature to verify")
	}
}

func TestVerifyK1_SchnorrRejectsNon32ByteMessage(t *testing.T) {
	priv := mustPrivKey(t)
	msg := []byte("not 32 bytes")
	sig, err := schnorrSign(priv, digestPadTo32(msg))
	if err != nil {
		t.Fatalf("unexpected error signing: %v", err)
	}
	pkXOnly := schnorrSerializePubKey(priv)

	_, err = VerifyK1(sig, pkXOnly, msg, HashSHA256)
	if err == nil {
		t.Errorf("expected ErrInvalidMessage for a non-32-byte message")
	} else if ne, ok := err.(*NativeError); !ok || ne.Code != ErrInvalidMessage {
		t.Errorf("expected ErrInvalidMessage, got %v", err)
	}
}
