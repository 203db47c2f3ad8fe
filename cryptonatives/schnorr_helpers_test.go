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
	"github.com/btcsuite/btcd/btcec/v2/schnorr"
)

// schnorrSign and schnorrSerializePubKey are small test-only wrappers kept
// alongside the cases that exercise VerifyK1's BIP-340 dispatch path.
func schnorrSign(priv *btcec.PrivateKey, hash32 []byte) ([]byte, error) {
	sig, err := schnorr.Sign(priv, hash32)
	if err != nil {
		return nil, err
	}
	return sig.Serialize(), nil
}

func schnorrSerializePubKey(priv *btcec.PrivateKey) []byte {
	return schnorr.SerializePubKey(priv.PubKey())
}

func digestPadTo32(msg []byte) []byte {
	h := digest(msg, HashSHA256)
	return h[:]
}
