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

import "crypto/ed25519"

// VerifyEd25519 implements ed25519::verify. pk and sig must be exactly
// ed25519.PublicKeySize and ed25519.SignatureSize respectively; any other
// length is treated as a verification failure rather than an abort, mirroring
// move_natives.rs's catch_unwind guard around the underlying library call.
func VerifyEd25519(sig, pk, msg []byte) (valid bool) {
	if len(pk) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	defer func() {
		if recover() != nil {
			valid = false
		}
	}()
	return ed25519.Verify(ed25519.PublicKey(pk), msg, sig)
}
