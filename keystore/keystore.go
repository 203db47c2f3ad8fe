// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package keystore implements the on-disk contract of
// ~/.kari/kanari_config/kanari.keystore (§6): the JSON shape the
// CLI's `list-wallets` subcommand reads. The argon2id-derived-key AEAD
// encryption-at-rest scheme that produces EncryptedData's ciphertext is
// explicitly out of scope (§1, "wallet-file encryption-at-rest");
// this package only round-trips the shape, never decrypts a private key.
package keystore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// EncryptedData is the argon2id+AEAD envelope §6 describes:
// a derived-key parameter set, a nonce, a salt, and the resulting
// ciphertext. Kanari never computes or verifies any of these fields
// itself — it only stores and forwards the bytes the wallet tooling
// produced.
type EncryptedData struct {
	Ciphertext []byte `json:"ciphertext"`
	Nonce      []byte `json:"nonce"`
	Salt       []byte `json:"salt"`
	// KdfIterations and KdfMemoryKB parameterize the argon2id key
	// derivation that produced the key used to seal Ciphertext.
	KdfIterations uint32 `json:"kdf_iterations,omitempty"`
	KdfMemoryKB   uint32 `json:"kdf_memory_kb,omitempty"`
}

// MnemonicStore holds the addresses derived from a keystore's mnemonic
// phrase and, optionally, the phrase's own encrypted-at-rest form.
type MnemonicStore struct {
	Addresses                []string       `json:"addresses"`
	MnemonicPhraseEncryption *EncryptedData `json:"mnemonic_phrase_encryption,omitempty"`
}

// Keystore is the decoded shape of kanari.keystore: per-address encrypted
// signing keys, mnemonic-derived address bookkeeping, and a master
// password hash used only to gate CLI prompts — never consulted by this
// package.
type Keystore struct {
	Keys            map[string]EncryptedData `json:"keys"`
	Mnemonic        MnemonicStore            `json:"mnemonic"`
	SessionKeys     map[string]string        `json:"session_keys,omitempty"`
	PasswordHash    string                   `json:"password_hash,omitempty"`
	IsPasswordEmpty bool                     `json:"is_password_empty,omitempty"`
}

// DefaultPath returns the canonical keystore location under the given
// home directory, mirroring kanari-crypto/src/keystore.rs's
// get_keystore_path (§6: "~/.kari/kanari_config/kanari.keystore").
func DefaultPath(homeDir string) string {
	return filepath.Join(homeDir, ".kari", "kanari_config", "kanari.keystore")
}

// Load reads and decodes the keystore at path. A missing file is not an
// error: it yields an empty Keystore, matching the Rust source's
// "if !keystore_path.exists() { return Ok(Keystore::default()) }".
func Load(path string) (Keystore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Keystore{Keys: map[string]EncryptedData{}}, nil
		}
		return Keystore{}, fmt.Errorf("keystore: reading %s: %w", path, err)
	}

	var ks Keystore
	if err := json.Unmarshal(raw, &ks); err != nil {
		return Keystore{}, fmt.Errorf("keystore: decoding %s: %w", path, err)
	}
	if ks.Keys == nil {
		ks.Keys = map[string]EncryptedData{}
	}
	return ks, nil
}

// ListWallets returns every address the keystore has a signing key for,
// in no particular order.
func (ks Keystore) ListWallets() []string {
	wallets := make([]string, 0, len(ks.Keys))
	for addr := range ks.Keys {
		wallets = append(wallets, addr)
	}
	return wallets
}

// WalletExists reports whether addr has an entry in the keystore.
func (ks Keystore) WalletExists(addr string) bool {
	_, ok := ks.Keys[addr]
	return ok
}
