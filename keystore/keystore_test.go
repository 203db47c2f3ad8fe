// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package keystore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileYieldsEmptyKeystore(t *testing.T) {
	ks, err := Load(filepath.Join(t.TempDir(), "kanari.keystore"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if len(ks.ListWallets()) != 0 {
		t.Errorf("expected no wallets, got %v", ks.ListWallets())
	}
}

func TestLoad_RoundTripsWallets(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "kanari.keystore")

	doc := Keystore{
		Keys: map[string]EncryptedData{
			"0xa": {Ciphertext: []byte{1, 2, 3}, Nonce: []byte{4, 5}, Salt: []byte{6, 7}},
			"0xb": {Ciphertext: []byte{9}, Nonce: []byte{9}, Salt: []byte{9}},
		},
		Mnemonic: MnemonicStore{Addresses: []string{"0xa", "0xb"}},
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	ks, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !ks.WalletExists("0xa") || !ks.WalletExists("0xb") {
		t.Errorf("expected both wallets present, got %v", ks.ListWallets())
	}
	if ks.WalletExists("0xc") {
		t.Errorf("did not expect 0xc to exist")
	}
	if len(ks.Mnemonic.Addresses) != 2 {
		t.Errorf("expected 2 mnemonic addresses, got %d", len(ks.Mnemonic.Addresses))
	}
}

func TestDefaultPath(t *testing.T) {
	got := DefaultPath("/home/alice")
	want := "/home/alice/.kari/kanari_config/kanari.keystore"
	if got != want {
		t.Errorf("DefaultPath: got %q, want %q", got, want)
	}
}
