// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/kanari-chain/kanari/keystore"
)

var listWalletsCmd = cli.Command{
	Name:   "list-wallets",
	Usage:  "list addresses known to the local keystore",
	Action: doListWallets,
}

func doListWallets(c *cli.Context) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}
	ks, err := keystore.Load(keystore.DefaultPath(home))
	if err != nil {
		return fmt.Errorf("loading keystore: %w", err)
	}

	wallets := ks.ListWallets()
	sort.Strings(wallets)
	if len(wallets) == 0 {
		fmt.Println("kanari: no wallets found")
		return nil
	}
	for _, addr := range wallets {
		fmt.Println(addr)
	}
	return nil
}
