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

	"github.com/urfave/cli/v2"
)

var runGenesisCmd = cli.Command{
	Name:   "run-genesis",
	Usage:  "invoke 0x2::genesis::init once, allocating the genesis supply",
	Action: doRunGenesis,
}

func doRunGenesis(c *cli.Context) error {
	dbDir, err := resolveDBDir(c)
	if err != nil {
		return err
	}
	n, err := openNode(dbDir)
	if err != nil {
		return fmt.Errorf("opening node state: %w", err)
	}
	if n.Engine.Chain.Len() != 0 {
		return newUsageError("run-genesis: chain already has %d block(s); genesis already ran", n.Engine.Chain.Len())
	}
	return n.runGenesis()
}
