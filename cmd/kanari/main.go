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

	"github.com/urfave/cli/v2"
)

func main() {
	app := &cli.App{
		Name:  "kanari",
		Usage: "Kanari Move-VM blockchain node",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "db-dir",
				Usage: "state directory (default $HOME/.kari/kanari-db)",
			},
		},
		Commands: []*cli.Command{
			&runCmd,
			&runGenesisCmd,
			&publishAllCmd,
			&publishFileCmd,
			&listWalletsCmd,
		},
		Action: doRun,
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		if usageErr, ok := err.(usageError); ok && usageErr.isUsage {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

// usageError marks an error as a CLI usage mistake, per §6's exit
// code table (0 success, 1 runtime failure, 2 usage error).
type usageError struct {
	err     error
	isUsage bool
}

func (u usageError) Error() string { return u.err.Error() }

func newUsageError(format string, args ...interface{}) error {
	return usageError{err: fmt.Errorf(format, args...), isUsage: true}
}

// resolveDBDir returns the --db-dir flag value, or the default
// $HOME/.kari/kanari-db if unset.
func resolveDBDir(c *cli.Context) (string, error) {
	if dir := c.String("db-dir"); dir != "" {
		return dir, nil
	}
	return defaultDBDir()
}
