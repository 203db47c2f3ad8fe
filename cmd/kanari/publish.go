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
	"path/filepath"
	"strings"

	"github.com/dsnet/golib/unitconv"
	"github.com/urfave/cli/v2"

	"github.com/kanari-chain/kanari/address"
)

// moduleFileExt is the compiled-bytecode file extension build output is
// expected to carry (§6: "bytecode_modules/<module-name>.mv
// side-car"). The compiler that produces these files is an external
// collaborator (§1); this subcommand only reads already-compiled
// bytes.
const moduleFileExt = ".mv"

var publishAllCmd = cli.Command{
	Name:      "publish-all",
	Usage:     "publish every compiled module in a build directory under sender 0x2",
	ArgsUsage: "<build-dir>",
	Action:    doPublishAll,
}

var publishFileCmd = cli.Command{
	Name:      "publish-file",
	Usage:     "publish a single compiled module under sender 0x2",
	ArgsUsage: "<path>",
	Action:    doPublishFile,
}

func doPublishAll(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return newUsageError("publish-all: expected exactly one <build-dir> argument")
	}
	buildDir := c.Args().Get(0)

	dbDir, err := resolveDBDir(c)
	if err != nil {
		return err
	}
	n, err := openNode(dbDir)
	if err != nil {
		return fmt.Errorf("opening node state: %w", err)
	}

	entries, err := os.ReadDir(buildDir)
	if err != nil {
		return fmt.Errorf("reading build directory %s: %w", buildDir, err)
	}

	published := 0
	var totalBytes int64
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), moduleFileExt) {
			continue
		}
		path := filepath.Join(buildDir, entry.Name())
		size, err := publishOne(n, path)
		if err != nil {
			return err
		}
		published++
		totalBytes += size
	}
	fmt.Printf("kanari: published %d module(s) from %s (%sB total)\n",
		published, buildDir, unitconv.FormatPrefix(float64(totalBytes), unitconv.SI, 1))
	return n.persist()
}

func doPublishFile(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return newUsageError("publish-file: expected exactly one <path> argument")
	}
	path := c.Args().Get(0)

	dbDir, err := resolveDBDir(c)
	if err != nil {
		return err
	}
	n, err := openNode(dbDir)
	if err != nil {
		return fmt.Errorf("opening node state: %w", err)
	}

	size, err := publishOne(n, path)
	if err != nil {
		return err
	}
	fmt.Printf("kanari: published %s (%sB)\n", path, unitconv.FormatPrefix(float64(size), unitconv.SI, 1))
	return n.persist()
}

// publishOne reads, validates, and publishes the module at path, returning
// its size in bytes for the caller's human-readable summary.
func publishOne(n *node, path string) (int64, error) {
	bytes, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading module %s: %w", path, err)
	}
	name := strings.TrimSuffix(filepath.Base(path), moduleFileExt)
	if err := address.ValidateName(name); err != nil {
		return 0, fmt.Errorf("module file %s: %w", path, err)
	}
	if err := n.publishModuleDirect(address.KanariSystem, name, bytes); err != nil {
		return 0, err
	}
	return int64(len(bytes)), nil
}
