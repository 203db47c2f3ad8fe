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
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/kanari-chain/kanari/rpcserver"
)

var runCmd = cli.Command{
	Name:   "run",
	Usage:  "start the node loop (default action)",
	Action: doRun,
	Flags: []cli.Flag{
		&cli.StringFlag{Name: "listen", Usage: "JSON-RPC listen address", Value: "127.0.0.1:9000"},
		&cli.DurationFlag{Name: "block-interval", Usage: "interval between produce_block calls", Value: 2 * time.Second},
	},
}

// doRun starts the JSON-RPC server and the block-production loop, per
// §4.5/§6. It blocks until interrupted, persisting state after
// every block (§5: "the state store commits to disk after each
// block").
func doRun(c *cli.Context) error {
	dbDir, err := resolveDBDir(c)
	if err != nil {
		return err
	}
	n, err := openNode(dbDir)
	if err != nil {
		return fmt.Errorf("opening node state: %w", err)
	}

	listen := c.String("listen")
	interval := c.Duration("block-interval")
	if interval <= 0 {
		interval = 2 * time.Second
	}

	server := &http.Server{Addr: listen, Handler: rpcserver.New(n.Engine, n.TotalSupply)}
	serverErrs := make(chan error, 1)
	go func() {
		fmt.Printf("kanari: JSON-RPC listening on %s\n", listen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrs <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			summary, err := n.Engine.ProduceBlock(uint64(time.Now().UnixMilli()))
			if err != nil {
				return fmt.Errorf("produce_block: %w", err)
			}
			if summary.TxCount > 0 {
				fmt.Printf("block %d: %d tx (%d executed, %d failed)\n", summary.Height, summary.TxCount, summary.Executed, summary.Failed)
			}
			if err := n.persist(); err != nil {
				return fmt.Errorf("persisting state after block %d: %w", summary.Height, err)
			}
		case err := <-serverErrs:
			return fmt.Errorf("rpc server: %w", err)
		case <-sigCh:
			fmt.Println("kanari: shutting down")
			_ = server.Close()
			return nil
		}
	}
}
