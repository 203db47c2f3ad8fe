// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

// Package rpcserver implements the JSON-RPC 2.0 method table of §6 over
// stdlib net/http and encoding/json. No RPC framework appears as
// a buildable Go dependency anywhere in the corpus (go-ethereum's own
// `rpc` package is reachable only through its own test files in this
// retrieval pack, never as importable source this repository could build
// against), so this is intentionally a thin stdlib handler rather than a
// dependency-grounded one — see DESIGN.md.
package rpcserver

import (
	"encoding/json"
	"net/http"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/engine"
)

// Standard JSON-RPC 2.0 error codes, §6.
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternal       = -32603
)

// request is a decoded JSON-RPC 2.0 call.
type request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	ID      json.RawMessage `json:"id"`
}

// response is an encoded JSON-RPC 2.0 reply. Exactly one of Result/Error
// is populated.
type response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *rpcError       `json:"error,omitempty"`
	ID      json.RawMessage `json:"id"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server answers the JSON-RPC 2.0 method table of §6 against a
// single node's mempool/state/chain. It holds no lock of its own: every
// method delegates to the already lock-guarded resources the engine
// owns, so RPC reads run concurrently with block production (§5,
// "RPC handlers run concurrently with block production but only hold
// read locks during reads").
type Server struct {
	Engine      *engine.ExecutionEngine
	TotalSupply uint64
}

// New returns a Server answering RPCs against eng's resources.
func New(eng *engine.ExecutionEngine, totalSupply uint64) *Server {
	return &Server{Engine: eng, TotalSupply: totalSupply}
}

// ServeHTTP implements http.Handler, answering POST requests to "/" and
// "/rpc" alike (§6: "over HTTP POST `/` and `/rpc`").
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, response{JSONRPC: "2.0", Error: &rpcError{Code: codeInvalidParams, Message: err.Error()}})
		return
	}

	result, rpcErr := s.dispatch(req.Method, req.Params)
	writeJSON(w, response{JSONRPC: "2.0", Result: result, Error: rpcErr, ID: req.ID})
}

func (s *Server) dispatch(method string, params json.RawMessage) (interface{}, *rpcError) {
	switch method {
	case "kanari_getAccount":
		return s.getAccount(params)
	case "kanari_getBalance":
		return s.getBalance(params)
	case "kanari_getBlock":
		return s.getBlock(params)
	case "kanari_getBlockHeight":
		return s.getBlockHeight()
	case "kanari_getStats":
		return s.getStats()
	case "kanari_submitTransaction":
		return s.submitTransaction(params)
	default:
		return nil, &rpcError{Code: codeMethodNotFound, Message: "method not found: " + method}
	}
}

type addressParams struct {
	Address string `json:"address"`
}

type accountResult struct {
	Address        string   `json:"address"`
	Balance        uint64   `json:"balance"`
	SequenceNumber uint64   `json:"sequence_number"`
	Modules        []string `json:"modules"`
}

func (s *Server) getAccount(params json.RawMessage) (interface{}, *rpcError) {
	addr, rerr := parseAddressParams(params)
	if rerr != nil {
		return nil, rerr
	}
	acc, _ := s.Engine.State.GetAccount(addr)
	modules := make([]string, 0, len(acc.Modules))
	for _, name := range acc.Modules {
		modules = append(modules, string(name))
	}
	return accountResult{
		Address:        addr.String(),
		Balance:        acc.Balance,
		SequenceNumber: acc.Sequence,
		Modules:        modules,
	}, nil
}

func (s *Server) getBalance(params json.RawMessage) (interface{}, *rpcError) {
	addr, rerr := parseAddressParams(params)
	if rerr != nil {
		return nil, rerr
	}
	return s.Engine.State.GetBalance(addr), nil
}

type heightParams struct {
	Height uint64 `json:"height"`
}

type blockResult struct {
	Height    uint64 `json:"height"`
	Timestamp uint64 `json:"timestamp"`
	Hash      string `json:"hash"`
	PrevHash  string `json:"prev_hash"`
	TxCount   int    `json:"tx_count"`
	StateRoot string `json:"state_root"`
}

func (s *Server) getBlock(params json.RawMessage) (interface{}, *rpcError) {
	var p heightParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
		}
	}
	block, ok := s.Engine.Chain.GetBlock(p.Height)
	if !ok {
		return nil, &rpcError{Code: codeInvalidParams, Message: "no block at that height"}
	}
	hash := block.Hash()
	return blockResult{
		Height:    block.Header.Height,
		Timestamp: block.Header.Timestamp,
		Hash:      hexString(hash[:]),
		PrevHash:  hexString(block.Header.PrevHash[:]),
		TxCount:   len(block.Transactions),
		StateRoot: hexString(block.Header.StateRoot[:]),
	}, nil
}

func (s *Server) getBlockHeight() (interface{}, *rpcError) {
	height, ok := s.Engine.Chain.Height()
	if !ok {
		return uint64(0), nil
	}
	return height, nil
}

type statsResult struct {
	Height              uint64 `json:"height"`
	TotalBlocks         int    `json:"total_blocks"`
	TotalTransactions   int    `json:"total_transactions"`
	PendingTransactions int    `json:"pending_transactions"`
	TotalAccounts       int    `json:"total_accounts"`
	TotalSupply         uint64 `json:"total_supply"`
}

func (s *Server) getStats() (interface{}, *rpcError) {
	height, _ := s.Engine.Chain.Height()
	totalTxs := 0
	totalBlocks := s.Engine.Chain.Len()
	for i := 0; i < totalBlocks; i++ {
		if block, ok := s.Engine.Chain.GetBlock(uint64(i)); ok {
			totalTxs += len(block.Transactions)
		}
	}
	return statsResult{
		Height:              height,
		TotalBlocks:         totalBlocks,
		TotalTransactions:   totalTxs,
		PendingTransactions: s.Engine.Mempool.Len(),
		TotalAccounts:       s.Engine.State.AccountCount(),
		TotalSupply:         s.TotalSupply,
	}, nil
}

type submitResult struct {
	Hash   string `json:"hash"`
	Status string `json:"status"`
}

func (s *Server) submitTransaction(params json.RawMessage) (interface{}, *rpcError) {
	signed, err := decodeSignedTransaction(params)
	if err != nil {
		return nil, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	hash := s.Engine.Mempool.Submit(signed)
	return submitResult{Hash: hexString(hash[:]), Status: "pending"}, nil
}

func parseAddressParams(params json.RawMessage) (address.Address, *rpcError) {
	var p addressParams
	if err := json.Unmarshal(params, &p); err != nil {
		return address.Address{}, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	addr, err := address.Parse(p.Address)
	if err != nil {
		return address.Address{}, &rpcError{Code: codeInvalidParams, Message: err.Error()}
	}
	return addr, nil
}

func hexString(b []byte) string {
	return hexutil.Encode(b)
}

func writeJSON(w http.ResponseWriter, resp response) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
