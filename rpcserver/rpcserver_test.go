// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package rpcserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/kanari-chain/kanari/address"
	"github.com/kanari-chain/kanari/chain"
	"github.com/kanari-chain/kanari/changeset"
	"github.com/kanari-chain/kanari/engine"
	"github.com/kanari-chain/kanari/state"
	"github.com/kanari-chain/kanari/vm"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	st := state.New()
	eng := engine.New(chain.NewMempool(), st, chain.NewBlockchain(), vm.NewRegistry())
	eng.SkipSignature = true

	cs := changeset.New()
	cs.Mint(address.MustParse("0xa"), 5_000)
	if err := st.Apply(cs); err != nil {
		t.Fatalf("seeding balance: %v", err)
	}
	return New(eng, 10_000_000_000)
}

func call(t *testing.T, s *Server, method string, params interface{}) response {
	t.Helper()
	paramBytes, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("marshal params: %v", err)
	}
	reqBody, err := json.Marshal(request{JSONRPC: "2.0", Method: method, Params: paramBytes, ID: json.RawMessage("1")})
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/rpc", bytes.NewReader(reqBody))
	s.ServeHTTP(rec, req)

	var resp response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v (body=%s)", err, rec.Body.String())
	}
	return resp
}

func TestServer_GetBalance(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_getBalance", addressParams{Address: "0xa"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if got, want := resp.Result, float64(5000); got != want {
		t.Errorf("balance: got %v, want %v", got, want)
	}
}

func TestServer_GetAccount(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_getAccount", addressParams{Address: "0xa"})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	encoded, _ := json.Marshal(resp.Result)
	var acc accountResult
	if err := json.Unmarshal(encoded, &acc); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if acc.Balance != 5000 {
		t.Errorf("balance: got %d, want 5000", acc.Balance)
	}
}

func TestServer_GetBlockHeightEmptyChain(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_getBlockHeight", struct{}{})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	if resp.Result != float64(0) {
		t.Errorf("height: got %v, want 0", resp.Result)
	}
}

func TestServer_GetStats(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_getStats", struct{}{})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	encoded, _ := json.Marshal(resp.Result)
	var stats statsResult
	if err := json.Unmarshal(encoded, &stats); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if stats.TotalSupply != 10_000_000_000 {
		t.Errorf("total supply: got %d", stats.TotalSupply)
	}
	if stats.TotalAccounts != 1 {
		t.Errorf("total accounts: got %d, want 1", stats.TotalAccounts)
	}
}

func TestServer_UnknownMethod(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_bogus", struct{}{})
	if resp.Error == nil || resp.Error.Code != codeMethodNotFound {
		t.Fatalf("expected method-not-found error, got %+v", resp.Error)
	}
}

func TestServer_SubmitTransaction(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_submitTransaction", signedTransactionData{
		Kind:     "Transfer",
		Sender:   "0xa",
		GasLimit: 1000,
		GasPrice: 1,
		To:       "0xb",
		Amount:   100,
	})
	if resp.Error != nil {
		t.Fatalf("unexpected error: %+v", resp.Error)
	}
	encoded, _ := json.Marshal(resp.Result)
	var submit submitResult
	if err := json.Unmarshal(encoded, &submit); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if submit.Status != "pending" {
		t.Errorf("status: got %q, want pending", submit.Status)
	}
	if s.Engine.Mempool.Len() != 1 {
		t.Errorf("expected 1 pending transaction, got %d", s.Engine.Mempool.Len())
	}
}

func TestServer_GetBlock_MissingHeight(t *testing.T) {
	s := newTestServer(t)
	resp := call(t, s, "kanari_getBlock", heightParams{Height: 7})
	if resp.Error == nil || resp.Error.Code != codeInvalidParams {
		t.Fatalf("expected invalid-params error for missing block, got %+v", resp.Error)
	}
}
