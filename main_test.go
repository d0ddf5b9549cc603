/*
 * Copyright 2025 InertiaSocial, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package surrealdb_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/lucasepe/codename"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	surrealdb "github.com/InertiaSocial/surrealdb.go"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// rpcServer is an in-process CBOR RPC endpoint that records every exchange.
type rpcServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	handle   func(req *surrealdb.RPCRequest) (any, *surrealdb.RPCError)
}

type recordedRequest struct {
	Request surrealdb.RPCRequest
	Header  http.Header
}

func newRPCServer(t *testing.T) *rpcServer {
	s := &rpcServer{
		handle: func(req *surrealdb.RPCRequest) (any, *surrealdb.RPCError) {
			return true, nil
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/rpc", s.serveRPC)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("surrealdb-2.1.0"))
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *rpcServer) serveRPC(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	var req surrealdb.RPCRequest
	if err := cbor.Unmarshal(data, &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, recordedRequest{Request: req, Header: r.Header.Clone()})
	handle := s.handle
	s.mu.Unlock()

	result, rpcErr := handle(&req)
	body, err := cbor.Marshal(surrealdb.RPCResponse{ID: req.ID, Result: result, Error: rpcErr})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", surrealdb.ContentTypeCBOR)
	_, _ = w.Write(body)
}

// respond replaces the server's RPC handler.
func (s *rpcServer) respond(handle func(req *surrealdb.RPCRequest) (any, *surrealdb.RPCError)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handle = handle
}

func (s *rpcServer) endpoint() string {
	return s.URL + "/rpc"
}

func (s *rpcServer) lastRequest(t *testing.T) recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	require.NotEmpty(t, s.requests)
	return s.requests[len(s.requests)-1]
}

func (s *rpcServer) allRequests() []recordedRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]recordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

func connectedEngine(t *testing.T, s *rpcServer) *surrealdb.Engine {
	e := surrealdb.New(nil)
	require.NoError(t, e.Connect(s.endpoint()))
	return e
}

// asStringMap converts a generically decoded CBOR map to string keys.
func asStringMap(t *testing.T, v any) map[string]any {
	raw, ok := v.(map[any]any)
	require.True(t, ok, "expected a map, got %T", v)
	out := make(map[string]any, len(raw))
	for k, val := range raw {
		key, ok := k.(string)
		require.True(t, ok, "expected a string key, got %T", k)
		out[key] = val
	}
	return out
}

func randomName(t testing.TB) string {
	rng, err := codename.DefaultRNG()
	require.NoError(t, err)
	return strings.ReplaceAll(codename.Generate(rng, 10), "-", "_")
}
