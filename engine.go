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

package surrealdb

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// RPC method names understood by the engine.
const (
	MethodUse          = "use"
	MethodLet          = "let"
	MethodUnset        = "unset"
	MethodQuery        = "query"
	MethodSignIn       = "signin"
	MethodSignUp       = "signup"
	MethodAuthenticate = "authenticate"
	MethodInvalidate   = "invalidate"
	MethodVersion      = "version"
	MethodInfo         = "info"
	MethodPing         = "ping"
)

// alwaysAllowed lists the methods permitted before a namespace and database
// have been selected.
var alwaysAllowed = map[string]struct{}{
	MethodSignIn:       {},
	MethodSignUp:       {},
	MethodAuthenticate: {},
	MethodInvalidate:   {},
	MethodVersion:      {},
	MethodUse:          {},
	MethodLet:          {},
	MethodUnset:        {},
	MethodQuery:        {},
}

// methodKind classifies how an RPC method executes.
type methodKind int

const (
	// methodRemote performs a full request/response exchange with the server.
	methodRemote methodKind = iota
	// methodUse mutates the namespace/database selection locally.
	methodUse
	// methodLet defines a session variable locally.
	methodLet
	// methodUnset removes a session variable locally.
	methodUnset
)

func classifyMethod(method string) methodKind {
	switch method {
	case MethodUse:
		return methodUse
	case MethodLet:
		return methodLet
	case MethodUnset:
		return methodUnset
	default:
		return methodRemote
	}
}

// RPCRequest is the request envelope transmitted to the server.
type RPCRequest struct {
	ID     int64  `cbor:"id"`
	Method string `cbor:"method"`
	Params []any  `cbor:"params"`
}

// RPCResponse is the response envelope, correlated to its request by ID.
// Exactly one of Result and Error is meaningful.
type RPCResponse struct {
	ID     int64     `cbor:"id"`
	Result any       `cbor:"result,omitempty"`
	Error  *RPCError `cbor:"error,omitempty"`
}

// Engine drives the SurrealDB RPC protocol over stateless HTTP exchanges. It
// owns a single Session and transforms each call according to the method's
// semantics before and after the exchange.
//
// An Engine assumes one logical owner issuing calls. Calls may still be in
// flight concurrently; each carries its own correlation id, and session
// mutations from concurrently completing calls apply in whatever order their
// responses arrive.
type Engine struct {
	http    HTTPClient
	codec   Codec
	logger  zerolog.Logger
	emitter *emitter
	ids     idSource

	mu      sync.Mutex
	session *Session
	status  Status
	ready   chan struct{}
}

// New creates a disconnected engine. Call Connect before issuing RPCs, or use
// Open to do both at once.
func New(config *Config) *Engine {
	if config == nil {
		config = &Config{}
	}
	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = *config.Logger
	}
	return &Engine{
		http:    NewHTTPClient(),
		codec:   cborCodec{},
		logger:  logger,
		emitter: newEmitter(),
		session: newSession(),
		status:  StatusDisconnected,
		ready:   make(chan struct{}),
	}
}

// Open creates an engine and connects it with the given profile applied: the
// endpoint is recorded, the configured namespace and database are selected,
// and a profile token seeds the session before any exchange.
func Open(config *Config) (*Engine, error) {
	e := New(config)
	if err := e.Connect(config.Endpoint); err != nil {
		return nil, err
	}
	if config.Namespace != "" || config.Database != "" {
		if _, err := e.RPC(context.Background(), MethodUse, config.Namespace, config.Database); err != nil {
			return nil, err
		}
	}
	if config.Token != "" {
		e.mu.Lock()
		e.session.Token = config.Token
		e.mu.Unlock()
	}
	return e, nil
}

// Connect records the endpoint and marks the engine ready for RPC. No network
// handshake occurs; HTTP is stateless and the connection is purely logical.
// Calling Connect again overwrites the endpoint.
func (e *Engine) Connect(endpoint string) error {
	u, err := url.Parse(endpoint)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("connect: invalid endpoint %q", endpoint)
	}

	e.setStatus(StatusConnecting)

	e.mu.Lock()
	e.session.Endpoint = strings.TrimRight(endpoint, "/")
	select {
	case <-e.ready:
	default:
		close(e.ready)
	}
	e.mu.Unlock()

	e.setStatus(StatusConnected)
	e.logger.Debug().Str("endpoint", endpoint).Msg("connected")
	return nil
}

// Disconnect destroys the session and clears the readiness gate. Subsequent
// RPCs fail fast with ErrConnectionUnavailable. Always succeeds.
func (e *Engine) Disconnect() {
	e.mu.Lock()
	e.session.reset()
	e.ready = make(chan struct{})
	e.mu.Unlock()

	e.setStatus(StatusDisconnected)
	e.logger.Debug().Msg("disconnected")
}

// Connected reports whether an endpoint is currently recorded. It does not
// imply a namespace or database is selected.
func (e *Engine) Connected() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Endpoint != ""
}

// Status returns the current connection status.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.status
}

// Session returns a copy of the current session state.
func (e *Engine) Session() Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.clone()
}

// Subscribe registers an observer for status transitions and request
// completions.
func (e *Engine) Subscribe(o Observer) {
	e.emitter.subscribe(o)
}

// Unsubscribe removes a previously registered observer.
func (e *Engine) Unsubscribe(o Observer) {
	e.emitter.unsubscribe(o)
}

// Wait returns a channel that receives the response correlated to the given
// id, for callers that dispatch RPCs from one place and collect results in
// another. The channel is closed after delivery.
func (e *Engine) Wait(id int64) <-chan *RPCResponse {
	return e.emitter.wait(id)
}

func (e *Engine) setStatus(status Status) {
	e.mu.Lock()
	e.status = status
	e.mu.Unlock()
	e.emitter.emitStatus(status)
}

// RPC issues a named call with positional parameters.
//
// The use, let and unset methods mutate session state locally and return a
// synthetic success result without contacting the server. The query method
// has its second parameter rewritten to the session variables merged with the
// caller's, caller keys winning. Everything else is transmitted as-is.
//
// A server-reported failure is returned inside the response envelope, not as
// an error; transport and protocol failures are returned as errors.
func (e *Engine) RPC(ctx context.Context, method string, params ...any) (*RPCResponse, error) {
	// An unset endpoint means the readiness gate would never resolve, so the
	// guard runs first and "never connected" fails immediately instead of
	// suspending forever.
	e.mu.Lock()
	ready := e.ready
	endpoint := e.session.Endpoint
	e.mu.Unlock()
	if endpoint == "" {
		return nil, ErrConnectionUnavailable
	}
	select {
	case <-ready:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	e.mu.Lock()
	if e.session.Endpoint == "" {
		// Disconnected between the readiness check and here.
		e.mu.Unlock()
		return nil, ErrConnectionUnavailable
	}
	if _, ok := alwaysAllowed[method]; !ok {
		if e.session.Namespace == "" || e.session.Database == "" {
			e.mu.Unlock()
			return nil, ErrMissingNamespaceDatabase
		}
	}

	switch classifyMethod(method) {
	case methodUse:
		e.session.applyUse(params)
		e.mu.Unlock()
		return e.localResult(method)
	case methodLet:
		key, ok := firstString(params)
		if !ok {
			e.mu.Unlock()
			return nil, fmt.Errorf("let: variable name must be a string")
		}
		var value any
		if len(params) > 1 {
			value = params[1]
		}
		e.session.Variables[key] = value
		e.mu.Unlock()
		return e.localResult(method)
	case methodUnset:
		key, ok := firstString(params)
		if !ok {
			e.mu.Unlock()
			return nil, fmt.Errorf("unset: variable name must be a string")
		}
		delete(e.session.Variables, key)
		e.mu.Unlock()
		return e.localResult(method)
	case methodRemote:
	}

	if method == MethodQuery {
		params = mergeQueryParams(e.session.Variables, params)
	}
	endpoint = e.session.Endpoint
	header := e.session.headers()
	e.mu.Unlock()

	return e.exchange(ctx, endpoint, header, method, params)
}

// localResult builds the synthetic success envelope for locally executed
// methods and notifies completion just like a remote response would.
func (e *Engine) localResult(method string) (*RPCResponse, error) {
	resp := &RPCResponse{ID: e.ids.Next(), Result: true}
	e.logger.Debug().Int64("id", resp.ID).Str("method", method).Msg("local rpc")
	e.emitter.emitCompletion(resp.ID, resp)
	return resp, nil
}

func (e *Engine) exchange(ctx context.Context, endpoint string, header http.Header, method string, params []any) (*RPCResponse, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, err
	}

	id := e.ids.Next()
	body, err := e.codec.Marshal(&RPCRequest{
		ID:     id,
		Method: method,
		Params: params,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug().Int64("id", id).Str("method", method).Msg("rpc exchange")

	resp, err := e.http.Post(ctx, u, header, body)
	if err != nil {
		return nil, err
	}
	defer sneakyBodyClose(resp.Body)
	if err := checkStatusCodeOK(resp); err != nil {
		return nil, err
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var out RPCResponse
	if err := e.codec.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	out.ID = id

	if out.Error == nil {
		e.applyResult(method, params, &out)
	}
	e.emitter.emitCompletion(id, &out)
	return &out, nil
}

// applyResult folds a successful response into session state. The token
// lifecycle is fully determined by these four outcomes.
func (e *Engine) applyResult(method string, params []any, resp *RPCResponse) {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch method {
	case MethodSignIn, MethodSignUp:
		if token, ok := resp.Result.(string); ok {
			e.session.Token = token
		}
	case MethodAuthenticate:
		// The caller-supplied token is authoritative; the server result is
		// only an acknowledgement.
		if token, ok := firstString(params); ok {
			e.session.Token = token
		}
	case MethodInvalidate:
		e.session.Token = ""
	}
}

// headers builds the per-exchange headers from session state. Callers must
// hold the engine lock.
func (s *Session) headers() http.Header {
	header := make(http.Header)
	header.Set("Content-Type", ContentTypeCBOR)
	header.Set("Accept", ContentTypeCBOR)
	if s.Namespace != "" {
		header.Set("Surreal-NS", s.Namespace)
	}
	if s.Database != "" {
		header.Set("Surreal-DB", s.Database)
	}
	if s.Token != "" {
		header.Set("Authorization", "Bearer "+s.Token)
	}
	return header
}

// mergeQueryParams rewrites query parameters so the second one carries the
// session variables merged with the caller's, caller keys winning.
func mergeQueryParams(session map[string]any, params []any) []any {
	merged := make(map[string]any, len(session))
	for k, v := range session {
		merged[k] = v
	}
	if len(params) > 1 {
		if vars, ok := params[1].(map[string]any); ok {
			for k, v := range vars {
				merged[k] = v
			}
		}
	}

	out := make([]any, 0, len(params))
	if len(params) > 0 {
		out = append(out, params[0])
	} else {
		out = append(out, nil)
	}
	out = append(out, merged)
	if len(params) > 2 {
		out = append(out, params[2:]...)
	}
	return out
}

func firstString(params []any) (string, bool) {
	if len(params) == 0 {
		return "", false
	}
	s, ok := params[0].(string)
	return s, ok
}
