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

import "maps"

// Status is the logical connection status of an Engine.
type Status string

const (
	// StatusDisconnected indicates no endpoint is recorded. Initial state,
	// re-entered on every Disconnect.
	StatusDisconnected Status = "disconnected"
	// StatusConnecting indicates a Connect call is in progress.
	StatusConnecting Status = "connecting"
	// StatusConnected indicates an endpoint is recorded and RPC calls may
	// proceed.
	StatusConnected Status = "connected"
	// StatusError is reserved for transport collaborators. The engine never
	// enters it on its own.
	StatusError Status = "error"
)

// Session holds the logical connection state carried across stateless HTTP
// exchanges. A Session is owned exclusively by the Engine that created it;
// Engine.Session returns a copy for inspection.
type Session struct {
	// Endpoint is the URL of the RPC endpoint. Non-empty iff a connection
	// attempt has been made.
	Endpoint string
	// Namespace is the selected namespace. Set and cleared only through the
	// use method or a disconnect reset.
	Namespace string
	// Database is the selected database, with the same lifecycle as
	// Namespace.
	Database string
	// Token is the opaque auth credential. Set by signin, signup and
	// authenticate outcomes, cleared by invalidate and disconnect.
	Token string
	// Variables are merged into the parameters of every query call until
	// explicitly unset.
	Variables map[string]any
}

func newSession() *Session {
	return &Session{Variables: make(map[string]any)}
}

// reset returns every field to its zero value. Nothing survives into the next
// connect cycle.
func (s *Session) reset() {
	s.Endpoint = ""
	s.Namespace = ""
	s.Database = ""
	s.Token = ""
	s.Variables = make(map[string]any)
}

func (s *Session) clone() Session {
	out := *s
	out.Variables = maps.Clone(s.Variables)
	return out
}

// Unchanged is passed in a use parameter position to keep the corresponding
// selection as it is. Passing nil instead clears the selection.
var Unchanged = unchanged{}

type unchanged struct{}

// applyUse folds a use call's parameters into the selection. Positions beyond
// the parameter list, and Unchanged markers, keep the current value.
func (s *Session) applyUse(params []any) {
	apply := func(field *string, arg any) {
		switch v := arg.(type) {
		case nil:
			*field = ""
		case string:
			*field = v
		}
	}
	if len(params) > 0 {
		apply(&s.Namespace, params[0])
	}
	if len(params) > 1 {
		apply(&s.Database, params[1])
	}
}
