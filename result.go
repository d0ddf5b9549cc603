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
	"fmt"

	"github.com/fxamacker/cbor/v2"
)

// QueryResult is the outcome of a single statement in a query batch. A query
// call returns one QueryResult per statement, in statement order.
type QueryResult struct {
	// Status is "OK" for a successful statement, "ERR" otherwise.
	Status string `cbor:"status"`
	// Time is the server-reported execution duration.
	Time string `cbor:"time"`
	// Result carries the statement's rows, or the error text when Status is
	// not "OK".
	Result any `cbor:"result"`
}

// QueryStatusOK is the per-statement status of a successful query statement.
const QueryStatusOK = "OK"

// OK reports whether the statement succeeded.
func (r *QueryResult) OK() bool {
	return r.Status == QueryStatusOK
}

// Err returns the statement failure as an error, or nil when it succeeded.
func (r *QueryResult) Err() error {
	if r.OK() {
		return nil
	}
	return fmt.Errorf("query statement failed: %v", r.Result)
}

// DecodeResult re-decodes the envelope's result value into out, which must be
// a pointer. Response bodies decode into generic CBOR values first; this
// projects them onto a typed structure.
func (r *RPCResponse) DecodeResult(out any) error {
	data, err := cbor.Marshal(r.Result)
	if err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	if err := cbor.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode result: %w", err)
	}
	return nil
}
