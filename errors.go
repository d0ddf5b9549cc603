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
	"errors"
	"fmt"
	"io"
	"net/http"
)

var (
	// ErrConnectionUnavailable is returned when an RPC is attempted before an
	// endpoint has been recorded with Connect, or after Disconnect.
	ErrConnectionUnavailable = errors.New("connection unavailable")
	// ErrMissingNamespaceDatabase is returned when a method that requires a
	// selection is called before both a namespace and a database are set.
	ErrMissingNamespaceDatabase = errors.New("namespace or database not selected")
)

// RPCError is a failure reported by the server inside a well-formed response
// envelope.
type RPCError struct {
	Code    int64  `cbor:"code" json:"code"`
	Message string `cbor:"message" json:"message"`
}

func (e *RPCError) Error() string {
	return e.Message
}

// HTTPError reports a non-200 response from the server. The body is kept both
// as decoded text and as the raw bytes received.
type HTTPError struct {
	StatusCode int
	StatusText string
	Body       string
	Raw        []byte
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.StatusText, e.Body)
}

func checkStatusCodeOK(resp *http.Response) error {
	if resp.StatusCode == http.StatusOK {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%d %s: %w", resp.StatusCode, http.StatusText(resp.StatusCode), err)
	}
	return &HTTPError{
		StatusCode: resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Body:       string(data),
		Raw:        data,
	}
}

// sneakyBodyClose closes the body and ignores the error.
// This is useful to close the HTTP response body when we don't care about the error.
func sneakyBodyClose(body io.ReadCloser) {
	if body != nil {
		_ = body.Close()
	}
}
