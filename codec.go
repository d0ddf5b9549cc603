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

import "github.com/fxamacker/cbor/v2"

// ContentTypeCBOR is the media type both sides of an RPC exchange speak.
const ContentTypeCBOR = "application/cbor"

// Codec encodes request envelopes to the binary wire format and decodes
// response envelopes back.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
}

type cborCodec struct{}

// Ensure cborCodec implements Codec.
var _ Codec = cborCodec{}

func (cborCodec) Marshal(v any) ([]byte, error) {
	return cbor.Marshal(v)
}

func (cborCodec) Unmarshal(data []byte, v any) error {
	return cbor.Unmarshal(data, v)
}
