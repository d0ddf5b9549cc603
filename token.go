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
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo exposes the claims SurrealDB embeds in its auth tokens.
type TokenInfo struct {
	// Namespace is the namespace the token was issued for, if any.
	Namespace string
	// Database is the database the token was issued for, if any.
	Database string
	// Access is the access method the token was issued through, if any.
	Access string
	// ID is the record id of the authenticated user, if any.
	ID string
	// IssuedAt is the token's iat claim. Zero when absent.
	IssuedAt time.Time
	// ExpiresAt is the token's exp claim. Zero when absent.
	ExpiresAt time.Time
}

// Expired reports whether the token's expiry is in the past. Tokens without
// an exp claim never report expired.
func (t *TokenInfo) Expired() bool {
	return !t.ExpiresAt.IsZero() && time.Now().After(t.ExpiresAt)
}

// ParseToken decodes a SurrealDB auth token without verifying its signature.
// The server remains the authority on validity; this is for client-side
// inspection such as proactive re-authentication before expiry.
func ParseToken(token string) (*TokenInfo, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return nil, err
	}

	info := &TokenInfo{}
	if v, ok := claims["NS"].(string); ok {
		info.Namespace = v
	}
	if v, ok := claims["DB"].(string); ok {
		info.Database = v
	}
	if v, ok := claims["AC"].(string); ok {
		info.Access = v
	}
	if v, ok := claims["ID"].(string); ok {
		info.ID = v
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		info.IssuedAt = iat.Time
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, nil
}

// ErrNoToken is returned by TokenInfo when the session holds no token.
var ErrNoToken = errors.New("no token held by session")

// Token returns the current session token, or the empty string when none is
// held.
func (e *Engine) Token() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.session.Token
}

// TokenInfo parses the current session token's claims.
func (e *Engine) TokenInfo() (*TokenInfo, error) {
	token := e.Token()
	if token == "" {
		return nil, ErrNoToken
	}
	return ParseToken(token)
}
