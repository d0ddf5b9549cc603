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

import "context"

// authAPI defines the credential-bearing methods.
type authAPI interface {
	// SignIn exchanges credentials for an auth token.
	SignIn(ctx context.Context, credentials any) (string, error)
	// SignUp registers a record user and returns its auth token.
	SignUp(ctx context.Context, credentials any) (string, error)
	// Authenticate resumes a session with an existing token.
	Authenticate(ctx context.Context, token string) error
	// Invalidate drops the current token.
	Invalidate(ctx context.Context) error
}

// sessionAPI defines the methods that execute locally against session state.
type sessionAPI interface {
	// Use selects the namespace and database for subsequent calls.
	Use(ctx context.Context, namespace, database any) error
	// Let defines a session variable merged into every query.
	Let(ctx context.Context, key string, value any) error
	// Unset removes a session variable.
	Unset(ctx context.Context, key string) error
}

var (
	_ authAPI    = (*Engine)(nil)
	_ sessionAPI = (*Engine)(nil)
)

// errorOf surfaces a server-reported failure from the envelope as an error.
func errorOf(resp *RPCResponse, err error) error {
	if err != nil {
		return err
	}
	if resp.Error != nil {
		return resp.Error
	}
	return nil
}

// Use selects the namespace and database for subsequent calls. Pass
// Unchanged to keep one side as it is; an empty string clears it.
func (e *Engine) Use(ctx context.Context, namespace, database any) error {
	_, err := e.RPC(ctx, MethodUse, namespace, database)
	return err
}

// Let defines a session variable merged into the parameters of every query
// call until unset.
func (e *Engine) Let(ctx context.Context, key string, value any) error {
	_, err := e.RPC(ctx, MethodLet, key, value)
	return err
}

// Unset removes a session variable.
func (e *Engine) Unset(ctx context.Context, key string) error {
	_, err := e.RPC(ctx, MethodUnset, key)
	return err
}

// Query runs one or more SurrealQL statements. The session variables are sent
// along with vars, with vars winning on key conflicts. One QueryResult is
// returned per statement.
func (e *Engine) Query(ctx context.Context, text string, vars map[string]any) ([]QueryResult, error) {
	resp, err := e.RPC(ctx, MethodQuery, text, vars)
	if err := errorOf(resp, err); err != nil {
		return nil, err
	}
	var results []QueryResult
	if err := resp.DecodeResult(&results); err != nil {
		return nil, err
	}
	return results, nil
}

// SignIn exchanges credentials for an auth token. The token is stored on the
// session and sent as a bearer header on subsequent calls.
func (e *Engine) SignIn(ctx context.Context, credentials any) (string, error) {
	resp, err := e.RPC(ctx, MethodSignIn, credentials)
	if err := errorOf(resp, err); err != nil {
		return "", err
	}
	token, _ := resp.Result.(string)
	return token, nil
}

// SignUp registers a record user and returns its auth token, stored on the
// session like SignIn.
func (e *Engine) SignUp(ctx context.Context, credentials any) (string, error) {
	resp, err := e.RPC(ctx, MethodSignUp, credentials)
	if err := errorOf(resp, err); err != nil {
		return "", err
	}
	token, _ := resp.Result.(string)
	return token, nil
}

// Authenticate resumes a session with an existing token. On success the
// supplied token becomes the session token regardless of the server's result
// value.
func (e *Engine) Authenticate(ctx context.Context, token string) error {
	resp, err := e.RPC(ctx, MethodAuthenticate, token)
	return errorOf(resp, err)
}

// Invalidate drops the current token. Subsequent calls are unauthenticated.
func (e *Engine) Invalidate(ctx context.Context) error {
	resp, err := e.RPC(ctx, MethodInvalidate)
	return errorOf(resp, err)
}

// Info returns the record of the currently authenticated user.
func (e *Engine) Info(ctx context.Context) (any, error) {
	resp, err := e.RPC(ctx, MethodInfo)
	if err := errorOf(resp, err); err != nil {
		return nil, err
	}
	return resp.Result, nil
}

// Ping checks that the server answers RPC calls.
func (e *Engine) Ping(ctx context.Context) error {
	resp, err := e.RPC(ctx, MethodPing)
	return errorOf(resp, err)
}
