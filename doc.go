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

/*
Package surrealdb provides a client-side driver for the SurrealDB RPC protocol
over HTTP, using the CBOR binary encoding on the wire.

# Engine

Use Open to create an engine connected to a SurrealDB RPC endpoint:

	engine, err := surrealdb.Open(&surrealdb.Config{
		Endpoint: "http://<surrealdb-host>:<surrealdb-port:-8000>/rpc",
	})
	if err != nil {
		return err
	}
	defer engine.Disconnect()

A "connection" here is purely logical: HTTP is stateless, so the engine keeps
the namespace, database, auth token and session variables on the client and
replays them as headers and merged parameters on every exchange.

# Queries

Select a namespace and database, then run SurrealQL:

	if err := engine.Use(ctx, "test", "test"); err != nil {
		return err
	}
	results, err := engine.Query(ctx, "SELECT * FROM person WHERE age > $min", map[string]any{
		"min": 18,
	})

# Raw RPC

Query, SignIn and the other typed wrappers are built on RPC. Use it directly
when you want to issue requests yourself:

	resp, err := engine.RPC(ctx, "query", "INFO FOR DB")
*/
package surrealdb
