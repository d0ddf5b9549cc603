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
	"errors"
	"net/url"
	"time"
)

// Health checks the server's health endpoint. A nil return means the server
// is up and able to serve requests.
func (e *Engine) Health(ctx context.Context) error {
	e.mu.Lock()
	endpoint := e.session.Endpoint
	e.mu.Unlock()
	if endpoint == "" {
		return ErrConnectionUnavailable
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return err
	}
	u.Path = "/health"
	u.RawQuery = ""

	resp, err := e.http.Get(ctx, u)
	if err != nil {
		return err
	}
	defer sneakyBodyClose(resp.Body)
	return checkStatusCodeOK(resp)
}

// WaitUntilHealthy polls the health endpoint until it reports OK.
//
// It polls with a doubling tick capped at 1 second, so a server that is
// already up answers on the first probe while a starting server is not
// hammered.
func (e *Engine) WaitUntilHealthy(ctx context.Context) error {
	if err := e.Health(ctx); err == nil {
		return nil
	} else if errors.Is(err, ErrConnectionUnavailable) {
		return err
	}

	tick := 5 * time.Millisecond
	maxTick := 1 * time.Second

	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		if tick < maxTick {
			tick = min(tick*2, maxTick)
			ticker.Reset(tick)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			err := e.Health(ctx)
			if err == nil {
				return nil
			}
			if errors.Is(err, ErrConnectionUnavailable) {
				return err
			}
		}
	}
}
