package surrealdb_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	surrealdb "github.com/InertiaSocial/surrealdb.go"
)

func TestHealth(t *testing.T) {
	ctx := context.Background()
	s := newRPCServer(t)
	e := connectedEngine(t, s)

	require.NoError(t, e.Health(ctx))
}

func TestHealthRequiresConnect(t *testing.T) {
	ctx := context.Background()
	e := surrealdb.New(nil)

	require.ErrorIs(t, e.Health(ctx), surrealdb.ErrConnectionUnavailable)
	require.ErrorIs(t, e.WaitUntilHealthy(ctx), surrealdb.ErrConnectionUnavailable)
}

func TestWaitUntilHealthy(t *testing.T) {
	var probes atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			http.NotFound(w, r)
			return
		}
		if probes.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(ts.Close)

	e := surrealdb.New(nil)
	require.NoError(t, e.Connect(ts.URL+"/rpc"))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	require.NoError(t, e.WaitUntilHealthy(ctx))
	require.GreaterOrEqual(t, probes.Load(), int32(3))
}

func TestWaitUntilHealthyCancelled(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(ts.Close)

	e := surrealdb.New(nil)
	require.NoError(t, e.Connect(ts.URL+"/rpc"))

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.ErrorIs(t, e.WaitUntilHealthy(ctx), context.DeadlineExceeded)
}

func TestVersionProbeHTTPError(t *testing.T) {
	ctx := context.Background()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(ts.Close)

	e := surrealdb.New(nil)
	_, err := e.Version(ctx, ts.URL, time.Second)

	var httpErr *surrealdb.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, http.StatusNotFound, httpErr.StatusCode)
}
