package surrealdb_test

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	surrealdb "github.com/InertiaSocial/surrealdb.go"
)

func makeToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return signed
}

func TestParseToken(t *testing.T) {
	issued := time.Now().Truncate(time.Second)
	expires := issued.Add(time.Hour)
	token := makeToken(t, jwt.MapClaims{
		"NS":  "testns",
		"DB":  "testdb",
		"AC":  "account",
		"ID":  "user:tobie",
		"iat": issued.Unix(),
		"exp": expires.Unix(),
	})

	info, err := surrealdb.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, "testns", info.Namespace)
	require.Equal(t, "testdb", info.Database)
	require.Equal(t, "account", info.Access)
	require.Equal(t, "user:tobie", info.ID)
	require.Equal(t, issued.Unix(), info.IssuedAt.Unix())
	require.Equal(t, expires.Unix(), info.ExpiresAt.Unix())
	require.False(t, info.Expired())
}

func TestParseTokenExpired(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	})

	info, err := surrealdb.ParseToken(token)
	require.NoError(t, err)
	require.True(t, info.Expired())
}

func TestParseTokenWithoutExpiry(t *testing.T) {
	token := makeToken(t, jwt.MapClaims{"ID": "user:tobie"})

	info, err := surrealdb.ParseToken(token)
	require.NoError(t, err)
	require.False(t, info.Expired(), "tokens without an exp claim never expire client-side")
}

func TestParseTokenMalformed(t *testing.T) {
	_, err := surrealdb.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestEngineTokenInfo(t *testing.T) {
	ctx := context.Background()
	s := newRPCServer(t)
	e := connectedEngine(t, s)

	_, err := e.TokenInfo()
	require.ErrorIs(t, err, surrealdb.ErrNoToken)

	token := makeToken(t, jwt.MapClaims{
		"NS":  "testns",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, e.Authenticate(ctx, token))

	info, err := e.TokenInfo()
	require.NoError(t, err)
	require.Equal(t, "testns", info.Namespace)
	require.False(t, info.Expired())
}
