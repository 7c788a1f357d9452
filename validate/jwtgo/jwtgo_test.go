package jwtgo

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	keyresolver "github.com/authkit-go/go-jwks-client"
	"github.com/authkit-go/go-jwks-client/jwks"
)

func Test_Keyfunc_EndToEnd(t *testing.T) {
	keyA, entryA := generateJWK(t, "kid-a")
	_, entryB := generateJWK(t, "kid-b")

	server := newJWKSServer(t, entryA, entryB)
	defer server.Close()

	resolver, err := keyresolver.New(keyresolver.WithJWKSURI(server.URL + "/jwks.json"))
	require.NoError(t, err)

	keyfunc := Keyfunc(resolver)

	t.Run("verifies a token signed by the published key", func(t *testing.T) {
		signed := signToken(t, keyA, "kid-a")

		token, err := jwt.Parse(signed, keyfunc)
		require.NoError(t, err)
		assert.True(t, token.Valid)
	})

	t.Run("resolution succeeds but verification fails when the kid maps to a different key", func(t *testing.T) {
		// Signed with key A while claiming key B: the resolver hands
		// out B's public key and signature verification must fail.
		signed := signToken(t, keyA, "kid-b")

		_, err := jwt.Parse(signed, keyfunc)
		require.Error(t, err)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("unknown kid fails with key not found", func(t *testing.T) {
		signed := signToken(t, keyA, "ghost-kid")

		_, err := jwt.Parse(signed, keyfunc)
		require.Error(t, err)
		assert.ErrorIs(t, err, jwks.ErrSigningKeyNotFound)
	})

	t.Run("refuses HMAC tokens", func(t *testing.T) {
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user"})
		signed, err := token.SignedString([]byte("shared-secret"))
		require.NoError(t, err)

		_, err = jwt.Parse(signed, keyfunc)
		require.Error(t, err)
		assert.ErrorIs(t, err, keyresolver.ErrUnsupportedAlgorithm)
	})
}

func Test_Keyfunc_NoKidSingleKey(t *testing.T) {
	key, entry := generateJWK(t, "only-key")

	server := newJWKSServer(t, entry)
	defer server.Close()

	resolver, err := keyresolver.New(keyresolver.WithJWKSURI(server.URL + "/jwks.json"))
	require.NoError(t, err)

	// No kid header at all: the document holds exactly one key, so
	// resolution falls back to it.
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user"})
	signed, err := token.SignedString(key)
	require.NoError(t, err)

	parsed, err := jwt.Parse(signed, Keyfunc(resolver))
	require.NoError(t, err)
	assert.True(t, parsed.Valid)
}

func Test_Keyfunc_SuppressedErrorIsUnverifiable(t *testing.T) {
	_, entry := generateJWK(t, "kid-a")

	server := newJWKSServer(t, entry)
	defer server.Close()

	resolver, err := keyresolver.New(
		keyresolver.WithJWKSURI(server.URL+"/jwks.json"),
		keyresolver.WithSigningKeyErrorHandler(func(err error) error { return nil }),
	)
	require.NoError(t, err)

	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signed := signToken(t, signingKey, "ghost-kid")

	_, err = jwt.Parse(signed, Keyfunc(resolver))
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrTokenUnverifiable)
}

func Test_KeyfuncWithContext_Cancellation(t *testing.T) {
	_, entry := generateJWK(t, "kid-a")

	server := newJWKSServer(t, entry)
	defer server.Close()

	resolver, err := keyresolver.New(keyresolver.WithJWKSURI(server.URL + "/jwks.json"))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	signingKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	signed := signToken(t, signingKey, "kid-a")

	_, err = jwt.Parse(signed, KeyfuncWithContext(ctx, resolver))
	require.Error(t, err)
}

func signToken(t *testing.T, key *rsa.PrivateKey, kid string) string {
	t.Helper()

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{"sub": "user"})
	token.Header["kid"] = kid

	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}

func generateJWK(t *testing.T, kid string) (*rsa.PrivateKey, jwks.JSONWebKey) {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	return privateKey, jwks.JSONWebKey{
		Kid: kid,
		Kty: "RSA",
		Alg: "RS256",
		N:   base64.RawURLEncoding.EncodeToString(privateKey.PublicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(privateKey.PublicKey.E)).Bytes()),
	}
}

func newJWKSServer(t *testing.T, entries ...jwks.JSONWebKey) *httptest.Server {
	t.Helper()

	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(jwks.JSONWebKeySet{Keys: entries})
	}))
}
