package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"math/big"
	"sync/atomic"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "super-secret-jwt-token-with-at-least-32-characters"
	testAudience = "authenticated"
)

type countingFetcher struct {
	set   *KeySet
	err   error
	delay time.Duration
	calls atomic.Int32
}

func (f *countingFetcher) FetchKeySet(context.Context) (*KeySet, error) {
	f.calls.Add(1)
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.set, nil
}

type testKeys struct {
	rsa *rsa.PrivateKey
	ec  *ecdsa.PrivateKey
}

func newTestKeys(t *testing.T) testKeys {
	t.Helper()
	rsaKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	ecKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	return testKeys{rsa: rsaKey, ec: ecKey}
}

func (k testKeys) keySet() *KeySet {
	return &KeySet{Keys: []JSONWebKey{
		{
			Kty: "RSA",
			Kid: "rsa-1",
			Alg: "RS256",
			Use: "sig",
			N:   b64(k.rsa.PublicKey.N.Bytes()),
			E:   b64(big.NewInt(int64(k.rsa.PublicKey.E)).Bytes()),
		},
		{
			Kty: "EC",
			Kid: "ec-1",
			Alg: "ES256",
			Use: "sig",
			Crv: "P-256",
			X:   b64(k.ec.PublicKey.X.Bytes()),
			Y:   b64(k.ec.PublicKey.Y.Bytes()),
		},
	}}
}

func b64(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

func testClaims(subject string, expiresIn time.Duration) *Claims {
	now := time.Now()
	return &Claims{
		Role:  "authenticated",
		Email: "owner@example.com",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			Audience:  jwt.ClaimStrings{testAudience},
			IssuedAt:  jwt.NewNumericDate(now.Add(-time.Minute)),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		},
	}
}

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, kid string, claims jwt.Claims) string {
	t.Helper()
	token := jwt.NewWithClaims(method, claims)
	if kid != "" {
		token.Header["kid"] = kid
	}
	signed, err := token.SignedString(key)
	require.NoError(t, err)
	return signed
}
