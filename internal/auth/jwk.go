package auth

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"fmt"
	"math/big"
)

// publicKey converts a JWK into the Go key type golang-jwt expects for alg.
func (k JSONWebKey) publicKey(alg Algorithm) (interface{}, error) {
	switch alg {
	case AlgorithmRS256:
		return k.rsaPublicKey()
	case AlgorithmES256:
		return k.ecdsaPublicKey()
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
}

func (k JSONWebKey) rsaPublicKey() (*rsa.PublicKey, error) {
	if k.Kty != "RSA" {
		return nil, fmt.Errorf("key %q has type %q, want RSA", k.Kid, k.Kty)
	}
	n, err := decodeBigInt(k.N)
	if err != nil {
		return nil, fmt.Errorf("key %q modulus: %w", k.Kid, err)
	}
	e, err := decodeBigInt(k.E)
	if err != nil {
		return nil, fmt.Errorf("key %q exponent: %w", k.Kid, err)
	}
	if !e.IsInt64() || e.Int64() < 2 || e.Int64() > 1<<31-1 {
		return nil, fmt.Errorf("key %q exponent out of range", k.Kid)
	}
	return &rsa.PublicKey{N: n, E: int(e.Int64())}, nil
}

func (k JSONWebKey) ecdsaPublicKey() (*ecdsa.PublicKey, error) {
	if k.Kty != "EC" {
		return nil, fmt.Errorf("key %q has type %q, want EC", k.Kid, k.Kty)
	}
	if k.Crv != "P-256" {
		return nil, fmt.Errorf("key %q curve %q not supported", k.Kid, k.Crv)
	}
	x, err := decodeBigInt(k.X)
	if err != nil {
		return nil, fmt.Errorf("key %q x: %w", k.Kid, err)
	}
	y, err := decodeBigInt(k.Y)
	if err != nil {
		return nil, fmt.Errorf("key %q y: %w", k.Kid, err)
	}
	curve := elliptic.P256()
	if !curve.IsOnCurve(x, y) {
		return nil, fmt.Errorf("key %q point not on curve", k.Kid)
	}
	return &ecdsa.PublicKey{Curve: curve, X: x, Y: y}, nil
}

func decodeBigInt(s string) (*big.Int, error) {
	if s == "" {
		return nil, fmt.Errorf("missing value")
	}
	b, err := base64.RawURLEncoding.DecodeString(s)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(b), nil
}
