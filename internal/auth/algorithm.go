package auth

import jwt "github.com/golang-jwt/jwt/v5"

// Algorithm is a JWS signature algorithm accepted by JWTVerifier.
type Algorithm string

const (
	AlgorithmHS256 Algorithm = "HS256"
	AlgorithmRS256 Algorithm = "RS256"
	AlgorithmES256 Algorithm = "ES256"
)

// SigningMethod maps the algorithm to its golang-jwt implementation.
func (a Algorithm) SigningMethod() jwt.SigningMethod {
	switch a {
	case AlgorithmHS256:
		return jwt.SigningMethodHS256
	case AlgorithmRS256:
		return jwt.SigningMethodRS256
	case AlgorithmES256:
		return jwt.SigningMethodES256
	}
	return nil
}
