package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jwt "github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

// Claims describes the Supabase access token payload.
type Claims struct {
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// JWTVerifier validates Supabase access tokens signed with HS256 (shared
// secret) or RS256/ES256 (keys published in the project's JWKS).
type JWTVerifier struct {
	secret   []byte
	audience string
	keys     *KeySetCache
	logger   *zap.Logger
}

// NewJWTVerifier builds a verifier. keys may be nil, in which case asymmetric
// tokens fail with ErrKeySetUnavailable.
func NewJWTVerifier(secret, audience string, keys *KeySetCache, logger *zap.Logger) *JWTVerifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &JWTVerifier{secret: []byte(secret), audience: audience, keys: keys, logger: logger}
}

// Verify checks tokenStr and returns the principal it names. Every error wraps
// one of the package sentinels; unexpected faults wrap ErrAuthenticationFailed.
func (v *JWTVerifier) Verify(ctx context.Context, tokenStr string) (*Principal, error) {
	principal, err := v.verify(ctx, tokenStr)
	if err != nil {
		if !isVerificationError(err) {
			v.logger.Warn("unexpected token verification error", zap.Error(err))
			return nil, fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
		}
		return nil, err
	}
	return principal, nil
}

func (v *JWTVerifier) verify(ctx context.Context, tokenStr string) (*Principal, error) {
	header, err := unverifiedHeader(tokenStr)
	if err != nil {
		return nil, err
	}

	alg := AlgorithmHS256
	if raw, ok := header["alg"]; ok {
		name, isString := raw.(string)
		if !isString {
			return nil, fmt.Errorf("%w: alg header is not a string", ErrTokenInvalid)
		}
		alg = Algorithm(name)
	}

	var key interface{}
	switch alg {
	case AlgorithmHS256:
		if len(v.secret) == 0 {
			return nil, ErrSecretNotConfigured
		}
		key = v.secret
	case AlgorithmRS256, AlgorithmES256:
		key, err = v.resolveKey(ctx, alg, header)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, alg)
	}

	claims, err := v.parse(tokenStr, alg, key)
	if err != nil {
		return nil, err
	}

	v.logger.Debug("token verified", zap.String("alg", string(alg)), zap.String("user_id", claims.Subject))
	return &Principal{
		UserID: claims.Subject,
		Role:   claims.Role,
		Email:  claims.Email,
		Method: MethodJWT,
	}, nil
}

func (v *JWTVerifier) resolveKey(ctx context.Context, alg Algorithm, header map[string]interface{}) (interface{}, error) {
	if v.keys == nil {
		return nil, fmt.Errorf("%w for %s verification", ErrKeySetUnavailable, alg)
	}
	set, err := v.keys.Get(ctx)
	if err != nil {
		v.logger.Warn("key set fetch failed", zap.Error(err))
		return nil, fmt.Errorf("%w for %s verification", ErrKeySetUnavailable, alg)
	}

	kid, _ := header["kid"].(string)
	if kid == "" {
		return nil, ErrMissingKeyID
	}
	jwk, ok := set.Lookup(kid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, kid)
	}
	return jwk.publicKey(alg)
}

func (v *JWTVerifier) parse(tokenStr string, alg Algorithm, key interface{}) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{alg.SigningMethod().Alg()}),
		jwt.WithAudience(v.audience),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenStr, claims, func(*jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	if claims.Subject == "" {
		return nil, ErrMissingSubject
	}
	return claims, nil
}

// unverifiedHeader decodes the JOSE header without consulting the algorithm
// registry, so unknown algorithms reach the dispatch switch.
func unverifiedHeader(tokenStr string) (map[string]interface{}, error) {
	parts := strings.Split(tokenStr, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: token contains an invalid number of segments", ErrTokenInvalid)
	}
	raw, err := jwt.NewParser().DecodeSegment(parts[0])
	if err != nil {
		return nil, fmt.Errorf("%w: malformed header: %v", ErrTokenInvalid, err)
	}
	var header map[string]interface{}
	if err := json.Unmarshal(raw, &header); err != nil {
		return nil, fmt.Errorf("%w: malformed header: %v", ErrTokenInvalid, err)
	}
	return header, nil
}
