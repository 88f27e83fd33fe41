package auth

import "errors"

// Verification failures. Each one surfaces to clients as a 401 with its text
// as the reason.
var (
	ErrMissingCredentials   = errors.New("missing authorization header")
	ErrMalformedCredentials = errors.New("invalid authorization header")
	ErrInvalidCredentials   = errors.New("invalid credentials")

	ErrTokenInvalid         = errors.New("invalid token")
	ErrTokenExpired         = errors.New("token has expired")
	ErrMissingSubject       = errors.New("invalid token: missing user ID")
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")
	ErrSecretNotConfigured  = errors.New("jwt secret not configured")
	ErrKeySetUnavailable    = errors.New("unable to fetch key set")
	ErrMissingKeyID         = errors.New("token missing 'kid' header")
	ErrKeyNotFound          = errors.New("key id not found in key set")

	// ErrAuthenticationFailed wraps unexpected verifier faults. They are still
	// reported as authentication failures rather than server errors.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

var verificationErrors = []error{
	ErrMissingCredentials,
	ErrMalformedCredentials,
	ErrInvalidCredentials,
	ErrTokenInvalid,
	ErrTokenExpired,
	ErrMissingSubject,
	ErrUnsupportedAlgorithm,
	ErrSecretNotConfigured,
	ErrKeySetUnavailable,
	ErrMissingKeyID,
	ErrKeyNotFound,
	ErrAuthenticationFailed,
}

func isVerificationError(err error) bool {
	for _, target := range verificationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
