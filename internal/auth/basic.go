package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// BasicVerifier checks HTTP Basic credentials against one configured account.
type BasicVerifier struct {
	username     []byte
	password     []byte
	passwordHash []byte
}

// NewBasicVerifier builds a verifier. When passwordHash (bcrypt) is set it is
// used instead of the plaintext password.
func NewBasicVerifier(username, password, passwordHash string) *BasicVerifier {
	return &BasicVerifier{
		username:     []byte(username),
		password:     []byte(password),
		passwordHash: []byte(passwordHash),
	}
}

// Verify compares both fields in constant time. Both comparisons always run so
// timing does not reveal which field mismatched.
func (v *BasicVerifier) Verify(username, password string) (*Principal, error) {
	if len(v.username) == 0 || (len(v.password) == 0 && len(v.passwordHash) == 0) {
		return nil, ErrInvalidCredentials
	}

	userOK := subtle.ConstantTimeCompare([]byte(username), v.username)
	passOK := v.comparePassword(password)
	if userOK&passOK != 1 {
		return nil, ErrInvalidCredentials
	}
	return &Principal{UserID: username, Method: MethodBasic}, nil
}

func (v *BasicVerifier) comparePassword(password string) int {
	if len(v.passwordHash) > 0 {
		if bcrypt.CompareHashAndPassword(v.passwordHash, []byte(password)) == nil {
			return 1
		}
		return 0
	}
	return subtle.ConstantTimeCompare([]byte(password), v.password)
}

// HashPassword hashes a plaintext password for BASIC_AUTH_PASSWORD_HASH.
func HashPassword(password string, cost int) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
