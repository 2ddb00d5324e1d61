package marketpoint

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/goliatone/go-errors"
)

// VerificationTokenTTL is how long an email verification token stays valid.
const VerificationTokenTTL = 30 * time.Minute

// NewVerificationToken returns a single-use opaque token proving control of
// a registered email address. 32 random bytes, hex encoded.
func NewVerificationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to generate verification token")
	}
	return hex.EncodeToString(buf), nil
}

// NewVerificationWindow pairs a fresh token with its expiry timestamp.
func NewVerificationWindow() (string, time.Time, error) {
	token, err := NewVerificationToken()
	if err != nil {
		return "", time.Time{}, err
	}
	return token, time.Now().Add(VerificationTokenTTL), nil
}
