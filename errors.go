package marketpoint

import (
	"strings"

	"github.com/goliatone/go-errors"
)

const (
	TextCodeEmailExists         = "email_exists"
	TextCodeEmailInUse          = "email_in_use"
	TextCodeInvalidCredentials  = "invalid_credentials"
	TextCodeEmailNotVerified    = "email_not_verified"
	TextCodeVerificationInvalid = "verification_invalid_or_expired"
	TextCodeUserNotFound        = "user_not_found"
	TextCodeOldPasswordMismatch = "old_password_incorrect"
	TextCodeActorMismatch       = "session_actor_mismatch"
	TextCodeAlreadyVerified     = "email_already_verified"
	TextCodeTokenExpired        = "auth_token_expired"
	TextCodeTokenMalformed      = "auth_token_malformed"
)

// ErrEmailExists is returned when signup targets an email already registered.
var ErrEmailExists = errors.New("Email already exists", errors.CategoryConflict).
	WithTextCode(TextCodeEmailExists).
	WithCode(errors.CodeConflict)

// ErrEmailInUse is returned when a profile update targets an email another
// user already owns.
var ErrEmailInUse = errors.New("Email already in use", errors.CategoryConflict).
	WithTextCode(TextCodeEmailInUse).
	WithCode(errors.CodeConflict)

// ErrMismatchedHashAndPassword is returned on credential verification
// failure. Unknown identifiers surface the same value so responses do not
// reveal account existence.
var ErrMismatchedHashAndPassword = errors.New("Invalid credentials", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailNotVerified gates login for accounts that never confirmed their email.
var ErrEmailNotVerified = errors.New("Please verify your email before logging in", errors.CategoryAuth).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeForbidden)

// ErrVerificationInvalid covers unknown, already consumed, and expired
// verification tokens alike. The caller cannot tell which case it hit.
var ErrVerificationInvalid = errors.New("Invalid or expired token", errors.CategoryValidation).
	WithTextCode(TextCodeVerificationInvalid).
	WithCode(errors.CodeBadRequest)

// ErrAlreadyVerified is returned when a verification resend targets an
// account that already confirmed its email.
var ErrAlreadyVerified = errors.New("Email already verified", errors.CategoryBadInput).
	WithTextCode(TextCodeAlreadyVerified).
	WithCode(errors.CodeBadRequest)

// ErrUserNotFound is returned when an authenticated identity no longer
// resolves to a user record.
var ErrUserNotFound = errors.New("User not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrOldPasswordMismatch is returned when a password change presents a wrong
// current password.
var ErrOldPasswordMismatch = errors.New("Old password incorrect", errors.CategoryAuth).
	WithTextCode(TextCodeOldPasswordMismatch).
	WithCode(errors.CodeUnauthorized)

// ErrActorMismatch is returned when a command runs under a session that does
// not belong to the user it targets.
var ErrActorMismatch = errors.New("Unauthorized", errors.CategoryAuthz).
	WithTextCode(TextCodeActorMismatch).
	WithCode(errors.CodeForbidden)

// ErrNoEmptyString rejects empty passwords before they reach bcrypt.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryBadInput).
	WithCode(errors.CodeBadRequest)

// ErrTokenExpired is the session token expiry error surfaced by the boundary.
var ErrTokenExpired = errors.New("Authentication token expired", errors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(errors.CodeUnauthorized)

// ErrTokenMalformed covers tokens that fail signature or shape checks.
var ErrTokenMalformed = errors.New("Invalid authentication token", errors.CategoryAuth).
	WithTextCode(TextCodeTokenMalformed).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToFindSession is the error when the request carries no token
var ErrUnableToFindSession = errors.New("unable to find session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// ErrUnableToDecodeSession unable to decode JWT claims
var ErrUnableToDecodeSession = errors.New("unable to decode session", errors.CategoryAuth).
	WithCode(errors.CodeUnauthorized)

// IsTokenExpiredError will check for expired tokens
func IsTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is expired") ||
		strings.Contains(err.Error(), "token expired")
}

// IsMalformedError will check for error message
func IsMalformedError(err error) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), "token is malformed") ||
		strings.Contains(err.Error(), "missing or malformed JWT")
}
