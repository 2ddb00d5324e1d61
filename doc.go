// Package marketpoint implements the marketplace backend core: user
// registration with email verification, JWT session issuance, and the
// password credential lifecycle.
//
// Verification lifecycle:
//
//	Unverified -> [Signup] -> PendingVerification(token, expiry)
//	PendingVerification -> [VerifyEmail] -> Verified (terminal)
//	PendingVerification -> [ResendVerification] -> PendingVerification(new token)
//
// The HTTP boundary lives in the server package, product listings in the
// products package. Mutations run as command handlers against a
// RepositoryManager; reads go through the Users repository directly.
package marketpoint
