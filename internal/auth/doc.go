// Package auth decides whether a request is authenticated.
//
// # Decision Procedure
//
// Clients sign their own tokens with a Dilithium3 private key and send them as
//
//	Authorization: Bearer <header>.<body>.<signature>
//
// Authenticator.Authenticate runs a fixed, linear sequence of steps. The first
// failing step ends the procedure with an *Error whose Kind names the step:
//
//   - header_missing: no Authorization header
//   - malformed_header: not exactly "<scheme> <token>", or a scheme other than
//     Bearer (compared without case) when the Bearer scheme is required
//   - malformed_token: the token does not parse (see package token)
//   - invalid_subject: the token's sub is not a UUID
//   - user_not_found: no registered user has that UUID
//   - store_unavailable: the user store failed for another reason
//   - signature_invalid: the signature does not verify against the public key
//     stored for that user
//
// On success the Identity is built from the stored user only. Nothing in the
// token besides the subject and signature is trusted.
//
// The subject is resolved before any signature work, so an unknown subject is
// rejected without touching the cryptographic engine.
//
// # Errors
//
// Use errors.Is with the sentinels (ErrHeaderMissing, ErrUserNotFound, ...) or
// KindOf to branch on the failure.
//
// # HTTP
//
//	mux.Handle("/api/user", auth.HTTPAuthMiddleware(authenticator)(handler))
//
// Failures become 401 with {"error":"<kind>"}, except store_unavailable which
// becomes 503. Handlers read the caller with FromContext or MustFromContext.
//
// # Known Gaps
//
// Tokens carry no expiry or nonce. A captured token stays valid for as long as
// the subject's public key is registered.
package auth
