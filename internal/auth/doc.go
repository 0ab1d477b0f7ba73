// Package auth verifies Auth0-issued bearer tokens and fetches user
// profiles from the provider's userinfo endpoint.
//
// Verification resolves the signing key from the tenant's published JWKS
// (cached, auto-refreshing), checks the signature against a configurable
// algorithm allow-list, and validates issuer and time claims. All failures
// collapse to ErrInvalidToken so callers surface a uniform "not
// authenticated" result without leaking the failure mode.
package auth
