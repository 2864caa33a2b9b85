// Package common contains shared constants and sentinel errors used across
// the Shalo client components.
package common

const (
	// CredentialKey is the fixed key under which the session credential is
	// persisted. Only the session coordinator reads or writes it.
	CredentialKey = "authToken"

	// AuthorizationHeaderName carries the bearer credential on outbound requests.
	AuthorizationHeaderName = "Authorization"

	// RequestIDHeaderName carries a per-request correlation id.
	RequestIDHeaderName = "X-Request-ID"
)
