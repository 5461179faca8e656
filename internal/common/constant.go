// Package common contains shared constants and small helpers used across
// medcli components.
package common

// Outbound HTTP header names and values.
const (
	AuthorizationHeaderName = "Authorization"
	// TokenScheme prefixes the session token in the Authorization header.
	TokenScheme = "Token"

	RequestIDHeaderName   = "X-Request-ID"
	ContentTypeHeaderName = "Content-Type"
	ContentTypeJSON       = "application/json"
)

// Local slot keys.
const (
	SlotToken = "token"
	SlotUser  = "user"
)
