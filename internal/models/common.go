package models

const (
	// SessionCookieName is the browser session cookie set at login.
	SessionCookieName = "sid"

	// MwClaimsKey is the echo context key the authorizer middleware stores
	// the verified access-token claims under.
	MwClaimsKey = "claims"
)
