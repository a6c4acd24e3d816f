package constants

const (
	// ContextKeyUserID is the gin context key holding the authenticated user ID
	ContextKeyUserID = "user_id"

	// ContextKeyTokenClaims is the gin context key holding the verified token claims
	ContextKeyTokenClaims = "token_claims"

	// MinPasswordLength is the minimum accepted password length
	MinPasswordLength = 6

	// Pagination
	MinPageSize     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100

	// NotAvailable is rendered in place of values whose referent no longer resolves
	NotAvailable = "N/A"
)
