package core

// Identity is a verified caller identity extracted from an access token.
// It is produced only by the identity verifier, never persisted, and lives
// for the duration of a single request.
type Identity struct {
	Email     string   // Required; the only claim callers may rely on
	Name      string   // Optional display name
	Subject   string   // Optional opaque subject identifier
	Audience  []string // Optional audience list
	Issuer    string   // Optional issuer URL
	IssuedAt  int64    // Unix seconds, zero when absent
	ExpiresAt int64    // Unix seconds, zero when absent
}

// AnonymousSessionKey scopes anti-forgery tokens for unauthenticated callers.
const AnonymousSessionKey = "anonymous"

// SessionKey derives the anti-forgery session key for an identity.
// A nil identity maps to the shared anonymous key.
func SessionKey(identity *Identity) string {
	if identity == nil {
		return AnonymousSessionKey
	}
	return identity.Email + "_" + identity.Subject
}
