package service

import "github.com/chrimage/atlas-divisions/core"

// AccessPolicy decides whether a caller may perform admin actions. It is a
// pure function of the identity and the static configuration; mapping a
// denial to 401 versus 403 is the transport layer's job.
type AccessPolicy struct {
	// EnableAdminAuth gates the whole policy; false allows everyone.
	EnableAdminAuth bool

	// EnableTokenAccess selects token-based identity as the access mode.
	// When set, any verified identity is sufficient and the allow-list is
	// not consulted.
	EnableTokenAccess bool

	// AllowedAdminEmails is the static allow-list used when token-based
	// access is disabled. Matching is case-sensitive and exact.
	AllowedAdminEmails []string
}

// IsAdminAllowed reports whether the identity may perform admin actions.
func (p AccessPolicy) IsAdminAllowed(identity *core.Identity) bool {
	if !p.EnableAdminAuth {
		return true
	}

	if identity == nil && p.EnableTokenAccess {
		return false
	}

	if !p.EnableTokenAccess && identity != nil {
		for _, email := range p.AllowedAdminEmails {
			if email == identity.Email {
				return true
			}
		}
		return false
	}

	return identity != nil
}
