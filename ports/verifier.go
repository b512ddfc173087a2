package ports

import (
	"context"

	"github.com/chrimage/atlas-divisions/core"
)

// IdentityVerifier validates an externally issued access token and yields
// the verified identity it asserts.
type IdentityVerifier interface {
	// Verify checks the raw token and returns the identity it carries.
	// All failures collapse to an error; callers treat any error as
	// "no identity".
	Verify(ctx context.Context, rawToken string) (*core.Identity, error)
}
