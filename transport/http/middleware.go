package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

// AccessJWTHeader is the request header carrying the identity assertion.
const AccessJWTHeader = "Cf-Access-Jwt-Assertion"

// identityKey is the gin context key holding the verified identity.
const identityKey = "identity"

// IdentityMiddleware extracts and verifies the caller identity from the
// access token header. Verification failures never abort the request: they
// are logged and the caller proceeds as anonymous, leaving the 401/403
// decision to the access policy at each handler.
func IdentityMiddleware(verifier ports.IdentityVerifier, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(AccessJWTHeader)
		if raw == "" {
			c.Next()
			return
		}

		identity, err := verifier.Verify(c.Request.Context(), raw)
		if err != nil {
			logger.Warn("access token rejected", "error", err)
			c.Next()
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// identityFrom returns the verified identity for the request, or nil for
// anonymous callers.
func identityFrom(c *gin.Context) *core.Identity {
	value, exists := c.Get(identityKey)
	if !exists {
		return nil
	}
	identity, ok := value.(*core.Identity)
	if !ok {
		return nil
	}
	return identity
}
