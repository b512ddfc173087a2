package tokenizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/chrimage/atlas-divisions/core"
	"github.com/chrimage/atlas-divisions/ports"
)

const (
	// defaultFetchTimeout bounds the signing-key fetch per verification call.
	defaultFetchTimeout = 5 * time.Second

	// certsURLFormat is the well-known signing-key endpoint, scoped by the
	// trust-domain name.
	certsURLFormat = "https://%s.cloudflareaccess.com/cdn-cgi/access/certs"
)

// AccessVerifier validates externally issued RS256 access tokens against the
// trust domain's published signing keys.
type AccessVerifier struct {
	teamName string
	certsURL string
	client   *http.Client
	logger   *slog.Logger
}

// Option configures an AccessVerifier.
type Option func(*AccessVerifier)

// WithCertsURL overrides the signing-key endpoint, used in tests.
func WithCertsURL(url string) Option {
	return func(v *AccessVerifier) { v.certsURL = url }
}

// WithHTTPClient overrides the HTTP client used for key fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(v *AccessVerifier) { v.client = client }
}

// NewAccessVerifier creates a verifier for the given trust-domain name.
// An empty team name degrades to unsigned verification: expiry and identity
// presence are still enforced, but signatures are not checked. Every use of
// the degraded mode is logged.
func NewAccessVerifier(teamName string, logger *slog.Logger, opts ...Option) ports.IdentityVerifier {
	v := &AccessVerifier{
		teamName: teamName,
		client:   &http.Client{Timeout: defaultFetchTimeout},
		logger:   logger,
	}
	if teamName != "" {
		v.certsURL = fmt.Sprintf(certsURLFormat, teamName)
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Verify checks the raw token and returns the identity it asserts.
func (v *AccessVerifier) Verify(ctx context.Context, rawToken string) (*core.Identity, error) {
	if strings.Count(rawToken, ".") != 2 {
		return nil, fmt.Errorf("token must have three segments: %w", core.ErrMalformedToken)
	}

	if v.teamName == "" {
		return v.verifyUnsigned(rawToken)
	}

	parser := jwt.NewParser(jwt.WithValidMethods([]string{"RS256"}))
	claims := &AccessClaims{}
	if _, err := parser.ParseWithClaims(rawToken, claims, v.keyfunc(ctx)); err != nil {
		return nil, mapParseError(err)
	}

	return v.identityFromClaims(claims)
}

// keyfunc selects the RSA public key matching the token's key ID, fetching
// the trust domain's current keys on every call.
func (v *AccessVerifier) keyfunc(ctx context.Context) jwt.Keyfunc {
	return func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, fmt.Errorf("token header missing key ID: %w", core.ErrMalformedToken)
		}
		return v.fetchSigningKey(ctx, kid)
	}
}

// verifyUnsigned decodes the token without signature verification. This is an
// explicit trust downgrade for deployments without a configured trust domain.
func (v *AccessVerifier) verifyUnsigned(rawToken string) (*core.Identity, error) {
	v.logger.Warn("access token signature verification skipped: no trust domain configured")

	claims := &AccessClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(rawToken, claims); err != nil {
		return nil, fmt.Errorf("parse token: %w", core.ErrMalformedToken)
	}

	if claims.ExpiresAt != nil && !time.Now().UTC().Before(claims.ExpiresAt.Time) {
		return nil, core.ErrTokenExpired
	}

	return v.identityFromClaims(claims)
}

// identityFromClaims enforces the identity and issuer requirements and maps
// the claims verbatim onto the domain identity.
func (v *AccessVerifier) identityFromClaims(claims *AccessClaims) (*core.Identity, error) {
	if claims.Email == "" {
		return nil, core.ErrMissingIdentity
	}

	if v.teamName != "" && claims.Issuer != "" && !strings.Contains(claims.Issuer, v.teamName) {
		return nil, fmt.Errorf("issuer %q outside trust domain %q: %w", claims.Issuer, v.teamName, core.ErrIssuerMismatch)
	}

	identity := &core.Identity{
		Email:    claims.Email,
		Name:     claims.Name,
		Subject:  claims.Subject,
		Audience: claims.Audience,
		Issuer:   claims.Issuer,
	}
	if claims.IssuedAt != nil {
		identity.IssuedAt = claims.IssuedAt.Unix()
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Unix()
	}

	return identity, nil
}

// mapParseError translates jwt parse failures into domain errors. Keyfunc
// failures already carry domain errors and pass through unchanged.
func mapParseError(err error) error {
	switch {
	case errors.Is(err, core.ErrMalformedToken), errors.Is(err, core.ErrUnknownSigningKey):
		return err
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%v: %w", err, core.ErrTokenExpired)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%v: %w", err, core.ErrSignatureInvalid)
	default:
		return fmt.Errorf("parse token: %w", core.ErrMalformedToken)
	}
}
