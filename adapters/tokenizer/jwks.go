package tokenizer

import (
	"context"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/chrimage/atlas-divisions/core"
)

// jwk is a single RSA public key from the trust domain's certs endpoint.
type jwk struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	N   string `json:"n"`
	E   string `json:"e"`
}

// certsResponse is the document served at /cdn-cgi/access/certs.
type certsResponse struct {
	Keys []jwk `json:"keys"`
}

// fetchSigningKey retrieves the trust domain's current signing keys and
// selects the one matching kid. Every failure along the way, including the
// fetch itself, maps to core.ErrUnknownSigningKey.
func (v *AccessVerifier) fetchSigningKey(ctx context.Context, kid string) (*rsa.PublicKey, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.certsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build certs request: %w", core.ErrUnknownSigningKey)
	}

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch signing keys: %w", core.ErrUnknownSigningKey)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("certs endpoint returned %d: %w", resp.StatusCode, core.ErrUnknownSigningKey)
	}

	var certs certsResponse
	if err := json.NewDecoder(resp.Body).Decode(&certs); err != nil {
		return nil, fmt.Errorf("decode certs response: %w", core.ErrUnknownSigningKey)
	}

	for _, key := range certs.Keys {
		if key.Kid == kid {
			return key.publicKey()
		}
	}

	return nil, fmt.Errorf("no signing key with kid %q: %w", kid, core.ErrUnknownSigningKey)
}

// publicKey reconstructs the RSA public key from the JWK modulus and exponent.
func (k jwk) publicKey() (*rsa.PublicKey, error) {
	nBytes, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode key modulus: %w", core.ErrUnknownSigningKey)
	}

	eBytes, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode key exponent: %w", core.ErrUnknownSigningKey)
	}

	e := 0
	for _, b := range eBytes {
		e = e<<8 | int(b)
	}

	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(nBytes),
		E: e,
	}, nil
}
