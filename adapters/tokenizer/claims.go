package tokenizer

import "github.com/golang-jwt/jwt/v5"

// AccessClaims combines standard claims with the identity claims the access
// provider places in its application tokens.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}
