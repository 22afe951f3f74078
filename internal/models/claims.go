package models

import "github.com/golang-jwt/jwt/v5"

// CallerClaims identifies the system calling the bridge. The subject is
// the caller name; the bridge itself has no user accounts.
type CallerClaims struct {
	jwt.RegisteredClaims
}
