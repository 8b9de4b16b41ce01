package types

import "github.com/golang-jwt/jwt/v5"

// Claims is the JWT payload issued on login and validated by the
// Authenticate middleware.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Scope  string `json:"scope"`
	jwt.RegisteredClaims
}
