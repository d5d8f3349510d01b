package types

import "github.com/golang-jwt/jwt/v5"

type Claims struct {
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	ClientID *uint  `json:"client_id,omitempty"`
	UID      string `json:"uid,omitempty"`
	jwt.RegisteredClaims
}
