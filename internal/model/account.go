package model

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Account is a stored login. PasswordHash is a bcrypt hash; the plaintext
// password never touches persistence.
type Account struct {
	ID           string    `json:"id"`
	Login        string    `json:"login"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// Claims is the JWT payload issued on login and presented as a bearer token
// on every subsequent request. Subject carries the login.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}
