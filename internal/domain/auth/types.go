package auth

import "time"

// Config drives bearer token validation.
type Config struct {
	Secret   string
	TokenTTL time.Duration
	Issuer   string
}

// Claims describes a validated caller.
type Claims struct {
	Subject   string    `json:"sub"`
	ExpiresAt time.Time `json:"expiresAt"`
}
