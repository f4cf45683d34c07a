package models

import "github.com/golang-jwt/jwt/v5"

// AccessClaims is the subset of an identity-platform access token the service reads.
type AccessClaims struct {
	jwt.RegisteredClaims
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	ObjectID          string `json:"oid"`
	TenantID          string `json:"tid"`
	Scope             string `json:"scp"`
}

// GetUserID returns the directory object id, falling back to the subject claim.
func (c *AccessClaims) GetUserID() string {
	if c.ObjectID != "" {
		return c.ObjectID
	}
	return c.Subject
}
