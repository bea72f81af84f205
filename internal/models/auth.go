package models

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the identity claims minted by the external sign-in provider.
// The core only consumes the stable user id plus display fields.
type AuthClaims struct {
	Name       string `json:"name"`
	AvatarURL  string `json:"avatar_url"`
	ScreenName string `json:"screen_name"`
	jwt.RegisteredClaims
}

// UserID returns the stable subject identifier.
func (c *AuthClaims) UserID() string {
	return c.Subject
}

// Author converts the claims into the identity reference stored on entries.
func (c *AuthClaims) Author() Author {
	return Author{
		ID:         c.Subject,
		Name:       c.Name,
		AvatarURL:  c.AvatarURL,
		ScreenName: c.ScreenName,
	}
}
