package supabase

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the fields Mawrid reads from a GoTrue access token.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// ParseAccessToken reads token claims. The HS256 signature is verified when
// a JWT secret is configured; expiry is left to the caller.
func (c *Client) ParseAccessToken(token string) (*Claims, error) {
	if token == "" {
		return nil, errors.New("supabase: empty access token")
	}
	claims := &Claims{}
	if len(c.jwtSecret) == 0 {
		if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
			return nil, fmt.Errorf("supabase: parse token: %w", err)
		}
		return claims, nil
	}
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithoutClaimsValidation())
	if _, err := parser.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return c.jwtSecret, nil
	}); err != nil {
		return nil, fmt.Errorf("supabase: verify token: %w", err)
	}
	return claims, nil
}

// TokenExpired reports whether token expires within skew. Unreadable tokens
// count as expired.
func (c *Client) TokenExpired(token string, skew time.Duration) bool {
	claims, err := c.ParseAccessToken(token)
	if err != nil || claims.ExpiresAt == nil {
		return true
	}
	return time.Now().Add(skew).After(claims.ExpiresAt.Time)
}
