package auth

import (
	"context"
	"errors"
	"os"

	"github.com/go-chi/jwtauth"
)

var (
	ErrUnauthenticated = errors.New("access denied: missing or invalid session token")
	ErrSessionExpired  = errors.New("session expired, sign in again")
	ErrUnauthorized    = errors.New("you do not have permission to assign cards")
)

// Claims is the decoded session credential every operation starts from.
type Claims struct {
	UserID   string
	Name     string
	Group    string
	IsAdmin  bool
	IsSS     bool
	IsSCards bool
}

// CanAssign reports whether the caller may run the assign mutation.
func (c *Claims) CanAssign() bool {
	return c.IsSS || c.IsAdmin || c.IsSCards
}

// New builds the verifier from JWT_SECRET_KEY. Token issuance belongs
// to the account service; this side only checks.
func New() *jwtauth.JWTAuth {
	return jwtauth.New("HS256", []byte(os.Getenv("JWT_SECRET_KEY")), nil)
}

// FromContext reads the token placed in the request context by
// jwtauth.Verifier and decodes the session claims. It never touches
// shared state; a failure here aborts the operation before any side
// effect.
func FromContext(ctx context.Context) (*Claims, error) {
	token, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return nil, ErrSessionExpired
		}
		return nil, ErrUnauthenticated
	}
	if token == nil {
		return nil, ErrUnauthenticated
	}

	c := &Claims{}
	if v, ok := claims["userId"].(string); ok {
		c.UserID = v
	}
	if v, ok := claims["name"].(string); ok {
		c.Name = v
	}
	if v, ok := claims["group"].(string); ok {
		c.Group = v
	}
	if v, ok := claims["isAdmin"].(bool); ok {
		c.IsAdmin = v
	}
	if v, ok := claims["isSS"].(bool); ok {
		c.IsSS = v
	}
	if v, ok := claims["isSCards"].(bool); ok {
		c.IsSCards = v
	}

	return c, nil
}
