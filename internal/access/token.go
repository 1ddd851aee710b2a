package access

import (
	"fmt"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/desertthunder/tunebase/internal/shared"
)

const tokenIssuer = "tunebase"

// Tokens issues and verifies HS256 bearer tokens whose subject is a user id.
type Tokens struct {
	auth *jwtauth.JWTAuth
	ttl  time.Duration
	now  func() time.Time
}

// NewTokens creates [Tokens] signing with secret. A non-positive ttl defaults to 24 hours.
func NewTokens(secret string, ttl time.Duration) *Tokens {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Tokens{
		auth: jwtauth.New("HS256", []byte(secret), nil),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Auth exposes the underlying [jwtauth.JWTAuth] for transport middleware.
func (t *Tokens) Auth() *jwtauth.JWTAuth {
	return t.auth
}

// Issue signs a token for userID.
func (t *Tokens) Issue(userID string) (string, error) {
	now := t.now()
	_, signed, err := t.auth.Encode(map[string]any{
		jwt.SubjectKey:    userID,
		jwt.IssuerKey:     tokenIssuer,
		jwt.IssuedAtKey:   now.Unix(),
		jwt.ExpirationKey: now.Add(t.ttl),
	})
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Subject verifies token and returns the user id it was issued for.
func (t *Tokens) Subject(token string) (string, error) {
	if token == "" {
		return "", shared.Identity("missing token")
	}

	parsed, err := jwtauth.VerifyToken(t.auth, token)
	if err != nil {
		return "", shared.Identity("invalid token")
	}

	if issuer, _ := parsed.Issuer(); issuer != tokenIssuer {
		return "", shared.Identity("invalid token issuer")
	}

	subject, ok := parsed.Subject()
	if !ok || subject == "" {
		return "", shared.Identity("token has no subject")
	}

	return subject, nil
}
