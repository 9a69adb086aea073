// ABOUTME: Authentication collaborator issuing and verifying HS256 identity tokens
// ABOUTME: Tokens carry the user id as sub and the email as a custom claim
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/harperreed/solocrm/models"
)

const issuer = "solocrm"

// DefaultTTL is the lifetime of issued tokens.
const DefaultTTL = 24 * time.Hour

type claims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// Authenticator signs and verifies identity tokens with one shared secret.
type Authenticator struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// New creates an authenticator. An empty secret is rejected.
func New(secret string, ttl time.Duration) (*Authenticator, error) {
	if secret == "" {
		return nil, errors.New("jwt secret must not be empty")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Authenticator{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue returns a signed token for user.
func (a *Authenticator) Issue(user models.User) (string, error) {
	if user.ID == "" {
		return "", fmt.Errorf("%w: user id is required", models.ErrInvalidInput)
	}
	now := a.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	})
	signed, err := token.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token and returns its identity. Any failure is models.ErrUnauthorized.
func (a *Authenticator) Verify(tokenString string) (models.User, error) {
	var c claims
	token, err := jwt.ParseWithClaims(tokenString, &c, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}, jwt.WithIssuer(issuer), jwt.WithTimeFunc(a.now), jwt.WithExpirationRequired())
	if err != nil || !token.Valid {
		return models.User{}, models.ErrUnauthorized
	}
	if c.Subject == "" {
		return models.User{}, models.ErrUnauthorized
	}
	return models.User{ID: c.Subject, Email: c.Email}, nil
}

type contextKey struct{}

// WithUser returns ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, contextKey{}, user)
}

// UserFromContext returns the user stored by WithUser.
func UserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(contextKey{}).(models.User)
	return user, ok
}
