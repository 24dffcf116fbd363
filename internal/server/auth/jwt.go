// Package auth implements credential storage, session token issuance and
// verification, and the authorization checks applied to requests.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims is the payload of a session token: the standard registered claims
// plus the identity of the user it was issued to.
type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"_id"`
	UserName string `json:"username"`
}

func (c *Claims) Identity() models.Identity {
	return models.Identity{ID: c.UserID, UserName: c.UserName}
}

// TokenIssuer mints and verifies HS256 session tokens with a fixed lifetime.
// The secret is read-only after construction.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer returns common.ErrorConfig when secret is empty. Callers treat
// that as fatal at start-up.
func NewTokenIssuer(secret string, ttl time.Duration) (*TokenIssuer, error) {
	if secret == "" {
		return nil, fmt.Errorf("%w: empty signing secret", common.ErrorConfig)
	}
	if ttl <= 0 {
		ttl = common.SessionTTL
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// WithClock replaces the time source, for tests.
func (i *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	i.now = now
	return i
}

// TTL is the lifetime embedded in every issued token.
func (i *TokenIssuer) TTL() time.Duration {
	return i.ttl
}

// Issue signs a token for id. It returns the token and its expiry.
func (i *TokenIssuer) Issue(id models.Identity) (string, time.Time, error) {
	if len(i.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("%w: empty signing secret", common.ErrorConfig)
	}

	now := i.now()
	expiresAt := now.Add(i.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		UserID:   id.ID,
		UserName: id.UserName,
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", time.Time{}, err
	}

	return tokenString, expiresAt.Truncate(time.Second), nil
}

// Verify checks signature and expiry of tokenString. It fails with
// common.ErrTokenExpired for expired tokens and common.ErrInvalidToken for
// anything else.
func (i *TokenIssuer) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return i.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithStrictDecoding(),
		jwt.WithTimeFunc(i.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidToken, err)
	}

	if !token.Valid || claims.UserID == "" || claims.UserName == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
