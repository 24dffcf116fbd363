package auth

import (
	"time"

	"github.com/dmitrijs2005/gophblog/internal/server/models"
)

// SessionState tells whether a request carries a verified identity.
type SessionState int

const (
	Anonymous SessionState = iota
	Authenticated
)

func (s SessionState) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "anonymous"
}

// Session is the outcome of resolving a request's token. The identity is only
// reachable through Identity, which also reports whether there is one.
type Session struct {
	state     SessionState
	identity  models.Identity
	expiresAt time.Time
}

func AnonymousSession() Session {
	return Session{state: Anonymous}
}

func AuthenticatedSession(id models.Identity, expiresAt time.Time) Session {
	return Session{state: Authenticated, identity: id, expiresAt: expiresAt}
}

func (s Session) State() SessionState {
	return s.state
}

func (s Session) Identity() (models.Identity, bool) {
	return s.identity, s.state == Authenticated
}

// ExpiresAt is the expiry of the token the session was resolved from; zero for
// anonymous sessions.
func (s Session) ExpiresAt() time.Time {
	return s.expiresAt
}

// Resolve turns a raw token into a Session. A missing, malformed, forged or
// expired token yields an anonymous session; it never fails the request.
func (i *TokenIssuer) Resolve(tokenString string) Session {
	if tokenString == "" {
		return AnonymousSession()
	}
	claims, err := i.Verify(tokenString)
	if err != nil {
		return AnonymousSession()
	}
	var expiresAt time.Time
	if claims.ExpiresAt != nil {
		expiresAt = claims.ExpiresAt.Time
	}
	return AuthenticatedSession(claims.Identity(), expiresAt)
}

// NeedsRenewal reports whether s expires within window from now. A zero
// window disables renewal.
func (s Session) NeedsRenewal(now time.Time, window time.Duration) bool {
	if s.state != Authenticated || window <= 0 {
		return false
	}
	return s.expiresAt.Sub(now) < window
}
