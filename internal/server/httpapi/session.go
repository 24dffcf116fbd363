package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

const (
	sessionKey = "session"
	postKey    = "post"
)

// sessionMiddleware resolves the access_token cookie into an auth.Session.
// It never rejects a request; bad tokens make the session anonymous. A
// session close to expiry gets a fresh token in the response.
func (s *Server) sessionMiddleware(c *gin.Context) {
	token, _ := c.Cookie(common.AccessTokenCookieName)
	session := s.users.Tokens().Resolve(token)

	if session.NeedsRenewal(s.now(), s.opts.SessionRenewalWindow) {
		id, _ := session.Identity()
		if fresh, err := s.startSession(c, id); err != nil {
			s.logger.Warn(c.Request.Context(), "token renewal failed",
				"request_id", requestIDFrom(c), "error", err)
		} else {
			session = fresh
			s.metrics.AuthEvent(EventTokenRefreshed)
		}
	}

	c.Set(sessionKey, session)
	c.Next()
}

// SessionFrom returns the session resolved for this request; anonymous when
// the middleware did not run.
func SessionFrom(c *gin.Context) auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if session, ok := v.(auth.Session); ok {
			return session
		}
	}
	return auth.AnonymousSession()
}

// startSession issues a token for id and sets it as the session cookie.
func (s *Server) startSession(c *gin.Context, id models.Identity) (auth.Session, error) {
	token, expiresAt, err := s.users.IssueToken(id)
	if err != nil {
		return auth.AnonymousSession(), err
	}
	s.setSessionCookie(c, token, int(s.users.Tokens().TTL().Seconds()))
	return auth.AuthenticatedSession(id, expiresAt), nil
}

func (s *Server) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.AccessTokenCookieName, value, maxAge, "/", "", s.opts.SecureCookie, true)
}

func (s *Server) clearSessionCookie(c *gin.Context) {
	s.setSessionCookie(c, "", -1)
}

// requireAuthenticated aborts with 401 for anonymous sessions.
func (s *Server) requireAuthenticated(c *gin.Context) {
	if _, err := auth.RequireAuthenticated(SessionFrom(c)); err != nil {
		s.writeError(c, err)
		return
	}
	c.Next()
}

// loadPost resolves :id into the post, or 404.
func (s *Server) loadPost(c *gin.Context) {
	post, err := s.posts.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.Set(postKey, post)
	c.Next()
}

// checkOwnPost aborts with 403 unless the caller owns the loaded post. It
// runs after loadPost and requireAuthenticated.
func (s *Server) checkOwnPost(c *gin.Context) {
	id, err := auth.RequireAuthenticated(SessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	if err := auth.RequireOwner(postFrom(c).Owner.ID, id); err != nil {
		s.writeError(c, err)
		return
	}
	c.Next()
}

func postFrom(c *gin.Context) *models.Post {
	v, _ := c.Get(postKey)
	post, _ := v.(*models.Post)
	if post == nil {
		return &models.Post{}
	}
	return post
}
