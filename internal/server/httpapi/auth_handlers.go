package httpapi

import (
	"errors"
	"io"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/gin-gonic/gin"
)

type registerRequest struct {
	UserName string `json:"username" binding:"required,alphanum,min=3,max=20"`
	Password string `json:"password" binding:"required,max=72"`
}

// loginRequest has no binding rules: missing fields are a 401, not a 400.
type loginRequest struct {
	UserName string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}

	user, err := s.users.Register(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		s.writeError(c, err)
		return
	}
	s.metrics.AuthEvent(EventRegister)

	if _, err := s.startSession(c, user.Identity()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserView(user))
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(c, bindError(err))
		return
	}

	user, err := s.users.Login(c.Request.Context(), req.UserName, req.Password)
	if err != nil {
		if statusFromError(err) == http.StatusUnauthorized {
			s.metrics.AuthEvent(EventLoginFailed)
		}
		s.writeError(c, err)
		return
	}
	s.metrics.AuthEvent(EventLoginOK)

	if _, err := s.startSession(c, user.Identity()); err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.NewUserView(user))
}

func (s *Server) check(c *gin.Context) {
	id, err := auth.RequireAuthenticated(SessionFrom(c))
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, id)
}

func (s *Server) logout(c *gin.Context) {
	s.clearSessionCookie(c)
	c.Status(http.StatusNoContent)
}
