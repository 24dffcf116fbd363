package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/gin-gonic/gin"
)

// statusFromError maps the common sentinels onto HTTP statuses. Anything
// unrecognised is a 500.
func statusFromError(err error) int {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized
	case errors.Is(err, common.ErrorForbidden):
		return http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with {"error": msg}. Server-side failures are
// logged and reported without detail.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFromError(err)
	msg := err.Error()
	if status >= http.StatusInternalServerError {
		s.logger.Error(c.Request.Context(), "request failed",
			"request_id", requestIDFrom(c), "path", c.Request.URL.Path, "error", err)
		msg = http.StatusText(status)
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func bindError(err error) error {
	return fmt.Errorf("%w: %v", common.ErrorValidation, err)
}
