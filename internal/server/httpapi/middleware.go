package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// requestID propagates X-Request-ID or generates one.
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" || len(id) > 64 {
		id, _ = common.MakeRandHexString(8)
	}
	c.Set(requestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

func requestIDFrom(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// accessLog logs every request and records the HTTP metrics.
func (s *Server) accessLog(c *gin.Context) {
	start := time.Now()
	c.Next()
	elapsed := time.Since(start)

	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	status := c.Writer.Status()

	s.metrics.requestsTotal.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
	s.metrics.requestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())

	log := s.logger.Info
	if status >= http.StatusInternalServerError {
		log = s.logger.Warn
	}
	log(c.Request.Context(), "request",
		"request_id", requestIDFrom(c),
		"method", c.Request.Method,
		"path", c.Request.URL.Path,
		"status", status,
		"duration", elapsed,
	)
}

// recovery turns panics into a logged 500.
func (s *Server) recovery(c *gin.Context, recovered any) {
	s.logger.Error(c.Request.Context(), "panic in handler",
		"request_id", requestIDFrom(c), "path", c.Request.URL.Path, "panic", recovered)
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": http.StatusText(http.StatusInternalServerError)})
}
