// Package httpapi exposes the blog over REST: gin routing, session
// resolution from the access_token cookie, authorization middleware, error
// mapping, request logging and Prometheus metrics.
package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

func init() {
	binding.EnableDecoderDisallowUnknownFields = true
}

// Options are the HTTP-level session settings.
type Options struct {
	SessionRenewalWindow time.Duration
	SecureCookie         bool
}

// Server holds the handlers' dependencies.
type Server struct {
	users   *services.UserService
	posts   *services.PostService
	logger  logging.Logger
	metrics *Metrics
	opts    Options
	now     func() time.Time
}

func NewServer(us *services.UserService, ps *services.PostService, l logging.Logger, opts Options) *Server {
	return &Server{
		users:   us,
		posts:   ps,
		logger:  l.With("module", "http_api"),
		metrics: NewMetrics(),
		opts:    opts,
		now:     time.Now,
	}
}

// WithClock replaces the time source used for renewal decisions.
func (s *Server) WithClock(now func() time.Time) *Server {
	s.now = now
	return s
}

func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(requestID, s.accessLog, gin.CustomRecovery(s.recovery))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	// logout clears the cookie, so it must not see a renewed one
	r.POST("/auth/logout", s.logout)

	api := r.Group("/", s.sessionMiddleware)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", s.register)
	authGroup.POST("/login", s.login)
	authGroup.GET("/check", s.check)

	postsGroup := api.Group("/posts")
	postsGroup.GET("", s.listPosts)
	postsGroup.POST("", s.requireAuthenticated, s.writePost)
	postsGroup.GET("/:id", s.loadPost, s.readPost)
	postsGroup.PUT("/:id", s.loadPost, s.requireAuthenticated, s.checkOwnPost, s.updatePost)
	postsGroup.DELETE("/:id", s.loadPost, s.requireAuthenticated, s.checkOwnPost, s.removePost)

	return r
}
