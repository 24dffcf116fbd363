package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/logging"
	"github.com/dmitrijs2005/gophblog/internal/server/auth"
	"github.com/dmitrijs2005/gophblog/internal/server/models"
	"github.com/dmitrijs2005/gophblog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server  *Server
	handler http.Handler
	issuer  *auth.TokenIssuer
	users   *services.UserService
	posts   *services.PostService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	m := repomanager.NewMemoryRepositoryManager()
	issuer, err := auth.NewTokenIssuer("test-secret", common.SessionTTL)
	require.NoError(t, err)
	us, err := services.NewUserService(m.Users(), issuer, bcrypt.MinCost)
	require.NoError(t, err)
	ps := services.NewPostService(m.Posts())

	srv := NewServer(us, ps, logging.Nop(), Options{SessionRenewalWindow: 84 * time.Hour})
	return &testEnv{server: srv, handler: srv.Router(), issuer: issuer, users: us, posts: ps}
}

// login registers name directly through the service and returns a token.
func (e *testEnv) login(t *testing.T, name string) (models.Identity, string) {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, name+"pw1")
	require.NoError(t, err)
	tok, _, err := e.users.IssueToken(u.Identity())
	require.NoError(t, err)
	return u.Identity(), tok
}

func (e *testEnv) writePost(t *testing.T, owner models.Identity, title string, tags ...string) *models.Post {
	t.Helper()
	p, err := e.posts.Write(context.Background(), owner, services.PostInput{Title: title, Body: "<p>" + title + "</p>", Tags: tags})
	require.NoError(t, err)
	return p
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == common.AccessTokenCookieName {
			return c
		}
	}
	t.Fatalf("response has no %s cookie", common.AccessTokenCookieName)
	return nil
}

func newTestContext() *gin.Context {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	return c
}

func servicesInput(body string) services.PostInput {
	return services.PostInput{Title: "t", Body: body, Tags: []string{}}
}
