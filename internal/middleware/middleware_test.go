package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/healthconnect-api/internal/domain/user"
	"github.com/BruksfildServices01/healthconnect-api/internal/httperr"
	"github.com/BruksfildServices01/healthconnect-api/internal/models"
	"github.com/BruksfildServices01/healthconnect-api/internal/session"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeSessions map[string]*models.User

func (f fakeSessions) Restore(_ context.Context, sid string) (*models.User, error) {
	if u, ok := f[sid]; ok {
		return u, nil
	}
	return nil, httperr.ErrBusiness(httperr.CodeUnauthenticated)
}

func issue(t *testing.T, tokens *session.Tokens, uid, sid, role string) string {
	t.Helper()
	tok, _, err := tokens.Issue(session.Claims{UserID: uid, SessionID: sid, Role: role}, time.Now())
	require.NoError(t, err)
	return tok
}

func TestAuthAndAdmin(t *testing.T) {
	tokens := session.NewTokens("secret", time.Hour)
	sessions := fakeSessions{
		"s-user":  {ID: "u1", Role: user.RoleUser},
		"s-admin": {ID: "a1", Role: user.RoleAdmin},
	}

	r := gin.New()
	r.GET("/me", AuthMiddleware(tokens, sessions), func(c *gin.Context) {
		c.String(http.StatusOK, CurrentUser(c).ID)
	})
	r.GET("/admin", AuthMiddleware(tokens, sessions), RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(path, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	userTok := issue(t, tokens, "u1", "s-user", user.RoleUser)
	adminTok := issue(t, tokens, "a1", "s-admin", user.RoleAdmin)

	w := do("/me", userTok)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "u1", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, do("/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", "garbage").Code)
	assert.Equal(t, http.StatusUnauthorized, do("/me", issue(t, tokens, "u1", "gone", user.RoleUser)).Code)

	// a token claiming admin does not help a user session
	forged := issue(t, tokens, "u1", "s-user", user.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, do("/admin", forged).Code)
	assert.Equal(t, http.StatusOK, do("/admin", adminTok).Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := session.NewTokens("secret", time.Hour)
	sessions := fakeSessions{"s1": {ID: "u1"}}

	r := gin.New()
	r.GET("/state", OptionalAuth(tokens, sessions), func(c *gin.Context) {
		if u := CurrentUser(c); u != nil {
			c.String(http.StatusOK, u.ID)
			return
		}
		c.String(http.StatusOK, "anonymous")
	})

	for token, want := range map[string]string{
		"":                                   "anonymous",
		"bad":                                "anonymous",
		issue(t, tokens, "u1", "s1", "user"): "u1",
	} {
		req := httptest.NewRequest(http.MethodGet, "/state", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, want, w.Body.String())
	}
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORSMiddleware([]string{"http://app.test"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://app.test")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://app.test", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.test")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestIdempotency(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	fail := true
	r := gin.New()
	r.POST("/book", Idempotency(rdb, time.Minute), func(c *gin.Context) {
		if fail {
			c.Status(http.StatusBadRequest)
			return
		}
		c.Status(http.StatusCreated)
	})

	post := func(key string) int {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		if key != "" {
			req.Header.Set(IdempotencyHeader, key)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	// failures release the key
	assert.Equal(t, http.StatusBadRequest, post("k1"))
	fail = false
	assert.Equal(t, http.StatusCreated, post("k1"))
	assert.Equal(t, http.StatusConflict, post("k1"))

	assert.Equal(t, http.StatusCreated, post(""))
	assert.Equal(t, http.StatusCreated, post(""))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusCreated, post("k1"))
}

type observed struct {
	route  string
	status int
}

type fakeObserver struct{ got []observed }

func (f *fakeObserver) ObserveHTTP(_, route string, status int, _ float64) {
	f.got = append(f.got, observed{route, status})
}

func TestLoggerRecoveryMetrics(t *testing.T) {
	obs := &fakeObserver{}

	r := gin.New()
	r.Use(RequestLogger(zerolog.Nop()), Recovery(zerolog.Nop()), Metrics(obs))
	r.GET("/items/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/items/7", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")

	require.NotEmpty(t, obs.got)
	assert.Equal(t, observed{"/items/:id", http.StatusOK}, obs.got[0])
}
