package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Sohammathur/Chat-Application--AI/internal/auth"
	"github.com/Sohammathur/Chat-Application--AI/internal/logging"
	"github.com/Sohammathur/Chat-Application--AI/internal/users"
)

type fakeDirectory struct {
	users map[string]users.User
	err   error
}

func (d *fakeDirectory) Get(_ context.Context, id string) (*users.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	u, ok := d.users[id]
	if !ok {
		return nil, users.ErrUserNotFound
	}
	return &u, nil
}

func (d *fakeDirectory) ListExcept(_ context.Context, id string) ([]users.User, error) {
	if d.err != nil {
		return nil, d.err
	}
	out := []users.User{}
	for _, u := range d.users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeRevoker struct {
	disabled bool
	token    string
	exp      time.Time
	err      error
}

func (r *fakeRevoker) Enabled() bool { return !r.disabled }

func (r *fakeRevoker) Revoke(_ context.Context, token string, exp time.Time) error {
	r.token, r.exp = token, exp
	return r.err
}

func setupRouter(dir Directory, rev Revoker, userID string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/users", func(c *gin.Context) {
		if userID != "" {
			c.Set(auth.CtxUserID, userID)
			c.Set(auth.CtxEmail, userID+"@example.com")
			c.Set(auth.CtxToken, "tok-"+userID)
		}
		c.Next()
	})
	New(dir, rev).Register(g)
	return r
}

func do(r *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestGetProfile(t *testing.T) {
	dir := &fakeDirectory{users: map[string]users.User{"a": {ID: "a", Email: "stored@example.com"}}}

	t.Run("stored user", func(t *testing.T) {
		w := do(setupRouter(dir, nil, "a"), "/users/profile")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct{ User users.User }
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "stored@example.com", body.User.Email)
	})

	t.Run("unknown user falls back to token", func(t *testing.T) {
		w := do(setupRouter(dir, nil, "new"), "/users/profile")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"email":"new@example.com"`)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		w := do(setupRouter(dir, nil, ""), "/users/profile")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("store error", func(t *testing.T) {
		w := do(setupRouter(&fakeDirectory{err: errors.New("down")}, nil, "a"), "/users/profile")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"Internal server error"}`, w.Body.String())
	})
}

func TestListUsers(t *testing.T) {
	dir := &fakeDirectory{users: map[string]users.User{
		"a": {ID: "a", Email: "a@example.com"},
		"b": {ID: "b", Email: "b@example.com"},
	}}

	w := do(setupRouter(dir, nil, "a"), "/users/all")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct{ Users []users.User }
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Users, 1)
	assert.Equal(t, "b", body.Users[0].ID)

	w = do(setupRouter(&fakeDirectory{err: errors.New("down")}, nil, "a"), "/users/all")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestLogout(t *testing.T) {
	t.Run("revokes token", func(t *testing.T) {
		rev := &fakeRevoker{}
		w := do(setupRouter(&fakeDirectory{}, rev, "a"), "/users/logout")

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "tok-a", rev.token)
		assert.Contains(t, w.Header().Get("Set-Cookie"), "token=;")
		assert.JSONEq(t, `{"message":"Logged out successfully","tokenRevoked":true}`, w.Body.String())
	})

	t.Run("revocation disabled is reported and logged", func(t *testing.T) {
		core, logs := observer.New(zap.WarnLevel)
		rev := &fakeRevoker{disabled: true}
		r := setupRouter(&fakeDirectory{}, rev, "a")

		req := httptest.NewRequest(http.MethodGet, "/users/logout", nil)
		req = req.WithContext(logging.WithContext(req.Context(), zap.New(core)))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, rev.token)
		assert.JSONEq(t, `{"message":"Logged out successfully","tokenRevoked":false}`, w.Body.String())
		assert.Equal(t, 1, logs.FilterMessageSnippet("token remains valid").Len())
	})

	t.Run("nil revoker", func(t *testing.T) {
		w := do(setupRouter(&fakeDirectory{}, nil, "a"), "/users/logout")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"tokenRevoked":false`)
	})

	t.Run("revocation failure", func(t *testing.T) {
		rev := &fakeRevoker{err: errors.New("redis down")}
		w := do(setupRouter(&fakeDirectory{}, rev, "a"), "/users/logout")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
