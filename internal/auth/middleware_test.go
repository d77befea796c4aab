package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"recgames/backend/pkg/jwt"

	"github.com/gin-gonic/gin"
)

const testSecret = "test-secret"

type fakeRoles map[uint]bool

func (f fakeRoles) IsAdmin(_ context.Context, userID uint) (bool, error) {
	admin, ok := f[userID]
	if !ok {
		return false, errors.New("no such user")
	}
	return admin, nil
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.String(http.StatusOK, strconv.FormatUint(uint64(UserID(c)), 10))
	})
	r.GET("/", handlers...)
	return r
}

func do(r http.Handler, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func token(t *testing.T, userID uint) string {
	t.Helper()
	s, err := jwt.GenerateToken(userID, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return s
}

func TestAuthMiddleware(t *testing.T) {
	r := newRouter(AuthMiddleware(testSecret))

	if w := do(r, ""); w.Code != http.StatusUnauthorized {
		t.Errorf("missing token: status %d", w.Code)
	}
	if w := do(r, "garbage"); w.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status %d", w.Code)
	}
	w := do(r, token(t, 5))
	if w.Code != http.StatusOK || w.Body.String() != "5" {
		t.Errorf("valid token: status %d body %q", w.Code, w.Body.String())
	}
}

func TestOptionalAuthMiddleware(t *testing.T) {
	r := newRouter(OptionalAuthMiddleware(testSecret))

	for tok, want := range map[string]string{"": "0", "garbage": "0", token(t, 9): "9"} {
		w := do(r, tok)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Errorf("token %q: status %d body %q, want %s", tok, w.Code, w.Body.String(), want)
		}
	}
}

func TestAdminMiddleware(t *testing.T) {
	roles := fakeRoles{1: true, 2: false}
	r := newRouter(AuthMiddleware(testSecret), AdminMiddleware(roles))

	cases := []struct {
		user uint
		want int
	}{
		{user: 1, want: http.StatusOK},
		{user: 2, want: http.StatusForbidden},
		{user: 3, want: http.StatusNotFound},
	}
	for _, tc := range cases {
		if w := do(r, token(t, tc.user)); w.Code != tc.want {
			t.Errorf("user %d: status %d, want %d", tc.user, w.Code, tc.want)
		}
	}
}
