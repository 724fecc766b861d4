package identity

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func newProbe() (*gin.Engine, *Identity) {
	gin.SetMode(gin.TestMode)
	var seen Identity
	r := gin.New()
	r.GET("/probe", Middleware(), func(c *gin.Context) {
		id, ok := FromContext(c)
		if !ok {
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		seen = id
		c.Status(http.StatusOK)
	})
	return r, &seen
}

func TestMiddlewarePassesIdentityThrough(t *testing.T) {
	r, seen := newProbe()

	req := httptest.NewRequest(http.MethodGet, "/probe", nil)
	req.Header.Set("X-User-ID", "7b0d1b3e-0000-0000-0000-000000000001")
	req.Header.Set("X-Username", "alice")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if seen.Username != "alice" {
		t.Fatalf("expected username alice, got %q", seen.Username)
	}
}

func TestMiddlewareRejectsMissingIdentity(t *testing.T) {
	r, _ := newProbe()

	cases := map[string]http.Header{
		"no headers":  {},
		"no username": {"X-User-Id": []string{"u1"}},
		"no user id":  {"X-Username": []string{"alice"}},
	}
	for name, hdr := range cases {
		req := httptest.NewRequest(http.MethodGet, "/probe", nil)
		req.Header = hdr
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
		if w.Body.Len() != 0 {
			t.Fatalf("%s: expected empty body on reject, got %q", name, w.Body.String())
		}
	}
}
