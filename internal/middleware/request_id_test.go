package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func newTestEngine() *gin.Engine {
	return gin.New()
}

func TestRequestID(t *testing.T) {
	r := newTestEngine()
	r.Use(RequestID())
	r.GET("/p", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(HeaderRequestID, "abc-123")
	w := serve(r, req)
	if got := w.Header().Get(HeaderRequestID); got != "abc-123" {
		t.Errorf("echoed header = %q, want abc-123", got)
	}
	if w.Body.String() != "abc-123" {
		t.Errorf("context id = %q", w.Body.String())
	}

	w = serve(r, httptest.NewRequest(http.MethodGet, "/p", nil))
	if _, err := uuid.Parse(w.Header().Get(HeaderRequestID)); err != nil {
		t.Errorf("generated id %q is not a uuid", w.Header().Get(HeaderRequestID))
	}

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set(HeaderRequestID, strings.Repeat("x", 200))
	w = serve(r, req)
	if got := w.Header().Get(HeaderRequestID); len(got) > 128 {
		t.Errorf("oversized id was echoed: %d chars", len(got))
	}
}
