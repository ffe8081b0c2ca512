package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/i18n"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type staticSessions struct {
	s  domain.Session
	ok bool
}

func (f staticSessions) Current() (domain.Session, bool) { return f.s, f.ok }

func serve(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireSessionBlocksAnonymous(t *testing.T) {
	r := gin.New()
	called := false
	r.GET("/x", RequireSession(staticSessions{}, i18n.NewTranslator("ru")), func(c *gin.Context) { called = true })

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if called {
		t.Fatalf("handler must not run without a session")
	}
	if !strings.Contains(w.Body.String(), "Войдите, чтобы продолжить.") {
		t.Fatalf("expected localized sign-in message, got %s", w.Body.String())
	}
}

func TestRequireSessionExposesSession(t *testing.T) {
	r := gin.New()
	var got domain.Session
	r.GET("/x", RequireSession(staticSessions{s: domain.Session{SubjectID: "u1"}, ok: true}, i18n.NewTranslator("en")), func(c *gin.Context) {
		got, _ = SessionFrom(c)
	})

	w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusOK || got.SubjectID != "u1" {
		t.Fatalf("expected session u1, got %d %+v", w.Code, got)
	}
}

func TestNilRateLimiterPassesThrough(t *testing.T) {
	var rl *RateLimiter
	r := gin.New()
	r.GET("/x", rl.Limit("login", 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Code != http.StatusNoContent {
			t.Fatalf("request %d: expected 204, got %d", i, w.Code)
		}
	}
}

func TestRequestIDIsEchoedOrGenerated(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	if w := serve(r, req); w.Header().Get(RequestIDHeader) != "abc" {
		t.Fatalf("expected echoed id, got %q", w.Header().Get(RequestIDHeader))
	}
	if w := serve(r, httptest.NewRequest(http.MethodGet, "/x", nil)); w.Header().Get(RequestIDHeader) == "" {
		t.Fatalf("expected generated id")
	}
}
