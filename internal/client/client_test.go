package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"learnhub/internal/apperr"
	"learnhub/internal/domain"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *PlatformClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewPlatformClient(srv.URL, 2*time.Second)
}

func TestLoginReturnsTokenAndUser(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/login" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var creds domain.Credentials
		_ = json.NewDecoder(r.Body).Decode(&creds)
		if creds.Email != "ana@example.com" {
			t.Fatalf("expected email in body, got %q", creds.Email)
		}
		w.Write([]byte(`{"token":"tok-1","user":{"id":"u1","email":"ana@example.com","role":"learner"}}`))
	})

	res, err := c.Login(context.Background(), domain.Credentials{Email: "ana@example.com", Password: "secret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Token != "tok-1" || res.User.ID != "u1" {
		t.Fatalf("unexpected login result %+v", res)
	}
}

func TestPrivilegedCallsSendBearerToken(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-1" {
			t.Fatalf("expected bearer header, got %q", got)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Fatalf("expected request id header")
		}
		w.Write([]byte(`[]`))
	})
	if _, err := c.GetDashboard(context.Background(), "tok-1"); err != nil {
		t.Fatalf("dashboard: %v", err)
	}
}

func TestCourseEnvelopesNormalizeToOneShape(t *testing.T) {
	bodies := []string{
		`[{"id":"c1","title":"Go"}]`,
		`{"data":[{"id":"c1","title":"Go"}]}`,
		`{"data":{"courses":[{"id":"c1","title":"Go"}],"total":1}}`,
		`{"courses":[{"id":"c1","title":"Go"}]}`,
	}
	for _, body := range bodies {
		body := body
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(body))
		})
		courses, err := c.ListCourses(context.Background(), "")
		if err != nil {
			t.Fatalf("body %s: %v", body, err)
		}
		if len(courses) != 1 || courses[0].ID != "c1" {
			t.Fatalf("body %s: unexpected courses %+v", body, courses)
		}
	}
}

func TestShapeMismatchIsRejected(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"items":"nope"}}`))
	})
	_, err := c.ListCourses(context.Background(), "")
	if apperr.KindOf(err) != apperr.KindShape {
		t.Fatalf("expected shape error, got %v", err)
	}
}

func TestEmptySuccessBodyIsShapeError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	_, err := c.GetDashboard(context.Background(), "tok")
	if apperr.KindOf(err) != apperr.KindShape || !errors.Is(err, errEmptyBody) {
		t.Fatalf("expected shape error wrapping errEmptyBody, got %v", err)
	}
}

func TestGetCourseAssignsLessonOrder(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/courses/c1" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		w.Write([]byte(`{"data":{"id":"c1","title":"Go","lessons":[{"id":"l1","durationSeconds":60},{"id":"l2","durationSeconds":90}]}}`))
	})
	course, err := c.GetCourse(context.Background(), "tok", "c1")
	if err != nil {
		t.Fatalf("get course: %v", err)
	}
	if course.Lessons[1].Position != 1 || course.Lessons[1].CourseID != "c1" {
		t.Fatalf("expected lesson order to be recorded, got %+v", course.Lessons[1])
	}
	if course.TotalDurationSeconds() != 150 {
		t.Fatalf("expected 150s, got %d", course.TotalDurationSeconds())
	}
}

func TestStatusClassification(t *testing.T) {
	cases := []struct {
		status int
		kind   apperr.Kind
	}{
		{http.StatusUnauthorized, apperr.KindAuth},
		{http.StatusForbidden, apperr.KindAuth},
		{http.StatusNotFound, apperr.KindNotFound},
		{http.StatusBadRequest, apperr.KindValidation},
		{http.StatusBadGateway, apperr.KindNetwork},
	}
	for _, tc := range cases {
		tc := tc
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tc.status)
			w.Write([]byte(`{"error":"server says no"}`))
		})
		_, err := c.GetCourse(context.Background(), "tok", "c1")
		if apperr.KindOf(err) != tc.kind {
			t.Fatalf("status %d: expected %s, got %v", tc.status, tc.kind, err)
		}
		if err.Error() != "server says no" {
			t.Fatalf("status %d: expected raw server message, got %q", tc.status, err.Error())
		}
		var appErr *apperr.Error
		if !errors.As(err, &appErr) || !appErr.Remote || appErr.Status != tc.status {
			t.Fatalf("status %d: expected remote error carrying the status, got %+v", tc.status, appErr)
		}
	}
}

func TestEmptyErrorBodyIsNotRemote(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})
	_, err := c.GetCourse(context.Background(), "tok", "c1")
	var appErr *apperr.Error
	if !errors.As(err, &appErr) || appErr.Remote {
		t.Fatalf("status text fallback must not be marked remote, got %+v", appErr)
	}
	if appErr.Message != http.StatusText(http.StatusServiceUnavailable) {
		t.Fatalf("unexpected message %q", appErr.Message)
	}
}

func TestCancelledContextIsNotANetworkError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`[]`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.GetDashboard(ctx, "tok")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRegisterReportsVerification(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"verificationRequired":true}`))
	})
	required, err := c.Register(context.Background(), domain.Registration{Email: "a@b.co", Username: "ana", Password: "secret1"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if !required {
		t.Fatalf("expected verification to be required")
	}
}
