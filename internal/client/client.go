package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"learnhub/internal/apperr"
	"learnhub/internal/domain"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// PlatformClient talks to the course platform's REST API. Every response is
// normalized here; callers only ever see canonical domain shapes or
// apperr-classified errors.
type PlatformClient struct {
	http *resty.Client
}

func NewPlatformClient(baseURL string, timeout time.Duration) *PlatformClient {
	c := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")
	return &PlatformClient{http: c}
}

type LoginResult struct {
	Token string
	User  User
}

type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// POST /login
func (c *PlatformClient) Login(ctx context.Context, creds domain.Credentials) (LoginResult, error) {
	resp, err := c.request(ctx, "").SetBody(creds).Post("/login")
	if err := classify(ctx, resp, err); err != nil {
		return LoginResult{}, err
	}

	var payload struct {
		Token       string `json:"token"`
		AccessToken string `json:"access_token"`
		User        User   `json:"user"`
	}
	if err := decodeObject(resp.Body(), &payload); err != nil {
		return LoginResult{}, err
	}
	token := payload.Token
	if token == "" {
		token = payload.AccessToken
	}
	if token == "" {
		return LoginResult{}, apperr.Shape("login response has no token", nil)
	}
	return LoginResult{Token: token, User: payload.User}, nil
}

// POST /register
func (c *PlatformClient) Register(ctx context.Context, reg domain.Registration) (bool, error) {
	resp, err := c.request(ctx, "").SetBody(reg).Post("/register")
	if err := classify(ctx, resp, err); err != nil {
		return false, err
	}
	var payload struct {
		VerificationRequired bool `json:"verificationRequired"`
	}
	if err := decodeObject(resp.Body(), &payload); err != nil {
		return false, err
	}
	return payload.VerificationRequired, nil
}

// POST /logout, best effort: the local session is dropped regardless.
func (c *PlatformClient) Logout(ctx context.Context, token string) error {
	resp, err := c.request(ctx, token).Post("/logout")
	return classify(ctx, resp, err)
}

// GET /courses/:id
func (c *PlatformClient) GetCourse(ctx context.Context, token, id string) (domain.Course, error) {
	resp, err := c.request(ctx, token).SetPathParam("id", id).Get("/courses/{id}")
	if err := classify(ctx, resp, err); err != nil {
		return domain.Course{}, err
	}
	var course domain.Course
	if err := decodeEnvelope(resp.Body(), "course", &course); err != nil {
		return domain.Course{}, err
	}
	if course.ID == "" {
		return domain.Course{}, apperr.Shape("course payload has no id", nil)
	}
	return canonicalCourse(course), nil
}

// GET /courses
func (c *PlatformClient) ListCourses(ctx context.Context, token string) ([]domain.Course, error) {
	resp, err := c.request(ctx, token).Get("/courses")
	if err := classify(ctx, resp, err); err != nil {
		return nil, err
	}
	var courses []domain.Course
	if err := decodeEnvelope(resp.Body(), "courses", &courses); err != nil {
		return nil, err
	}
	out := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		if course.ID == "" {
			return nil, apperr.Shape("course list entry has no id", nil)
		}
		out = append(out, canonicalCourse(course))
	}
	return out, nil
}

// GET /progress/dashboard
func (c *PlatformClient) GetDashboard(ctx context.Context, token string) ([]domain.EnrollmentRecord, error) {
	resp, err := c.request(ctx, token).Get("/progress/dashboard")
	if err := classify(ctx, resp, err); err != nil {
		return nil, err
	}
	var wire []enrollmentWire
	if err := decodeEnvelope(resp.Body(), "courses", &wire); err != nil {
		return nil, err
	}
	records := make([]domain.EnrollmentRecord, 0, len(wire))
	for _, w := range wire {
		if w.CourseID == "" {
			return nil, apperr.Shape("enrollment record has no courseId", nil)
		}
		r := w.EnrollmentRecord
		// Дашборд отдает только купленные курсы, явный false встречается редко
		r.Purchased = w.Purchased == nil || *w.Purchased
		records = append(records, r)
	}
	return records, nil
}

type enrollmentWire struct {
	domain.EnrollmentRecord
	Purchased *bool `json:"purchased"`
}

// POST /progress/lessons/:lessonId/complete
func (c *PlatformClient) CompleteLesson(ctx context.Context, token, eventID, courseID, lessonID string) error {
	resp, err := c.request(ctx, token).
		SetHeader("Idempotency-Key", eventID).
		SetPathParam("lessonId", lessonID).
		SetBody(map[string]string{"courseId": courseID}).
		Post("/progress/lessons/{lessonId}/complete")
	return classify(ctx, resp, err)
}

func (c *PlatformClient) request(ctx context.Context, token string) *resty.Request {
	r := c.http.R().
		SetContext(ctx).
		SetHeader("X-Request-ID", uuid.NewString())
	if token != "" {
		r.SetAuthToken(token)
	}
	return r
}

func canonicalCourse(c domain.Course) domain.Course {
	for i := range c.Lessons {
		c.Lessons[i].CourseID = c.ID
		c.Lessons[i].Position = i
	}
	c.FetchedAt = time.Now().UTC()
	return c
}

// classify maps a transport result onto the error taxonomy.
func classify(ctx context.Context, resp *resty.Response, err error) error {
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return apperr.Network("platform unreachable", err)
	}
	code := resp.StatusCode()
	if code >= 200 && code < 300 {
		return nil
	}
	msg := serverMessage(resp.Body())
	remote := msg != ""
	if !remote {
		msg = http.StatusText(code)
	}
	var e *apperr.Error
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		e = apperr.Auth(msg, code)
	case code == http.StatusNotFound:
		e = apperr.NotFound(msg)
	case code == http.StatusBadRequest || code == http.StatusUnprocessableEntity || code == http.StatusConflict:
		e = apperr.Validation(msg, nil)
	default:
		e = apperr.Network(msg, fmt.Errorf("platform responded %d", code))
	}
	e.Status = code
	e.Remote = remote
	return e
}

func serverMessage(body []byte) string {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return strings.TrimSpace(string(body))
	}
	if payload.Message != "" {
		return payload.Message
	}
	return payload.Error
}
