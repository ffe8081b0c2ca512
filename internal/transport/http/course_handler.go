package handlers

import (
	"net/http"
	"sync"

	"learnhub/internal/access"
	"learnhub/internal/catalog"
	"learnhub/internal/domain"
	"learnhub/internal/i18n"
	"learnhub/internal/progress"
	"learnhub/internal/session"

	"github.com/gin-gonic/gin"
)

type CourseHandler struct {
	reader     *catalog.Reader
	sessions   *session.Manager
	progress   *progress.Aggregator
	authorizer *access.Authorizer
	tr         *i18n.Translator

	mu    sync.Mutex
	views map[string]*catalog.View
}

func NewCourseHandler(r *catalog.Reader, s *session.Manager, agg *progress.Aggregator, az *access.Authorizer, tr *i18n.Translator) *CourseHandler {
	return &CourseHandler{
		reader:     r,
		sessions:   s,
		progress:   agg,
		authorizer: az,
		tr:         tr,
		views:      make(map[string]*catalog.View),
	}
}

// GET /api/v1/courses
func (h *CourseHandler) List(c *gin.Context) {
	courses, err := h.reader.ListCourses(c.Request.Context())
	if err != nil {
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"courses": courses})
}

// GET /api/v1/courses/:id
func (h *CourseHandler) GetOne(c *gin.Context) {
	course, err := h.reader.GetCourse(c.Request.Context(), c.Param("id"))
	if err != nil {
		if course.ID != "" {
			// обновить не вышло, отдаем кэш с пометкой
			c.JSON(http.StatusOK, gin.H{
				"course":  course,
				"stale":   true,
				"message": h.tr.ForError(err),
			})
			return
		}
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"course": course, "stale": false})
}

// GET /api/v1/courses/:id/access?lesson=
func (h *CourseHandler) Access(c *gin.Context) {
	var current *domain.Session
	if s, ok := h.sessions.Current(); ok {
		if _, err := h.progress.Records(c.Request.Context()); err != nil {
			respondError(c, h.tr, err, nil)
			return
		}
		current = &s
	}
	d := h.authorizer.Evaluate(c.Request.Context(), current, c.Param("id"), c.Query("lesson"))
	c.JSON(http.StatusOK, d)
}

// PUT /api/v1/views/:view/course/:id
func (h *CourseHandler) ShowInView(c *gin.Context) {
	name := c.Param("view")
	h.mu.Lock()
	v, ok := h.views[name]
	if !ok {
		v = h.reader.NewView(name)
		h.views[name] = v
	}
	h.mu.Unlock()

	state, err := v.Show(c.Request.Context(), c.Param("id"))
	if err != nil {
		if state.Course != nil {
			c.JSON(http.StatusOK, gin.H{"course": state.Course, "stale": true, "message": h.tr.ForError(err)})
			return
		}
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusOK, state)
}

// GET /api/v1/views/:view
func (h *CourseHandler) ViewState(c *gin.Context) {
	h.mu.Lock()
	v, ok := h.views[c.Param("view")]
	h.mu.Unlock()
	if !ok {
		c.JSON(http.StatusOK, catalog.ViewState{})
		return
	}
	c.JSON(http.StatusOK, v.State())
}

// DELETE /api/v1/views/:view
func (h *CourseHandler) CloseView(c *gin.Context) {
	h.mu.Lock()
	v, ok := h.views[c.Param("view")]
	delete(h.views, c.Param("view"))
	h.mu.Unlock()
	if ok {
		v.Close()
	}
	c.Status(http.StatusNoContent)
}

// CloseViews tears down every open view; in-flight navigations are dropped.
func (h *CourseHandler) CloseViews() {
	h.mu.Lock()
	views := h.views
	h.views = make(map[string]*catalog.View)
	h.mu.Unlock()
	for _, v := range views {
		v.Close()
	}
}
