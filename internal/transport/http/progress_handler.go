package handlers

import (
	"net/http"

	"learnhub/internal/apperr"
	"learnhub/internal/certificate"
	"learnhub/internal/domain"
	"learnhub/internal/i18n"
	"learnhub/internal/progress"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progress *progress.Aggregator
	tr       *i18n.Translator
}

func NewProgressHandler(agg *progress.Aggregator, tr *i18n.Translator) *ProgressHandler {
	return &ProgressHandler{progress: agg, tr: tr}
}

// GET /api/v1/dashboard?search=&status=
func (h *ProgressHandler) Dashboard(c *gin.Context) {
	status, ok := domain.ParseEnrollmentStatus(c.Query("status"))
	if !ok {
		respondError(c, h.tr, apperr.Validation("Unknown status filter", map[string]string{"status": c.Query("status")}), nil)
		return
	}

	d, err := h.progress.Dashboard(c.Request.Context(), domain.EnrollmentFilter{
		Search: c.Query("search"),
		Status: status,
	})
	if err != nil {
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusOK, d)
}

// POST /api/v1/courses/:id/lessons/:lessonId/complete
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	ev, err := h.progress.CompleteLesson(c.Request.Context(), c.Param("id"), c.Param("lessonId"))
	if err != nil {
		var extra gin.H
		if ev.ID != "" {
			extra = gin.H{"event": ev}
		}
		respondError(c, h.tr, err, extra)
		return
	}

	rec, _ := h.progress.Record(ev.CourseID)
	c.JSON(http.StatusOK, gin.H{"event": ev, "enrollment": rec})
}

// GET /api/v1/certificates
func (h *ProgressHandler) Certificates(c *gin.Context) {
	records, err := h.progress.Records(c.Request.Context())
	if err != nil {
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"certificates": certificate.List(records)})
}
