package handlers

import (
	"errors"
	"log"
	"net/http"

	"learnhub/internal/apperr"
	"learnhub/internal/catalog"
	"learnhub/internal/domain"
	"learnhub/internal/i18n"
	"learnhub/internal/progress"
	"learnhub/internal/session"

	"github.com/gin-gonic/gin"
)

// respondError renders err in the shape every endpoint shares. extra is
// merged into the body.
func respondError(c *gin.Context, tr *i18n.Translator, err error, extra gin.H) {
	kind := apperr.KindOf(err)
	status := kind.HTTPStatus()
	switch {
	case errors.Is(err, catalog.ErrSuperseded):
		status = http.StatusConflict
	case errors.Is(err, catalog.ErrViewClosed):
		status = http.StatusGone
	}

	body := gin.H{
		"error":          string(kind),
		"message":        tr.ForError(err),
		"retryable":      apperr.Retryable(err),
		"reauthenticate": kind == apperr.KindAuth,
	}
	var appErr *apperr.Error
	if errors.As(err, &appErr) && len(appErr.Fields) > 0 {
		body["fields"] = appErr.Fields
	}
	for k, v := range extra {
		body[k] = v
	}

	// ошибки валидации - это ввод пользователя, не сбой
	if kind != apperr.KindValidation && kind != apperr.KindAuth {
		log.Printf("http: %s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(status, body)
}

func badBody(err error) error {
	return apperr.Validation("Malformed request body", map[string]string{"body": err.Error()})
}

type AuthHandler struct {
	sessions *session.Manager
	progress *progress.Aggregator
	tr       *i18n.Translator
}

func NewAuthHandler(sessions *session.Manager, agg *progress.Aggregator, tr *i18n.Translator) *AuthHandler {
	return &AuthHandler{sessions: sessions, progress: agg, tr: tr}
}

// POST /api/v1/session
func (h *AuthHandler) Login(c *gin.Context) {
	var creds domain.Credentials
	if err := c.ShouldBindJSON(&creds); err != nil {
		respondError(c, h.tr, badBody(err), nil)
		return
	}

	s, err := h.sessions.Authenticate(c.Request.Context(), creds)
	if err != nil {
		respondError(c, h.tr, err, nil)
		return
	}

	// дашборд подтягиваем сразу, но вход от него не зависит
	if _, err := h.progress.GetEnrollments(c.Request.Context()); err != nil {
		log.Printf("http: initial dashboard fetch failed: %v", err)
	}

	c.JSON(http.StatusOK, gin.H{"session": s})
}

// GET /api/v1/session
func (h *AuthHandler) Current(c *gin.Context) {
	s, ok := h.sessions.Current()
	if !ok {
		respondError(c, h.tr, apperr.ErrNoSession, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"session": s})
}

// DELETE /api/v1/session
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.SignOut(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// POST /api/v1/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, h.tr, badBody(err), nil)
		return
	}

	verify, err := h.sessions.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.tr, err, nil)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"verificationRequired": verify})
}
