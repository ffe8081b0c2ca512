package middleware

import (
	"net/http"

	"learnhub/internal/apperr"
	"learnhub/internal/domain"
	"learnhub/internal/i18n"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

type SessionSource interface {
	Current() (domain.Session, bool)
}

// RequireSession rejects the request before any handler runs when no
// session is active.
func RequireSession(sessions SessionSource, tr *i18n.Translator) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := sessions.Current()
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":          string(apperr.KindAuth),
				"message":        tr.ForError(apperr.ErrNoSession),
				"retryable":      false,
				"reauthenticate": true,
			})
			return
		}
		c.Set(sessionKey, s)
		c.Next()
	}
}

// SessionFrom returns the session stored by RequireSession.
func SessionFrom(c *gin.Context) (domain.Session, bool) {
	v, ok := c.Get(sessionKey)
	if !ok {
		return domain.Session{}, false
	}
	s, ok := v.(domain.Session)
	return s, ok
}
