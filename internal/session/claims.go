package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type tokenClaims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time
}

// readClaims peeks into a JWT bearer credential. The signature is not checked:
// the agent cannot verify it and only uses the claims to drop a credential
// that has already expired. Opaque tokens yield ok == false.
func readClaims(token string) (tokenClaims, bool) {
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return tokenClaims{}, false
	}
	mc, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return tokenClaims{}, false
	}

	var out tokenClaims
	if sub, err := mc.GetSubject(); err == nil {
		out.Subject = sub
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		out.ExpiresAt = exp.Time
	}
	if role, ok := mc["role"].(string); ok {
		out.Role = role
	}
	return out, true
}
