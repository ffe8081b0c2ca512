package domain

import "time"

type Role string

const (
	RoleLearner Role = "learner"
	RoleAdmin   Role = "admin"
)

func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleLearner
}

// Session is the authenticated identity of the agent process.
type Session struct {
	SubjectID  string    `json:"subjectId"`
	Email      string    `json:"email"`
	Username   string    `json:"username,omitempty"`
	Role       Role      `json:"role"`
	Credential string    `json:"-"`
	ExpiresAt  time.Time `json:"expiresAt,omitempty"`
	IssuedAt   time.Time `json:"issuedAt"`
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,max=32"`
	Password string `json:"password" validate:"required,min=6"`
}
