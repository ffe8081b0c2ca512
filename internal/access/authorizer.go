// Package access decides which purchase-gated actions the UI should offer.
// Its answers are advisory: the platform re-checks every privileged call.
package access

import (
	"context"

	"learnhub/internal/domain"
)

type Enrollments interface {
	Record(courseID string) (domain.EnrollmentRecord, bool)
}

type Courses interface {
	Cached(ctx context.Context, id string) (domain.Course, bool)
}

type Authorizer struct {
	enrollments Enrollments
	courses     Courses
}

func NewAuthorizer(enrollments Enrollments, courses Courses) *Authorizer {
	return &Authorizer{enrollments: enrollments, courses: courses}
}

type Decision struct {
	CourseID           string             `json:"courseId"`
	State              domain.AccessState `json:"state"`
	CanViewLesson      bool               `json:"canViewLesson"`
	CanJoinCommunity   bool               `json:"canJoinCommunity"`
	CanViewCertificate bool               `json:"canViewCertificate"`
	CommunityURL       string             `json:"communityUrl,omitempty"`
	NextLessonID       string             `json:"nextLessonId,omitempty"`
}

func (a *Authorizer) record(s *domain.Session, courseID string) (*domain.EnrollmentRecord, bool) {
	if s == nil || courseID == "" {
		return nil, false
	}
	rec, ok := a.enrollments.Record(courseID)
	if !ok || !rec.Purchased {
		return nil, false
	}
	return &rec, true
}

// CanViewLesson requires a purchase and, when the course is cached, that the
// lesson belongs to it.
func (a *Authorizer) CanViewLesson(ctx context.Context, s *domain.Session, courseID, lessonID string) bool {
	if _, ok := a.record(s, courseID); !ok || lessonID == "" {
		return false
	}
	if course, ok := a.courses.Cached(ctx, courseID); ok {
		return course.HasLesson(lessonID)
	}
	return true
}

func (a *Authorizer) CanJoinCommunity(s *domain.Session, courseID string) bool {
	_, ok := a.record(s, courseID)
	return ok
}

func (a *Authorizer) CanViewCertificate(s *domain.Session, courseID string) bool {
	rec, ok := a.record(s, courseID)
	return ok && rec.IsCompleted
}

// Evaluate gathers every gate for one course. lessonID may be empty, in which
// case the lesson gate is checked against the learner's next lesson.
func (a *Authorizer) Evaluate(ctx context.Context, s *domain.Session, courseID, lessonID string) Decision {
	d := Decision{CourseID: courseID, State: domain.AccessLocked}
	rec, ok := a.record(s, courseID)
	if !ok {
		return d
	}
	d.State = StateOf(rec)

	course, cached := a.courses.Cached(ctx, courseID)
	if cached {
		if next, found := course.NextLesson(rec.LastWatchedLessonID); found {
			d.NextLessonID = next.ID
		}
	}
	if lessonID == "" {
		lessonID = d.NextLessonID
	}

	d.CanViewLesson = a.CanViewLesson(ctx, s, courseID, lessonID)
	d.CanJoinCommunity = true
	d.CanViewCertificate = rec.IsCompleted
	if cached {
		d.CommunityURL = course.CommunityURL
	}
	return d
}
