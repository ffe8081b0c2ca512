package domain

import "time"

type EventState string

const (
	EventPending   EventState = "pending"
	EventConfirmed EventState = "confirmed"
	EventFailed    EventState = "failed"
)

// ProgressEvent tracks one "lesson watched to completion" report from
// submission until the server acknowledges or rejects it.
type ProgressEvent struct {
	ID        string     `json:"id"`
	CourseID  string     `json:"courseId"`
	LessonID  string     `json:"lessonId"`
	State     EventState `json:"state"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	SettledAt time.Time  `json:"settledAt,omitempty"`
}
