package domain

import (
	"math"
	"strings"
	"time"
)

// EnrollmentRecord is the learner's state for one purchased course, as
// reported by the progress backend.
type EnrollmentRecord struct {
	CourseID            string    `json:"courseId"`
	Title               string    `json:"title"`
	CoverURL            string    `json:"coverUrl,omitempty"`
	Purchased           bool      `json:"purchased"`
	CompletedLessonIDs  []string  `json:"completedLessonIds"`
	TotalLessons        int       `json:"totalLessons"`
	ProgressPercent     int       `json:"progressPercent"`
	IsCompleted         bool      `json:"isCompleted"`
	LastWatchedLessonID string    `json:"lastWatchedLessonId,omitempty"`
	CertificateURL      string    `json:"certificateUrl,omitempty"`
	LastAccessedAt      time.Time `json:"lastAccessedAt,omitempty"`
}

// ProgressPercent is round(100*completed/total) clamped to [0,100]. An empty
// lesson list is progress 0.
func ProgressPercent(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	return ClampPercent(int(math.Round(100 * float64(completed) / float64(total))))
}

func ClampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// Normalize enforces the record invariants on a server-reported record:
// progress is recomputed from the completed set when the lesson total is
// known, clamped otherwise, and completion follows progress.
func (r EnrollmentRecord) Normalize() EnrollmentRecord {
	ids := make([]string, 0, len(r.CompletedLessonIDs))
	seen := make(map[string]struct{}, len(r.CompletedLessonIDs))
	for _, id := range r.CompletedLessonIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	r.CompletedLessonIDs = ids

	if r.TotalLessons > 0 {
		r.ProgressPercent = ProgressPercent(len(ids), r.TotalLessons)
	} else if r.TotalLessons < 0 {
		r.TotalLessons = 0
		r.ProgressPercent = 0
	} else {
		r.ProgressPercent = ClampPercent(r.ProgressPercent)
	}
	r.IsCompleted = r.ProgressPercent == 100
	return r
}

func (r EnrollmentRecord) HasCompletedLesson(lessonID string) bool {
	for _, id := range r.CompletedLessonIDs {
		if id == lessonID {
			return true
		}
	}
	return false
}

// Bucket classifies the record for dashboard counters.
func (r EnrollmentRecord) Bucket() EnrollmentStatus {
	switch {
	case r.IsCompleted:
		return StatusCompleted
	case r.ProgressPercent > 0:
		return StatusInProgress
	default:
		return StatusNotStarted
	}
}

type EnrollmentStatus string

const (
	StatusAll        EnrollmentStatus = "all"
	StatusInProgress EnrollmentStatus = "in-progress"
	StatusCompleted  EnrollmentStatus = "completed"
	StatusNotStarted EnrollmentStatus = "not-started"
)

func ParseEnrollmentStatus(s string) (EnrollmentStatus, bool) {
	switch EnrollmentStatus(strings.ToLower(strings.TrimSpace(s))) {
	case "", StatusAll:
		return StatusAll, true
	case StatusInProgress:
		return StatusInProgress, true
	case StatusCompleted:
		return StatusCompleted, true
	case StatusNotStarted:
		return StatusNotStarted, true
	}
	return "", false
}

// EnrollmentFilter composes the dashboard's search and status predicates.
type EnrollmentFilter struct {
	Search string
	Status EnrollmentStatus
}

func (f EnrollmentFilter) Match(r EnrollmentRecord) bool {
	if q := strings.TrimSpace(f.Search); q != "" {
		if !strings.Contains(strings.ToLower(r.Title), strings.ToLower(q)) {
			return false
		}
	}
	switch f.Status {
	case "", StatusAll:
		return true
	default:
		return r.Bucket() == f.Status
	}
}

// DashboardStats is derived from the enrollment list on every read.
type DashboardStats struct {
	TotalCourses      int `json:"totalCourses"`
	CompletedCourses  int `json:"completedCourses"`
	InProgressCourses int `json:"inProgressCourses"`
	NotStartedCourses int `json:"notStartedCourses"`
	AverageProgress   int `json:"averageProgress"`
}
