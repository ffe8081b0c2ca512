package progress

import (
	"context"
	"log"
	"sync"
	"time"

	"learnhub/internal/domain"
	"learnhub/internal/requestseq"
	"learnhub/internal/validation"

	"github.com/google/uuid"
)

const dashboardKey = "dashboard"

// maxEvents bounds the remembered progress events.
const maxEvents = 50

type Backend interface {
	GetDashboard(ctx context.Context, token string) ([]domain.EnrollmentRecord, error)
	CompleteLesson(ctx context.Context, token, eventID, courseID, lessonID string) error
}

type Sessions interface {
	Do(ctx context.Context, fn func(ctx context.Context, s domain.Session) error) error
	Generation() uint64
}

type Dashboard struct {
	Enrollments []domain.EnrollmentRecord `json:"enrollments"`
	Stats       domain.DashboardStats     `json:"stats"`
	FetchedAt   time.Time                 `json:"fetchedAt"`
}

type snapshot struct {
	records    []domain.EnrollmentRecord
	generation uint64
	fetchedAt  time.Time
}

// Aggregator owns the session's enrollment snapshot. The snapshot is only
// ever replaced by the most recently issued dashboard fetch, and only
// after the server has reported it.
type Aggregator struct {
	backend  Backend
	sessions Sessions
	guard    *requestseq.Guard
	now      func() time.Time

	mu     sync.RWMutex
	snap   *snapshot
	events []*domain.ProgressEvent
}

func NewAggregator(backend Backend, sessions Sessions) *Aggregator {
	return &Aggregator{
		backend:  backend,
		sessions: sessions,
		guard:    requestseq.NewGuard(),
		now:      time.Now,
	}
}

// GetEnrollments fetches the learner's enrollments in server order.
func (a *Aggregator) GetEnrollments(ctx context.Context) ([]domain.EnrollmentRecord, error) {
	ticket := a.guard.Begin(dashboardKey)

	var (
		records []domain.EnrollmentRecord
		gen     uint64
	)
	err := a.sessions.Do(ctx, func(ctx context.Context, s domain.Session) error {
		gen = a.sessions.Generation()
		raw, err := a.backend.GetDashboard(ctx, s.Credential)
		if err != nil {
			return err
		}
		records = normalize(raw)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	a.guard.Apply(ticket, func() {
		// Ответ, пришедший после смены сессии, к новой сессии не относится
		if a.sessions.Generation() != gen {
			return
		}
		a.mu.Lock()
		a.snap = &snapshot{records: records, generation: gen, fetchedAt: a.now().UTC()}
		a.mu.Unlock()
	})
	return cloneRecords(records), nil
}

// Dashboard fetches fresh enrollments, filters them by f and computes stats
// over the unfiltered list.
func (a *Aggregator) Dashboard(ctx context.Context, f domain.EnrollmentFilter) (Dashboard, error) {
	records, err := a.GetEnrollments(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	return Dashboard{
		Enrollments: Filter(records, f),
		Stats:       ComputeStats(records),
		FetchedAt:   a.now().UTC(),
	}, nil
}

// Snapshot returns the last applied enrollment list for the live session.
func (a *Aggregator) Snapshot() ([]domain.EnrollmentRecord, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.snap == nil || a.snap.generation != a.sessions.Generation() {
		return nil, false
	}
	return cloneRecords(a.snap.records), true
}

// Record looks up the snapshot entry for courseID.
func (a *Aggregator) Record(courseID string) (domain.EnrollmentRecord, bool) {
	records, ok := a.Snapshot()
	if !ok {
		return domain.EnrollmentRecord{}, false
	}
	for _, r := range records {
		if r.CourseID == courseID {
			return r, true
		}
	}
	return domain.EnrollmentRecord{}, false
}

// Records returns the snapshot, fetching it first if none is held.
func (a *Aggregator) Records(ctx context.Context) ([]domain.EnrollmentRecord, error) {
	if records, ok := a.Snapshot(); ok {
		return records, nil
	}
	return a.GetEnrollments(ctx)
}

// CompleteLesson reports a lesson watched to completion. The event stays
// pending until the server answers; only a confirmed event triggers a
// dashboard refresh. Local progress is never incremented.
func (a *Aggregator) CompleteLesson(ctx context.Context, courseID, lessonID string) (domain.ProgressEvent, error) {
	if err := validation.ID("courseId", courseID); err != nil {
		return domain.ProgressEvent{}, err
	}
	if err := validation.ID("lessonId", lessonID); err != nil {
		return domain.ProgressEvent{}, err
	}

	ev := &domain.ProgressEvent{
		ID:        uuid.NewString(),
		CourseID:  courseID,
		LessonID:  lessonID,
		State:     domain.EventPending,
		CreatedAt: a.now().UTC(),
	}
	a.remember(ev)

	err := a.sessions.Do(ctx, func(ctx context.Context, s domain.Session) error {
		return a.backend.CompleteLesson(ctx, s.Credential, ev.ID, courseID, lessonID)
	})
	if err != nil {
		a.settle(ev, domain.EventFailed, err)
		return a.event(ev), err
	}
	a.settle(ev, domain.EventConfirmed, nil)

	if _, err := a.GetEnrollments(ctx); err != nil {
		log.Printf("progress: refresh after lesson %s/%s failed: %v", courseID, lessonID, err)
	}
	return a.event(ev), nil
}

// Events lists recent progress events, newest last.
func (a *Aggregator) Events() []domain.ProgressEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]domain.ProgressEvent, 0, len(a.events))
	for _, ev := range a.events {
		out = append(out, *ev)
	}
	return out
}

// Purge drops everything derived from the previous session.
func (a *Aggregator) Purge() {
	a.guard.Reset()
	a.mu.Lock()
	defer a.mu.Unlock()
	a.snap = nil
	a.events = nil
}

func (a *Aggregator) remember(ev *domain.ProgressEvent) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	if len(a.events) > maxEvents {
		a.events = a.events[len(a.events)-maxEvents:]
	}
}

func (a *Aggregator) settle(ev *domain.ProgressEvent, state domain.EventState, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	ev.State = state
	ev.SettledAt = a.now().UTC()
	if err != nil {
		ev.Error = err.Error()
	}
}

func (a *Aggregator) event(ev *domain.ProgressEvent) domain.ProgressEvent {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return *ev
}

// normalize enforces record invariants and keeps only purchased courses.
func normalize(raw []domain.EnrollmentRecord) []domain.EnrollmentRecord {
	out := make([]domain.EnrollmentRecord, 0, len(raw))
	for _, r := range raw {
		if !r.Purchased {
			continue
		}
		out = append(out, r.Normalize())
	}
	return out
}

func cloneRecords(in []domain.EnrollmentRecord) []domain.EnrollmentRecord {
	out := make([]domain.EnrollmentRecord, len(in))
	for i, r := range in {
		r.CompletedLessonIDs = append([]string(nil), r.CompletedLessonIDs...)
		out[i] = r
	}
	return out
}
