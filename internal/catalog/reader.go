package catalog

import (
	"context"
	"log"

	"learnhub/internal/domain"
	"learnhub/internal/requestseq"
	"learnhub/internal/validation"
)

type Fetcher interface {
	GetCourse(ctx context.Context, token, id string) (domain.Course, error)
	ListCourses(ctx context.Context, token string) ([]domain.Course, error)
}

type Sessions interface {
	Current() (domain.Session, bool)
	Do(ctx context.Context, fn func(ctx context.Context, s domain.Session) error) error
}

// Reader is the read-through course catalog. A successful fetch replaces the
// cached course wholesale; a failed one leaves the cache as it was.
type Reader struct {
	fetcher  Fetcher
	store    Store
	sessions Sessions
	guard    *requestseq.Guard
}

func NewReader(fetcher Fetcher, store Store, sessions Sessions) *Reader {
	return &Reader{
		fetcher:  fetcher,
		store:    store,
		sessions: sessions,
		guard:    requestseq.NewGuard(),
	}
}

func courseKey(id string) string { return "course:" + id }

// GetCourse fetches id and refreshes the cache. When the fetch fails and a
// cached copy exists, that copy is returned together with the error so the
// caller can show stale data with a retry affordance.
func (r *Reader) GetCourse(ctx context.Context, id string) (domain.Course, error) {
	if err := validation.ID("courseId", id); err != nil {
		return domain.Course{}, err
	}
	ticket := r.guard.Begin(courseKey(id))

	var fetched domain.Course
	err := r.withToken(ctx, func(ctx context.Context, token string) error {
		c, err := r.fetcher.GetCourse(ctx, token, id)
		fetched = c
		return err
	})
	if err != nil {
		cached, ok := r.Cached(ctx, id)
		if ok {
			return cached, err
		}
		return domain.Course{}, err
	}
	if ctx.Err() != nil {
		return domain.Course{}, ctx.Err()
	}

	r.guard.Apply(ticket, func() {
		r.put(ctx, fetched)
	})
	return fetched, nil
}

// ListCourses fetches the whole catalog and refreshes every entry not
// requested individually since the list was issued.
func (r *Reader) ListCourses(ctx context.Context) ([]domain.Course, error) {
	ticket := r.guard.Begin("courses")

	var courses []domain.Course
	err := r.withToken(ctx, func(ctx context.Context, token string) error {
		list, err := r.fetcher.ListCourses(ctx, token)
		courses = list
		return err
	})
	if err != nil {
		return nil, err
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, c := range courses {
		c := c
		r.guard.ApplySince(ticket, courseKey(c.ID), func() {
			r.put(ctx, c)
		})
	}
	return courses, nil
}

// Cached returns the last stored copy without touching the network.
func (r *Reader) Cached(ctx context.Context, id string) (domain.Course, bool) {
	c, ok, err := r.store.Get(ctx, id)
	if err != nil {
		log.Printf("catalog: cache read for %s failed: %v", id, err)
		return domain.Course{}, false
	}
	return c, ok
}

// Refresh re-reads the catalog list for the background scheduler.
func (r *Reader) Refresh(ctx context.Context) error {
	_, err := r.ListCourses(ctx)
	return err
}

func (r *Reader) Purge(ctx context.Context) {
	r.guard.Reset()
	if err := r.store.Purge(ctx); err != nil {
		log.Printf("catalog: purge failed: %v", err)
	}
}

func (r *Reader) put(ctx context.Context, c domain.Course) {
	if err := r.store.Put(ctx, c); err != nil {
		log.Printf("catalog: cache write for %s failed: %v", c.ID, err)
	}
}

// withToken runs fn with the session credential when one exists, so an
// auth failure still ends the session. Without a session the catalog is
// read anonymously.
func (r *Reader) withToken(ctx context.Context, fn func(ctx context.Context, token string) error) error {
	if _, ok := r.sessions.Current(); !ok {
		return fn(ctx, "")
	}
	return r.sessions.Do(ctx, func(ctx context.Context, s domain.Session) error {
		return fn(ctx, s.Credential)
	})
}
