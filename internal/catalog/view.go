package catalog

import (
	"context"
	"errors"
	"sync"

	"learnhub/internal/domain"
	"learnhub/internal/requestseq"
)

// ErrSuperseded is returned to a navigation whose result was discarded
// because a newer navigation on the same view was issued after it.
var ErrSuperseded = errors.New("superseded by a newer request")

// ErrViewClosed is returned when the view was torn down before the response
// arrived.
var ErrViewClosed = errors.New("view closed")

// View is the course-detail slot of one screen. Only the most recently
// issued navigation may change what it displays.
type View struct {
	reader *Reader
	guard  *requestseq.Guard
	key    string

	mu        sync.RWMutex
	displayed *domain.Course
	stale     bool
	lastErr   error
	closed    bool
}

type ViewState struct {
	Course *domain.Course `json:"course,omitempty"`
	Stale  bool           `json:"stale"`
	Error  error          `json:"-"`
}

func (r *Reader) NewView(key string) *View {
	return &View{reader: r, guard: requestseq.NewGuard(), key: key}
}

// Show navigates the view to course id.
func (v *View) Show(ctx context.Context, id string) (ViewState, error) {
	v.mu.RLock()
	closed := v.closed
	v.mu.RUnlock()
	if closed {
		return ViewState{}, ErrViewClosed
	}

	ticket := v.guard.Begin(v.key)
	course, err := v.reader.GetCourse(ctx, id)
	if ctx.Err() != nil {
		return ViewState{}, ctx.Err()
	}

	var state ViewState
	applied := v.guard.Apply(ticket, func() {
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return
		}
		switch {
		case err == nil:
			v.displayed, v.stale, v.lastErr = &course, false, nil
		case course.ID != "":
			v.displayed, v.stale, v.lastErr = &course, true, err
		default:
			v.displayed, v.stale, v.lastErr = nil, false, err
		}
		state = v.stateLocked()
	})
	if !applied {
		v.mu.RLock()
		closed = v.closed
		v.mu.RUnlock()
		if closed {
			return ViewState{}, ErrViewClosed
		}
		return ViewState{}, ErrSuperseded
	}
	if state.Course == nil && state.Error == nil {
		return ViewState{}, ErrViewClosed
	}
	return state, err
}

func (v *View) State() ViewState {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.stateLocked()
}

// Close tears the view down; in-flight navigations stop applying.
func (v *View) Close() {
	v.guard.Cancel(v.key)
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
	v.displayed = nil
}

func (v *View) stateLocked() ViewState {
	if v.displayed == nil {
		return ViewState{Error: v.lastErr}
	}
	c := cloneCourse(*v.displayed)
	return ViewState{Course: &c, Stale: v.stale, Error: v.lastErr}
}
