// Package requestseq orders async results by issue order per logical key.
// A result may be applied only while its ticket is the latest one issued for
// its key; late arrivals for superseded requests are dropped.
package requestseq

import "sync"

type Ticket struct {
	Key string
	Seq uint64
}

type Guard struct {
	mu     sync.Mutex
	latest map[string]uint64
	next   uint64
}

func NewGuard() *Guard {
	return &Guard{latest: make(map[string]uint64)}
}

// Begin issues a ticket for key, superseding every earlier ticket for it.
func (g *Guard) Begin(key string) Ticket {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.latest[key] = g.next
	return Ticket{Key: key, Seq: g.next}
}

func (g *Guard) Current(t Ticket) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.latest[t.Key] == t.Seq
}

// Apply runs fn under the guard's lock only if t is still current, so no
// newer ticket can be issued and applied in between.
func (g *Guard) Apply(t Ticket, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest[t.Key] != t.Seq {
		return false
	}
	fn()
	return true
}

// ApplySince runs fn for key if t is still current for its own key and no
// ticket for key was issued after t. It lets a broad request (a list) fill
// entries without clobbering a newer list or a narrower request issued later.
func (g *Guard) ApplySince(t Ticket, key string, fn func()) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.latest[t.Key] != t.Seq || g.latest[key] > t.Seq {
		return false
	}
	fn()
	return true
}

// Cancel supersedes any in-flight ticket for key without issuing a new one.
func (g *Guard) Cancel(key string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	g.latest[key] = g.next
}

// Reset supersedes every in-flight ticket.
func (g *Guard) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	for k := range g.latest {
		g.next++
		g.latest[k] = g.next
	}
}
