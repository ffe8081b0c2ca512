package session

import (
	"context"
	"log"
	"sync"
	"time"

	"learnhub/internal/apperr"
	"learnhub/internal/client"
	"learnhub/internal/domain"
	"learnhub/internal/validation"
)

type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (client.LoginResult, error)
	Register(ctx context.Context, reg domain.Registration) (bool, error)
	Logout(ctx context.Context, token string) error
}

// Manager owns the process-wide Session. It is the only writer of that
// state; everything else reads it through Current or Do.
type Manager struct {
	auth Authenticator
	now  func() time.Time

	mu         sync.RWMutex
	current    *domain.Session
	generation uint64
	listeners  []func()
}

func NewManager(auth Authenticator) *Manager {
	return &Manager{auth: auth, now: time.Now}
}

// OnInvalidate registers fn to run after every invalidation, outside the
// manager's lock.
func (m *Manager) OnInvalidate(fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) Authenticate(ctx context.Context, creds domain.Credentials) (domain.Session, error) {
	if err := validation.Struct(creds); err != nil {
		return domain.Session{}, err
	}

	res, err := m.auth.Login(ctx, creds)
	if err != nil {
		return domain.Session{}, err
	}

	s := domain.Session{
		SubjectID:  res.User.ID,
		Email:      res.User.Email,
		Username:   res.User.Username,
		Role:       domain.ParseRole(res.User.Role),
		Credential: res.Token,
		IssuedAt:   m.now().UTC(),
	}
	if claims, ok := readClaims(res.Token); ok {
		if s.SubjectID == "" {
			s.SubjectID = claims.Subject
		}
		if res.User.Role == "" && claims.Role != "" {
			s.Role = domain.ParseRole(claims.Role)
		}
		s.ExpiresAt = claims.ExpiresAt
	}
	if s.Email == "" {
		s.Email = creds.Email
	}
	if s.Expired(m.now()) {
		return domain.Session{}, apperr.Auth("credential already expired", 0)
	}

	m.mu.Lock()
	replaced := m.current != nil
	m.current = &s
	m.generation++
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	// Данные прошлой сессии не должны пережить смену пользователя
	if replaced {
		for _, fn := range listeners {
			fn()
		}
	}
	log.Printf("session: signed in as %s (%s)", s.SubjectID, s.Role)
	return s, nil
}

func (m *Manager) Register(ctx context.Context, reg domain.Registration) (bool, error) {
	if err := validation.Struct(reg); err != nil {
		return false, err
	}
	return m.auth.Register(ctx, reg)
}

// Current returns the active session. An expired credential is invalidated
// on read.
func (m *Manager) Current() (domain.Session, bool) {
	s, _, ok := m.snapshot()
	return s, ok
}

func (m *Manager) snapshot() (domain.Session, uint64, bool) {
	m.mu.RLock()
	cur := m.current
	gen := m.generation
	m.mu.RUnlock()

	if cur == nil {
		return domain.Session{}, gen, false
	}
	if cur.Expired(m.now()) {
		m.invalidateGeneration(gen, "credential expired")
		return domain.Session{}, gen, false
	}
	return *cur, gen, true
}

// Generation changes every time a session starts or ends.
func (m *Manager) Generation() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.generation
}

func (m *Manager) Invalidate() {
	m.invalidateGeneration(0, "signed out")
}

// SignOut tells the platform about the sign-out and drops the session even
// if that call fails.
func (m *Manager) SignOut(ctx context.Context) {
	s, ok := m.Current()
	if !ok {
		return
	}
	if err := m.auth.Logout(ctx, s.Credential); err != nil {
		log.Printf("session: logout call failed: %v", err)
	}
	m.Invalidate()
}

// Do runs a privileged call with the current credential. Without a session
// it fails before touching the network. An auth failure from the call ends
// the session it was issued under; the caller must re-authenticate.
func (m *Manager) Do(ctx context.Context, fn func(ctx context.Context, s domain.Session) error) error {
	s, gen, ok := m.snapshot()
	if !ok {
		return apperr.ErrNoSession
	}

	err := fn(ctx, s)
	if apperr.IsAuth(err) {
		m.invalidateGeneration(gen, "platform rejected credential")
	}
	return err
}

// invalidateGeneration drops the session only if it is still the one issued
// at gen; 0 drops whatever is active.
func (m *Manager) invalidateGeneration(gen uint64, reason string) {
	m.mu.Lock()
	if m.current == nil || (gen != 0 && gen != m.generation) {
		m.mu.Unlock()
		return
	}
	subject := m.current.SubjectID
	m.current = nil
	m.generation++
	listeners := append([]func(){}, m.listeners...)
	m.mu.Unlock()

	log.Printf("session: %s invalidated: %s", subject, reason)
	for _, fn := range listeners {
		fn()
	}
}
