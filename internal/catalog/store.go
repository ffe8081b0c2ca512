package catalog

import (
	"context"
	"sync"

	"learnhub/internal/domain"
)

// Store keeps the last successfully fetched copy of each course.
type Store interface {
	Get(ctx context.Context, id string) (domain.Course, bool, error)
	Put(ctx context.Context, course domain.Course) error
	Purge(ctx context.Context) error
}

type MemoryStore struct {
	mu      sync.RWMutex
	courses map[string]domain.Course
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{courses: make(map[string]domain.Course)}
}

func (s *MemoryStore) Get(_ context.Context, id string) (domain.Course, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	if !ok {
		return domain.Course{}, false, nil
	}
	return cloneCourse(c), true, nil
}

func (s *MemoryStore) Put(_ context.Context, course domain.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[course.ID] = cloneCourse(course)
	return nil
}

func (s *MemoryStore) Purge(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses = make(map[string]domain.Course)
	return nil
}

// cloneCourse copies the lesson slice so cached values are never shared.
func cloneCourse(c domain.Course) domain.Course {
	c.Lessons = append([]domain.Lesson(nil), c.Lessons...)
	return c
}
