package catalog

import (
	"context"
	"fmt"
	"testing"

	"learnhub/internal/domain"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	s := NewGormStore(db)
	if err := s.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return s
}

func TestGormStoreRoundTripKeepsLessonOrder(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	in := domain.Course{
		ID:    "c1",
		Title: "Mastering YouTube SEO",
		Price: 49.5,
		Lessons: []domain.Lesson{
			{ID: "intro", Title: "Intro", DurationSeconds: 60},
			{ID: "tags", Title: "Tags", DurationSeconds: 120},
			{ID: "thumbs", Title: "Thumbnails", DurationSeconds: 90},
		},
	}
	if err := s.Put(ctx, in); err != nil {
		t.Fatalf("put: %v", err)
	}

	got, ok, err := s.Get(ctx, "c1")
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	if got.Title != in.Title || len(got.Lessons) != 3 {
		t.Fatalf("unexpected course %+v", got)
	}
	for i, want := range []string{"intro", "tags", "thumbs"} {
		if got.Lessons[i].ID != want {
			t.Fatalf("lesson %d: expected %s, got %s", i, want, got.Lessons[i].ID)
		}
	}
}

func TestGormStorePutReplacesLessons(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, domain.Course{ID: "c1", Title: "v1", Lessons: []domain.Lesson{{ID: "a"}, {ID: "b"}}}); err != nil {
		t.Fatalf("put v1: %v", err)
	}
	if err := s.Put(ctx, domain.Course{ID: "c1", Title: "v2", Lessons: []domain.Lesson{{ID: "z"}}}); err != nil {
		t.Fatalf("put v2: %v", err)
	}

	got, _, err := s.Get(ctx, "c1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Title != "v2" || len(got.Lessons) != 1 || got.Lessons[0].ID != "z" {
		t.Fatalf("expected wholesale replacement, got %+v", got)
	}
}

func TestGormStoreMissAndPurge(t *testing.T) {
	s := newSQLiteStore(t)
	ctx := context.Background()

	if _, ok, err := s.Get(ctx, "nope"); ok || err != nil {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}
	if err := s.Put(ctx, domain.Course{ID: "c1", Lessons: []domain.Lesson{{ID: "a"}}}); err != nil {
		t.Fatalf("put: %v", err)
	}
	if err := s.Purge(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "c1"); ok {
		t.Fatalf("expected purge to drop the course")
	}
}
