package catalog

import (
	"context"
	"errors"

	"learnhub/internal/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore mirrors fetched courses into a SQL database so stale-but-present
// data survives an agent restart.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(&domain.Course{}, &domain.Lesson{})
}

func (s *GormStore) Get(ctx context.Context, id string) (domain.Course, bool, error) {
	var c domain.Course
	err := s.db.WithContext(ctx).
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Where("id = ?", id).
		First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Course{}, false, nil
	}
	if err != nil {
		return domain.Course{}, false, err
	}
	return c, true, nil
}

// Put replaces the course row and its whole lesson list.
func (s *GormStore) Put(ctx context.Context, course domain.Course) error {
	lessons := make([]domain.Lesson, len(course.Lessons))
	for i, l := range course.Lessons {
		l.CourseID = course.ID
		l.Position = i
		lessons[i] = l
	}
	row := course
	row.Lessons = nil

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error; err != nil {
			return err
		}
		if err := tx.Where("course_id = ?", course.ID).Delete(&domain.Lesson{}).Error; err != nil {
			return err
		}
		if len(lessons) == 0 {
			return nil
		}
		return tx.Create(&lessons).Error
	})
}

func (s *GormStore) Purge(ctx context.Context) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Lesson{}).Error; err != nil {
			return err
		}
		return tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&domain.Course{}).Error
	})
}
