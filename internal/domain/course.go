package domain

import "time"

// Course is a read-through copy of the platform's course. It is replaced
// wholesale on every successful fetch and never edited in place.
type Course struct {
	ID              string  `gorm:"primaryKey" json:"id"`
	Title           string  `gorm:"index" json:"title"`
	Description     string  `json:"description"`
	Price           float64 `json:"price"`
	Category        string  `gorm:"index" json:"category"`
	Instructor      string  `json:"instructor"`
	EnrollmentCount int     `json:"enrollmentCount"`
	CoverURL        string  `json:"coverUrl,omitempty"`
	CommunityURL    string  `json:"communityUrl,omitempty"`

	// Порядок уроков значим: он задает "следующий урок" и суммарную длительность
	Lessons []Lesson `gorm:"foreignKey:CourseID;constraint:OnDelete:CASCADE;" json:"lessons"`

	FetchedAt time.Time `json:"fetchedAt"`
}

type Lesson struct {
	ID              string `gorm:"primaryKey" json:"id"`
	CourseID        string `gorm:"primaryKey;index" json:"-"`
	Title           string `json:"title"`
	DurationSeconds int    `json:"durationSeconds"`
	Description     string `json:"description"`
	Position        int    `json:"-"`
}

// TotalDurationSeconds sums the durations of every lesson in the course.
func (c Course) TotalDurationSeconds() int {
	total := 0
	for _, l := range c.Lessons {
		total += l.DurationSeconds
	}
	return total
}

// LessonIndex returns the position of lessonID in the course, or -1.
func (c Course) LessonIndex(lessonID string) int {
	for i, l := range c.Lessons {
		if l.ID == lessonID {
			return i
		}
	}
	return -1
}

func (c Course) HasLesson(lessonID string) bool {
	return c.LessonIndex(lessonID) >= 0
}

// NextLesson returns the lesson following afterID. An empty afterID yields
// the first lesson.
func (c Course) NextLesson(afterID string) (Lesson, bool) {
	if afterID == "" {
		if len(c.Lessons) == 0 {
			return Lesson{}, false
		}
		return c.Lessons[0], true
	}
	i := c.LessonIndex(afterID)
	if i < 0 || i+1 >= len(c.Lessons) {
		return Lesson{}, false
	}
	return c.Lessons[i+1], true
}
