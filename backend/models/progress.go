package models

import (
	"time"

	"gorm.io/gorm"
)

// Progress record statuses.
const (
	StatusNotStarted = "not_started"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
)

// ProgressRecord is the per-user-per-lesson tracking row. One record per
// (user, lesson) pair; CompletionPercentage is 100 exactly when Status is
// "completed". Rows are never deleted.
type ProgressRecord struct {
	gorm.Model
	UserID               uint   `gorm:"not null;index:idx_user_lesson,unique"`
	LessonID             uint   `gorm:"not null;index:idx_user_lesson,unique"`
	CourseID             uint   `gorm:"index"`
	Status               string `gorm:"not null;default:not_started"`
	CompletionPercentage int
	TimeSpentMinutes     int
	StartedAt            time.Time
	CompletedAt          *time.Time
	LastAccessedAt       time.Time
}

func (ProgressRecord) TableName() string { return "user_progress" }
