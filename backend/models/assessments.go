package models

import "gorm.io/gorm"

type Assessment struct {
	gorm.Model
	LessonID      uint `gorm:"index"`
	Question      string
	Options       string // JSON array of options
	CorrectAnswer string
	Explanation   string
	Difficulty    string // easy, medium, hard
}

// AssessmentAttempt is an append-only log entry, one per answered question.
type AssessmentAttempt struct {
	gorm.Model
	UserID           uint `gorm:"index"`
	AssessmentID     uint `gorm:"index"`
	UserAnswer       string
	IsCorrect        bool
	TimeTakenSeconds int
}

func (AssessmentAttempt) TableName() string { return "user_assessments" }
