package models

import "gorm.io/gorm"

type Course struct {
	gorm.Model
	Title           string `gorm:"not null"`
	Description     string
	DifficultyLevel string // beginner, intermediate, advanced
	EstimatedHours  int
	IsPublished     bool `gorm:"default:false"`
	Lessons         []Lesson
}

type Lesson struct {
	gorm.Model
	CourseID         uint `gorm:"index"`
	Title            string
	OrderIndex       int    // traversal order within the course
	ContentType      string // video, text, interactive, quiz
	EstimatedMinutes int
}

type LearningPath struct {
	gorm.Model
	Title       string
	Description string
	CourseIDs   string // JSON array of course IDs
}
