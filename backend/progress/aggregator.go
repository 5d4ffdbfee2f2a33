// Package progress derives read-only statistics from snapshots of progress
// records. Every function here is pure: no database access, no clock reads,
// deterministic for a given snapshot.
package progress

import (
	"math"
	"time"

	"platform/backend/models"
)

// WeeklyStats summarizes the last seven days of activity.
type WeeklyStats struct {
	LessonsCompleted int `json:"lessons_completed"`
	Minutes          int `json:"minutes"`
}

// Totals summarizes a user's whole progress snapshot.
type Totals struct {
	Completed         int `json:"completed"`
	Minutes           int `json:"minutes"`
	InProgressCourses int `json:"in_progress_courses"`
}

// Weekly filters records to those accessed within the 7 days preceding now
// (boundary instant included) and counts completed lessons and minutes spent
// over that window. Minutes are summed regardless of status.
func Weekly(records []models.ProgressRecord, now time.Time) WeeklyStats {
	cutoff := now.AddDate(0, 0, -7)

	var stats WeeklyStats
	for _, r := range records {
		if r.LastAccessedAt.Before(cutoff) {
			continue
		}
		if r.Status == models.StatusCompleted {
			stats.LessonsCompleted++
		}
		stats.Minutes += r.TimeSpentMinutes
	}
	return stats
}

// CourseCompletionPercent returns the rounded share of the course's records
// that are completed, or 0 when the course has no records at all.
func CourseCompletionPercent(records []models.ProgressRecord, courseID uint) int {
	total := 0
	completed := 0
	for _, r := range records {
		if r.CourseID != courseID {
			continue
		}
		total++
		if r.Status == models.StatusCompleted {
			completed++
		}
	}
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}

// ActiveCourses returns the courses with at least one record that has moved
// past not_started, preserving the input ordering.
func ActiveCourses(courses []models.Course, records []models.ProgressRecord) []models.Course {
	started := make(map[uint]bool)
	for _, r := range records {
		if r.Status != models.StatusNotStarted {
			started[r.CourseID] = true
		}
	}

	var active []models.Course
	for _, c := range courses {
		if started[c.ID] {
			active = append(active, c)
		}
	}
	return active
}

// Total aggregates completion count, minutes spent, and the number of
// distinct courses with an in-progress record.
func Total(records []models.ProgressRecord) Totals {
	inProgress := make(map[uint]bool)

	var totals Totals
	for _, r := range records {
		if r.Status == models.StatusCompleted {
			totals.Completed++
		}
		if r.Status == models.StatusInProgress {
			inProgress[r.CourseID] = true
		}
		totals.Minutes += r.TimeSpentMinutes
	}
	totals.InProgressCourses = len(inProgress)
	return totals
}
