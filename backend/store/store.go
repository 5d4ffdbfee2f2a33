package store

import "platform/backend/models"

// ProfileUpdate carries the optional profile fields; empty strings leave the
// stored value untouched.
type ProfileUpdate struct {
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
	Bio       string `json:"bio"`
}

// RecordStore is the persistence surface the core works against. Every
// method returns an explicit error so callers decide what a failed write
// means instead of having it swallowed.
type RecordStore interface {
	// FetchCourses lists courses newest first; publishedOnly restricts the
	// result to published ones.
	FetchCourses(publishedOnly bool) ([]models.Course, error)
	FetchCourse(courseID uint) (*models.Course, error)
	// FetchLessons lists a course's lessons by order index, ascending.
	FetchLessons(courseID uint) ([]models.Lesson, error)
	FetchLesson(lessonID uint) (*models.Lesson, error)
	// FetchProgress returns the user's progress records; courseID 0 means
	// all courses.
	FetchProgress(userID, courseID uint) ([]models.ProgressRecord, error)
	FetchAssessments(lessonID uint) ([]models.Assessment, error)
	// UpsertProgress updates the record keyed by (UserID, LessonID) or
	// inserts it when absent. Writes for the same key are serialized.
	UpsertProgress(record models.ProgressRecord) error
	// LogAttempt appends an assessment attempt; attempts are never updated
	// or deleted.
	LogAttempt(attempt models.AssessmentAttempt) error
	FetchProfile(userID uint) (*models.User, error)
	// UpdateProfile merges the non-empty fields into the stored profile and
	// returns the result; on failure the stored profile is unchanged.
	UpdateProfile(userID uint, update ProfileUpdate) (*models.User, error)
	FetchPaths() ([]models.LearningPath, error)
}
