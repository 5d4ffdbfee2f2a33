package store

import (
	"fmt"
	"testing"
	"time"

	"platform/backend/models"
	"platform/backend/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) *GormStore {
	t.Helper()

	// Named shared-cache DSN so every pooled connection sees the same
	// in-memory database, isolated per test.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, utils.Migrate(db))

	return NewGormStore(db)
}

func TestUpsertProgressIdempotent(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	first := models.ProgressRecord{
		UserID:               1,
		LessonID:             5,
		CourseID:             2,
		Status:               models.StatusInProgress,
		CompletionPercentage: 0,
		StartedAt:            now,
		LastAccessedAt:       now,
	}
	require.NoError(t, s.UpsertProgress(first))

	second := first
	second.Status = models.StatusCompleted
	second.CompletionPercentage = 100
	second.TimeSpentMinutes = 12
	second.LastAccessedAt = now.Add(time.Minute)
	require.NoError(t, s.UpsertProgress(second))

	// Exactly one row for the (user, lesson) key, reflecting the latest
	// values.
	records, err := s.FetchProgress(1, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.StatusCompleted, records[0].Status)
	assert.Equal(t, 100, records[0].CompletionPercentage)
	assert.Equal(t, 12, records[0].TimeSpentMinutes)
}

func TestUpsertProgressPreservesStartedAt(t *testing.T) {
	s := newTestStore(t)
	started := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	require.NoError(t, s.UpsertProgress(models.ProgressRecord{
		UserID:         1,
		LessonID:       5,
		Status:         models.StatusInProgress,
		StartedAt:      started,
		LastAccessedAt: started,
	}))

	update := models.ProgressRecord{
		UserID:         1,
		LessonID:       5,
		Status:         models.StatusInProgress,
		StartedAt:      started.Add(time.Hour), // must be ignored
		LastAccessedAt: started.Add(time.Hour),
	}
	require.NoError(t, s.UpsertProgress(update))

	records, err := s.FetchProgress(1, 0)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.True(t, records[0].StartedAt.Equal(started))
}

func TestUpsertProgressDistinctLessons(t *testing.T) {
	s := newTestStore(t)
	now := time.Now()

	require.NoError(t, s.UpsertProgress(models.ProgressRecord{
		UserID: 1, LessonID: 5, CourseID: 2,
		Status: models.StatusInProgress, LastAccessedAt: now,
	}))
	require.NoError(t, s.UpsertProgress(models.ProgressRecord{
		UserID: 1, LessonID: 6, CourseID: 2,
		Status: models.StatusInProgress, LastAccessedAt: now,
	}))
	require.NoError(t, s.UpsertProgress(models.ProgressRecord{
		UserID: 2, LessonID: 5, CourseID: 2,
		Status: models.StatusInProgress, LastAccessedAt: now,
	}))

	mine, err := s.FetchProgress(1, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	scoped, err := s.FetchProgress(1, 99)
	require.NoError(t, err)
	assert.Empty(t, scoped)
}

func TestLogAttemptAppendOnly(t *testing.T) {
	s := newTestStore(t)

	attempt := models.AssessmentAttempt{
		UserID:           1,
		AssessmentID:     9,
		UserAnswer:       "a",
		IsCorrect:        false,
		TimeTakenSeconds: 30,
	}
	require.NoError(t, s.LogAttempt(attempt))

	attempt.UserAnswer = "b"
	attempt.IsCorrect = true
	require.NoError(t, s.LogAttempt(attempt))

	var count int64
	s.db.Model(&models.AssessmentAttempt{}).
		Where("user_id = ? AND assessment_id = ?", 1, 9).
		Count(&count)
	assert.Equal(t, int64(2), count, "every answer is a new row")
}

func TestFetchLessonsOrdering(t *testing.T) {
	s := newTestStore(t)

	course := models.Course{Title: "Go", IsPublished: true}
	require.NoError(t, s.db.Create(&course).Error)

	for _, idx := range []int{3, 1, 2} {
		require.NoError(t, s.db.Create(&models.Lesson{
			CourseID:    course.ID,
			Title:       "lesson",
			OrderIndex:  idx,
			ContentType: "text",
		}).Error)
	}

	lessons, err := s.FetchLessons(course.ID)
	require.NoError(t, err)
	require.Len(t, lessons, 3)
	assert.Equal(t, 1, lessons[0].OrderIndex)
	assert.Equal(t, 2, lessons[1].OrderIndex)
	assert.Equal(t, 3, lessons[2].OrderIndex)
}

func TestFetchCoursesPublishedFilterAndOrder(t *testing.T) {
	s := newTestStore(t)

	old := models.Course{Title: "Old", IsPublished: true}
	old.CreatedAt = time.Now().Add(-time.Hour)
	require.NoError(t, s.db.Create(&old).Error)

	draft := models.Course{Title: "Draft", IsPublished: false}
	require.NoError(t, s.db.Create(&draft).Error)

	fresh := models.Course{Title: "Fresh", IsPublished: true}
	require.NoError(t, s.db.Create(&fresh).Error)

	published, err := s.FetchCourses(true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "Fresh", published[0].Title, "newest first")
	assert.Equal(t, "Old", published[1].Title)

	all, err := s.FetchCourses(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateProfileMergesPartialFields(t *testing.T) {
	s := newTestStore(t)

	user := models.User{
		Username:     "sam",
		Email:        "sam@example.com",
		PasswordHash: "x",
		FullName:     "Sam",
		Bio:          "old bio",
	}
	require.NoError(t, s.db.Create(&user).Error)

	updated, err := s.UpdateProfile(user.ID, ProfileUpdate{Bio: "new bio"})
	require.NoError(t, err)
	assert.Equal(t, "new bio", updated.Bio)
	assert.Equal(t, "Sam", updated.FullName, "untouched fields keep their value")

	fetched, err := s.FetchProfile(user.ID)
	require.NoError(t, err)
	assert.Equal(t, "new bio", fetched.Bio)
}
