package session

import (
	"testing"
	"time"

	"platform/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var base = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

func quizLesson() models.Lesson {
	return models.Lesson{
		Model:       gorm.Model{ID: 7},
		CourseID:    3,
		ContentType: "quiz",
	}
}

func textLesson() models.Lesson {
	return models.Lesson{
		Model:       gorm.Model{ID: 8},
		CourseID:    3,
		ContentType: "text",
	}
}

func assessments(n int) []models.Assessment {
	out := make([]models.Assessment, n)
	for i := range out {
		out[i] = models.Assessment{
			Model:         gorm.Model{ID: uint(100 + i)},
			LessonID:      7,
			Question:      "q",
			CorrectAnswer: "right",
			Explanation:   "because",
		}
	}
	return out
}

func TestOpenNonQuiz(t *testing.T) {
	sess, update := Open(1, textLesson(), nil, base)

	assert.Equal(t, StateViewing, sess.State)
	assert.Equal(t, models.StatusInProgress, update.Status)
	assert.Equal(t, 0, update.CompletionPercentage)
	assert.Equal(t, 0, update.TimeSpentMinutes)
	assert.Equal(t, base, update.LastAccessedAt)
}

func TestOpenQuiz(t *testing.T) {
	sess, update := Open(1, quizLesson(), assessments(3), base)

	assert.Equal(t, StateAnswering, sess.State)
	assert.Equal(t, 0, sess.Index)
	assert.Equal(t, models.StatusInProgress, update.Status)
}

func TestOpenQuizWithoutQuestions(t *testing.T) {
	sess, _ := Open(1, quizLesson(), nil, base)
	assert.Equal(t, StateViewing, sess.State)
}

func TestFullQuizAllCorrect(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(3), base)

	var attempts []models.AssessmentAttempt
	var final *ProgressUpdate

	for i := 0; i < 3; i++ {
		now := base.Add(time.Duration(i+1) * time.Minute)

		result, err := sess.Submit("right", now)
		require.NoError(t, err)
		assert.True(t, result.Correct)
		assert.Equal(t, "because", result.Explanation)
		attempts = append(attempts, result.Attempt)

		adv, err := sess.Advance(now)
		require.NoError(t, err)
		if adv.Done {
			final = adv.Update
		}
	}

	assert.Equal(t, 3, sess.Score)
	assert.Equal(t, StateCompleted, sess.State)
	assert.Len(t, attempts, 3)

	require.NotNil(t, final)
	assert.Equal(t, models.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.CompletionPercentage)
}

func TestSubmitPercentages(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(3), base)

	result, err := sess.Submit("right", base)
	require.NoError(t, err)
	assert.Equal(t, 33, result.Update.CompletionPercentage)
	assert.Equal(t, models.StatusInProgress, result.Update.Status)

	_, err = sess.Advance(base)
	require.NoError(t, err)

	result, err = sess.Submit("wrong", base)
	require.NoError(t, err)
	assert.Equal(t, 67, result.Update.CompletionPercentage)

	_, err = sess.Advance(base)
	require.NoError(t, err)

	// The last answered question stays just below 100: only the completed
	// status carries the full percentage.
	result, err = sess.Submit("right", base)
	require.NoError(t, err)
	assert.Equal(t, 99, result.Update.CompletionPercentage)
	assert.Equal(t, models.StatusInProgress, result.Update.Status)
}

func TestSubmitEmptyAnswerIsNoOp(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(3), base)

	_, err := sess.Submit("", base)
	assert.ErrorIs(t, err, ErrNoAnswer)
	assert.Equal(t, StateAnswering, sess.State)
	assert.Equal(t, 0, sess.Index)
	assert.Equal(t, 0, sess.Score)
}

func TestSubmitWrongAnswer(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(2), base)

	result, err := sess.Submit("wrong", base)
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 0, sess.Score, "score never decreases and never counts wrong answers")
	assert.False(t, result.Attempt.IsCorrect)
	assert.Equal(t, "wrong", result.Attempt.UserAnswer)
}

func TestAdvanceResetsSelection(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(2), base)

	_, err := sess.Submit("right", base)
	require.NoError(t, err)
	assert.Equal(t, "right", sess.Selected)

	adv, err := sess.Advance(base)
	require.NoError(t, err)
	assert.False(t, adv.Done)
	assert.Nil(t, adv.Update)
	assert.Equal(t, 1, sess.Index)
	assert.Equal(t, "", sess.Selected)
	assert.Equal(t, StateAnswering, sess.State)
}

func TestAdvanceOutsideExplanation(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(2), base)

	_, err := sess.Advance(base)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestMarkComplete(t *testing.T) {
	sess, _ := Open(1, textLesson(), nil, base)

	update, err := sess.MarkComplete(base.Add(5 * time.Minute))
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, update.Status)
	assert.Equal(t, 100, update.CompletionPercentage)
	assert.Equal(t, 5, update.TimeSpentMinutes)
	assert.Equal(t, StateCompleted, sess.State)
}

func TestMarkCompleteDuringQuiz(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(1), base)

	_, err := sess.MarkComplete(base)
	assert.ErrorIs(t, err, ErrBadTransition)
}

func TestElapsedTimeAccounting(t *testing.T) {
	sess, _ := Open(1, quizLesson(), assessments(2), base)

	// 150s elapsed: attempt seconds are exact, minutes floor to 2.
	now := base.Add(150 * time.Second)
	result, err := sess.Submit("right", now)
	require.NoError(t, err)
	assert.Equal(t, 150, result.Attempt.TimeTakenSeconds)
	assert.Equal(t, 2, result.Update.TimeSpentMinutes)

	// StartTime stays fixed: the next answer measures from open, not from
	// the previous question.
	_, err = sess.Advance(now)
	require.NoError(t, err)

	now = base.Add(400*time.Second + 400*time.Millisecond)
	result, err = sess.Submit("right", now)
	require.NoError(t, err)
	assert.Equal(t, 400, result.Attempt.TimeTakenSeconds, "rounds to nearest second")
	assert.Equal(t, 6, result.Update.TimeSpentMinutes)
}

func TestApplyStampsCompletedAtOnce(t *testing.T) {
	rec := models.ProgressRecord{UserID: 1, LessonID: 7}

	inProgress := ProgressUpdate{
		Status:               models.StatusInProgress,
		CompletionPercentage: 50,
		LastAccessedAt:       base,
	}
	inProgress.Apply(&rec)
	assert.Nil(t, rec.CompletedAt)

	done := ProgressUpdate{
		Status:               models.StatusCompleted,
		CompletionPercentage: 100,
		LastAccessedAt:       base.Add(time.Minute),
	}
	done.Apply(&rec)
	require.NotNil(t, rec.CompletedAt)
	first := *rec.CompletedAt

	done.LastAccessedAt = base.Add(2 * time.Minute)
	done.Apply(&rec)
	assert.Equal(t, first, *rec.CompletedAt, "completion time is not rewritten")
}

func TestManager(t *testing.T) {
	m := NewManager()

	sess, _ := Open(1, quizLesson(), assessments(1), base)
	m.Put(sess)

	got, ok := m.Get(1, 7)
	require.True(t, ok)
	assert.Same(t, sess, got)

	_, ok = m.Get(2, 7)
	assert.False(t, ok, "sessions are scoped per user")

	m.Close(1, 7)
	_, ok = m.Get(1, 7)
	assert.False(t, ok)
}
