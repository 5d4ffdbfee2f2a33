// Package session holds the in-memory state of one open lesson view and the
// quiz state machine that drives it. The machine performs no I/O: each
// effectful transition returns the progress update (and, for submissions,
// the attempt row) for the caller to persist, so write outcomes stay visible
// to the integrating code.
package session

import (
	"errors"
	"math"
	"time"

	"platform/backend/models"
)

// State of a lesson view.
type State int

const (
	// StateViewing covers non-quiz content and quizzes with no questions.
	StateViewing State = iota
	// StateAnswering means a question is on screen awaiting an answer.
	StateAnswering
	// StateExplanation means the last answer was graded and its explanation
	// is showing.
	StateExplanation
	// StateCompleted is terminal; the session can be discarded.
	StateCompleted
)

func (s State) String() string {
	switch s {
	case StateViewing:
		return "viewing"
	case StateAnswering:
		return "answering"
	case StateExplanation:
		return "explanation"
	case StateCompleted:
		return "completed"
	default:
		return "unknown"
	}
}

var (
	// ErrNoAnswer is returned for an empty submission; the state machine
	// treats it as a no-op.
	ErrNoAnswer = errors.New("no answer selected")
	// ErrBadTransition is returned when a command is not valid in the
	// current state.
	ErrBadTransition = errors.New("transition not allowed in current state")
)

// ProgressUpdate is the tagged write the state machine asks the caller to
// persist. Status "completed" always carries 100 percent.
type ProgressUpdate struct {
	Status               string
	CompletionPercentage int
	TimeSpentMinutes     int
	LastAccessedAt       time.Time
}

// Apply copies the update onto a progress record. StartedAt is left alone:
// it is fixed when the record is first created. CompletedAt is stamped on
// the completing update only.
func (u ProgressUpdate) Apply(rec *models.ProgressRecord) {
	rec.Status = u.Status
	rec.CompletionPercentage = u.CompletionPercentage
	rec.TimeSpentMinutes = u.TimeSpentMinutes
	rec.LastAccessedAt = u.LastAccessedAt
	if u.Status == models.StatusCompleted && rec.CompletedAt == nil {
		done := u.LastAccessedAt
		rec.CompletedAt = &done
	}
}

// SubmitResult reports one graded answer.
type SubmitResult struct {
	Correct     bool
	Explanation string
	Score       int
	Attempt     models.AssessmentAttempt
	Update      ProgressUpdate
}

// AdvanceResult reports a move to the next question or quiz completion.
type AdvanceResult struct {
	Done bool
	// Update is non-nil only on the terminal transition.
	Update *ProgressUpdate
}

// Session is the transient state of one open lesson view. It lives from
// Open until the view closes and is never shared across lessons.
type Session struct {
	UserID      uint
	LessonID    uint
	CourseID    uint
	Quiz        bool
	Assessments []models.Assessment

	State     State
	Index     int
	Selected  string
	Correct   bool
	Score     int
	StartTime time.Time
}

// Open creates a session for a lesson view and returns the initial
// in_progress upsert. StartTime is fixed here and is the base for every
// later elapsed-time calculation. Quiz lessons start answering immediately
// when they have questions.
func Open(userID uint, lesson models.Lesson, assessments []models.Assessment, now time.Time) (*Session, ProgressUpdate) {
	s := &Session{
		UserID:      userID,
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		Quiz:        lesson.ContentType == "quiz",
		Assessments: assessments,
		State:       StateViewing,
		StartTime:   now,
	}

	if s.Quiz && len(assessments) > 0 {
		s.State = StateAnswering
	}

	return s, ProgressUpdate{
		Status:               models.StatusInProgress,
		CompletionPercentage: 0,
		TimeSpentMinutes:     s.elapsedMinutes(now),
		LastAccessedAt:       now,
	}
}

// Submit grades the selected answer against the current question. An empty
// answer is rejected without changing state or producing a write.
func (s *Session) Submit(answer string, now time.Time) (SubmitResult, error) {
	if s.State != StateAnswering {
		return SubmitResult{}, ErrBadTransition
	}
	if answer == "" {
		return SubmitResult{}, ErrNoAnswer
	}

	assessment := s.Assessments[s.Index]
	correct := answer == assessment.CorrectAnswer

	s.Selected = answer
	s.Correct = correct
	if correct {
		s.Score++
	}
	s.State = StateExplanation

	pct := int(math.Round(float64(s.Index+1) / float64(len(s.Assessments)) * 100))
	if pct == 100 {
		// 100 is reserved for the completed status; the terminal Advance
		// issues it.
		pct = 99
	}

	return SubmitResult{
		Correct:     correct,
		Explanation: assessment.Explanation,
		Score:       s.Score,
		Attempt: models.AssessmentAttempt{
			UserID:           s.UserID,
			AssessmentID:     assessment.ID,
			UserAnswer:       answer,
			IsCorrect:        correct,
			TimeTakenSeconds: s.elapsedSeconds(now),
		},
		Update: ProgressUpdate{
			Status:               models.StatusInProgress,
			CompletionPercentage: pct,
			TimeSpentMinutes:     s.elapsedMinutes(now),
			LastAccessedAt:       now,
		},
	}, nil
}

// Advance moves past the explanation to the next question, or completes the
// quiz after the last one. Per-question selection state is reset on the way
// to a new question.
func (s *Session) Advance(now time.Time) (AdvanceResult, error) {
	if s.State != StateExplanation {
		return AdvanceResult{}, ErrBadTransition
	}

	if s.Index+1 < len(s.Assessments) {
		s.Index++
		s.Selected = ""
		s.Correct = false
		s.State = StateAnswering
		return AdvanceResult{}, nil
	}

	s.State = StateCompleted
	update := s.completionUpdate(now)
	return AdvanceResult{Done: true, Update: &update}, nil
}

// MarkComplete finishes a non-quiz lesson from the viewing state.
func (s *Session) MarkComplete(now time.Time) (ProgressUpdate, error) {
	if s.State != StateViewing {
		return ProgressUpdate{}, ErrBadTransition
	}

	s.State = StateCompleted
	return s.completionUpdate(now), nil
}

func (s *Session) completionUpdate(now time.Time) ProgressUpdate {
	return ProgressUpdate{
		Status:               models.StatusCompleted,
		CompletionPercentage: 100,
		TimeSpentMinutes:     s.elapsedMinutes(now),
		LastAccessedAt:       now,
	}
}

// elapsedMinutes floors fractional minutes since the session opened.
func (s *Session) elapsedMinutes(now time.Time) int {
	return int(now.Sub(s.StartTime) / time.Minute)
}

// elapsedSeconds rounds to the nearest whole second since the session opened.
func (s *Session) elapsedSeconds(now time.Time) int {
	return int(math.Round(now.Sub(s.StartTime).Seconds()))
}
