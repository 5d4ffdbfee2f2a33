package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"platform/backend/middleware"
	"platform/backend/models"
	"platform/backend/session"
	"platform/backend/store"
	"platform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

// LessonsController drives the per-lesson session lifecycle. The state
// machine lives in the session package; this controller only moves data
// between it, the store, and the wire.
type LessonsController struct {
	Store    store.RecordStore
	Sessions *session.Manager
	Logger   *log.Logger

	// now is swappable in tests.
	now func() time.Time
}

func NewLessonsController(s store.RecordStore, m *session.Manager, logger *log.Logger) *LessonsController {
	return &LessonsController{
		Store:    s,
		Sessions: m,
		Logger:   logger,
		now:      time.Now,
	}
}

// OpenLesson starts a session for the lesson: the progress record is
// upserted to in_progress at 0%, and quiz lessons get their assessment list
// loaded before the first question is served.
func (lc *LessonsController) OpenLesson(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lesson, err := lc.Store.FetchLesson(uint(lessonID))
	if err != nil {
		return utils.NotFound(c, "Lesson not found")
	}

	var assessments []models.Assessment
	if lesson.ContentType == "quiz" {
		assessments, err = lc.Store.FetchAssessments(lesson.ID)
		if err != nil {
			return utils.InternalServerError(c, "Failed to fetch assessments")
		}
	}

	now := lc.now()
	sess, update := session.Open(userID, *lesson, assessments, now)
	lc.Sessions.Put(sess)

	writeOK := lc.persist(sess, update)

	resp := fiber.Map{
		"lesson_id":    lesson.ID,
		"content_type": lesson.ContentType,
		"state":        sess.State.String(),
		"write_ok":     writeOK,
	}
	if sess.State == session.StateAnswering {
		resp["question"] = questionView(sess.Assessments[sess.Index], sess.Index, len(sess.Assessments))
	}

	return utils.Success(c, fiber.StatusOK, resp)
}

// SubmitAnswer grades the answer for the current question, logs the attempt
// and upserts the new completion percentage.
func (lc *LessonsController) SubmitAnswer(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	sess, ok := lc.Sessions.Get(userID, uint(lessonID))
	if !ok {
		return utils.NotFound(c, "No open session for this lesson")
	}

	var input struct {
		Answer string `json:"answer"`
	}
	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	result, err := sess.Submit(input.Answer, lc.now())
	if err != nil {
		if errors.Is(err, session.ErrNoAnswer) {
			return utils.BadRequest(c, "No answer selected")
		}
		return utils.BadRequest(c, "Not answering a question")
	}

	writeOK := true
	if err := lc.Store.LogAttempt(result.Attempt); err != nil {
		lc.Logger.Printf("attempt log failed for user %d lesson %d: %v", userID, lessonID, err)
		writeOK = false
	}
	if !lc.persist(sess, result.Update) {
		writeOK = false
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"correct":     result.Correct,
		"explanation": result.Explanation,
		"score":       result.Score,
		"state":       sess.State.String(),
		"write_ok":    writeOK,
	})
}

// Advance moves past the shown explanation: either the next question or,
// after the last one, quiz completion with the final 100% upsert.
func (lc *LessonsController) Advance(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	sess, ok := lc.Sessions.Get(userID, uint(lessonID))
	if !ok {
		return utils.NotFound(c, "No open session for this lesson")
	}

	result, err := sess.Advance(lc.now())
	if err != nil {
		return utils.BadRequest(c, "Nothing to advance from")
	}

	resp := fiber.Map{
		"state": sess.State.String(),
		"done":  result.Done,
		"score": sess.Score,
	}

	if result.Done {
		resp["write_ok"] = lc.persist(sess, *result.Update)
		resp["total"] = len(sess.Assessments)
		lc.Sessions.Close(userID, uint(lessonID))
	} else {
		resp["question"] = questionView(sess.Assessments[sess.Index], sess.Index, len(sess.Assessments))
	}

	return utils.Success(c, fiber.StatusOK, resp)
}

// MarkComplete finishes a non-quiz lesson and closes the session.
func (lc *LessonsController) MarkComplete(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	sess, ok := lc.Sessions.Get(userID, uint(lessonID))
	if !ok {
		return utils.NotFound(c, "No open session for this lesson")
	}

	update, err := sess.MarkComplete(lc.now())
	if err != nil {
		return utils.BadRequest(c, "Lesson cannot be marked complete in its current state")
	}

	writeOK := lc.persist(sess, update)
	lc.Sessions.Close(userID, uint(lessonID))

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"state":    sess.State.String(),
		"write_ok": writeOK,
	})
}

// CloseSession discards the session without touching the progress record.
func (lc *LessonsController) CloseSession(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	lc.Sessions.Close(userID, uint(lessonID))
	return c.SendStatus(fiber.StatusNoContent)
}

// persist applies the update onto a progress record for the session's
// (user, lesson) pair and upserts it. The in-memory transition has already
// happened; the outcome is reported, not retried.
func (lc *LessonsController) persist(sess *session.Session, update session.ProgressUpdate) bool {
	record := models.ProgressRecord{
		UserID:    sess.UserID,
		LessonID:  sess.LessonID,
		CourseID:  sess.CourseID,
		StartedAt: sess.StartTime,
	}
	update.Apply(&record)

	if err := lc.Store.UpsertProgress(record); err != nil {
		lc.Logger.Printf("progress upsert failed for user %d lesson %d: %v", sess.UserID, sess.LessonID, err)
		return false
	}
	return true
}

// questionView shapes a question for the client without leaking the correct
// answer or the explanation.
func questionView(a models.Assessment, index, total int) fiber.Map {
	var options []string
	json.Unmarshal([]byte(a.Options), &options)

	return fiber.Map{
		"id":         a.ID,
		"question":   a.Question,
		"options":    options,
		"difficulty": a.Difficulty,
		"index":      index,
		"total":      total,
	}
}
