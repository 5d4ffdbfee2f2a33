package controllers

import (
	"encoding/json"
	"strconv"

	"platform/backend/middleware"
	"platform/backend/models"
	"platform/backend/progress"
	"platform/backend/store"
	"platform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CoursesController struct {
	Store store.RecordStore
}

func NewCoursesController(s store.RecordStore) *CoursesController {
	return &CoursesController{Store: s}
}

// GetCourses lists courses newest first with the caller's completion
// percentage attached. Unpublished courses are included only when
// ?published=false is passed.
func (cc *CoursesController) GetCourses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	publishedOnly := c.Query("published", "true") != "false"

	courses, err := cc.Store.FetchCourses(publishedOnly)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}

	records, err := cc.Store.FetchProgress(userID, 0)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	result := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		result = append(result, fiber.Map{
			"id":              course.ID,
			"title":           course.Title,
			"description":     course.Description,
			"difficulty":      course.DifficultyLevel,
			"estimated_hours": course.EstimatedHours,
			"is_published":    course.IsPublished,
			"progress":        progress.CourseCompletionPercent(records, course.ID),
			"created_at":      course.CreatedAt,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}

// GetCourseDetails returns one course with its lessons in traversal order
// and the caller's per-lesson progress status.
func (cc *CoursesController) GetCourseDetails(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	course, err := cc.Store.FetchCourse(uint(courseID))
	if err != nil {
		return utils.NotFound(c, "Course not found")
	}

	lessons, err := cc.Store.FetchLessons(course.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch lessons")
	}

	records, err := cc.Store.FetchProgress(userID, course.ID)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	statusByLesson := make(map[uint]string, len(records))
	for _, r := range records {
		statusByLesson[r.LessonID] = r.Status
	}

	lessonViews := make([]fiber.Map, 0, len(lessons))
	for _, l := range lessons {
		status, ok := statusByLesson[l.ID]
		if !ok {
			status = models.StatusNotStarted
		}
		lessonViews = append(lessonViews, fiber.Map{
			"id":                l.ID,
			"title":             l.Title,
			"order_index":       l.OrderIndex,
			"content_type":      l.ContentType,
			"estimated_minutes": l.EstimatedMinutes,
			"status":            status,
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"course": fiber.Map{
			"id":              course.ID,
			"title":           course.Title,
			"description":     course.Description,
			"difficulty":      course.DifficultyLevel,
			"estimated_hours": course.EstimatedHours,
			"is_published":    course.IsPublished,
		},
		"lessons":  lessonViews,
		"progress": progress.CourseCompletionPercent(records, course.ID),
	})
}

// GetLearningPaths lists the curated course sequences.
func (cc *CoursesController) GetLearningPaths(c *fiber.Ctx) error {
	paths, err := cc.Store.FetchPaths()
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch learning paths")
	}

	result := make([]fiber.Map, 0, len(paths))
	for _, p := range paths {
		var courseIDs []uint
		json.Unmarshal([]byte(p.CourseIDs), &courseIDs)

		result = append(result, fiber.Map{
			"id":          p.ID,
			"title":       p.Title,
			"description": p.Description,
			"course_ids":  courseIDs,
		})
	}

	return utils.Success(c, fiber.StatusOK, result)
}
