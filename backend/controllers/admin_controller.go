package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"platform/backend/models"
	"platform/backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AdminController owns the content-authoring surface: courses, lessons and
// assessments are created here and are read-only everywhere else.
type AdminController struct {
	DB *gorm.DB
}

func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{DB: db}
}

func (ac *AdminController) CreateCourse(c *fiber.Ctx) error {
	var input struct {
		Title           string `json:"title"`
		Description     string `json:"description"`
		DifficultyLevel string `json:"difficulty_level"`
		EstimatedHours  int    `json:"estimated_hours"`
		IsPublished     bool   `json:"is_published"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	if input.Title == "" {
		return utils.BadRequest(c, "Title is required")
	}

	course := models.Course{
		Title:           input.Title,
		Description:     input.Description,
		DifficultyLevel: input.DifficultyLevel,
		EstimatedHours:  input.EstimatedHours,
		IsPublished:     input.IsPublished,
	}

	if err := ac.DB.Create(&course).Error; err != nil {
		return utils.InternalServerError(c, "Could not create course")
	}

	return c.JSON(fiber.Map{
		"message": "Course created",
		"course":  course,
	})
}

func (ac *AdminController) AddLesson(c *fiber.Ctx) error {
	courseID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid course ID")
	}

	var input struct {
		Title            string `json:"title"`
		ContentType      string `json:"content_type"`
		EstimatedMinutes int    `json:"estimated_minutes"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	switch input.ContentType {
	case "video", "text", "interactive", "quiz":
	default:
		return utils.BadRequest(c, "Invalid content type")
	}

	var course models.Course
	if err := ac.DB.First(&course, courseID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Course not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	// New lessons go to the end of the course.
	var lessonCount int64
	ac.DB.Model(&models.Lesson{}).Where("course_id = ?", courseID).Count(&lessonCount)

	lesson := models.Lesson{
		CourseID:         course.ID,
		Title:            input.Title,
		OrderIndex:       int(lessonCount) + 1,
		ContentType:      input.ContentType,
		EstimatedMinutes: input.EstimatedMinutes,
	}

	if err := ac.DB.Create(&lesson).Error; err != nil {
		return utils.InternalServerError(c, "Could not create lesson")
	}

	return c.JSON(fiber.Map{
		"message": "Lesson added",
		"lesson":  lesson,
	})
}

func (ac *AdminController) AddAssessment(c *fiber.Ctx) error {
	lessonID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return utils.BadRequest(c, "Invalid lesson ID")
	}

	var input struct {
		Question      string   `json:"question"`
		Options       []string `json:"options"`
		CorrectAnswer string   `json:"correct_answer"`
		Explanation   string   `json:"explanation"`
		Difficulty    string   `json:"difficulty"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	var lesson models.Lesson
	if err := ac.DB.First(&lesson, lessonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound(c, "Lesson not found")
		}
		return utils.InternalServerError(c, "Could not query database")
	}

	if lesson.ContentType != "quiz" {
		return utils.BadRequest(c, "Assessments can only be added to quiz lessons")
	}

	// Grading compares by exact string equality, so the correct answer must
	// literally be one of the options.
	found := false
	for _, opt := range input.Options {
		if opt == input.CorrectAnswer {
			found = true
			break
		}
	}
	if !found {
		return utils.BadRequest(c, "Correct answer must be one of the options")
	}

	optionsJSON, err := json.Marshal(input.Options)
	if err != nil {
		return utils.InternalServerError(c, "Could not encode options")
	}

	assessment := models.Assessment{
		LessonID:      lesson.ID,
		Question:      input.Question,
		Options:       string(optionsJSON),
		CorrectAnswer: input.CorrectAnswer,
		Explanation:   input.Explanation,
		Difficulty:    input.Difficulty,
	}

	if err := ac.DB.Create(&assessment).Error; err != nil {
		return utils.InternalServerError(c, "Could not create assessment")
	}

	return c.JSON(fiber.Map{
		"message":    "Assessment added",
		"assessment": assessment,
	})
}

func (ac *AdminController) CreateLearningPath(c *fiber.Ctx) error {
	var input struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		CourseIDs   []uint `json:"course_ids"`
	}

	if err := c.BodyParser(&input); err != nil {
		return utils.BadRequest(c, "Cannot parse JSON")
	}

	idsJSON, err := json.Marshal(input.CourseIDs)
	if err != nil {
		return utils.InternalServerError(c, "Could not encode course IDs")
	}

	path := models.LearningPath{
		Title:       input.Title,
		Description: input.Description,
		CourseIDs:   string(idsJSON),
	}

	if err := ac.DB.Create(&path).Error; err != nil {
		return utils.InternalServerError(c, "Could not create learning path")
	}

	return c.JSON(fiber.Map{
		"message": "Learning path created",
		"path":    path,
	})
}
