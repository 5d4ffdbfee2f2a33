package controllers

import (
	"time"

	"platform/backend/middleware"
	"platform/backend/progress"
	"platform/backend/store"
	"platform/backend/utils"

	"github.com/gofiber/fiber/v2"
)

type DashboardController struct {
	Store store.RecordStore
}

func NewDashboardController(s store.RecordStore) *DashboardController {
	return &DashboardController{Store: s}
}

// GetDashboard godoc
// @Summary Get progress dashboard
// @Description Returns weekly activity, totals and active courses for the authenticated user
// @Tags dashboard
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} utils.ErrorResponse
// @Security ApiKeyAuth
// @Router /dashboard [get]
func (dc *DashboardController) GetDashboard(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	records, err := dc.Store.FetchProgress(userID, 0)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch progress")
	}

	courses, err := dc.Store.FetchCourses(false)
	if err != nil {
		return utils.InternalServerError(c, "Failed to fetch courses")
	}

	now := time.Now()
	weekly := progress.Weekly(records, now)
	totals := progress.Total(records)
	active := progress.ActiveCourses(courses, records)

	activeViews := make([]fiber.Map, 0, len(active))
	for _, course := range active {
		activeViews = append(activeViews, fiber.Map{
			"id":       course.ID,
			"title":    course.Title,
			"progress": progress.CourseCompletionPercent(records, course.ID),
		})
	}

	return utils.Success(c, fiber.StatusOK, fiber.Map{
		"weekly":         weekly,
		"totals":         totals,
		"active_courses": activeViews,
	})
}
