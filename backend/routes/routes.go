package routes

import (
	"log"

	"platform/backend/config"
	"platform/backend/controllers"
	"platform/backend/middleware"
	"platform/backend/session"
	"platform/backend/store"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, cfg *config.Config, logger *log.Logger) {
	recordStore := store.NewGormStore(db)
	sessions := session.NewManager()

	// Auth routes
	authController := controllers.NewAuthController(db, cfg)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)
	adminMiddleware := middleware.AdminMiddleware(db, cfg)

	// User routes
	userController := controllers.NewUserController(recordStore)
	app.Get("/api/user/profile", authMiddleware, userController.GetProfile)
	app.Put("/api/user/profile", authMiddleware, userController.UpdateProfile)

	// Dashboard routes
	dashboardController := controllers.NewDashboardController(recordStore)
	app.Get("/api/dashboard", authMiddleware, dashboardController.GetDashboard)

	// Courses routes
	coursesController := controllers.NewCoursesController(recordStore)
	courses := app.Group("/api/courses", authMiddleware)
	courses.Get("/", coursesController.GetCourses)
	courses.Get("/:id", coursesController.GetCourseDetails)
	app.Get("/api/paths", authMiddleware, coursesController.GetLearningPaths)

	// Lesson session routes
	lessonsController := controllers.NewLessonsController(recordStore, sessions, logger)
	lessons := app.Group("/api/lessons", authMiddleware)
	lessons.Post("/:id/open", lessonsController.OpenLesson)
	lessons.Post("/:id/answer", lessonsController.SubmitAnswer)
	lessons.Post("/:id/advance", lessonsController.Advance)
	lessons.Post("/:id/complete", lessonsController.MarkComplete)
	lessons.Delete("/:id/session", lessonsController.CloseSession)

	// Admin routes for content authoring
	adminController := controllers.NewAdminController(db)
	admin := app.Group("/api/admin", adminMiddleware)
	admin.Post("/courses", adminController.CreateCourse)
	admin.Post("/courses/:id/lessons", adminController.AddLesson)
	admin.Post("/lessons/:id/assessments", adminController.AddAssessment)
	admin.Post("/paths", adminController.CreateLearningPath)
}
