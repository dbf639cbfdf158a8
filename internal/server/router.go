package server

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/handlers"
	"github.com/learnhub/learnhub-backend/internal/http/middleware"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type RouterConfig struct {
	Log              *logger.Logger
	CORSOrigins      []string
	AuthMiddleware   *middleware.AuthMiddleware
	HealthHandler    *handlers.HealthHandler
	AuthHandler      *handlers.AuthHandler
	UserHandler      *handlers.UserHandler
	CatalogHandler   *handlers.CatalogHandler
	CourseHandler    *handlers.CourseHandler
	LessonHandler    *handlers.LessonHandler
	ProgressHandler  *handlers.ProgressHandler
	QuizHandler      *handlers.QuizHandler
	DashboardHandler *handlers.DashboardHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.CORSOrigins))
	router.Use(middleware.RequestLogger(cfg.Log))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")

	// ===============
	// || Public    ||
	// ===============
	api.POST("/auth/register", cfg.AuthHandler.Register)
	api.POST("/auth/login", cfg.AuthHandler.Login)
	api.POST("/auth/refresh", cfg.AuthHandler.Refresh)
	api.POST("/auth/logout", cfg.AuthHandler.Logout)

	api.GET("/courses", cfg.CatalogHandler.ListCourses)
	api.GET("/courses/:courseId", cfg.CourseHandler.GetCourse)
	api.GET("/courses/:courseId/quizzes", cfg.QuizHandler.ListCourseQuizzes)
	api.GET("/quizzes/:quizId", cfg.QuizHandler.GetQuiz)

	// Anyone can take a quiz; only signed-in takers get a stored result.
	optional := api.Group("/")
	optional.Use(cfg.AuthMiddleware.OptionalAuth())
	optional.POST("/quizzes/:quizId/submit", cfg.QuizHandler.Submit)
	optional.GET("/courses/:courseId/lessons", cfg.LessonHandler.ListLessons)
	optional.GET("/lessons/:lessonId", cfg.LessonHandler.GetLesson)

	// ===============
	// || Protected ||
	// ===============
	protected := api.Group("/")
	protected.Use(cfg.AuthMiddleware.RequireAuth())
	protected.GET("/me", cfg.UserHandler.GetMe)
	protected.PATCH("/me", cfg.UserHandler.UpdateProfile)
	protected.GET("/courses/:courseId/progress", cfg.ProgressHandler.GetCourseProgress)
	protected.POST("/lessons/:lessonId/complete", cfg.ProgressHandler.CompleteLesson)
	protected.GET("/quizzes/:quizId/result", cfg.QuizHandler.GetResult)
	protected.GET("/dashboard/student", cfg.DashboardHandler.Student)
	protected.GET("/dashboard/creator",
		cfg.AuthMiddleware.RequireRole(types.RoleCreator, types.RoleAdmin),
		cfg.DashboardHandler.Creator)
	protected.GET("/dashboard/admin",
		cfg.AuthMiddleware.RequireRole(types.RoleAdmin),
		cfg.DashboardHandler.Admin)

	// ===============
	// || Creator   ||
	// ===============
	creator := api.Group("/creator")
	creator.Use(cfg.AuthMiddleware.RequireAuth())
	creator.Use(cfg.AuthMiddleware.RequireRole(types.RoleCreator, types.RoleAdmin))
	creator.GET("/courses", cfg.CourseHandler.ListMyCourses)
	creator.POST("/courses", cfg.CourseHandler.CreateCourse)
	creator.PUT("/courses/:courseId", cfg.CourseHandler.UpdateCourse)
	creator.POST("/courses/:courseId/thumbnail", cfg.CourseHandler.UploadThumbnail)
	creator.POST("/courses/:courseId/lessons", cfg.LessonHandler.CreateLesson)
	creator.PUT("/courses/:courseId/lessons/order", cfg.LessonHandler.ReorderLessons)
	creator.PUT("/lessons/:lessonId", cfg.LessonHandler.UpdateLesson)
	creator.DELETE("/lessons/:lessonId", cfg.LessonHandler.DeleteLesson)
	creator.POST("/courses/:courseId/quizzes", cfg.QuizHandler.CreateQuiz)
	creator.PUT("/quizzes/:quizId", cfg.QuizHandler.UpdateQuiz)
	creator.DELETE("/quizzes/:quizId", cfg.QuizHandler.DeleteQuiz)
	creator.GET("/quizzes/:quizId/questions", cfg.QuizHandler.ListQuestions)
	creator.POST("/quizzes/:quizId/questions", cfg.QuizHandler.AddQuestion)
	creator.PUT("/questions/:questionId", cfg.QuizHandler.UpdateQuestion)
	creator.DELETE("/questions/:questionId", cfg.QuizHandler.DeleteQuestion)

	// ===============
	// || Admin     ||
	// ===============
	admin := api.Group("/admin")
	admin.Use(cfg.AuthMiddleware.RequireAuth())
	admin.Use(cfg.AuthMiddleware.RequireRole(types.RoleAdmin))
	admin.GET("/users", cfg.UserHandler.ListUsers)
	admin.PUT("/users/:userId/role", cfg.UserHandler.UpdateRole)
	admin.DELETE("/courses/:courseId", cfg.CourseHandler.ArchiveCourse)

	return router
}
