package app

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/server"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, middleware Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		Log:              log,
		CORSOrigins:      cfg.CORSAllowedOrigins,
		AuthMiddleware:   middleware.Auth,
		HealthHandler:    handlers.Health,
		AuthHandler:      handlers.Auth,
		UserHandler:      handlers.User,
		CatalogHandler:   handlers.Catalog,
		CourseHandler:    handlers.Course,
		LessonHandler:    handlers.Lesson,
		ProgressHandler:  handlers.Progress,
		QuizHandler:      handlers.Quiz,
		DashboardHandler: handlers.Dashboard,
	})
}
