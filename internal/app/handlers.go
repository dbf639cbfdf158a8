package app

import (
	"github.com/learnhub/learnhub-backend/internal/http/handlers"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
)

type Handlers struct {
	Health    *handlers.HealthHandler
	Auth      *handlers.AuthHandler
	User      *handlers.UserHandler
	Catalog   *handlers.CatalogHandler
	Course    *handlers.CourseHandler
	Lesson    *handlers.LessonHandler
	Progress  *handlers.ProgressHandler
	Quiz      *handlers.QuizHandler
	Dashboard *handlers.DashboardHandler
}

func wireHandlers(log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health:    handlers.NewHealthHandler(),
		Auth:      handlers.NewAuthHandler(services.Auth),
		User:      handlers.NewUserHandler(services.User),
		Catalog:   handlers.NewCatalogHandler(services.Catalog),
		Course:    handlers.NewCourseHandler(services.Course),
		Lesson:    handlers.NewLessonHandler(services.Lesson),
		Progress:  handlers.NewProgressHandler(services.Progress),
		Quiz:      handlers.NewQuizHandler(services.Quiz),
		Dashboard: handlers.NewDashboardHandler(services.Dashboard),
	}
}
