package app

import (
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/cache"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type Services struct {
	Bucket    services.BucketService
	Avatar    services.AvatarService
	Auth      services.AuthService
	User      services.UserService
	Catalog   services.CatalogService
	Course    services.CourseService
	Lesson    services.LessonService
	Progress  services.ProgressService
	Quiz      services.QuizService
	Dashboard services.DashboardService

	CatalogCache cache.CatalogCache
}

// wireServices degrades gracefully on the optional infrastructure: a missing
// bucket or redis leaves the matching service nil and the rest of the API up.
func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, r Repos) Services {
	log.Info("Wiring services...")

	bucketService, err := services.NewBucketService(log)
	if err != nil {
		log.Warn("bucket service unavailable, uploads and avatars disabled", "error", err)
		bucketService = nil
	}

	var avatarService services.AvatarService
	if bucketService != nil {
		avatarService, err = services.NewAvatarService(log, bucketService)
		if err != nil {
			log.Warn("avatar service unavailable, users register without avatars", "error", err)
			avatarService = nil
		}
	}

	catalogCache, err := cache.NewCatalogCache(log)
	if err != nil {
		log.Warn("catalog cache unavailable, serving catalog from postgres only", "error", err)
		catalogCache = nil
	}

	authService := services.NewAuthService(db, log, r.User, r.UserToken, avatarService,
		cfg.JWTSecretKey, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	catalogService := services.NewCatalogService(db, log, r.Course, catalogCache)

	return Services{
		Bucket:       bucketService,
		Avatar:       avatarService,
		Auth:         authService,
		User:         services.NewUserService(db, log, r.User, avatarService),
		Catalog:      catalogService,
		Course:       services.NewCourseService(db, log, r.Course, bucketService, catalogService),
		Lesson:       services.NewLessonService(db, log, r.Course, r.Lesson),
		Progress:     services.NewProgressService(db, log, r.Course, r.Lesson, r.LessonProgress),
		Quiz:         services.NewQuizService(db, log, r.Course, r.Quiz, r.QuizQuestion, r.QuizResult),
		Dashboard:    services.NewDashboardService(db, log, r.User, r.Course, r.Lesson, r.Quiz, r.LessonProgress, r.QuizResult),
		CatalogCache: catalogCache,
	}
}
