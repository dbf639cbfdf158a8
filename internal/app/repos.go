package app

import (
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
)

type Repos struct {
	User           repos.UserRepo
	UserToken      repos.UserTokenRepo
	Course         repos.CourseRepo
	Lesson         repos.LessonRepo
	Quiz           repos.QuizRepo
	QuizQuestion   repos.QuizQuestionRepo
	LessonProgress repos.LessonProgressRepo
	QuizResult     repos.QuizResultRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:           repos.NewUserRepo(db, log),
		UserToken:      repos.NewUserTokenRepo(db, log),
		Course:         repos.NewCourseRepo(db, log),
		Lesson:         repos.NewLessonRepo(db, log),
		Quiz:           repos.NewQuizRepo(db, log),
		QuizQuestion:   repos.NewQuizQuestionRepo(db, log),
		LessonProgress: repos.NewLessonProgressRepo(db, log),
		QuizResult:     repos.NewQuizResultRepo(db, log),
	}
}
