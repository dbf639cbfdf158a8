package services

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

// StudentDashboard summarizes one learner's activity across all courses.
type StudentDashboard struct {
	CoursesStarted   int64   `json:"courses_started"`
	LessonsCompleted int64   `json:"lessons_completed"`
	QuizzesTaken     int64   `json:"quizzes_taken"`
	AverageQuizScore float64 `json:"average_quiz_score"`
}

// CreatorDashboard summarizes reach and engagement over a creator's catalog.
type CreatorDashboard struct {
	TotalCourses     int64 `json:"total_courses"`
	PublishedCourses int64 `json:"published_courses"`
	TotalLessons     int64 `json:"total_lessons"`
	ActiveStudents   int64 `json:"active_students"`
	QuizSubmissions  int64 `json:"quiz_submissions"`
}

// AdminDashboard is the platform-wide view.
type AdminDashboard struct {
	TotalUsers       int64 `json:"total_users"`
	Students         int64 `json:"students"`
	Creators         int64 `json:"creators"`
	Admins           int64 `json:"admins"`
	TotalCourses     int64 `json:"total_courses"`
	TotalLessons     int64 `json:"total_lessons"`
	TotalQuizzes     int64 `json:"total_quizzes"`
	LessonsCompleted int64 `json:"lessons_completed"`
	QuizSubmissions  int64 `json:"quiz_submissions"`
}

type DashboardService interface {
	StudentDashboard(ctx context.Context, rd *ctxutil.RequestData) (*StudentDashboard, error)
	CreatorDashboard(ctx context.Context, rd *ctxutil.RequestData) (*CreatorDashboard, error)
	AdminDashboard(ctx context.Context, rd *ctxutil.RequestData) (*AdminDashboard, error)
}

type dashboardService struct {
	db           *gorm.DB
	log          *logger.Logger
	userRepo     repos.UserRepo
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	quizRepo     repos.QuizRepo
	progressRepo repos.LessonProgressRepo
	resultRepo   repos.QuizResultRepo
}

func NewDashboardService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	courseRepo repos.CourseRepo,
	lessonRepo repos.LessonRepo,
	quizRepo repos.QuizRepo,
	progressRepo repos.LessonProgressRepo,
	resultRepo repos.QuizResultRepo,
) DashboardService {
	return &dashboardService{
		db:           db,
		log:          baseLog.With("service", "DashboardService"),
		userRepo:     userRepo,
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		quizRepo:     quizRepo,
		progressRepo: progressRepo,
		resultRepo:   resultRepo,
	}
}

func (ds *dashboardService) StudentDashboard(ctx context.Context, rd *ctxutil.RequestData) (*StudentDashboard, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	userID := rd.UserID

	out := &StudentDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ds.progressRepo.CountDistinctCoursesByUser(gctx, nil, userID)
		out.CoursesStarted = n
		return err
	})
	g.Go(func() error {
		n, err := ds.progressRepo.CountCompletedByUser(gctx, nil, userID)
		out.LessonsCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := ds.resultRepo.CountByUser(gctx, nil, userID)
		out.QuizzesTaken = n
		return err
	})
	g.Go(func() error {
		avg, err := ds.resultRepo.AverageScorePercentByUser(gctx, nil, userID)
		out.AverageQuizScore = math.Round(avg*10) / 10
		return err
	})
	if err := g.Wait(); err != nil {
		ds.log.Error("StudentDashboard failed", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("student dashboard: %w", err)
	}
	return out, nil
}

func (ds *dashboardService) CreatorDashboard(ctx context.Context, rd *ctxutil.RequestData) (*CreatorDashboard, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	if rd.Role != types.RoleCreator && rd.Role != types.RoleAdmin {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("creator role required"))
	}
	creatorID := rd.UserID

	out := &CreatorDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ds.courseRepo.CountByCreator(gctx, nil, creatorID, false)
		out.TotalCourses = n
		return err
	})
	g.Go(func() error {
		n, err := ds.courseRepo.CountByCreator(gctx, nil, creatorID, true)
		out.PublishedCourses = n
		return err
	})
	g.Go(func() error {
		n, err := ds.lessonRepo.CountByCourseCreator(gctx, nil, creatorID)
		out.TotalLessons = n
		return err
	})
	g.Go(func() error {
		n, err := ds.progressRepo.CountDistinctUsersByCreator(gctx, nil, creatorID)
		out.ActiveStudents = n
		return err
	})
	g.Go(func() error {
		n, err := ds.resultRepo.CountByCourseCreator(gctx, nil, creatorID)
		out.QuizSubmissions = n
		return err
	})
	if err := g.Wait(); err != nil {
		ds.log.Error("CreatorDashboard failed", "error", err, "user_id", creatorID.String())
		return nil, fmt.Errorf("creator dashboard: %w", err)
	}
	return out, nil
}

func (ds *dashboardService) AdminDashboard(ctx context.Context, rd *ctxutil.RequestData) (*AdminDashboard, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	if rd.Role != types.RoleAdmin {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("admin role required"))
	}

	out := &AdminDashboard{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := ds.userRepo.CountByRole(gctx, nil, types.RoleStudent)
		out.Students = n
		return err
	})
	g.Go(func() error {
		n, err := ds.userRepo.CountByRole(gctx, nil, types.RoleCreator)
		out.Creators = n
		return err
	})
	g.Go(func() error {
		n, err := ds.userRepo.CountByRole(gctx, nil, types.RoleAdmin)
		out.Admins = n
		return err
	})
	g.Go(func() error {
		n, err := ds.courseRepo.Count(gctx, nil)
		out.TotalCourses = n
		return err
	})
	g.Go(func() error {
		n, err := ds.lessonRepo.Count(gctx, nil)
		out.TotalLessons = n
		return err
	})
	g.Go(func() error {
		n, err := ds.quizRepo.Count(gctx, nil)
		out.TotalQuizzes = n
		return err
	})
	g.Go(func() error {
		n, err := ds.progressRepo.CountCompleted(gctx, nil)
		out.LessonsCompleted = n
		return err
	})
	g.Go(func() error {
		n, err := ds.resultRepo.Count(gctx, nil)
		out.QuizSubmissions = n
		return err
	})
	if err := g.Wait(); err != nil {
		ds.log.Error("AdminDashboard failed", "error", err)
		return nil, fmt.Errorf("admin dashboard: %w", err)
	}
	out.TotalUsers = out.Students + out.Creators + out.Admins
	return out, nil
}
