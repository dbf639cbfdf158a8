package services

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

// CourseProgress is what the course page renders: which lessons this user has
// finished and the rounded percent across the course's published lessons.
type CourseProgress struct {
	CourseID         uuid.UUID           `json:"course_id"`
	CompletedLessons map[uuid.UUID]bool  `json:"completed_lessons"`
	CompletedAt      map[uuid.UUID]int64 `json:"completed_at"`
	Percent          int                 `json:"percent"`
}

type ProgressService interface {
	GetCourseProgress(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) (*CourseProgress, error)
	// CompleteLesson records completion idempotently. A lesson once completed
	// stays completed; repeat calls refresh nothing and never un-complete.
	CompleteLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) (*CourseProgress, error)
}

type progressService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	lessonRepo   repos.LessonRepo
	progressRepo repos.LessonProgressRepo
}

func NewProgressService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo, progressRepo repos.LessonProgressRepo) ProgressService {
	return &progressService{
		db:           db,
		log:          baseLog.With("service", "ProgressService"),
		courseRepo:   courseRepo,
		lessonRepo:   lessonRepo,
		progressRepo: progressRepo,
	}
}

func (ps *progressService) GetCourseProgress(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) (*CourseProgress, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	courses, err := ps.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("course %s not found", courseID))
	}
	return ps.buildCourseProgress(ctx, rd.UserID, courseID)
}

func (ps *progressService) CompleteLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) (*CourseProgress, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	lessons, err := ps.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("lesson %s not found", lessonID))
	}
	lesson := lessons[0]

	now := time.Now()
	row := &types.LessonProgress{
		UserID:      rd.UserID,
		LessonID:    lesson.ID,
		CourseID:    lesson.CourseID,
		Completed:   true,
		CompletedAt: &now,
	}
	existing, err := ps.progressRepo.GetByUserAndLesson(ctx, nil, rd.UserID, lesson.ID)
	if err != nil {
		return nil, fmt.Errorf("load lesson progress: %w", err)
	}
	if existing != nil && existing.Completed {
		// First completion timestamp wins.
		row.CompletedAt = existing.CompletedAt
	}
	if err := ps.progressRepo.Upsert(ctx, nil, row); err != nil {
		ps.log.Error("CompleteLesson failed", "error", err, "user_id", rd.UserID.String())
		return nil, fmt.Errorf("record lesson completion: %w", err)
	}
	return ps.buildCourseProgress(ctx, rd.UserID, lesson.CourseID)
}

func (ps *progressService) buildCourseProgress(ctx context.Context, userID, courseID uuid.UUID) (*CourseProgress, error) {
	published, err := ps.lessonRepo.GetByCourseID(ctx, nil, courseID, true)
	if err != nil {
		return nil, fmt.Errorf("list published lessons: %w", err)
	}
	rows, err := ps.progressRepo.GetByUserAndCourse(ctx, nil, userID, courseID)
	if err != nil {
		return nil, fmt.Errorf("list lesson progress: %w", err)
	}

	completed := make(map[uuid.UUID]bool, len(rows))
	completedAt := make(map[uuid.UUID]int64, len(rows))
	for _, r := range rows {
		if !r.Completed {
			continue
		}
		completed[r.LessonID] = true
		if r.CompletedAt != nil {
			completedAt[r.LessonID] = r.CompletedAt.Unix()
		}
	}

	publishedIDs := make([]uuid.UUID, 0, len(published))
	for _, l := range published {
		publishedIDs = append(publishedIDs, l.ID)
	}

	return &CourseProgress{
		CourseID:         courseID,
		CompletedLessons: completed,
		CompletedAt:      completedAt,
		Percent:          computeProgress(publishedIDs, completed),
	}, nil
}

// computeProgress is the single source of truth for the course percent:
// completed published lessons over total published lessons, rounded to the
// nearest integer. A course with no published lessons is 0%, never NaN.
// Completions of since-unpublished lessons do not count toward the percent.
func computeProgress(publishedLessonIDs []uuid.UUID, completed map[uuid.UUID]bool) int {
	if len(publishedLessonIDs) == 0 {
		return 0
	}
	done := 0
	for _, id := range publishedLessonIDs {
		if completed[id] {
			done++
		}
	}
	return int(math.Round(float64(done) * 100.0 / float64(len(publishedLessonIDs))))
}
