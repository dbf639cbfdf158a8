package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type CreateLessonInput struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Content     string `json:"content"`
	Duration    string `json:"duration"`
	IsPublished bool   `json:"is_published"`
}

type UpdateLessonInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Content     *string `json:"content"`
	Duration    *string `json:"duration"`
	OrderIndex  *int    `json:"order_index"`
	IsPublished *bool   `json:"is_published"`
}

type LessonService interface {
	// ListLessons hides unpublished lessons from everyone except the course
	// owner and admins.
	ListLessons(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) ([]*types.Lesson, error)
	GetLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) (*types.Lesson, error)
	CreateLesson(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in CreateLessonInput) (*types.Lesson, error)
	UpdateLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error)
	DeleteLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) error
	ReorderLessons(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, newOrder map[uuid.UUID]int) error
}

type lessonService struct {
	db         *gorm.DB
	log        *logger.Logger
	courseRepo repos.CourseRepo
	lessonRepo repos.LessonRepo
}

func NewLessonService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, lessonRepo repos.LessonRepo) LessonService {
	return &lessonService{
		db:         db,
		log:        baseLog.With("service", "LessonService"),
		courseRepo: courseRepo,
		lessonRepo: lessonRepo,
	}
}

func (ls *lessonService) ListLessons(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) ([]*types.Lesson, error) {
	course, err := ls.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	publishedOnly := !canMutateCourse(rd, course)
	lessons, err := ls.lessonRepo.GetByCourseID(ctx, nil, courseID, publishedOnly)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

func (ls *lessonService) GetLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) (*types.Lesson, error) {
	lessons, err := ls.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("lesson %s not found", lessonID))
	}
	lesson := lessons[0]
	if !lesson.IsPublished {
		course, cErr := ls.loadCourse(ctx, lesson.CourseID)
		if cErr != nil {
			return nil, cErr
		}
		if !canMutateCourse(rd, course) {
			return nil, apierr.NotFound("not_found", fmt.Errorf("lesson %s not found", lessonID))
		}
	}
	return lesson, nil
}

func (ls *lessonService) CreateLesson(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in CreateLessonInput) (*types.Lesson, error) {
	if _, err := ls.mustOwnCourse(ctx, rd, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("title is required"))
	}

	maxIdx, err := ls.lessonRepo.MaxOrderIndex(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("next order index: %w", err)
	}
	lesson := &types.Lesson{
		ID:          uuid.New(),
		CourseID:    courseID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Content:     in.Content,
		Duration:    in.Duration,
		OrderIndex:  maxIdx + 1,
		IsPublished: in.IsPublished,
	}
	if _, err := ls.lessonRepo.Create(ctx, nil, []*types.Lesson{lesson}); err != nil {
		ls.log.Error("CreateLesson failed", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("create lesson: %w", err)
	}
	return lesson, nil
}

func (ls *lessonService) UpdateLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID, in UpdateLessonInput) (*types.Lesson, error) {
	lessons, err := ls.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return nil, fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("lesson %s not found", lessonID))
	}
	lesson := lessons[0]
	if _, err := ls.mustOwnCourse(ctx, rd, lesson.CourseID); err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apierr.Validation("validation_failed", fmt.Errorf("title cannot be empty"))
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.Duration != nil {
		fields["duration"] = *in.Duration
	}
	if in.OrderIndex != nil {
		fields["order_index"] = *in.OrderIndex
	}
	if in.IsPublished != nil {
		fields["is_published"] = *in.IsPublished
	}
	if len(fields) == 0 {
		return lesson, nil
	}
	fields["updated_at"] = time.Now()

	if err := ls.lessonRepo.UpdateFields(ctx, nil, lessonID, fields); err != nil {
		ls.log.Error("UpdateLesson failed", "error", err, "lesson_id", lessonID.String())
		return nil, fmt.Errorf("update lesson: %w", err)
	}
	updated, err := ls.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil || len(updated) == 0 {
		return nil, fmt.Errorf("reload lesson: %w", err)
	}
	return updated[0], nil
}

func (ls *lessonService) DeleteLesson(ctx context.Context, rd *ctxutil.RequestData, lessonID uuid.UUID) error {
	lessons, err := ls.lessonRepo.GetByIDs(ctx, nil, []uuid.UUID{lessonID})
	if err != nil {
		return fmt.Errorf("load lesson: %w", err)
	}
	if len(lessons) == 0 {
		return apierr.NotFound("not_found", fmt.Errorf("lesson %s not found", lessonID))
	}
	if _, err := ls.mustOwnCourse(ctx, rd, lessons[0].CourseID); err != nil {
		return err
	}
	if err := ls.lessonRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{lessonID}); err != nil {
		return fmt.Errorf("delete lesson: %w", err)
	}
	return nil
}

func (ls *lessonService) ReorderLessons(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, newOrder map[uuid.UUID]int) error {
	if _, err := ls.mustOwnCourse(ctx, rd, courseID); err != nil {
		return err
	}
	if len(newOrder) == 0 {
		return nil
	}
	return ls.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return ls.lessonRepo.UpdateOrder(ctx, tx, courseID, newOrder)
	})
}

func (ls *lessonService) loadCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	courses, err := ls.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("course %s not found", courseID))
	}
	return courses[0], nil
}

func (ls *lessonService) mustOwnCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) (*types.Course, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	course, err := ls.loadCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if !canMutateCourse(rd, course) {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("not the course owner"))
	}
	return course, nil
}

func canMutateCourse(rd *ctxutil.RequestData, course *types.Course) bool {
	if rd == nil || course == nil {
		return false
	}
	return course.CreatedBy == rd.UserID || rd.Role == types.RoleAdmin
}
