package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type LessonProgressRepo interface {
	GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*types.LessonProgress, error)
	GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error)
	// Upsert merges on the unique (user_id, lesson_id) pair; existing rows
	// keep their identity so other lessons' entries are never touched.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonProgress) error
	CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountDistinctCoursesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	CountDistinctUsersByCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error)
	CountCompleted(ctx context.Context, tx *gorm.DB) (int64, error)
}

type lessonProgressRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonProgressRepo(db *gorm.DB, baseLog *logger.Logger) LessonProgressRepo {
	return &lessonProgressRepo{db: db, log: baseLog.With("repo", "LessonProgressRepo")}
}

func (r *lessonProgressRepo) GetByUserAndCourse(ctx context.Context, tx *gorm.DB, userID, courseID uuid.UUID) ([]*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonProgress
	if userID == uuid.Nil || courseID == uuid.Nil {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonProgressRepo) GetByUserAndLesson(ctx context.Context, tx *gorm.DB, userID, lessonID uuid.UUID) (*types.LessonProgress, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.LessonProgress
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *lessonProgressRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.LessonProgress) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND lesson_id = ?", row.UserID, row.LessonID).
		Assign(map[string]interface{}{
			"course_id":    row.CourseID,
			"completed":    row.Completed,
			"completed_at": row.CompletedAt,
		}).
		FirstOrCreate(row).Error
}

func (r *lessonProgressRepo) CountCompletedByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ? AND completed = ?", userID, true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonProgressRepo) CountDistinctCoursesByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("user_id = ?", userID).
		Distinct("course_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonProgressRepo) CountDistinctUsersByCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Joins("JOIN course ON course.id = lesson_progress.course_id").
		Where("course.created_by = ?", creatorID).
		Distinct("lesson_progress.user_id").
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonProgressRepo) CountCompleted(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.LessonProgress{}).
		Where("completed = ?", true).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
