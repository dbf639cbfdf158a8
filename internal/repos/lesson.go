package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type LessonRepo interface {
	Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error)
	// GetByCourseID returns lessons ordered by order_index ascending; ties
	// break on created_at so the sort is stable without contiguous indexes.
	GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]*types.Lesson, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error
	UpdateOrder(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order map[uuid.UUID]int) error
	SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
	MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	CountByCourseCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error)
}

type lessonRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewLessonRepo(db *gorm.DB, baseLog *logger.Logger) LessonRepo {
	return &lessonRepo{db: db, log: baseLog.With("repo", "LessonRepo")}
}

func (r *lessonRepo) Create(ctx context.Context, tx *gorm.DB, lessons []*types.Lesson) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(lessons) == 0 {
		return []*types.Lesson{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&lessons).Error; err != nil {
		return nil, err
	}
	return lessons, nil
}

func (r *lessonRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if len(ids) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) GetByCourseID(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, publishedOnly bool) ([]*types.Lesson, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.Lesson
	if courseID == uuid.Nil {
		return results, nil
	}
	q := transaction.WithContext(ctx).Where("course_id = ?", courseID)
	if publishedOnly {
		q = q.Where("is_published = ?", true)
	}
	if err := q.Order("order_index ASC, created_at ASC").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *lessonRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(fields) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (r *lessonRepo) UpdateOrder(ctx context.Context, tx *gorm.DB, courseID uuid.UUID, order map[uuid.UUID]int) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	for lessonID, idx := range order {
		if err := transaction.WithContext(ctx).
			Model(&types.Lesson{}).
			Where("id = ? AND course_id = ?", lessonID, courseID).
			Update("order_index", idx).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *lessonRepo) SoftDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if len(ids) == 0 {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Lesson{}).Error
}

func (r *lessonRepo) MaxOrderIndex(ctx context.Context, tx *gorm.DB, courseID uuid.UUID) (int, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var max *int
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Where("course_id = ?", courseID).
		Select("MAX(order_index)").
		Scan(&max).Error; err != nil {
		return 0, err
	}
	if max == nil {
		return 0, nil
	}
	return *max, nil
}

func (r *lessonRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.Lesson{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *lessonRepo) CountByCourseCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Lesson{}).
		Joins("JOIN course ON course.id = lesson.course_id").
		Where("course.created_by = ?", creatorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
