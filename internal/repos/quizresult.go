package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type QuizResultRepo interface {
	GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.QuizResult, error)
	// Upsert overwrites the existing (user_id, quiz_id) row in full; a retake
	// replaces the prior result rather than accumulating.
	Upsert(ctx context.Context, tx *gorm.DB, row *types.QuizResult) error
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	AverageScorePercentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (float64, error)
	CountByCourseCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
}

type quizResultRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizResultRepo(db *gorm.DB, baseLog *logger.Logger) QuizResultRepo {
	return &quizResultRepo{db: db, log: baseLog.With("repo", "QuizResultRepo")}
}

func (r *quizResultRepo) GetByUserAndQuiz(ctx context.Context, tx *gorm.DB, userID, quizID uuid.UUID) (*types.QuizResult, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var results []*types.QuizResult
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", userID, quizID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *quizResultRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.QuizResult) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	if row == nil {
		return nil
	}
	return transaction.WithContext(ctx).
		Where("user_id = ? AND quiz_id = ?", row.UserID, row.QuizID).
		Assign(map[string]interface{}{
			"score":        row.Score,
			"total_points": row.TotalPoints,
			"details":      row.Details,
			"completed_at": row.CompletedAt,
		}).
		FirstOrCreate(row).Error
}

func (r *quizResultRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizResult{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizResultRepo) AverageScorePercentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (float64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var avg *float64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizResult{}).
		Where("user_id = ? AND total_points > 0", userID).
		Select("AVG(score * 100.0 / total_points)").
		Scan(&avg).Error; err != nil {
		return 0, err
	}
	if avg == nil {
		return 0, nil
	}
	return *avg, nil
}

func (r *quizResultRepo) CountByCourseCreator(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.QuizResult{}).
		Joins("JOIN quiz ON quiz.id = quiz_result.quiz_id").
		Joins("JOIN course ON course.id = quiz.course_id").
		Where("course.created_by = ?", creatorID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *quizResultRepo) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}
	var count int64
	if err := transaction.WithContext(ctx).Model(&types.QuizResult{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
