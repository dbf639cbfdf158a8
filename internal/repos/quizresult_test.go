package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/learnhub/learnhub-backend/internal/types"
)

func resultRow(userID, quizID uuid.UUID, score, total int) *types.QuizResult {
	details := map[string]types.QuestionResult{
		uuid.NewString(): {Question: "q", UserAnswer: "0", IsCorrect: score > 0, CorrectAnswer: "0", Points: total},
	}
	return &types.QuizResult{
		ID:          uuid.New(),
		UserID:      userID,
		QuizID:      quizID,
		Score:       score,
		TotalPoints: total,
		Details:     datatypes.NewJSONType(details),
		CompletedAt: time.Now().Truncate(time.Second),
	}
}

func TestQuizResultRetakeOverwrites(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, quizResultDDL)
	repo := NewQuizResultRepo(db, log)
	ctx := context.Background()

	userID := uuid.New()
	quizID := uuid.New()

	if err := repo.Upsert(ctx, nil, resultRow(userID, quizID, 3, 10)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if err := repo.Upsert(ctx, nil, resultRow(userID, quizID, 8, 10)); err != nil {
		t.Fatalf("retake upsert: %v", err)
	}

	var count int64
	if err := db.Model(&types.QuizResult{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", count)
	}

	got, err := repo.GetByUserAndQuiz(ctx, nil, userID, quizID)
	if err != nil {
		t.Fatalf("get result: %v", err)
	}
	if got == nil {
		t.Fatal("missing result row")
	}
	if got.Score != 8 {
		t.Fatalf("retake did not overwrite score: got=%d want=8", got.Score)
	}
}

func TestQuizResultPerUserAggregates(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, quizResultDDL)
	repo := NewQuizResultRepo(db, log)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()

	if err := repo.Upsert(ctx, nil, resultRow(userID, uuid.New(), 5, 10)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.Upsert(ctx, nil, resultRow(userID, uuid.New(), 10, 10)); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := repo.Upsert(ctx, nil, resultRow(otherUser, uuid.New(), 1, 10)); err != nil {
		t.Fatalf("seed: %v", err)
	}

	taken, err := repo.CountByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("count by user: %v", err)
	}
	if taken != 2 {
		t.Fatalf("unexpected count: got=%d want=2", taken)
	}

	avg, err := repo.AverageScorePercentByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("average: %v", err)
	}
	if avg < 74.9 || avg > 75.1 {
		t.Fatalf("unexpected average percent: got=%f want=75", avg)
	}
}

func TestQuizResultAverageWithNoRows(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, quizResultDDL)
	repo := NewQuizResultRepo(db, log)

	avg, err := repo.AverageScorePercentByUser(context.Background(), nil, uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if avg != 0 {
		t.Fatalf("unexpected average for empty set: got=%f want=0", avg)
	}
}
