package repos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/learnhub/learnhub-backend/internal/types"
)

func TestLessonProgressUpsertIsIdempotent(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, lessonProgressDDL)
	repo := NewLessonProgressRepo(db, log)
	ctx := context.Background()

	userID := uuid.New()
	lessonID := uuid.New()
	courseID := uuid.New()
	firstAt := time.Now().Add(-time.Hour).Truncate(time.Second)

	row := &types.LessonProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    courseID,
		Completed:   true,
		CompletedAt: &firstAt,
	}
	if err := repo.Upsert(ctx, nil, row); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	// Completing again must update the same row, not add a second one.
	laterAt := time.Now().Truncate(time.Second)
	again := &types.LessonProgress{
		ID:          uuid.New(),
		UserID:      userID,
		LessonID:    lessonID,
		CourseID:    courseID,
		Completed:   true,
		CompletedAt: &laterAt,
	}
	if err := repo.Upsert(ctx, nil, again); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	var count int64
	if err := db.Model(&types.LessonProgress{}).Count(&count).Error; err != nil {
		t.Fatalf("count rows: %v", err)
	}
	if count != 1 {
		t.Fatalf("unexpected row count: got=%d want=1", count)
	}

	got, err := repo.GetByUserAndLesson(ctx, nil, userID, lessonID)
	if err != nil {
		t.Fatalf("get by user and lesson: %v", err)
	}
	if got == nil || !got.Completed {
		t.Fatalf("expected completed row, got %+v", got)
	}
}

func TestLessonProgressCourseScoping(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, lessonProgressDDL)
	repo := NewLessonProgressRepo(db, log)
	ctx := context.Background()

	userID := uuid.New()
	otherUser := uuid.New()
	courseA := uuid.New()
	courseB := uuid.New()
	now := time.Now()

	seed := []*types.LessonProgress{
		{ID: uuid.New(), UserID: userID, LessonID: uuid.New(), CourseID: courseA, Completed: true, CompletedAt: &now},
		{ID: uuid.New(), UserID: userID, LessonID: uuid.New(), CourseID: courseA, Completed: true, CompletedAt: &now},
		{ID: uuid.New(), UserID: userID, LessonID: uuid.New(), CourseID: courseB, Completed: true, CompletedAt: &now},
		{ID: uuid.New(), UserID: otherUser, LessonID: uuid.New(), CourseID: courseA, Completed: true, CompletedAt: &now},
	}
	for _, row := range seed {
		if err := repo.Upsert(ctx, nil, row); err != nil {
			t.Fatalf("seed upsert: %v", err)
		}
	}

	rows, err := repo.GetByUserAndCourse(ctx, nil, userID, courseA)
	if err != nil {
		t.Fatalf("get by user and course: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("unexpected rows for course A: got=%d want=2", len(rows))
	}

	completed, err := repo.CountCompletedByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("count completed: %v", err)
	}
	if completed != 3 {
		t.Fatalf("unexpected completed count: got=%d want=3", completed)
	}

	courses, err := repo.CountDistinctCoursesByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("count distinct courses: %v", err)
	}
	if courses != 2 {
		t.Fatalf("unexpected distinct course count: got=%d want=2", courses)
	}
}

func TestLessonProgressGetByUserAndLessonMiss(t *testing.T) {
	t.Parallel()
	db, log := openTestDB(t, lessonProgressDDL)
	repo := NewLessonProgressRepo(db, log)

	got, err := repo.GetByUserAndLesson(context.Background(), nil, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing row, got %+v", got)
	}
}
