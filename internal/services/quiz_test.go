package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

func newQuestion(text, correct string, points int) *types.QuizQuestion {
	return &types.QuizQuestion{
		ID:            uuid.New(),
		Type:          types.QuestionTypeMultipleChoice,
		Text:          text,
		Options:       []string{"red", "green", "blue"},
		CorrectAnswer: correct,
		Points:        points,
	}
}

func TestGradeQuiz(t *testing.T) {
	t.Parallel()

	q1 := newQuestion("q1", "0", 2)
	q2 := newQuestion("q2", "1", 3)
	q3 := newQuestion("q3", "2", 5)
	questions := []*types.QuizQuestion{q1, q2, q3}

	cases := []struct {
		name      string
		answers   map[string]string
		wantScore int
	}{
		{
			name: "all correct",
			answers: map[string]string{
				q1.ID.String(): "0",
				q2.ID.String(): "1",
				q3.ID.String(): "2",
			},
			wantScore: 10,
		},
		{
			name: "two of three correct",
			answers: map[string]string{
				q1.ID.String(): "0",
				q2.ID.String(): "1",
				q3.ID.String(): "0",
			},
			wantScore: 5,
		},
		{
			name: "unanswered counts as wrong",
			answers: map[string]string{
				q1.ID.String(): "0",
			},
			wantScore: 2,
		},
		{
			name:      "empty submission",
			answers:   map[string]string{},
			wantScore: 0,
		},
		{
			name:      "nil submission",
			answers:   nil,
			wantScore: 0,
		},
		{
			name: "whitespace around answers is ignored",
			answers: map[string]string{
				q1.ID.String(): " 0 ",
				q2.ID.String(): "1\n",
			},
			wantScore: 5,
		},
		{
			name: "answers for unknown questions are ignored",
			answers: map[string]string{
				uuid.NewString(): "0",
				q3.ID.String():   "2",
			},
			wantScore: 5,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			score, total, details := gradeQuiz(questions, tc.answers)
			if score != tc.wantScore {
				t.Fatalf("unexpected score: got=%d want=%d", score, tc.wantScore)
			}
			if total != 10 {
				t.Fatalf("unexpected total: got=%d want=10", total)
			}
			if len(details) != len(questions) {
				t.Fatalf("unexpected details size: got=%d want=%d", len(details), len(questions))
			}
		})
	}
}

func TestGradeQuizDetails(t *testing.T) {
	t.Parallel()

	q := newQuestion("pick blue", "2", 4)
	q.Explanation = "blue is option index 2"

	_, _, details := gradeQuiz([]*types.QuizQuestion{q}, map[string]string{q.ID.String(): "1"})
	d, ok := details[q.ID.String()]
	if !ok {
		t.Fatalf("missing detail for question %s", q.ID)
	}
	if d.IsCorrect {
		t.Fatal("wrong answer marked correct")
	}
	if d.UserAnswer != "1" || d.CorrectAnswer != "2" {
		t.Fatalf("unexpected answers recorded: user=%q correct=%q", d.UserAnswer, d.CorrectAnswer)
	}
	if d.Explanation != q.Explanation {
		t.Fatalf("unexpected explanation: got=%q", d.Explanation)
	}
	if d.Points != 4 {
		t.Fatalf("unexpected points: got=%d want=4", d.Points)
	}
}

func TestUsableQuestion(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		text string
		ans  string
		want bool
	}{
		{"complete", "what color", "2", true},
		{"missing text", "", "2", false},
		{"missing answer", "what color", "", false},
		{"whitespace text", "   ", "2", false},
		{"whitespace answer", "what color", "\t", false},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			q := newQuestion(tc.text, tc.ans, 1)
			if got := usableQuestion(q); got != tc.want {
				t.Fatalf("unexpected: got=%v want=%v", got, tc.want)
			}
		})
	}
}

func TestValidateQuestionShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		qType   string
		text    string
		answer  string
		options []string
		wantErr bool
	}{
		{"valid multiple choice", types.QuestionTypeMultipleChoice, "pick one", "1", []string{"a", "b", "c"}, false},
		{"first option index", types.QuestionTypeMultipleChoice, "pick one", "0", []string{"a", "b"}, false},
		{"index past options", types.QuestionTypeMultipleChoice, "pick one", "7", []string{"a", "b"}, true},
		{"index equals option count", types.QuestionTypeMultipleChoice, "pick one", "2", []string{"a", "b"}, true},
		{"negative index", types.QuestionTypeMultipleChoice, "pick one", "-1", []string{"a", "b"}, true},
		{"non-numeric index", types.QuestionTypeMultipleChoice, "pick one", "b", []string{"a", "b"}, true},
		{"single option", types.QuestionTypeMultipleChoice, "pick one", "0", []string{"a"}, true},
		{"no options", types.QuestionTypeMultipleChoice, "pick one", "0", nil, true},
		{"index with whitespace", types.QuestionTypeMultipleChoice, "pick one", " 1 ", []string{"a", "b"}, false},
		{"true false ignores options", types.QuestionTypeTrueFalse, "sky is blue", "true", nil, false},
		{"short answer free text", types.QuestionTypeShortAnswer, "capital of France", "paris", nil, false},
		{"unknown type", "essay", "discuss", "anything", nil, true},
		{"empty text", types.QuestionTypeShortAnswer, "  ", "paris", nil, true},
		{"empty answer", types.QuestionTypeShortAnswer, "capital of France", "", nil, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := validateQuestionShape(tc.qType, tc.text, tc.answer, tc.options)
			if tc.wantErr {
				ae := apierr.From(err)
				if ae == nil || ae.Code != "validation_failed" {
					t.Fatalf("unexpected error: got=%v want validation_failed", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

type fakeCourseRepo struct {
	repos.CourseRepo
	course *types.Course
}

func (f *fakeCourseRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Course, error) {
	return []*types.Course{f.course}, nil
}

type fakeQuizRepo struct {
	repos.QuizRepo
	quiz *types.Quiz
}

func (f *fakeQuizRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Quiz, error) {
	return []*types.Quiz{f.quiz}, nil
}

type fakeQuestionRepo struct {
	repos.QuizQuestionRepo
	question *types.QuizQuestion
	updated  map[string]interface{}
}

func (f *fakeQuestionRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	return []*types.QuizQuestion{f.question}, nil
}

func (f *fakeQuestionRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.updated = fields
	return nil
}

func testAuthoringService(t *testing.T, question *types.QuizQuestion) (QuizService, *ctxutil.RequestData, *fakeQuestionRepo) {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	owner := uuid.New()
	course := &types.Course{ID: uuid.New(), CreatedBy: owner}
	quiz := &types.Quiz{ID: uuid.New(), CourseID: course.ID}
	if question != nil {
		question.QuizID = quiz.ID
	}
	questionRepo := &fakeQuestionRepo{question: question}
	svc := NewQuizService(nil, log,
		&fakeCourseRepo{course: course},
		&fakeQuizRepo{quiz: quiz},
		questionRepo,
		nil,
	)
	rd := &ctxutil.RequestData{UserID: owner, Role: types.RoleCreator}
	return svc, rd, questionRepo
}

func TestAddQuestionRejectsUnanswerableShape(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   CreateQuestionInput
	}{
		{
			name: "correct index past options",
			in: CreateQuestionInput{
				Type:          types.QuestionTypeMultipleChoice,
				Text:          "pick one",
				Options:       []string{"a", "b"},
				CorrectAnswer: "7",
			},
		},
		{
			name: "negative correct index",
			in: CreateQuestionInput{
				Type:          types.QuestionTypeMultipleChoice,
				Text:          "pick one",
				Options:       []string{"a", "b"},
				CorrectAnswer: "-1",
			},
		},
		{
			name: "only one option",
			in: CreateQuestionInput{
				Type:          types.QuestionTypeMultipleChoice,
				Text:          "pick one",
				Options:       []string{"a"},
				CorrectAnswer: "0",
			},
		},
		{
			name: "unknown type",
			in: CreateQuestionInput{
				Type:          "essay",
				Text:          "discuss",
				CorrectAnswer: "anything",
			},
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			svc, rd, _ := testAuthoringService(t, nil)
			_, err := svc.AddQuestion(context.Background(), rd, uuid.New(), tc.in)
			ae := apierr.From(err)
			if ae == nil || ae.Code != "validation_failed" {
				t.Fatalf("unexpected error: got=%v want validation_failed", err)
			}
		})
	}
}

func TestUpdateQuestionRevalidatesShapeAsUnit(t *testing.T) {
	t.Parallel()

	strPtr := func(s string) *string { return &s }
	optsPtr := func(o ...string) *[]string { return &o }

	t.Run("shrinking options below the correct index is rejected", func(t *testing.T) {
		t.Parallel()
		svc, rd, questionRepo := testAuthoringService(t, newQuestion("pick blue", "2", 1))
		_, err := svc.UpdateQuestion(context.Background(), rd, uuid.New(), UpdateQuestionInput{
			Options: optsPtr("red", "green"),
		})
		ae := apierr.From(err)
		if ae == nil || ae.Code != "validation_failed" {
			t.Fatalf("unexpected error: got=%v want validation_failed", err)
		}
		if questionRepo.updated != nil {
			t.Fatalf("rejected update still wrote fields: %v", questionRepo.updated)
		}
	})

	t.Run("flipping type to multiple choice needs options and an index", func(t *testing.T) {
		t.Parallel()
		question := &types.QuizQuestion{
			ID:            uuid.New(),
			Type:          types.QuestionTypeShortAnswer,
			Text:          "capital of France",
			CorrectAnswer: "paris",
			Points:        1,
		}
		svc, rd, questionRepo := testAuthoringService(t, question)
		_, err := svc.UpdateQuestion(context.Background(), rd, question.ID, UpdateQuestionInput{
			Type: strPtr(types.QuestionTypeMultipleChoice),
		})
		ae := apierr.From(err)
		if ae == nil || ae.Code != "validation_failed" {
			t.Fatalf("unexpected error: got=%v want validation_failed", err)
		}
		if questionRepo.updated != nil {
			t.Fatalf("rejected update still wrote fields: %v", questionRepo.updated)
		}
	})

	t.Run("changing only the correct answer is checked against stored options", func(t *testing.T) {
		t.Parallel()
		svc, rd, _ := testAuthoringService(t, newQuestion("pick blue", "2", 1))
		_, err := svc.UpdateQuestion(context.Background(), rd, uuid.New(), UpdateQuestionInput{
			CorrectAnswer: strPtr("5"),
		})
		ae := apierr.From(err)
		if ae == nil || ae.Code != "validation_failed" {
			t.Fatalf("unexpected error: got=%v want validation_failed", err)
		}
	})

	t.Run("consistent options and answer change is accepted", func(t *testing.T) {
		t.Parallel()
		svc, rd, questionRepo := testAuthoringService(t, newQuestion("pick blue", "2", 1))
		_, err := svc.UpdateQuestion(context.Background(), rd, uuid.New(), UpdateQuestionInput{
			Options:       optsPtr("red", "blue"),
			CorrectAnswer: strPtr("1"),
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if questionRepo.updated == nil {
			t.Fatal("expected fields to be written")
		}
		if got := questionRepo.updated["correct_answer"]; got != "1" {
			t.Fatalf("unexpected correct_answer: got=%v want=%q", got, "1")
		}
	})
}

func TestPercentOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		score, total, want int
	}{
		{0, 0, 0},
		{5, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{5, 10, 50},
		{2, 3, 67},
		{1, 3, 33},
	}
	for _, tc := range cases {
		if got := percentOf(tc.score, tc.total); got != tc.want {
			t.Fatalf("percentOf(%d, %d): got=%d want=%d", tc.score, tc.total, got, tc.want)
		}
	}
}
