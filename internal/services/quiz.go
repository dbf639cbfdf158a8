package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

// QuizQuestionView is a question as shown to a taker. Correct answers and
// explanations stay server-side until the attempt is graded.
type QuizQuestionView struct {
	ID       uuid.UUID `json:"id"`
	Type     string    `json:"type"`
	Text     string    `json:"text"`
	Options  []string  `json:"options,omitempty"`
	Points   int       `json:"points"`
	Position int       `json:"position"`
}

type QuizView struct {
	ID          uuid.UUID          `json:"id"`
	CourseID    uuid.UUID          `json:"course_id"`
	LessonID    *uuid.UUID         `json:"lesson_id,omitempty"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Questions   []QuizQuestionView `json:"questions"`
}

// QuizAttempt is a graded submission. Persisted is true only when the attempt
// was recorded against an authenticated user.
type QuizAttempt struct {
	QuizID      uuid.UUID                       `json:"quiz_id"`
	Score       int                             `json:"score"`
	TotalPoints int                             `json:"total_points"`
	Percent     int                             `json:"percent"`
	Details     map[string]types.QuestionResult `json:"details"`
	Persisted   bool                            `json:"persisted"`
	CompletedAt time.Time                       `json:"completed_at"`
}

type CreateQuizInput struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	LessonID    *uuid.UUID `json:"lesson_id"`
}

type UpdateQuizInput struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

type CreateQuestionInput struct {
	Type          string   `json:"type" binding:"required"`
	Text          string   `json:"text" binding:"required"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correct_answer" binding:"required"`
	Points        int      `json:"points"`
	Explanation   string   `json:"explanation"`
}

type UpdateQuestionInput struct {
	Type          *string   `json:"type"`
	Text          *string   `json:"text"`
	Options       *[]string `json:"options"`
	CorrectAnswer *string   `json:"correct_answer"`
	Points        *int      `json:"points"`
	Explanation   *string   `json:"explanation"`
	Position      *int      `json:"position"`
}

type QuizService interface {
	ListCourseQuizzes(ctx context.Context, courseID uuid.UUID) ([]*types.Quiz, error)
	// LoadQuiz returns the taker view. Questions with no text or no correct
	// answer are dropped with a warning rather than failing the whole quiz.
	LoadQuiz(ctx context.Context, quizID uuid.UUID) (*QuizView, error)
	// Submit grades an attempt. Authenticated attempts overwrite any earlier
	// result for the same user and quiz; anonymous attempts are graded but
	// never stored.
	Submit(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, answers map[string]string) (*QuizAttempt, error)
	GetResult(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) (*types.QuizResult, error)

	CreateQuiz(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in CreateQuizInput) (*types.Quiz, error)
	UpdateQuiz(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, in UpdateQuizInput) (*types.Quiz, error)
	DeleteQuiz(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) error
	AddQuestion(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, in CreateQuestionInput) (*types.QuizQuestion, error)
	UpdateQuestion(ctx context.Context, rd *ctxutil.RequestData, questionID uuid.UUID, in UpdateQuestionInput) (*types.QuizQuestion, error)
	DeleteQuestion(ctx context.Context, rd *ctxutil.RequestData, questionID uuid.UUID) error
	ListQuestionsForAuthor(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) ([]*types.QuizQuestion, error)
}

type quizService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	quizRepo     repos.QuizRepo
	questionRepo repos.QuizQuestionRepo
	resultRepo   repos.QuizResultRepo
}

func NewQuizService(
	db *gorm.DB,
	baseLog *logger.Logger,
	courseRepo repos.CourseRepo,
	quizRepo repos.QuizRepo,
	questionRepo repos.QuizQuestionRepo,
	resultRepo repos.QuizResultRepo,
) QuizService {
	return &quizService{
		db:           db,
		log:          baseLog.With("service", "QuizService"),
		courseRepo:   courseRepo,
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		resultRepo:   resultRepo,
	}
}

func (qs *quizService) ListCourseQuizzes(ctx context.Context, courseID uuid.UUID) ([]*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByCourseID(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("list quizzes: %w", err)
	}
	return quizzes, nil
}

func (qs *quizService) LoadQuiz(ctx context.Context, quizID uuid.UUID) (*QuizView, error) {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := qs.questionRepo.GetByQuizID(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}

	view := &QuizView{
		ID:          quiz.ID,
		CourseID:    quiz.CourseID,
		LessonID:    quiz.LessonID,
		Title:       quiz.Title,
		Description: quiz.Description,
		Questions:   make([]QuizQuestionView, 0, len(questions)),
	}
	for _, q := range questions {
		if !usableQuestion(q) {
			qs.log.Warn("dropping unusable quiz question",
				"quiz_id", quizID.String(), "question_id", q.ID.String())
			continue
		}
		view.Questions = append(view.Questions, QuizQuestionView{
			ID:       q.ID,
			Type:     q.Type,
			Text:     q.Text,
			Options:  q.Options,
			Points:   q.Points,
			Position: q.Position,
		})
	}
	return view, nil
}

func (qs *quizService) Submit(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, answers map[string]string) (*QuizAttempt, error) {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	questions, err := qs.questionRepo.GetByQuizID(ctx, nil, quizID)
	if err != nil {
		return nil, fmt.Errorf("list quiz questions: %w", err)
	}

	usable := make([]*types.QuizQuestion, 0, len(questions))
	for _, q := range questions {
		if usableQuestion(q) {
			usable = append(usable, q)
		}
	}
	score, total, details := gradeQuiz(usable, answers)

	now := time.Now()
	attempt := &QuizAttempt{
		QuizID:      quiz.ID,
		Score:       score,
		TotalPoints: total,
		Percent:     percentOf(score, total),
		Details:     details,
		CompletedAt: now,
	}

	if rd != nil && rd.UserID != uuid.Nil {
		row := &types.QuizResult{
			UserID:      rd.UserID,
			QuizID:      quiz.ID,
			Score:       score,
			TotalPoints: total,
			Details:     datatypes.NewJSONType(details),
			CompletedAt: now,
		}
		if err := qs.resultRepo.Upsert(ctx, nil, row); err != nil {
			qs.log.Error("Submit persist failed", "error", err, "user_id", rd.UserID.String())
			return nil, fmt.Errorf("store quiz result: %w", err)
		}
		attempt.Persisted = true
	}
	return attempt, nil
}

func (qs *quizService) GetResult(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) (*types.QuizResult, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	result, err := qs.resultRepo.GetByUserAndQuiz(ctx, nil, rd.UserID, quizID)
	if err != nil {
		return nil, fmt.Errorf("load quiz result: %w", err)
	}
	if result == nil {
		return nil, apierr.NotFound("not_found", fmt.Errorf("no result for quiz %s", quizID))
	}
	return result, nil
}

func (qs *quizService) CreateQuiz(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in CreateQuizInput) (*types.Quiz, error) {
	if err := qs.mustOwnCourse(ctx, rd, courseID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("title is required"))
	}
	quiz := &types.Quiz{
		ID:          uuid.New(),
		CourseID:    courseID,
		LessonID:    in.LessonID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
	}
	if _, err := qs.quizRepo.Create(ctx, nil, []*types.Quiz{quiz}); err != nil {
		qs.log.Error("CreateQuiz failed", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("create quiz: %w", err)
	}
	return quiz, nil
}

func (qs *quizService) UpdateQuiz(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, in UpdateQuizInput) (*types.Quiz, error) {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
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
	if len(fields) == 0 {
		return quiz, nil
	}
	fields["updated_at"] = time.Now()
	if err := qs.quizRepo.UpdateFields(ctx, nil, quizID, fields); err != nil {
		return nil, fmt.Errorf("update quiz: %w", err)
	}
	return qs.loadQuiz(ctx, quizID)
}

func (qs *quizService) DeleteQuiz(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) error {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
		return err
	}
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		questions, qErr := qs.questionRepo.GetByQuizID(ctx, tx, quizID)
		if qErr != nil {
			return fmt.Errorf("list quiz questions: %w", qErr)
		}
		if len(questions) > 0 {
			ids := make([]uuid.UUID, 0, len(questions))
			for _, q := range questions {
				ids = append(ids, q.ID)
			}
			if dErr := qs.questionRepo.SoftDeleteByIDs(ctx, tx, ids); dErr != nil {
				return fmt.Errorf("delete quiz questions: %w", dErr)
			}
		}
		if dErr := qs.quizRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{quizID}); dErr != nil {
			return fmt.Errorf("delete quiz: %w", dErr)
		}
		return nil
	})
}

func (qs *quizService) AddQuestion(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID, in CreateQuestionInput) (*types.QuizQuestion, error) {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
		return nil, err
	}
	if err := validateQuestionShape(in.Type, in.Text, in.CorrectAnswer, in.Options); err != nil {
		return nil, err
	}
	points := in.Points
	if points <= 0 {
		points = 1
	}

	var question *types.QuizQuestion
	err = qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		maxPos, pErr := qs.questionRepo.MaxPosition(ctx, tx, quizID)
		if pErr != nil {
			return fmt.Errorf("next question position: %w", pErr)
		}
		question = &types.QuizQuestion{
			ID:            uuid.New(),
			QuizID:        quizID,
			Type:          in.Type,
			Text:          strings.TrimSpace(in.Text),
			Options:       in.Options,
			CorrectAnswer: strings.TrimSpace(in.CorrectAnswer),
			Points:        points,
			Explanation:   in.Explanation,
			Position:      maxPos + 1,
		}
		if _, cErr := qs.questionRepo.Create(ctx, tx, []*types.QuizQuestion{question}); cErr != nil {
			return fmt.Errorf("create question: %w", cErr)
		}
		return qs.quizRepo.IncrementQuestionsCount(ctx, tx, quizID, 1)
	})
	if err != nil {
		qs.log.Error("AddQuestion failed", "error", err, "quiz_id", quizID.String())
		return nil, err
	}
	return question, nil
}

func (qs *quizService) UpdateQuestion(ctx context.Context, rd *ctxutil.RequestData, questionID uuid.UUID, in UpdateQuestionInput) (*types.QuizQuestion, error) {
	question, err := qs.loadQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	quiz, err := qs.loadQuiz(ctx, question.QuizID)
	if err != nil {
		return nil, err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
		return nil, err
	}

	// Type, options and correct answer form one invariant; changing any of
	// them re-validates the resulting question, not just the changed field.
	qType := question.Type
	if in.Type != nil {
		qType = *in.Type
	}
	text := question.Text
	if in.Text != nil {
		text = *in.Text
	}
	options := []string(question.Options)
	if in.Options != nil {
		options = *in.Options
	}
	answer := question.CorrectAnswer
	if in.CorrectAnswer != nil {
		answer = *in.CorrectAnswer
	}
	if in.Type != nil || in.Text != nil || in.Options != nil || in.CorrectAnswer != nil {
		if err := validateQuestionShape(qType, text, answer, options); err != nil {
			return nil, err
		}
	}

	fields := map[string]interface{}{}
	if in.Type != nil {
		fields["type"] = qType
	}
	if in.Text != nil {
		fields["text"] = strings.TrimSpace(text)
	}
	if in.Options != nil {
		fields["options"] = datatypes.JSONSlice[string](options)
	}
	if in.CorrectAnswer != nil {
		fields["correct_answer"] = strings.TrimSpace(answer)
	}
	if in.Points != nil {
		if *in.Points <= 0 {
			return nil, apierr.Validation("validation_failed", fmt.Errorf("points must be positive"))
		}
		fields["points"] = *in.Points
	}
	if in.Explanation != nil {
		fields["explanation"] = *in.Explanation
	}
	if in.Position != nil {
		fields["position"] = *in.Position
	}
	if len(fields) == 0 {
		return question, nil
	}
	fields["updated_at"] = time.Now()

	if err := qs.questionRepo.UpdateFields(ctx, nil, questionID, fields); err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	return qs.loadQuestion(ctx, questionID)
}

func (qs *quizService) DeleteQuestion(ctx context.Context, rd *ctxutil.RequestData, questionID uuid.UUID) error {
	question, err := qs.loadQuestion(ctx, questionID)
	if err != nil {
		return err
	}
	quiz, err := qs.loadQuiz(ctx, question.QuizID)
	if err != nil {
		return err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
		return err
	}
	return qs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if dErr := qs.questionRepo.SoftDeleteByIDs(ctx, tx, []uuid.UUID{questionID}); dErr != nil {
			return fmt.Errorf("delete question: %w", dErr)
		}
		return qs.quizRepo.IncrementQuestionsCount(ctx, tx, question.QuizID, -1)
	})
}

func (qs *quizService) ListQuestionsForAuthor(ctx context.Context, rd *ctxutil.RequestData, quizID uuid.UUID) ([]*types.QuizQuestion, error) {
	quiz, err := qs.loadQuiz(ctx, quizID)
	if err != nil {
		return nil, err
	}
	if err := qs.mustOwnCourse(ctx, rd, quiz.CourseID); err != nil {
		return nil, err
	}
	return qs.questionRepo.GetByQuizID(ctx, nil, quizID)
}

func (qs *quizService) loadQuiz(ctx context.Context, quizID uuid.UUID) (*types.Quiz, error) {
	quizzes, err := qs.quizRepo.GetByIDs(ctx, nil, []uuid.UUID{quizID})
	if err != nil {
		return nil, fmt.Errorf("load quiz: %w", err)
	}
	if len(quizzes) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("quiz %s not found", quizID))
	}
	return quizzes[0], nil
}

func (qs *quizService) loadQuestion(ctx context.Context, questionID uuid.UUID) (*types.QuizQuestion, error) {
	questions, err := qs.questionRepo.GetByIDs(ctx, nil, []uuid.UUID{questionID})
	if err != nil {
		return nil, fmt.Errorf("load question: %w", err)
	}
	if len(questions) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("question %s not found", questionID))
	}
	return questions[0], nil
}

func (qs *quizService) mustOwnCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) error {
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	courses, err := qs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return apierr.NotFound("not_found", fmt.Errorf("course %s not found", courseID))
	}
	if courses[0].CreatedBy != rd.UserID && rd.Role != types.RoleAdmin {
		return apierr.Forbidden("forbidden", fmt.Errorf("not the course owner"))
	}
	return nil
}

// validateQuestionShape enforces the authoring invariants as a unit: known
// type, non-empty text and correct answer, and for multiple choice at least
// two options with the correct answer an in-range option index. A question
// that passes is always answerable.
func validateQuestionShape(qType, text, correctAnswer string, options []string) error {
	if !types.ValidQuestionType(qType) {
		return apierr.Validation("validation_failed", fmt.Errorf("unknown question type %q", qType))
	}
	if strings.TrimSpace(text) == "" || strings.TrimSpace(correctAnswer) == "" {
		return apierr.Validation("validation_failed", fmt.Errorf("question text and correct answer are required"))
	}
	if qType == types.QuestionTypeMultipleChoice {
		if len(options) < 2 {
			return apierr.Validation("validation_failed", fmt.Errorf("multiple choice questions need at least two options"))
		}
		idx, err := strconv.Atoi(strings.TrimSpace(correctAnswer))
		if err != nil || idx < 0 || idx >= len(options) {
			return apierr.Validation("validation_failed",
				fmt.Errorf("correct answer must be an option index between 0 and %d", len(options)-1))
		}
	}
	return nil
}

func usableQuestion(q *types.QuizQuestion) bool {
	return strings.TrimSpace(q.Text) != "" && strings.TrimSpace(q.CorrectAnswer) != ""
}

// gradeQuiz compares each submitted answer to the stored correct answer by
// trimmed string equality. Unanswered questions are wrong. The score is the
// sum of points over correct answers; total is the sum over all questions.
func gradeQuiz(questions []*types.QuizQuestion, answers map[string]string) (int, int, map[string]types.QuestionResult) {
	score := 0
	total := 0
	details := make(map[string]types.QuestionResult, len(questions))
	for _, q := range questions {
		total += q.Points
		given := strings.TrimSpace(answers[q.ID.String()])
		correct := given != "" && given == strings.TrimSpace(q.CorrectAnswer)
		if correct {
			score += q.Points
		}
		details[q.ID.String()] = types.QuestionResult{
			Question:      q.Text,
			UserAnswer:    given,
			IsCorrect:     correct,
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   q.Explanation,
			Points:        q.Points,
		}
	}
	return score, total, details
}

func percentOf(score, total int) int {
	if total <= 0 {
		return 0
	}
	return int(float64(score)*100.0/float64(total) + 0.5)
}
