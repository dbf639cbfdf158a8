package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type QuizHandler struct {
	quizService services.QuizService
}

func NewQuizHandler(quizService services.QuizService) *QuizHandler {
	return &QuizHandler{quizService: quizService}
}

// GET /api/courses/:courseId/quizzes
func (qh *QuizHandler) ListCourseQuizzes(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	quizzes, err := qh.quizService.ListCourseQuizzes(c.Request.Context(), courseID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quizzes": quizzes})
}

// GET /api/quizzes/:quizId
func (qh *QuizHandler) GetQuiz(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	view, err := qh.quizService.LoadQuiz(c.Request.Context(), quizID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": view})
}

// POST /api/quizzes/:quizId/submit
// body: { "answers": { "<questionId>": "<answer>", ... } }
func (qh *QuizHandler) Submit(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	attempt, err := qh.quizService.Submit(c.Request.Context(), rd, quizID, req.Answers)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": attempt})
}

// GET /api/quizzes/:quizId/result
func (qh *QuizHandler) GetResult(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	result, err := qh.quizService.GetResult(c.Request.Context(), rd, quizID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"result": result})
}

// POST /api/creator/courses/:courseId/quizzes
func (qh *QuizHandler) CreateQuiz(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	var req services.CreateQuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	quiz, err := qh.quizService.CreateQuiz(c.Request.Context(), rd, courseID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"quiz": quiz})
}

// PUT /api/creator/quizzes/:quizId
func (qh *QuizHandler) UpdateQuiz(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	var req services.UpdateQuizInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	quiz, err := qh.quizService.UpdateQuiz(c.Request.Context(), rd, quizID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"quiz": quiz})
}

// DELETE /api/creator/quizzes/:quizId
func (qh *QuizHandler) DeleteQuiz(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := qh.quizService.DeleteQuiz(c.Request.Context(), rd, quizID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// GET /api/creator/quizzes/:quizId/questions
func (qh *QuizHandler) ListQuestions(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	questions, err := qh.quizService.ListQuestionsForAuthor(c.Request.Context(), rd, quizID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	// Authors see the full rows, including correct answers.
	out := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		out = append(out, gin.H{
			"id":             q.ID,
			"type":           q.Type,
			"text":           q.Text,
			"options":        q.Options,
			"correct_answer": q.CorrectAnswer,
			"points":         q.Points,
			"explanation":    q.Explanation,
			"position":       q.Position,
		})
	}
	response.RespondOK(c, gin.H{"questions": out})
}

// POST /api/creator/quizzes/:quizId/questions
func (qh *QuizHandler) AddQuestion(c *gin.Context) {
	quizID, ok := parseUUIDParam(c, "quizId")
	if !ok {
		return
	}
	var req services.CreateQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	question, err := qh.quizService.AddQuestion(c.Request.Context(), rd, quizID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"question": question})
}

// PUT /api/creator/questions/:questionId
func (qh *QuizHandler) UpdateQuestion(c *gin.Context) {
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	var req services.UpdateQuestionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	question, err := qh.quizService.UpdateQuestion(c.Request.Context(), rd, questionID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"question": question})
}

// DELETE /api/creator/questions/:questionId
func (qh *QuizHandler) DeleteQuestion(c *gin.Context) {
	questionID, ok := parseUUIDParam(c, "questionId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := qh.quizService.DeleteQuestion(c.Request.Context(), rd, questionID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
