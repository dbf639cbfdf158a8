package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type LessonHandler struct {
	lessonService services.LessonService
}

func NewLessonHandler(lessonService services.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: lessonService}
}

// GET /api/courses/:courseId/lessons
func (lh *LessonHandler) ListLessons(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	lessons, err := lh.lessonService.ListLessons(c.Request.Context(), rd, courseID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lessons": lessons})
}

// GET /api/lessons/:lessonId
func (lh *LessonHandler) GetLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lessonId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	lesson, err := lh.lessonService.GetLesson(c.Request.Context(), rd, lessonID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// POST /api/creator/courses/:courseId/lessons
func (lh *LessonHandler) CreateLesson(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	var req services.CreateLessonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	lesson, err := lh.lessonService.CreateLesson(c.Request.Context(), rd, courseID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"lesson": lesson})
}

// PUT /api/creator/lessons/:lessonId
func (lh *LessonHandler) UpdateLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lessonId")
	if !ok {
		return
	}
	var req services.UpdateLessonInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	lesson, err := lh.lessonService.UpdateLesson(c.Request.Context(), rd, lessonID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"lesson": lesson})
}

// DELETE /api/creator/lessons/:lessonId
func (lh *LessonHandler) DeleteLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lessonId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := lh.lessonService.DeleteLesson(c.Request.Context(), rd, lessonID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// PUT /api/creator/courses/:courseId/lessons/order
// body: { "order": { "<lessonId>": 1, ... } }
func (lh *LessonHandler) ReorderLessons(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	var req struct {
		Order map[string]int `json:"order"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	newOrder := make(map[uuid.UUID]int, len(req.Order))
	for rawID, idx := range req.Order {
		id, err := uuid.Parse(rawID)
		if err != nil {
			response.RespondError(c, http.StatusBadRequest, "validation_failed", fmt.Errorf("invalid lesson id %q", rawID))
			return
		}
		newOrder[id] = idx
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := lh.lessonService.ReorderLessons(c.Request.Context(), rd, courseID, newOrder); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}
