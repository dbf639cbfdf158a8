package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type ProgressHandler struct {
	progressService services.ProgressService
}

func NewProgressHandler(progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: progressService}
}

// GET /api/courses/:courseId/progress
func (ph *ProgressHandler) GetCourseProgress(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	progress, err := ph.progressService.GetCourseProgress(c.Request.Context(), rd, courseID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}

// POST /api/lessons/:lessonId/complete
func (ph *ProgressHandler) CompleteLesson(c *gin.Context) {
	lessonID, ok := parseUUIDParam(c, "lessonId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	progress, err := ph.progressService.CompleteLesson(c.Request.Context(), rd, lessonID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"progress": progress})
}
