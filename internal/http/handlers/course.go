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

type CourseHandler struct {
	courseService services.CourseService
}

func NewCourseHandler(courseService services.CourseService) *CourseHandler {
	return &CourseHandler{courseService: courseService}
}

// GET /api/courses/:courseId
func (ch *CourseHandler) GetCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	course, err := ch.courseService.GetCourse(c.Request.Context(), courseID)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// GET /api/creator/courses
func (ch *CourseHandler) ListMyCourses(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	courses, err := ch.courseService.ListMyCourses(c.Request.Context(), rd)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// POST /api/creator/courses
func (ch *CourseHandler) CreateCourse(c *gin.Context) {
	var req services.CreateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	course, err := ch.courseService.CreateCourse(c.Request.Context(), rd, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"course": course})
}

// PUT /api/creator/courses/:courseId
func (ch *CourseHandler) UpdateCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	var req services.UpdateCourseInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	course, err := ch.courseService.UpdateCourse(c.Request.Context(), rd, courseID, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// DELETE /api/admin/courses/:courseId
func (ch *CourseHandler) ArchiveCourse(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	if err := ch.courseService.ArchiveCourse(c.Request.Context(), rd, courseID); err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/creator/courses/:courseId/thumbnail
// multipart form, field "file"
func (ch *CourseHandler) UploadThumbnail(c *gin.Context) {
	courseID, ok := parseUUIDParam(c, "courseId")
	if !ok {
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", fmt.Errorf("missing file field: %w", err))
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	defer file.Close()

	rd := ctxutil.GetRequestData(c.Request.Context())
	url, err := ch.courseService.UploadThumbnail(
		c.Request.Context(), rd, courseID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		file,
	)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"thumbnail_url": url})
}

func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", fmt.Errorf("invalid %s: %w", name, err))
		return uuid.Nil, false
	}
	return id, true
}
