package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/me
func (uh *UserHandler) GetMe(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	me, err := uh.userService.GetMe(c.Request.Context(), rd)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// PATCH /api/me
// body: { "display_name": "..." }
func (uh *UserHandler) UpdateProfile(c *gin.Context) {
	var req services.UpdateProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	me, err := uh.userService.UpdateProfile(c.Request.Context(), rd, req)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"me": me})
}

// GET /api/admin/users?page=&page_size=
func (uh *UserHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "25"))
	rd := ctxutil.GetRequestData(c.Request.Context())
	out, err := uh.userService.ListUsers(c.Request.Context(), rd, page, pageSize)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, out)
}

// PUT /api/admin/users/:userId/role
// body: { "role": "student" | "creator" | "admin" }
func (uh *UserHandler) UpdateRole(c *gin.Context) {
	userID, ok := parseUUIDParam(c, "userId")
	if !ok {
		return
	}
	var req struct {
		Role string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "validation_failed", err)
		return
	}
	rd := ctxutil.GetRequestData(c.Request.Context())
	user, err := uh.userService.UpdateRole(c.Request.Context(), rd, userID, req.Role)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user": user})
}
