package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type DashboardHandler struct {
	dashboardService services.DashboardService
}

func NewDashboardHandler(dashboardService services.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// GET /api/dashboard/student
func (dh *DashboardHandler) Student(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	out, err := dh.dashboardService.StudentDashboard(c.Request.Context(), rd)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": out})
}

// GET /api/dashboard/creator
func (dh *DashboardHandler) Creator(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	out, err := dh.dashboardService.CreatorDashboard(c.Request.Context(), rd)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": out})
}

// GET /api/dashboard/admin
func (dh *DashboardHandler) Admin(c *gin.Context) {
	rd := ctxutil.GetRequestData(c.Request.Context())
	out, err := dh.dashboardService.AdminDashboard(c.Request.Context(), rd)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"dashboard": out})
}
