package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/learnhub/learnhub-backend/internal/http/response"
	"github.com/learnhub/learnhub-backend/internal/services"
)

type CatalogHandler struct {
	catalogService services.CatalogService
}

func NewCatalogHandler(catalogService services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// GET /api/courses?search=&category=&page=&page_size=
func (ch *CatalogHandler) ListCourses(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(services.DefaultCatalogPageSize)))

	result, err := ch.catalogService.ListCourses(
		c.Request.Context(),
		c.Query("search"),
		c.Query("category"),
		page,
		pageSize,
	)
	if err != nil {
		response.RespondFromError(c, err)
		return
	}
	response.RespondOK(c, result)
}
