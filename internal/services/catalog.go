package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/cache"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

const (
	DefaultCatalogPageSize = 6
	maxCatalogPageSize     = 48
)

type CatalogPage struct {
	Courses   []*types.Course `json:"courses"`
	Page      int             `json:"page"`
	PageSize  int             `json:"page_size"`
	PageCount int             `json:"page_count"`
	Total     int             `json:"total"`
	Filtered  int             `json:"filtered"`
}

// CatalogService serves the public course catalog: one full fetch of the
// published set (newest first), then in-memory filtering and fixed-size
// pagination over that snapshot. Filtering the same snapshot with the same
// terms always yields the same page.
type CatalogService interface {
	ListCourses(ctx context.Context, search, category string, page, pageSize int) (*CatalogPage, error)
	InvalidateCache(ctx context.Context)
}

type catalogService struct {
	db           *gorm.DB
	log          *logger.Logger
	courseRepo   repos.CourseRepo
	catalogCache cache.CatalogCache
}

func NewCatalogService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, catalogCache cache.CatalogCache) CatalogService {
	return &catalogService{
		db:           db,
		log:          baseLog.With("service", "CatalogService"),
		courseRepo:   courseRepo,
		catalogCache: catalogCache,
	}
}

func (cs *catalogService) ListCourses(ctx context.Context, search, category string, page, pageSize int) (*CatalogPage, error) {
	courses, fromCache := cs.snapshot(ctx)
	if !fromCache {
		var err error
		courses, err = cs.courseRepo.ListPublished(ctx, nil)
		if err != nil {
			return nil, fmt.Errorf("list published courses: %w", err)
		}
		if cs.catalogCache != nil {
			cs.catalogCache.SetCourses(ctx, courses)
		}
	}

	filtered := filterCourses(courses, search, category)
	pageCourses, page, pageSize, pageCount := paginateCourses(filtered, page, pageSize)

	return &CatalogPage{
		Courses:   pageCourses,
		Page:      page,
		PageSize:  pageSize,
		PageCount: pageCount,
		Total:     len(courses),
		Filtered:  len(filtered),
	}, nil
}

func (cs *catalogService) InvalidateCache(ctx context.Context) {
	if cs.catalogCache != nil {
		cs.catalogCache.Invalidate(ctx)
	}
}

func (cs *catalogService) snapshot(ctx context.Context) ([]*types.Course, bool) {
	if cs.catalogCache == nil {
		return nil, false
	}
	return cs.catalogCache.GetCourses(ctx)
}

// filterCourses applies a case-insensitive substring match over title and
// descriptions, and an exact category match when one is given.
func filterCourses(courses []*types.Course, search, category string) []*types.Course {
	search = strings.ToLower(strings.TrimSpace(search))
	category = strings.TrimSpace(category)

	out := make([]*types.Course, 0, len(courses))
	for _, c := range courses {
		if category != "" && c.Category != category {
			continue
		}
		if search != "" {
			haystack := strings.ToLower(c.Title + " " + c.ShortDescription + " " + c.Description)
			if !strings.Contains(haystack, search) {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}

func paginateCourses(courses []*types.Course, page, pageSize int) ([]*types.Course, int, int, int) {
	if pageSize <= 0 {
		pageSize = DefaultCatalogPageSize
	}
	if pageSize > maxCatalogPageSize {
		pageSize = maxCatalogPageSize
	}
	pageCount := (len(courses) + pageSize - 1) / pageSize
	if pageCount == 0 {
		pageCount = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pageCount {
		page = pageCount
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > len(courses) {
		start = len(courses)
	}
	if end > len(courses) {
		end = len(courses)
	}
	return courses[start:end], page, pageSize, pageCount
}
