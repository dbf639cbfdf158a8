package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type CreateCourseInput struct {
	Title            string `json:"title" binding:"required"`
	Category         string `json:"category" binding:"required"`
	ShortDescription string `json:"short_description"`
	Description      string `json:"description" binding:"required"`
	Content          string `json:"content"`
	IsPublished      bool   `json:"is_published"`
}

type UpdateCourseInput struct {
	Title            *string `json:"title"`
	Category         *string `json:"category"`
	ShortDescription *string `json:"short_description"`
	Description      *string `json:"description"`
	Content          *string `json:"content"`
	IsPublished      *bool   `json:"is_published"`
}

type CourseService interface {
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
	ListMyCourses(ctx context.Context, rd *ctxutil.RequestData) ([]*types.Course, error)
	CreateCourse(ctx context.Context, rd *ctxutil.RequestData, in CreateCourseInput) (*types.Course, error)
	UpdateCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error)
	ArchiveCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) error
	UploadThumbnail(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, filename, contentType string, file io.Reader) (string, error)
}

type courseService struct {
	db            *gorm.DB
	log           *logger.Logger
	courseRepo    repos.CourseRepo
	bucketService BucketService
	catalog       CatalogService
}

func NewCourseService(db *gorm.DB, baseLog *logger.Logger, courseRepo repos.CourseRepo, bucketService BucketService, catalog CatalogService) CourseService {
	return &courseService{
		db:            db,
		log:           baseLog.With("service", "CourseService"),
		courseRepo:    courseRepo,
		bucketService: bucketService,
		catalog:       catalog,
	}
}

func (cs *courseService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	courses, err := cs.courseRepo.GetByIDs(ctx, nil, []uuid.UUID{courseID})
	if err != nil {
		return nil, fmt.Errorf("load course: %w", err)
	}
	if len(courses) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("course %s not found", courseID))
	}
	return courses[0], nil
}

func (cs *courseService) ListMyCourses(ctx context.Context, rd *ctxutil.RequestData) ([]*types.Course, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	courses, err := cs.courseRepo.ListByCreator(ctx, nil, rd.UserID)
	if err != nil {
		return nil, fmt.Errorf("list courses by creator: %w", err)
	}
	return courses, nil
}

func (cs *courseService) CreateCourse(ctx context.Context, rd *ctxutil.RequestData, in CreateCourseInput) (*types.Course, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("title is required"))
	}
	if strings.TrimSpace(in.Category) == "" {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("category is required"))
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("description is required"))
	}

	course := &types.Course{
		ID:               uuid.New(),
		CreatedBy:        rd.UserID,
		Title:            strings.TrimSpace(in.Title),
		Category:         strings.TrimSpace(in.Category),
		ShortDescription: strings.TrimSpace(in.ShortDescription),
		Description:      in.Description,
		Content:          in.Content,
		IsPublished:      in.IsPublished,
	}
	if _, err := cs.courseRepo.Create(ctx, nil, []*types.Course{course}); err != nil {
		cs.log.Error("CreateCourse failed", "error", err, "user_id", rd.UserID.String())
		return nil, fmt.Errorf("create course: %w", err)
	}
	cs.catalog.InvalidateCache(ctx)
	return course, nil
}

func (cs *courseService) UpdateCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, in UpdateCourseInput) (*types.Course, error) {
	course, err := cs.authorizeMutation(ctx, rd, courseID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, apierr.Validation("validation_failed", fmt.Errorf("title cannot be empty"))
		}
		fields["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Category != nil {
		if strings.TrimSpace(*in.Category) == "" {
			return nil, apierr.Validation("validation_failed", fmt.Errorf("category cannot be empty"))
		}
		fields["category"] = strings.TrimSpace(*in.Category)
	}
	if in.ShortDescription != nil {
		fields["short_description"] = strings.TrimSpace(*in.ShortDescription)
	}
	if in.Description != nil {
		fields["description"] = *in.Description
	}
	if in.Content != nil {
		fields["content"] = *in.Content
	}
	if in.IsPublished != nil {
		fields["is_published"] = *in.IsPublished
	}
	if len(fields) == 0 {
		return course, nil
	}
	fields["updated_at"] = time.Now()

	if err := cs.courseRepo.UpdateFields(ctx, nil, courseID, fields); err != nil {
		cs.log.Error("UpdateCourse failed", "error", err, "course_id", courseID.String())
		return nil, fmt.Errorf("update course: %w", err)
	}
	cs.catalog.InvalidateCache(ctx)
	return cs.GetCourse(ctx, courseID)
}

func (cs *courseService) ArchiveCourse(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) error {
	if rd == nil || rd.Role != types.RoleAdmin {
		return apierr.Forbidden("forbidden", fmt.Errorf("only admins may archive courses"))
	}
	if _, err := cs.GetCourse(ctx, courseID); err != nil {
		return err
	}
	if err := cs.courseRepo.SoftDeleteByIDs(ctx, nil, []uuid.UUID{courseID}); err != nil {
		return fmt.Errorf("archive course: %w", err)
	}
	cs.catalog.InvalidateCache(ctx)
	return nil
}

func (cs *courseService) UploadThumbnail(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID, filename, contentType string, file io.Reader) (string, error) {
	if _, err := cs.authorizeMutation(ctx, rd, courseID); err != nil {
		return "", err
	}
	if cs.bucketService == nil {
		return "", apierr.New(http.StatusServiceUnavailable, "storage_unavailable", fmt.Errorf("file storage is not configured"))
	}

	ext := strings.ToLower(path.Ext(filename))
	switch ext {
	case ".png", ".jpg", ".jpeg", ".webp":
	default:
		return "", apierr.Validation("validation_failed", fmt.Errorf("unsupported thumbnail type %q", ext))
	}

	key := fmt.Sprintf("course_thumbnail/%s/%d%s", courseID.String(), time.Now().UnixNano(), ext)
	if err := cs.bucketService.UploadFile(ctx, key, contentType, file); err != nil {
		cs.log.Error("UploadThumbnail failed", "error", err, "course_id", courseID.String())
		return "", fmt.Errorf("upload thumbnail: %w", err)
	}
	url := cs.bucketService.GetPublicURL(key)
	if err := cs.courseRepo.UpdateFields(ctx, nil, courseID, map[string]interface{}{
		"thumbnail_url": url,
		"updated_at":    time.Now(),
	}); err != nil {
		return "", fmt.Errorf("store thumbnail url: %w", err)
	}
	cs.catalog.InvalidateCache(ctx)
	return url, nil
}

// authorizeMutation loads the course and enforces the ownership invariant:
// only the creator or an admin may mutate a course or its children.
func (cs *courseService) authorizeMutation(ctx context.Context, rd *ctxutil.RequestData, courseID uuid.UUID) (*types.Course, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	course, err := cs.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if course.CreatedBy != rd.UserID && rd.Role != types.RoleAdmin {
		return nil, apierr.Forbidden("forbidden", fmt.Errorf("not the course owner"))
	}
	return course, nil
}
