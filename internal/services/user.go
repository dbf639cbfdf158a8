package services

import (
	"context"
	"fmt"
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

type UpdateProfileInput struct {
	DisplayName *string `json:"display_name"`
}

type UserPage struct {
	Users    []*types.User `json:"users"`
	Page     int           `json:"page"`
	PageSize int           `json:"page_size"`
	Total    int64         `json:"total"`
}

type UserService interface {
	GetMe(ctx context.Context, rd *ctxutil.RequestData) (*types.User, error)
	UpdateProfile(ctx context.Context, rd *ctxutil.RequestData, in UpdateProfileInput) (*types.User, error)
	// ListUsers and UpdateRole are admin-only. Role is never self-service;
	// promotion and demotion go through here.
	ListUsers(ctx context.Context, rd *ctxutil.RequestData, page, pageSize int) (*UserPage, error)
	UpdateRole(ctx context.Context, rd *ctxutil.RequestData, userID uuid.UUID, role string) (*types.User, error)
}

const defaultUserPageSize = 25

type userService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	avatarService AvatarService
}

func NewUserService(db *gorm.DB, baseLog *logger.Logger, userRepo repos.UserRepo, avatarService AvatarService) UserService {
	return &userService{
		db:            db,
		log:           baseLog.With("service", "UserService"),
		userRepo:      userRepo,
		avatarService: avatarService,
	}
}

func (us *userService) GetMe(ctx context.Context, rd *ctxutil.RequestData) (*types.User, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	return us.loadUser(ctx, rd.UserID)
}

func (us *userService) UpdateProfile(ctx context.Context, rd *ctxutil.RequestData, in UpdateProfileInput) (*types.User, error) {
	if rd == nil || rd.UserID == uuid.Nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	user, err := us.loadUser(ctx, rd.UserID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	regenAvatar := false
	if in.DisplayName != nil {
		name := strings.TrimSpace(*in.DisplayName)
		if name == "" {
			return nil, apierr.Validation("display_name_required", fmt.Errorf("display name cannot be empty"))
		}
		if name != user.DisplayName {
			fields["display_name"] = name
			user.DisplayName = name
			regenAvatar = true
		}
	}
	if len(fields) == 0 {
		return user, nil
	}

	if regenAvatar && us.avatarService != nil {
		// Initials changed; refresh the avatar but never fail the rename on it.
		if aErr := us.avatarService.CreateAndUploadUserAvatar(ctx, user); aErr != nil {
			us.log.Warn("avatar refresh failed", "error", aErr, "user_id", user.ID.String())
		} else {
			fields["avatar_bucket_key"] = user.AvatarBucketKey
			fields["avatar_url"] = user.AvatarURL
		}
	}
	fields["updated_at"] = time.Now()

	if err := us.userRepo.UpdateFields(ctx, nil, user.ID, fields); err != nil {
		us.log.Error("UpdateProfile failed", "error", err, "user_id", user.ID.String())
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return us.loadUser(ctx, user.ID)
}

func (us *userService) ListUsers(ctx context.Context, rd *ctxutil.RequestData, page, pageSize int) (*UserPage, error) {
	if err := requireAdmin(rd); err != nil {
		return nil, err
	}
	if pageSize <= 0 {
		pageSize = defaultUserPageSize
	}
	if page < 1 {
		page = 1
	}
	users, total, err := us.userRepo.List(ctx, nil, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return &UserPage{Users: users, Page: page, PageSize: pageSize, Total: total}, nil
}

func (us *userService) UpdateRole(ctx context.Context, rd *ctxutil.RequestData, userID uuid.UUID, role string) (*types.User, error) {
	if err := requireAdmin(rd); err != nil {
		return nil, err
	}
	if !types.ValidRole(role) {
		return nil, apierr.Validation("validation_failed", fmt.Errorf("unknown role %q", role))
	}
	if rd.UserID == userID && role != types.RoleAdmin {
		// The last admin demoting themselves would orphan the admin surface.
		return nil, apierr.Validation("validation_failed", fmt.Errorf("admins cannot demote themselves"))
	}
	if _, err := us.loadUser(ctx, userID); err != nil {
		return nil, err
	}
	if err := us.userRepo.UpdateFields(ctx, nil, userID, map[string]interface{}{
		"role":       role,
		"updated_at": time.Now(),
	}); err != nil {
		us.log.Error("UpdateRole failed", "error", err, "user_id", userID.String())
		return nil, fmt.Errorf("update role: %w", err)
	}
	us.log.Info("user role changed", "user_id", userID.String(), "role", role)
	return us.loadUser(ctx, userID)
}

func (us *userService) loadUser(ctx context.Context, userID uuid.UUID) (*types.User, error) {
	users, err := us.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.NotFound("not_found", fmt.Errorf("user %s not found", userID))
	}
	return users[0], nil
}

func requireAdmin(rd *ctxutil.RequestData) error {
	if rd == nil || rd.UserID == uuid.Nil {
		return apierr.Unauthorized("unauthorized", fmt.Errorf("no authenticated user"))
	}
	if rd.Role != types.RoleAdmin {
		return apierr.Forbidden("forbidden", fmt.Errorf("admin role required"))
	}
	return nil
}
