package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/ctxutil"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/repos"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type AuthService interface {
	RegisterUser(ctx context.Context, email, password, displayName string, creator bool) (*types.User, error)
	LoginUser(ctx context.Context, email, password string) (string, string, *types.User, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, accessToken string) error
	// AuthenticateToken validates an access token against both its signature
	// and the stored token row, so logout revokes immediately. The returned
	// role comes from the user row, not the claim: admin role changes take
	// effect on the next request.
	AuthenticateToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error)
	GetAccessTTL() time.Duration
}

type JWTClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const minPasswordLength = 6

const uniqueViolationCode = "23505"

type authService struct {
	db            *gorm.DB
	log           *logger.Logger
	userRepo      repos.UserRepo
	userTokenRepo repos.UserTokenRepo
	avatarService AvatarService
	jwtSecretKey  string
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

func NewAuthService(
	db *gorm.DB,
	baseLog *logger.Logger,
	userRepo repos.UserRepo,
	userTokenRepo repos.UserTokenRepo,
	avatarService AvatarService,
	jwtSecretKey string,
	accessTTL time.Duration,
	refreshTTL time.Duration,
) AuthService {
	return &authService{
		db:            db,
		log:           baseLog.With("service", "AuthService"),
		userRepo:      userRepo,
		userTokenRepo: userTokenRepo,
		avatarService: avatarService,
		jwtSecretKey:  jwtSecretKey,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
	}
}

func (as *authService) RegisterUser(ctx context.Context, email, password, displayName string, creator bool) (*types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	displayName = strings.TrimSpace(displayName)

	if email == "" || !emailPattern.MatchString(email) {
		return nil, apierr.Validation("invalid_email", fmt.Errorf("a valid email is required"))
	}
	if len(password) < minPasswordLength {
		return nil, apierr.Validation("weak_password", fmt.Errorf("password must be at least %d characters", minPasswordLength))
	}
	if displayName == "" {
		return nil, apierr.Validation("display_name_required", fmt.Errorf("display name is required"))
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := types.RoleStudent
	if creator {
		role = types.RoleCreator
	}
	user := &types.User{
		ID:          uuid.New(),
		Email:       email,
		Password:    string(hashed),
		DisplayName: displayName,
		Role:        role,
	}

	if as.avatarService != nil {
		// Cosmetic; a bucket outage must not block registration.
		if aErr := as.avatarService.CreateAndUploadUserAvatar(ctx, user); aErr != nil {
			as.log.Warn("avatar generation failed, registering without one", "error", aErr)
		}
	}

	if _, err := as.userRepo.Create(ctx, nil, []*types.User{user}); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolationCode {
			return nil, apierr.Conflict("email_taken", fmt.Errorf("an account with this email already exists"))
		}
		as.log.Error("RegisterUser failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, string, *types.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	users, err := as.userRepo.GetByEmails(ctx, nil, []string{email})
	if err != nil {
		return "", "", nil, fmt.Errorf("load user by email: %w", err)
	}
	if len(users) == 0 {
		return "", "", nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}
	user := users[0]
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return "", "", nil, apierr.Unauthorized("invalid_credentials", fmt.Errorf("invalid email or password"))
	}

	var accessToken, refreshToken string
	err = as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Expired sessions for this user are garbage; collect them now.
		existing, ftErr := as.userTokenRepo.GetByUserIDs(ctx, tx, []uuid.UUID{user.ID})
		if ftErr != nil {
			return fmt.Errorf("check user tokens: %w", ftErr)
		}
		var stale []uuid.UUID
		for _, t := range existing {
			if t.ExpiresAt.Before(time.Now()) {
				stale = append(stale, t.ID)
			}
		}
		if len(stale) > 0 {
			if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, stale); dErr != nil {
				return fmt.Errorf("delete expired tokens: %w", dErr)
			}
		}

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		accessToken = tok
		refreshToken = uuid.New().String()
		row := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{row}); cErr != nil {
			return fmt.Errorf("create user token: %w", cErr)
		}
		return nil
	})
	if err != nil {
		as.log.Error("LoginUser failed", "error", err, "user_id", user.ID.String())
		return "", "", nil, err
	}
	return accessToken, refreshToken, user, nil
}

func (as *authService) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return "", "", apierr.Unauthorized("unauthorized", fmt.Errorf("refresh token required"))
	}

	var newAccess, newRefresh string
	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, ftErr := as.userTokenRepo.GetByRefreshTokens(ctx, tx, []string{refreshToken})
		if ftErr != nil {
			return fmt.Errorf("load refresh token: %w", ftErr)
		}
		if len(found) == 0 {
			return apierr.Unauthorized("unauthorized", fmt.Errorf("unknown refresh token"))
		}
		existing := found[0]
		if existing.ExpiresAt.Before(time.Now()) {
			if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
				return fmt.Errorf("delete expired refresh token: %w", dErr)
			}
			return apierr.Unauthorized("unauthorized", fmt.Errorf("refresh token expired"))
		}

		users, uErr := as.userRepo.GetByIDs(ctx, tx, []uuid.UUID{existing.UserID})
		if uErr != nil {
			return fmt.Errorf("load user for refresh: %w", uErr)
		}
		if len(users) == 0 {
			return apierr.Unauthorized("unauthorized", fmt.Errorf("user no longer exists"))
		}
		user := users[0]

		tok, genErr := as.generateAccessToken(user)
		if genErr != nil {
			return fmt.Errorf("generate access token: %w", genErr)
		}
		newAccess = tok
		newRefresh = uuid.New().String()
		row := &types.UserToken{
			ID:           uuid.New(),
			UserID:       user.ID,
			AccessToken:  newAccess,
			RefreshToken: newRefresh,
			ExpiresAt:    time.Now().Add(as.refreshTTL),
		}
		if _, cErr := as.userTokenRepo.Create(ctx, tx, []*types.UserToken{row}); cErr != nil {
			return fmt.Errorf("create rotated token: %w", cErr)
		}
		if dErr := as.userTokenRepo.DeleteByIDs(ctx, tx, []uuid.UUID{existing.ID}); dErr != nil {
			return fmt.Errorf("delete rotated-out token: %w", dErr)
		}
		return nil
	})
	if err != nil {
		return "", "", err
	}
	return newAccess, newRefresh, nil
}

func (as *authService) Logout(ctx context.Context, accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return apierr.Unauthorized("unauthorized", fmt.Errorf("access token required"))
	}
	found, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{accessToken})
	if err != nil {
		return fmt.Errorf("load token for logout: %w", err)
	}
	if len(found) == 0 {
		// Already logged out; nothing to revoke.
		return nil
	}
	if err := as.userTokenRepo.DeleteByIDs(ctx, nil, []uuid.UUID{found[0].ID}); err != nil {
		return fmt.Errorf("delete token: %w", err)
	}
	return nil
}

func (as *authService) AuthenticateToken(ctx context.Context, tokenString string) (*ctxutil.RequestData, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(as.jwtSecretKey), nil
	})
	if err != nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("parse token: %w", err))
	}
	claims, ok := parsed.Claims.(*JWTClaims)
	if !ok || !parsed.Valid {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("invalid or expired token"))
	}
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("invalid subject in token: %w", err))
	}

	rows, err := as.userTokenRepo.GetByAccessTokens(ctx, nil, []string{tokenString})
	if err != nil {
		return nil, fmt.Errorf("load token row: %w", err)
	}
	if len(rows) == 0 {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("token revoked"))
	}

	users, err := as.userRepo.GetByIDs(ctx, nil, []uuid.UUID{userID})
	if err != nil {
		return nil, fmt.Errorf("load user for token: %w", err)
	}
	if len(users) == 0 {
		return nil, apierr.Unauthorized("unauthorized", fmt.Errorf("user no longer exists"))
	}

	return &ctxutil.RequestData{
		UserID:      userID,
		Role:        users[0].Role,
		TokenString: tokenString,
	}, nil
}

func (as *authService) GetAccessTTL() time.Duration {
	return as.accessTTL
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
	claims := JWTClaims{
		Role: user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(as.jwtSecretKey))
}
