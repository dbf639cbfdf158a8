package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/learnhub/learnhub-backend/internal/platform/apierr"
	"github.com/learnhub/learnhub-backend/internal/platform/logger"
	"github.com/learnhub/learnhub-backend/internal/types"
)

type stubUserRepo struct {
	users   map[uuid.UUID]*types.User
	byEmail map[string]*types.User
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{
		users:   map[uuid.UUID]*types.User{},
		byEmail: map[string]*types.User{},
	}
}

func (s *stubUserRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	for _, u := range users {
		s.users[u.ID] = u
		s.byEmail[u.Email] = u
	}
	return users, nil
}

func (s *stubUserRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.User, error) {
	var out []*types.User
	for _, id := range ids {
		if u, ok := s.users[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) GetByEmails(ctx context.Context, tx *gorm.DB, emails []string) ([]*types.User, error) {
	var out []*types.User
	for _, e := range emails {
		if u, ok := s.byEmail[e]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUserRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	return nil
}

func (s *stubUserRepo) List(ctx context.Context, tx *gorm.DB, offset, limit int) ([]*types.User, int64, error) {
	return nil, 0, nil
}

func (s *stubUserRepo) CountByRole(ctx context.Context, tx *gorm.DB, role string) (int64, error) {
	return 0, nil
}

type stubTokenRepo struct {
	rows map[string]*types.UserToken
}

func newStubTokenRepo() *stubTokenRepo {
	return &stubTokenRepo{rows: map[string]*types.UserToken{}}
}

func (s *stubTokenRepo) Create(ctx context.Context, tx *gorm.DB, tokens []*types.UserToken) ([]*types.UserToken, error) {
	for _, t := range tokens {
		s.rows[t.AccessToken] = t
	}
	return tokens, nil
}

func (s *stubTokenRepo) GetByAccessTokens(ctx context.Context, tx *gorm.DB, accessTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, at := range accessTokens {
		if row, ok := s.rows[at]; ok {
			out = append(out, row)
		}
	}
	return out, nil
}

func (s *stubTokenRepo) GetByRefreshTokens(ctx context.Context, tx *gorm.DB, refreshTokens []string) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, rt := range refreshTokens {
		for _, row := range s.rows {
			if row.RefreshToken == rt {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (s *stubTokenRepo) GetByUserIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.UserToken, error) {
	var out []*types.UserToken
	for _, id := range userIDs {
		for _, row := range s.rows {
			if row.UserID == id {
				out = append(out, row)
			}
		}
	}
	return out, nil
}

func (s *stubTokenRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	for _, id := range ids {
		for at, row := range s.rows {
			if row.ID == id {
				delete(s.rows, at)
			}
		}
	}
	return nil
}

func testAuthService(t *testing.T) (AuthService, *stubUserRepo, *stubTokenRepo) {
	t.Helper()
	log, err := logger.New("production")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	userRepo := newStubUserRepo()
	tokenRepo := newStubTokenRepo()
	svc := NewAuthService(db, log, userRepo, tokenRepo, nil, "test-secret", time.Hour, 24*time.Hour)
	return svc, userRepo, tokenRepo
}

func TestRegisterUserValidation(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	cases := []struct {
		name        string
		email       string
		password    string
		displayName string
		wantCode    string
	}{
		{"empty email", "", "secret1", "Ada", "invalid_email"},
		{"no at sign", "ada.example.com", "secret1", "Ada", "invalid_email"},
		{"no domain dot", "ada@example", "secret1", "Ada", "invalid_email"},
		{"spaces in email", "ada lovelace@example.com", "secret1", "Ada", "invalid_email"},
		{"password too short", "ada@example.com", "five5", "Ada", "weak_password"},
		{"empty password", "ada@example.com", "", "Ada", "weak_password"},
		{"missing display name", "ada@example.com", "secret1", "   ", "display_name_required"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.RegisterUser(ctx, tc.email, tc.password, tc.displayName, false)
			ae := apierr.From(err)
			if ae == nil {
				t.Fatalf("expected typed error, got %v", err)
			}
			if ae.Code != tc.wantCode {
				t.Fatalf("unexpected code: got=%q want=%q", ae.Code, tc.wantCode)
			}
		})
	}
}

func TestRegisterUserAssignsRole(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	student, err := svc.RegisterUser(ctx, "Student@Example.com", "secret1", "Student One", false)
	if err != nil {
		t.Fatalf("register student: %v", err)
	}
	if student.Role != types.RoleStudent {
		t.Fatalf("unexpected role: got=%q want=%q", student.Role, types.RoleStudent)
	}
	if student.Email != "student@example.com" {
		t.Fatalf("email not lowercased: %q", student.Email)
	}
	if student.Password == "secret1" {
		t.Fatal("password stored in clear")
	}

	creator, err := svc.RegisterUser(ctx, "creator@example.com", "secret1", "Creator One", true)
	if err != nil {
		t.Fatalf("register creator: %v", err)
	}
	if creator.Role != types.RoleCreator {
		t.Fatalf("unexpected role: got=%q want=%q", creator.Role, types.RoleCreator)
	}
}

func TestLoginAndAuthenticateRoundTrip(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "taker@example.com", "secret1", "Quiz Taker", false); err != nil {
		t.Fatalf("register: %v", err)
	}

	access, refresh, user, err := svc.LoginUser(ctx, "taker@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if access == "" || refresh == "" {
		t.Fatal("missing tokens")
	}

	rd, err := svc.AuthenticateToken(ctx, access)
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if rd.UserID != user.ID {
		t.Fatalf("unexpected user id: got=%s want=%s", rd.UserID, user.ID)
	}
	if rd.Role != types.RoleStudent {
		t.Fatalf("unexpected role: got=%q", rd.Role)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "taker@example.com", "secret1", "Quiz Taker", false); err != nil {
		t.Fatalf("register: %v", err)
	}

	cases := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "taker@example.com", "not-it"},
		{"unknown email", "nobody@example.com", "secret1"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, _, err := svc.LoginUser(ctx, tc.email, tc.password)
			ae := apierr.From(err)
			if ae == nil || ae.Code != "invalid_credentials" {
				t.Fatalf("expected invalid_credentials, got %v", err)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "taker@example.com", "secret1", "Quiz Taker", false); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, _, _, err := svc.LoginUser(ctx, "taker@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// The signature is still valid but the row is gone; the token must die.
	if _, err := svc.AuthenticateToken(ctx, access); err == nil {
		t.Fatal("revoked token still authenticates")
	}

	// Logging out twice is a no-op, not an error.
	if err := svc.Logout(ctx, access); err != nil {
		t.Fatalf("second logout: %v", err)
	}
}

func TestRefreshRotatesTokens(t *testing.T) {
	t.Parallel()
	svc, _, _ := testAuthService(t)
	ctx := context.Background()

	if _, err := svc.RegisterUser(ctx, "taker@example.com", "secret1", "Quiz Taker", false); err != nil {
		t.Fatalf("register: %v", err)
	}
	access, refresh, _, err := svc.LoginUser(ctx, "taker@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	newAccess, newRefresh, err := svc.RefreshTokens(ctx, refresh)
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if newAccess == access || newRefresh == refresh {
		t.Fatal("tokens were not rotated")
	}

	// The rotated-out refresh token must not work again.
	if _, _, err := svc.RefreshTokens(ctx, refresh); err == nil {
		t.Fatal("stale refresh token accepted")
	}
	if _, err := svc.AuthenticateToken(ctx, newAccess); err != nil {
		t.Fatalf("authenticate rotated token: %v", err)
	}
}
