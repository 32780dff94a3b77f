package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/Ashiksyedmuhammad/React-User-Management/internal/auth"
	"github.com/Ashiksyedmuhammad/React-User-Management/internal/domain"
	"github.com/Ashiksyedmuhammad/React-User-Management/internal/event"
	apperrors "github.com/Ashiksyedmuhammad/React-User-Management/pkg/errors"
	"github.com/Ashiksyedmuhammad/React-User-Management/pkg/pagination"
)

// --- Mock User Repository ---

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *mockUserRepository) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) ListNonAdmins(ctx context.Context, search string, limit, offset int) ([]domain.User, int, error) {
	args := m.Called(ctx, search, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]domain.User), args.Int(1), args.Error(2)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestJWTManager() *auth.JWTManager {
	return auth.NewJWTManager("test-secret-key-for-testing", 15*time.Minute, 7*24*time.Hour)
}

func newTestService(userRepo *mockUserRepository) *UserService {
	return NewUserService(userRepo, newTestJWTManager(), event.NopPublisher{}, newTestLogger())
}

func strPtr(s string) *string {
	return &s
}

// hashForTest creates a bcrypt hash with cost 4 for fast tests.
func hashForTest(password string) string {
	h, err := bcrypt.GenerateFromPassword([]byte(password), 4)
	if err != nil {
		panic(err)
	}
	return string(h)
}

func existingUser() *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		ID:           "11111111-2222-3333-4444-555555555555",
		Name:         "John Doe",
		Email:        "john@example.com",
		PasswordHash: hashForTest("secret123"),
		IsAdmin:      false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "John@Example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "john@example.com", user.Email, "email must be stored lowercase")
	assert.Equal(t, "John Doe", user.Name)
	assert.False(t, user.IsAdmin)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	userRepo.AssertExpectations(t)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	userRepo.On("Create", ctx, mock.AnythingOfType("*domain.User")).
		Return(apperrors.AlreadyExists("user", "email", "john@example.com"))

	user, tokens, err := svc.Register(ctx, RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "secret123",
	})

	assert.Nil(t, user)
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	userRepo.AssertExpectations(t)
}

func TestRegister_ShortPassword(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)

	user, tokens, err := svc.Register(context.Background(), RegisterInput{
		Name:     "John Doe",
		Email:    "john@example.com",
		Password: "abc",
	})

	assert.Nil(t, user)
	assert.Nil(t, tokens)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	userRepo.On("GetByEmail", ctx, "john@example.com").Return(u, nil)

	user, tokens, err := svc.Login(ctx, LoginInput{
		Email:    "John@example.com",
		Password: "secret123",
	})

	require.NoError(t, err)
	assert.Equal(t, u.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
	userRepo.AssertExpectations(t)
}

func TestLogin_UnknownEmailAndWrongPassword_SameError(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "missing@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("GetByEmail", ctx, "john@example.com").Return(existingUser(), nil)

	_, _, errUnknown := svc.Login(ctx, LoginInput{Email: "missing@example.com", Password: "secret123"})
	_, _, errWrongPass := svc.Login(ctx, LoginInput{Email: "john@example.com", Password: "wrong-password"})

	require.Error(t, errUnknown)
	require.Error(t, errWrongPass)
	assert.ErrorIs(t, errUnknown, apperrors.ErrUnauthorized)
	assert.ErrorIs(t, errWrongPass, apperrors.ErrUnauthorized)

	// Identical messages: the response must not reveal which accounts exist.
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

// --- Refresh ---

func TestRefresh_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	u.IsAdmin = true

	refreshToken, err := newTestJWTManager().GenerateRefreshToken(u.ID)
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)

	accessToken, err := svc.Refresh(ctx, refreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, accessToken)

	// The new access token carries the user's current admin flag.
	claims, err := newTestJWTManager().ValidateAccessToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.True(t, claims.IsAdmin)
	userRepo.AssertExpectations(t)
}

func TestRefresh_InvalidToken(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)

	accessToken, err := svc.Refresh(context.Background(), "not-a-valid-token")

	assert.Empty(t, accessToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestRefresh_Expired(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)

	expiredManager := auth.NewJWTManager("test-secret-key-for-testing", 15*time.Minute, -1*time.Minute)
	token, err := expiredManager.GenerateRefreshToken("u-1")
	require.NoError(t, err)

	accessToken, err := svc.Refresh(context.Background(), token)

	assert.Empty(t, accessToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestRefresh_DeletedUser(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	refreshToken, err := newTestJWTManager().GenerateRefreshToken("gone-user")
	require.NoError(t, err)

	userRepo.On("GetByID", ctx, "gone-user").Return(nil, apperrors.ErrNotFound)

	accessToken, err := svc.Refresh(ctx, refreshToken)

	assert.Empty(t, accessToken)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertExpectations(t)
}

// --- Profile ---

func TestUpdateProfile_Name(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: strPtr("Johnny Doe")})

	require.NoError(t, err)
	assert.Equal(t, "Johnny Doe", updated.Name)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfile_EmptyName(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Name: strPtr("   ")})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// --- Admin ---

func TestAdminListUsers_PaginationMath(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	// 10 matching users, page size 4: pages are 4, 4, 2.
	pageTwo := []domain.User{*existingUser(), *existingUser(), *existingUser(), *existingUser()}
	userRepo.On("ListNonAdmins", ctx, "", 4, 4).Return(pageTwo, 10, nil)

	result, err := svc.AdminListUsers(ctx, "", pagination.Params{Page: 2, Limit: 4, Offset: 4})

	require.NoError(t, err)
	assert.Equal(t, 10, result.TotalCount)
	assert.Equal(t, 3, result.TotalPages)
	assert.True(t, result.HasNext)
	assert.True(t, result.HasPrev)
	assert.Len(t, result.Items, 4)
	userRepo.AssertExpectations(t)
}

func TestAdminDeleteUser_Success(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)
	userRepo.On("Delete", ctx, u.ID).Return(nil)

	err := svc.AdminDeleteUser(ctx, u.ID)

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestAdminDeleteUser_RefusesAdminTarget(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	u.IsAdmin = true
	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)

	err := svc.AdminDeleteUser(ctx, u.ID)

	assert.ErrorIs(t, err, apperrors.ErrForbidden)
	userRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestAdminUpdateUser_NormalizesEmail(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	u := existingUser()
	userRepo.On("GetByID", ctx, u.ID).Return(u, nil)
	userRepo.On("Update", ctx, mock.AnythingOfType("*domain.User")).Return(nil)

	updated, err := svc.AdminUpdateUser(ctx, u.ID, AdminUpdateInput{Email: strPtr(" New@Example.COM ")})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	userRepo.AssertExpectations(t)
}

// --- Bootstrap admin ---

func TestEnsureAdmin_CreatesWhenMissing(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "admin@example.com").Return(nil, apperrors.ErrNotFound)
	userRepo.On("Create", ctx, mock.MatchedBy(func(u *domain.User) bool {
		return u.IsAdmin && u.Email == "admin@example.com"
	})).Return(nil)

	err := svc.EnsureAdmin(ctx, "Admin@Example.com", "supersecret")

	assert.NoError(t, err)
	userRepo.AssertExpectations(t)
}

func TestEnsureAdmin_SkipsWhenExists(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)
	ctx := context.Background()

	userRepo.On("GetByEmail", ctx, "admin@example.com").Return(existingUser(), nil)

	err := svc.EnsureAdmin(ctx, "admin@example.com", "supersecret")

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEnsureAdmin_NoopWithoutCredentials(t *testing.T) {
	userRepo := new(mockUserRepository)
	svc := newTestService(userRepo)

	err := svc.EnsureAdmin(context.Background(), "", "")

	assert.NoError(t, err)
	userRepo.AssertNotCalled(t, "GetByEmail", mock.Anything, mock.Anything)
}
