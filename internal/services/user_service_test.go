package services

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/api/internal/models"
	appErr "github.com/userdesk/api/pkg/errors"
	"github.com/userdesk/api/pkg/logger"
)

func TestMain(m *testing.M) {
	if _, err := logger.Init("error", "json"); err != nil {
		panic("failed to init logger: " + err.Error())
	}
	os.Exit(m.Run())
}

type mockUserRepository struct {
	mock.Mock
}

func (m *mockUserRepository) Create(ctx context.Context, obj *models.User) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockUserRepository) GetByID(ctx context.Context, id any, dest *models.User) error {
	args := m.Called(ctx, id, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.User)
	}
	return args.Error(0)
}

func (m *mockUserRepository) Update(ctx context.Context, obj *models.User) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *mockUserRepository) Delete(ctx context.Context, id any) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepository) GetByEmail(ctx context.Context, email string, dest *models.User) error {
	args := m.Called(ctx, email, dest)
	if args.Error(0) == nil && args.Get(1) != nil {
		*dest = *args.Get(1).(*models.User)
	}
	return args.Error(0)
}

func (m *mockUserRepository) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	args := m.Called(ctx, skip, limit)
	if v := args.Get(0); v != nil {
		return v.([]models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(h)
}

func notFound() error { return appErr.New(appErr.CodeNotFound, "user not found") }

func TestCreateHashesPasswordAndDefaultsActive(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	repo.On("GetByEmail", mock.Anything, "new@example.com", mock.Anything).Return(notFound(), nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		args.Get(1).(*models.User).ID = 1
	}).Return(nil)

	u, err := svc.Create(context.Background(), "new@example.com", "s3cret")
	require.NoError(t, err)
	require.Equal(t, uint(1), u.ID)
	require.Equal(t, "new@example.com", u.Email)
	require.True(t, u.IsActive)
	require.NotEqual(t, "s3cret", u.HashedPassword)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("s3cret")))
	repo.AssertExpectations(t)
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	existing := &models.User{ID: 3, Email: "taken@example.com"}
	repo.On("GetByEmail", mock.Anything, "taken@example.com", mock.Anything).Return(nil, existing)

	_, err := svc.Create(context.Background(), "taken@example.com", "pw")
	require.Error(t, err)
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateMapsUniqueIndexRace(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	// Pre-check misses, then the unique index rejects the insert.
	repo.On("GetByEmail", mock.Anything, "race@example.com", mock.Anything).Return(notFound(), nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(appErr.New(appErr.CodeAlreadyExists, "entity already exists"))

	_, err := svc.Create(context.Background(), "race@example.com", "pw")
	require.True(t, appErr.IsCode(err, appErr.CodeAlreadyExists))
}

func TestLogin(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 1, Email: "a@example.com", HashedPassword: mustHash(t, "right")}
	repo.On("GetByEmail", mock.Anything, "a@example.com", mock.Anything).Return(nil, stored)
	repo.On("GetByEmail", mock.Anything, "nobody@example.com", mock.Anything).Return(notFound(), nil)

	require.NoError(t, svc.Login(context.Background(), "a@example.com", "right"))

	wrongPw := svc.Login(context.Background(), "a@example.com", "wrong")
	unknown := svc.Login(context.Background(), "nobody@example.com", "right")
	require.Error(t, wrongPw)
	require.Error(t, unknown)
	// Identical failure for both causes so the response leaks nothing.
	require.Equal(t, wrongPw.Error(), unknown.Error())
	require.True(t, appErr.IsCode(wrongPw, appErr.CodeUnauthorized))
}

func TestPatchAppliesOnlySuppliedFields(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 5, Email: "keep@example.com", HashedPassword: "hash", IsActive: true}
	repo.On("GetByID", mock.Anything, uint(5), mock.Anything).Return(nil, stored)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	inactive := false
	u, err := svc.Patch(context.Background(), 5, nil, &inactive)
	require.NoError(t, err)
	require.Equal(t, "keep@example.com", u.Email)
	require.False(t, u.IsActive)
	require.Equal(t, "hash", u.HashedPassword)
}

func TestPatchPasswordTouchesOnlyHash(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 5, Email: "keep@example.com", HashedPassword: "old", IsActive: true}
	repo.On("GetByID", mock.Anything, uint(5), mock.Anything).Return(nil, stored)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	u, err := svc.PatchPassword(context.Background(), 5, "newpw")
	require.NoError(t, err)
	require.Equal(t, "keep@example.com", u.Email)
	require.True(t, u.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("newpw")))
}

func TestUpdateOverwritesAllMutableFields(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 9, Email: "old@example.com", HashedPassword: "old", IsActive: true}
	repo.On("GetByID", mock.Anything, uint(9), mock.Anything).Return(nil, stored)
	repo.On("Update", mock.Anything, mock.Anything).Return(nil)

	u, err := svc.Update(context.Background(), 9, "new@example.com", false, "pw")
	require.NoError(t, err)
	require.Equal(t, "new@example.com", u.Email)
	require.False(t, u.IsActive)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte("pw")))
}

func TestDeleteReturnsRemovedUser(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 2, Email: "gone@example.com"}
	repo.On("GetByID", mock.Anything, uint(2), mock.Anything).Return(nil, stored)
	repo.On("Delete", mock.Anything, uint(2)).Return(nil)

	u, err := svc.Delete(context.Background(), 2)
	require.NoError(t, err)
	require.Equal(t, "gone@example.com", u.Email)
}

func TestDeleteIsNotIdempotent(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	repo.On("GetByID", mock.Anything, uint(2), mock.Anything).Return(notFound(), nil)

	_, err := svc.Delete(context.Background(), 2)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
	require.Equal(t, "not_found: User not found", err.Error())
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestDeleteRaceSurfacesNotFound(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	stored := &models.User{ID: 4, Email: "racy@example.com"}
	repo.On("GetByID", mock.Anything, uint(4), mock.Anything).Return(nil, stored)
	// Row vanished between fetch and delete.
	repo.On("Delete", mock.Anything, uint(4)).Return(appErr.New(appErr.CodeNotFound, "entity 4 not found"))

	_, err := svc.Delete(context.Background(), 4)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}

func TestGetNotFound(t *testing.T) {
	repo := new(mockUserRepository)
	svc := NewUserService(repo)

	repo.On("GetByID", mock.Anything, uint(404), mock.Anything).Return(notFound(), nil)

	_, err := svc.Get(context.Background(), 404)
	require.True(t, appErr.IsCode(err, appErr.CodeNotFound))
}
