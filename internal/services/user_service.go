package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/userdesk/api/internal/models"
	"github.com/userdesk/api/internal/repository"
	appErr "github.com/userdesk/api/pkg/errors"
	"github.com/userdesk/api/pkg/logger"
)

// UserService holds the business rules between the route layer and the
// repository: password hashing, existence checks, and explicit field
// application for each mutation shape.
type UserService interface {
	List(ctx context.Context, skip, limit int) ([]models.User, error)
	Get(ctx context.Context, id uint) (*models.User, error)
	Login(ctx context.Context, email, password string) error
	Create(ctx context.Context, email, password string) (*models.User, error)
	Patch(ctx context.Context, id uint, email *string, isActive *bool) (*models.User, error)
	PatchPassword(ctx context.Context, id uint, password string) (*models.User, error)
	Update(ctx context.Context, id uint, email string, isActive bool, password string) (*models.User, error)
	Delete(ctx context.Context, id uint) (*models.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, skip, limit int) ([]models.User, error) {
	return s.users.List(ctx, skip, limit)
}

func (s *userService) Get(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.users.GetByID(ctx, id, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "User not found")
		}
		return nil, err
	}
	return &u, nil
}

// Login verifies the password against the stored hash. Unknown email and
// wrong password return the same error so callers cannot tell which failed.
func (s *userService) Login(ctx context.Context, email, password string) error {
	var u models.User
	if err := s.users.GetByEmail(ctx, email, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return appErr.New(appErr.CodeUnauthorized, "Login Failed!")
		}
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(password)); err != nil {
		return appErr.New(appErr.CodeUnauthorized, "Login Failed!")
	}
	return nil
}

func (s *userService) Create(ctx context.Context, email, password string) (*models.User, error) {
	// Advisory pre-check for a friendly error. The unique index on email is
	// what actually guarantees uniqueness under concurrent creates.
	var existing models.User
	err := s.users.GetByEmail(ctx, email, &existing)
	if err == nil {
		return nil, appErr.New(appErr.CodeAlreadyExists, "Email already registered")
	}
	if !appErr.IsCode(err, appErr.CodeNotFound) {
		return nil, err
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	u := models.User{
		Email:          email,
		HashedPassword: hash,
		IsActive:       true,
	}
	if err := s.users.Create(ctx, &u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return nil, appErr.New(appErr.CodeAlreadyExists, "Email already registered")
		}
		return nil, err
	}

	logger.L().Info("user created", zap.Uint("id", u.ID))
	return &u, nil
}

// Patch applies only the fields the caller supplied; nil means untouched.
func (s *userService) Patch(ctx context.Context, id uint, email *string, isActive *bool) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if email != nil {
		u.Email = *email
	}
	if isActive != nil {
		u.IsActive = *isActive
	}
	if err := s.persist(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *userService) PatchPassword(ctx context.Context, id uint, password string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u.HashedPassword = hash
	if err := s.persist(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Update overwrites the entire mutable state, re-deriving the password hash
// even when the supplied values equal the stored ones.
func (s *userService) Update(ctx context.Context, id uint, email string, isActive bool, password string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Email = email
	u.IsActive = isActive
	u.HashedPassword = hash
	if err := s.persist(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete re-fetches the record and removes it, returning what was deleted.
// A concurrent delete between fetch and remove surfaces as not found.
func (s *userService) Delete(ctx context.Context, id uint) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.users.Delete(ctx, u.ID); err != nil {
		if appErr.IsCode(err, appErr.CodeNotFound) {
			return nil, appErr.New(appErr.CodeNotFound, "User not found")
		}
		return nil, err
	}
	logger.L().Info("user deleted", zap.Uint("id", u.ID))
	return u, nil
}

func (s *userService) persist(ctx context.Context, u *models.User) error {
	if err := s.users.Update(ctx, u); err != nil {
		if appErr.IsCode(err, appErr.CodeAlreadyExists) {
			return appErr.New(appErr.CodeAlreadyExists, "Email already registered")
		}
		return err
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", appErr.Wrap(err, appErr.CodeInternal, "hash password failed")
	}
	return string(hash), nil
}
