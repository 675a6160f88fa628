package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"carrental/internal/auth"
	"carrental/internal/cache"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/repository"
)

const userCacheTTL = 5 * time.Minute

// UpdateUserInput carries the admin-editable user fields. Nil fields are left untouched.
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	Role     *model.Role
	DarkMode *bool
}

// UserService exposes domain operations.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error)
	UpdateTheme(ctx context.Context, id uuid.UUID, darkMode bool) (bool, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
	CountUsers(ctx context.Context) (int64, error)
	CountUsersByRole(ctx context.Context, role model.Role) (int64, error)
}

type userService struct {
	repo  repository.UserRepository
	cache *cache.Client
}

// NewUserService builds a UserService with repository and cache.
func NewUserService(repo repository.UserRepository, cache *cache.Client) UserService {
	return &userService{repo: repo, cache: cache}
}

func (s *userService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetUser returns a user without its password hash, served from cache when possible.
func (s *userService) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	var cached model.User
	if s.cache.GetJSON(ctx, s.cacheKey(id), &cached) {
		return &cached, nil
	}

	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""

	s.cache.SetJSON(ctx, s.cacheKey(id), user, userCacheTTL)
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list users")
	}
	return users, nil
}

// UpdateUser applies the supplied fields. Email changes keep emails unique.
func (s *userService) UpdateUser(ctx context.Context, id uuid.UUID, in UpdateUserInput) (*model.User, error) {
	user, err := s.findUser(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		user.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		email := NormalizeEmail(*in.Email)
		if email != user.Email {
			existing, err := s.repo.FindByEmail(ctx, email)
			if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.Wrap(err, "check email")
			}
			if existing != nil && existing.ID != user.ID {
				return nil, apperrors.ErrEmailTaken
			}
			user.Email = email
		}
	}
	if in.Password != nil {
		hashed, err := auth.HashPassword(*in.Password)
		if err != nil {
			return nil, pkgerrors.Wrap(err, "hash password")
		}
		user.PasswordHash = hashed
	}
	if in.Role != nil {
		user.Role = *in.Role
	}
	if in.DarkMode != nil {
		user.DarkMode = *in.DarkMode
	}

	if err := s.repo.Update(ctx, user); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrEmailTaken
		}
		return nil, pkgerrors.Wrap(err, "update user")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))

	user.PasswordHash = ""
	return user, nil
}

// UpdateTheme stores the dark mode preference and returns the stored value.
func (s *userService) UpdateTheme(ctx context.Context, id uuid.UUID, darkMode bool) (bool, error) {
	if _, err := s.findUser(ctx, id); err != nil {
		return false, err
	}
	if err := s.repo.UpdateDarkMode(ctx, id, darkMode); err != nil {
		return false, pkgerrors.Wrap(err, "update theme")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return darkMode, nil
}

func (s *userService) DeleteUser(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.ErrUserNotFound
		}
		return pkgerrors.Wrap(err, "delete user")
	}
	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}

func (s *userService) CountUsers(ctx context.Context) (int64, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(err, "count users")
	}
	return count, nil
}

func (s *userService) CountUsersByRole(ctx context.Context, role model.Role) (int64, error) {
	count, err := s.repo.CountByRole(ctx, role)
	if err != nil {
		return 0, pkgerrors.Wrapf(err, "count %s users", role)
	}
	return count, nil
}

func (s *userService) findUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, pkgerrors.Wrap(err, "find user")
	}
	return user, nil
}

// NormalizeEmail lower-cases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
