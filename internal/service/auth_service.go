package service

import (
	"context"
	"errors"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"carrental/internal/auth"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
	"carrental/internal/repository"
)

// RegisterInput carries the self-registration fields.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// AuthService handles authentication operations.
type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*model.User, *auth.SessionToken, error)
	Login(ctx context.Context, email, password string) (*model.User, *auth.SessionToken, error)
	Logout(ctx context.Context, token string) error
	Authenticate(ctx context.Context, token string) (*model.User, error)
	SessionTTL() time.Duration
}

type authService struct {
	userRepo   repository.UserRepository
	users      UserService
	jwtService *auth.JWTService
	tokenStore auth.TokenStoreInterface
	now        func() time.Time
}

// NewAuthService creates a new authentication service.
func NewAuthService(userRepo repository.UserRepository, users UserService, jwtService *auth.JWTService, tokenStore auth.TokenStoreInterface) AuthService {
	return &authService{
		userRepo:   userRepo,
		users:      users,
		jwtService: jwtService,
		tokenStore: tokenStore,
		now:        time.Now,
	}
}

func (s *authService) SessionTTL() time.Duration {
	return s.jwtService.TTL()
}

// Register creates a user with the default role and issues a session token.
func (s *authService) Register(ctx context.Context, in RegisterInput) (*model.User, *auth.SessionToken, error) {
	email := NormalizeEmail(in.Email)

	existing, err := s.userRepo.FindByEmail(ctx, email)
	if err == nil && existing != nil {
		return nil, nil, apperrors.ErrEmailTaken
	}
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, pkgerrors.Wrap(err, "check user existence")
	}

	hashed, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "hash password")
	}

	user := &model.User{
		Name:         strings.TrimSpace(in.Name),
		Email:        email,
		PasswordHash: hashed,
		Role:         model.RoleUser,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		// lost a race against a concurrent registration
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, nil, apperrors.ErrEmailTaken
		}
		return nil, nil, pkgerrors.Wrap(err, "create user")
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "generate session token")
	}
	return user, token, nil
}

// Login verifies credentials. Unknown emails and wrong passwords fail identically.
func (s *authService) Login(ctx context.Context, email, password string) (*model.User, *auth.SessionToken, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			auth.BurnPasswordCheck(password)
			return nil, nil, apperrors.ErrInvalidCredentials
		}
		return nil, nil, pkgerrors.Wrap(err, "find user")
	}

	if !auth.CheckPassword(user.PasswordHash, password) {
		return nil, nil, apperrors.ErrInvalidCredentials
	}

	token, err := s.jwtService.GenerateSessionToken(user.ID)
	if err != nil {
		return nil, nil, pkgerrors.Wrap(err, "generate session token")
	}
	return user, token, nil
}

// Logout revokes the token when it is still valid. It never fails on bad input.
func (s *authService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil
	}
	return s.tokenStore.RevokeToken(ctx, claims.ID, claims.ExpiresIn(s.now()))
}

// Authenticate resolves a session token into the principal.
// Persistence failures are returned as is, every other failure is ErrInvalidToken.
func (s *authService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	claims, err := s.jwtService.ValidateToken(token)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	revoked, err := s.tokenStore.IsTokenRevoked(ctx, claims.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "check token revocation")
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	userID, err := claims.UserID()
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
