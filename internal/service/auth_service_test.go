package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"carrental/internal/auth"
	apperrors "carrental/internal/errors"
	"carrental/internal/model"
)

func newTestAuthService(repo *MockUserRepository, store *MockTokenStore) (AuthService, *auth.JWTService) {
	jwtService := auth.NewJWTService("test-secret", time.Hour)
	return NewAuthService(repo, NewUserService(repo, nil), jwtService, store), jwtService
}

func TestAuthService_Register(t *testing.T) {
	tests := []struct {
		name          string
		input         RegisterInput
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:  "successful registration",
			input: RegisterInput{Name: "Test User", Email: "Test@Example.com ", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
			},
		},
		{
			name:  "email already exists",
			input: RegisterInput{Name: "Existing User", Email: "existing@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "existing@example.com").Return(&model.User{Email: "existing@example.com"}, nil)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
		{
			name:  "concurrent registration hits unique index",
			input: RegisterInput{Name: "Racer", Email: "race@example.com", Password: "password123"},
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "race@example.com").Return(nil, gorm.ErrRecordNotFound)
				m.On("Create", mock.Anything, mock.AnythingOfType("*model.User")).Return(gorm.ErrDuplicatedKey)
			},
			expectedError: apperrors.ErrEmailTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service, jwtService := newTestAuthService(mockRepo, new(MockTokenStore))
			user, token, err := service.Register(context.Background(), tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "test@example.com", user.Email)
				assert.Equal(t, "Test User", user.Name)
				assert.Equal(t, model.RoleUser, user.Role)
				assert.NotEqual(t, "password123", user.PasswordHash)
				assert.True(t, auth.CheckPassword(user.PasswordHash, "password123"))

				claims, err := jwtService.ValidateToken(token.Token)
				require.NoError(t, err)
				assert.Equal(t, user.ID.String(), claims.Subject)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	userID := uuid.New()
	stored := &model.User{
		ID:           userID,
		Email:        "test@example.com",
		PasswordHash: string(hashedPassword),
		Role:         model.RoleUser,
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMock     func(*MockUserRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
		},
		{
			name:     "invalid credentials - wrong password",
			email:    "test@example.com",
			password: "wrong-password",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(stored, nil)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "invalid credentials - user not found",
			email:    "notfound@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "notfound@example.com").Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidCredentials,
		},
		{
			name:     "database failure is not a credentials error",
			email:    "test@example.com",
			password: "password123",
			setupMock: func(m *MockUserRepository) {
				m.On("FindByEmail", mock.Anything, "test@example.com").Return(nil, errors.New("connection refused"))
			},
			expectedError: errors.New("find user: connection refused"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			tt.setupMock(mockRepo)

			service, _ := newTestAuthService(mockRepo, new(MockTokenStore))
			user, token, err := service.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				require.Error(t, err)
				assert.Equal(t, tt.expectedError.Error(), err.Error())
				assert.Nil(t, user)
				assert.Nil(t, token)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)
				assert.NotEmpty(t, token.Token)
				assert.NotEmpty(t, token.ID)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestAuthService_LoginFailuresAreIndistinguishable(t *testing.T) {
	hashedPassword, _ := bcrypt.GenerateFromPassword([]byte("password123"), 10)
	mockRepo := new(MockUserRepository)
	mockRepo.On("FindByEmail", mock.Anything, "known@example.com").
		Return(&model.User{ID: uuid.New(), Email: "known@example.com", PasswordHash: string(hashedPassword)}, nil)
	mockRepo.On("FindByEmail", mock.Anything, "unknown@example.com").Return(nil, gorm.ErrRecordNotFound)

	service, _ := newTestAuthService(mockRepo, new(MockTokenStore))

	_, _, wrongPassword := service.Login(context.Background(), "known@example.com", "nope")
	_, _, unknownEmail := service.Login(context.Background(), "unknown@example.com", "nope")

	require.Error(t, wrongPassword)
	assert.Equal(t, wrongPassword, unknownEmail)
	assert.Equal(t, apperrors.MapErrorToHTTP(wrongPassword), apperrors.MapErrorToHTTP(unknownEmail))
}

func TestAuthService_Authenticate(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name          string
		token         func(*auth.JWTService) string
		setupMock     func(*MockUserRepository, *MockTokenStore)
		expectedError error
	}{
		{
			name: "valid session",
			token: func(j *auth.JWTService) string {
				tok, _ := j.GenerateSessionToken(userID)
				return tok.Token
			},
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				s.On("IsTokenRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				r.On("FindByID", mock.Anything, userID).Return(&model.User{ID: userID, Email: "a@b.com", PasswordHash: "secret"}, nil)
			},
		},
		{
			name:          "malformed token",
			token:         func(*auth.JWTService) string { return "not-a-jwt" },
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name: "token signed with another secret",
			token: func(*auth.JWTService) string {
				tok, _ := auth.NewJWTService("other-secret", time.Hour).GenerateSessionToken(userID)
				return tok.Token
			},
			setupMock:     func(*MockUserRepository, *MockTokenStore) {},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name: "revoked token",
			token: func(j *auth.JWTService) string {
				tok, _ := j.GenerateSessionToken(userID)
				return tok.Token
			},
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				s.On("IsTokenRevoked", mock.Anything, mock.AnythingOfType("string")).Return(true, nil)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
		{
			name: "user deleted after login",
			token: func(j *auth.JWTService) string {
				tok, _ := j.GenerateSessionToken(userID)
				return tok.Token
			},
			setupMock: func(r *MockUserRepository, s *MockTokenStore) {
				s.On("IsTokenRevoked", mock.Anything, mock.AnythingOfType("string")).Return(false, nil)
				r.On("FindByID", mock.Anything, userID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrInvalidToken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockUserRepository)
			mockStore := new(MockTokenStore)
			tt.setupMock(mockRepo, mockStore)

			service, jwtService := newTestAuthService(mockRepo, mockStore)
			user, err := service.Authenticate(context.Background(), tt.token(jwtService))

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, userID, user.ID)
				assert.Empty(t, user.PasswordHash)
			}

			mockRepo.AssertExpectations(t)
			mockStore.AssertExpectations(t)
		})
	}
}

func TestAuthService_Logout(t *testing.T) {
	t.Run("revokes a valid token for its remaining lifetime", func(t *testing.T) {
		mockStore := new(MockTokenStore)
		service, jwtService := newTestAuthService(new(MockUserRepository), mockStore)

		tok, err := jwtService.GenerateSessionToken(uuid.New())
		require.NoError(t, err)

		mockStore.On("RevokeToken", mock.Anything, tok.ID, mock.MatchedBy(func(ttl time.Duration) bool {
			return ttl > 0 && ttl <= time.Hour
		})).Return(nil)

		assert.NoError(t, service.Logout(context.Background(), tok.Token))
		mockStore.AssertExpectations(t)
	})

	t.Run("ignores missing and invalid tokens", func(t *testing.T) {
		mockStore := new(MockTokenStore)
		service, _ := newTestAuthService(new(MockUserRepository), mockStore)

		assert.NoError(t, service.Logout(context.Background(), ""))
		assert.NoError(t, service.Logout(context.Background(), "garbage"))
		mockStore.AssertNotCalled(t, "RevokeToken", mock.Anything, mock.Anything, mock.Anything)
	})
}
