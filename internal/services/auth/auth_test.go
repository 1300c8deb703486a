package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/levkinivan/finance-guard/internal/lib/jwt"
	"github.com/levkinivan/finance-guard/internal/lib/password"
	"github.com/levkinivan/finance-guard/internal/models"
)

// MockUserRepository реализует интерфейс UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) RegisterUser(ctx context.Context, user models.User) (string, error) {
	args := m.Called(ctx, user)
	return args.String(0), args.Error(1)
}

func (m *MockUserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newTestMaker() jwt.Maker {
	return jwt.NewJWTMaker("test_secret_key", 15*time.Minute)
}

func TestRegister(t *testing.T) {
	users := new(MockUserRepository)
	svc := New(users, newTestMaker())

	users.On("RegisterUser", mock.Anything, mock.MatchedBy(func(u models.User) bool {
		if u.Email != "ivan@example.com" || u.Username != "ivan" || u.Role != "user" {
			return false
		}
		// Пароль хранится только как bcrypt-хэш
		return u.PasswordHash != "secret123" && password.CompareHash(u.PasswordHash, "secret123") == nil
	})).Return("new-uid", nil)

	uid, err := svc.Register(context.Background(), "ivan@example.com", "ivan", "secret123")

	require.NoError(t, err)
	assert.Equal(t, "new-uid", uid)
	users.AssertExpectations(t)
}

func TestLogin(t *testing.T) {
	hashed, err := password.GetHash("secret123")
	require.NoError(t, err)

	storedUser := &models.User{
		UID:          "user-1",
		Email:        "ivan@example.com",
		Username:     "ivan",
		PasswordHash: hashed,
		Role:         "user",
	}

	tests := []struct {
		name      string
		username  string
		password  string
		setupMock func(*MockUserRepository)
		wantErr   bool
	}{
		{
			name:     "успешный вход",
			username: "ivan",
			password: "secret123",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByUsername", mock.Anything, "ivan").Return(storedUser, nil)
			},
		},
		{
			name:     "неверный пароль",
			username: "ivan",
			password: "wrong",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByUsername", mock.Anything, "ivan").Return(storedUser, nil)
			},
			wantErr: true,
		},
		{
			name:     "пользователь не найден",
			username: "ghost",
			password: "secret123",
			setupMock: func(m *MockUserRepository) {
				m.On("GetUserByUsername", mock.Anything, "ghost").Return(nil, errors.New("not found"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			users := new(MockUserRepository)
			tt.setupMock(users)
			svc := New(users, newTestMaker())

			token, role, err := svc.Login(context.Background(), tt.username, tt.password)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token)
			assert.Equal(t, "user", role)
		})
	}
}

func TestValidateToken(t *testing.T) {
	users := new(MockUserRepository)
	svc := New(users, newTestMaker())

	hashed, err := password.GetHash("secret123")
	require.NoError(t, err)
	users.On("GetUserByUsername", mock.Anything, "ivan").Return(&models.User{
		UID:          "user-1",
		Email:        "ivan@example.com",
		Username:     "ivan",
		PasswordHash: hashed,
		Role:         "admin",
	}, nil)

	token, _, err := svc.Login(context.Background(), "ivan", "secret123")
	require.NoError(t, err)

	caller, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", caller.UID)
	assert.Equal(t, "ivan", caller.Username)
	assert.Equal(t, "ivan@example.com", caller.Email)
	assert.Equal(t, "admin", caller.Role)

	_, err = svc.ValidateToken(context.Background(), token+"tampered")
	assert.Error(t, err)
}
