package service

import (
	"context"
	"testing"
	"time"

	"github.com/ikkim/catalog-backend/internal/app/repository"
	"github.com/ikkim/catalog-backend/internal/db"
	"github.com/ikkim/catalog-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-jwt-secret"

type recordingRevoker struct {
	token string
	ttl   time.Duration
}

func (r *recordingRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	r.token = token
	r.ttl = ttl
	return nil
}

func setupAuthServiceTest(t *testing.T, revoker TokenRevoker) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	return NewAuthService(
		repository.NewUserRepository(testDB),
		revoker,
		testJWTSecret,
		15*time.Minute,
		7*24*time.Hour,
	)
}

func TestAuthService_Register(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)

	tests := []struct {
		name     string
		email    string
		password string
		userName string
		wantErr  error
	}{
		{
			name:     "Valid registration",
			email:    "Test@Example.com ",
			password: "password123",
			userName: "Test User",
			wantErr:  nil,
		},
		{
			name:     "Duplicate email",
			email:    "test@example.com",
			password: "password456",
			userName: "Another User",
			wantErr:  ErrEmailAlreadyExists,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Register(tt.email, tt.password, tt.userName)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "test@example.com", user.Email)
			assert.False(t, user.IsAdmin())
			assert.NotEmpty(t, tokens.AccessToken)
			assert.NotEmpty(t, tokens.RefreshToken)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	registered, _, err := authService.Register("login@example.com", "password123", "Login User")
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
	}{
		{"Valid credentials", "login@example.com", "password123", nil},
		{"Case insensitive email", "LOGIN@example.com", "password123", nil},
		{"Wrong password", "login@example.com", "wrong", ErrInvalidCredentials},
		{"Unknown user", "nobody@example.com", "password123", ErrInvalidCredentials},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, tokens, err := authService.Login(tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, registered.ID, user.ID)

			claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
			require.NoError(t, err)
			assert.Equal(t, registered.ID, claims.UserID)
		})
	}
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService := setupAuthServiceTest(t, nil)
	registered, _, err := authService.Register("me@example.com", "password123", "Me")
	require.NoError(t, err)

	user, err := authService.GetUserByID(registered.ID)
	require.NoError(t, err)
	assert.Equal(t, "me@example.com", user.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_Logout(t *testing.T) {
	revoker := &recordingRevoker{}
	authService := setupAuthServiceTest(t, revoker)
	_, tokens, err := authService.Register("bye@example.com", "password123", "Bye")
	require.NoError(t, err)

	claims, err := util.ValidateToken(tokens.AccessToken, testJWTSecret)
	require.NoError(t, err)

	require.NoError(t, authService.Logout(context.Background(), tokens.AccessToken, claims))
	assert.Equal(t, tokens.AccessToken, revoker.token)
	assert.Greater(t, revoker.ttl, 14*time.Minute)
	assert.LessOrEqual(t, revoker.ttl, 15*time.Minute)

	noStore := setupAuthServiceTest(t, nil)
	assert.NoError(t, noStore.Logout(context.Background(), tokens.AccessToken, claims))
}
