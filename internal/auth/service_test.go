package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/providence-asso/providence/internal/shared"
)

type memoryAuthRepo struct {
	users map[string]User
}

func (m *memoryAuthRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	u, ok := m.users[username]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", username, shared.ErrNotFound)
	}
	return &u, nil
}

func newTestService(t *testing.T) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)

	repo := &memoryAuthRepo{users: map[string]User{
		"tresorier": {ID: 1, Username: "tresorier", PasswordHash: string(hash), IsActive: true},
		"admin":     {ID: 2, Username: "admin", PasswordHash: string(hash), IsActive: true, IsSuperuser: true},
		"retired":   {ID: 3, Username: "retired", PasswordHash: string(hash), IsActive: false},
	}}
	return NewService(repo, NewTokenStore(client, time.Hour)), mr
}

func TestLoginIssuesResolvableToken(t *testing.T) {
	svc, _ := newTestService(t)

	token, user, err := svc.Login(context.Background(), "admin", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, int64(2), user.ID)

	identity, err := svc.Identify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, int64(2), identity.UserID)
	require.Equal(t, "admin", identity.Username)
	require.True(t, identity.IsSuperuser)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	svc, _ := newTestService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "tresorier", "wrong"},
		{"unknown user", "nobody", "correct-horse"},
		{"inactive account", "retired", "correct-horse"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := svc.Login(context.Background(), tc.username, tc.password)
			require.ErrorIs(t, err, shared.ErrInvalidCredentials)
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	svc, _ := newTestService(t)

	token, _, err := svc.Login(context.Background(), "tresorier", "correct-horse")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.Identify(context.Background(), token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)

	// Revoking again stays silent.
	require.NoError(t, svc.Logout(context.Background(), token))
}

func TestTokenExpires(t *testing.T) {
	svc, mr := newTestService(t)

	token, _, err := svc.Login(context.Background(), "tresorier", "correct-horse")
	require.NoError(t, err)

	mr.FastForward(2 * time.Hour)

	_, err = svc.Identify(context.Background(), token)
	require.ErrorIs(t, err, shared.ErrUnauthorized)
}
