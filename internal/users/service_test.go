package users

import (
	"context"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/providence-asso/providence/internal/shared"
)

type memoryUsersRepo struct {
	users  map[int64]*User
	hashes map[int64]string
	nextID int64
}

func newMemoryUsersRepo() *memoryUsersRepo {
	return &memoryUsersRepo{users: map[int64]*User{}, hashes: map[int64]string{}, nextID: 1}
}

func (m *memoryUsersRepo) CreateUser(_ context.Context, u *User, passwordHash string) (*User, error) {
	for _, existing := range m.users {
		if existing.Username == u.Username {
			return nil, fmt.Errorf("username %q taken: %w", u.Username, shared.ErrDuplicate)
		}
	}
	u.ID = m.nextID
	m.nextID++
	u.IsActive = true
	u.CreatedAt = time.Now()
	stored := *u
	m.users[u.ID] = &stored
	m.hashes[u.ID] = passwordHash
	return u, nil
}

func (m *memoryUsersRepo) GetUser(_ context.Context, id int64) (*User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	out := *u
	return &out, nil
}

func (m *memoryUsersRepo) ListUsers(_ context.Context, page shared.Page) ([]User, error) {
	var out []User
	for _, u := range m.users {
		out = append(out, *u)
	}
	return out, nil
}

func (m *memoryUsersRepo) ListMembers(_ context.Context) ([]User, error) {
	var out []User
	for _, u := range m.users {
		if u.IsActive && u.CanContribute {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (m *memoryUsersRepo) UpdateUser(_ context.Context, input UpdateUserInput) error {
	u, ok := m.users[input.UserID]
	if !ok {
		return fmt.Errorf("user %d: %w", input.UserID, shared.ErrNotFound)
	}
	u.FirstName = input.FirstName
	u.LastName = input.LastName
	u.Email = input.Email
	u.Phone = input.Phone
	u.Role = input.Role
	return nil
}

func (m *memoryUsersRepo) SetDues(_ context.Context, input SetDuesInput) error {
	u, ok := m.users[input.UserID]
	if !ok {
		return fmt.Errorf("user %d: %w", input.UserID, shared.ErrNotFound)
	}
	u.CanContribute = input.CanContribute
	u.SocialDue = input.SocialDue
	u.MissionDue = input.MissionDue
	return nil
}

func (m *memoryUsersRepo) SetActive(_ context.Context, id int64, active bool) error {
	u, ok := m.users[id]
	if !ok {
		return fmt.Errorf("user %d: %w", id, shared.ErrNotFound)
	}
	u.IsActive = active
	return nil
}

type fakeAudit struct {
	logs []shared.AuditLog
}

func (f *fakeAudit) Record(_ context.Context, log shared.AuditLog) error {
	f.logs = append(f.logs, log)
	return nil
}

func adminCtx() context.Context {
	return shared.ContextWithIdentity(context.Background(), &shared.Identity{
		UserID: 99, Username: "admin", IsSuperuser: true,
	})
}

func amount(v int64) *int64 { return &v }

func TestCreateUserHashesPassword(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, &fakeAudit{}, slog.Default())

	u, err := svc.CreateUser(adminCtx(), CreateUserInput{
		Username:      "ngono",
		Password:      "long-enough",
		LastName:      "Ngono",
		CanContribute: true,
		SocialDue:     amount(5000),
	})
	require.NoError(t, err)
	require.True(t, u.IsActive)
	require.NotEqual(t, "long-enough", repo.hashes[u.ID])
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.hashes[u.ID]), []byte("long-enough")))
}

func TestCreateUserRequiresSuperuser(t *testing.T) {
	svc := NewService(newMemoryUsersRepo(), &fakeAudit{}, slog.Default())

	_, err := svc.CreateUser(context.Background(), CreateUserInput{
		Username: "ngono", Password: "long-enough", LastName: "Ngono",
	})
	require.ErrorIs(t, err, shared.ErrForbidden)
}

func TestCreateUserValidation(t *testing.T) {
	svc := NewService(newMemoryUsersRepo(), &fakeAudit{}, slog.Default())

	tests := []struct {
		name  string
		input CreateUserInput
	}{
		{"missing username", CreateUserInput{Password: "long-enough", LastName: "N"}},
		{"short password", CreateUserInput{Username: "n", Password: "short", LastName: "N"}},
		{"missing last name", CreateUserInput{Username: "n", Password: "long-enough"}},
		{"negative social due", CreateUserInput{Username: "n", Password: "long-enough", LastName: "N", SocialDue: amount(-1)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(adminCtx(), tc.input)
			require.ErrorIs(t, err, shared.ErrValidation)
		})
	}
}

func TestCreateUserDuplicateUsername(t *testing.T) {
	svc := NewService(newMemoryUsersRepo(), &fakeAudit{}, slog.Default())

	input := CreateUserInput{Username: "ngono", Password: "long-enough", LastName: "Ngono"}
	_, err := svc.CreateUser(adminCtx(), input)
	require.NoError(t, err)
	_, err = svc.CreateUser(adminCtx(), input)
	require.ErrorIs(t, err, shared.ErrDuplicate)
}

func TestListMembersFiltersInactiveAndNonContributing(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, &fakeAudit{}, slog.Default())

	member, err := svc.CreateUser(adminCtx(), CreateUserInput{
		Username: "member", Password: "long-enough", LastName: "Member", CanContribute: true,
	})
	require.NoError(t, err)
	_, err = svc.CreateUser(adminCtx(), CreateUserInput{
		Username: "staff", Password: "long-enough", LastName: "Staff",
	})
	require.NoError(t, err)
	gone, err := svc.CreateUser(adminCtx(), CreateUserInput{
		Username: "gone", Password: "long-enough", LastName: "Gone", CanContribute: true,
	})
	require.NoError(t, err)
	_, err = svc.SetActive(adminCtx(), gone.ID, false)
	require.NoError(t, err)

	members, err := svc.ListMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.Equal(t, member.ID, members[0].ID)
}

func TestSetDues(t *testing.T) {
	repo := newMemoryUsersRepo()
	audit := &fakeAudit{}
	svc := NewService(repo, audit, slog.Default())

	u, err := svc.CreateUser(adminCtx(), CreateUserInput{
		Username: "ngono", Password: "long-enough", LastName: "Ngono",
	})
	require.NoError(t, err)

	updated, err := svc.SetDues(context.Background(), SetDuesInput{
		UserID: u.ID, CanContribute: true, SocialDue: amount(5000), MissionDue: amount(2000),
	})
	require.NoError(t, err)
	require.True(t, updated.CanContribute)
	require.Equal(t, int64(5000), *updated.SocialDue)
	require.Equal(t, int64(2000), *updated.MissionDue)

	_, err = svc.SetDues(context.Background(), SetDuesInput{UserID: u.ID, MissionDue: amount(-5)})
	require.ErrorIs(t, err, shared.ErrValidation)

	var actions []string
	for _, l := range audit.logs {
		actions = append(actions, l.Action)
	}
	require.Contains(t, actions, "user.set_dues")
}

func TestSetActiveRequiresSuperuser(t *testing.T) {
	repo := newMemoryUsersRepo()
	svc := NewService(repo, &fakeAudit{}, slog.Default())

	u, err := svc.CreateUser(adminCtx(), CreateUserInput{
		Username: "ngono", Password: "long-enough", LastName: "Ngono",
	})
	require.NoError(t, err)

	_, err = svc.SetActive(context.Background(), u.ID, false)
	require.ErrorIs(t, err, shared.ErrForbidden)

	updated, err := svc.SetActive(adminCtx(), u.ID, false)
	require.NoError(t, err)
	require.False(t, updated.IsActive)
}

func TestFullName(t *testing.T) {
	require.Equal(t, "Ngono Marie", User{LastName: "Ngono", FirstName: "Marie"}.FullName())
	require.Equal(t, "Ngono", User{LastName: "Ngono"}.FullName())
}
