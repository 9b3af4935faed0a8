package auth

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "storefront/backend/internal/domain/auth"
)

type fakeUserRepo struct {
	items map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{items: make(map[string]*domain.User)}
}

func (r *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	for _, existing := range r.items {
		if existing.Email == u.Email {
			return domain.ErrEmailExists
		}
	}
	clone := *u
	r.items[u.ID] = &clone
	return nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	for _, u := range r.items {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	clone := *u
	return &clone, nil
}

func (r *fakeUserRepo) List(ctx context.Context) ([]*domain.User, error) {
	var all []*domain.User
	for _, u := range r.items {
		clone := *u
		all = append(all, &clone)
	}
	return all, nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.items[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeUserRepo) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	u, ok := r.items[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = updatedAt
	return nil
}

// fakeTokens issues opaque tokens mapping back to user ids.
type fakeTokens struct {
	seq    int
	issued map[string]string
}

func newFakeTokens() *fakeTokens {
	return &fakeTokens{issued: make(map[string]string)}
}

func (t *fakeTokens) Generate(userID string) (string, error) {
	t.seq++
	token := fmt.Sprintf("token-%d", t.seq)
	t.issued[token] = userID
	return token, nil
}

func (t *fakeTokens) Validate(token string) (string, error) {
	userID, ok := t.issued[token]
	if !ok {
		return "", domain.ErrTokenInvalid
	}
	return userID, nil
}

func newTestService() (*Service, *fakeUserRepo) {
	repo := newFakeUserRepo()
	return NewService(repo, newFakeTokens()), repo
}

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "Admin@Example.com", "s3cret", "Admin")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email, "email is normalised")
	assert.Empty(t, user.PasswordHash)
	assert.NotEmpty(t, user.ID)

	token, logged, err := svc.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.Equal(t, user.ID, logged.ID)
	assert.Empty(t, logged.PasswordHash)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "admin@example.com", "other", "")
	require.ErrorIs(t, err, domain.ErrEmailExists)
}

func TestLoginWrongPassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	_, err := svc.Register(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "wrong"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, domain.Credentials{Email: "nobody@example.com", Password: "s3cret"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)
}

func TestVerifyAndRenewToken(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	token, _, err := svc.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "s3cret"})
	require.NoError(t, err)

	verified, err := svc.VerifyToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, verified.ID)

	renewed, err := svc.RenewToken(ctx, token)
	require.NoError(t, err)
	assert.NotEmpty(t, renewed)
	assert.NotEqual(t, token, renewed)

	_, err = svc.VerifyToken(ctx, "bogus")
	require.ErrorIs(t, err, domain.ErrTokenInvalid)
}

func TestChangePassword(t *testing.T) {
	ctx := context.Background()
	svc, _ := newTestService()

	user, err := svc.Register(ctx, "admin@example.com", "s3cret", "")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, user.ID, "wrong", "next")
	require.ErrorIs(t, err, domain.ErrPasswordMismatch)

	require.NoError(t, svc.ChangePassword(ctx, user.ID, "s3cret", "next"))

	_, _, err = svc.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "s3cret"})
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = svc.Login(ctx, domain.Credentials{Email: "admin@example.com", Password: "next"})
	require.NoError(t, err)
}
