package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/internal/repository"
	"github.com/medora-health/emr-admin-api/pkg/auth"
	apperrors "github.com/medora-health/emr-admin-api/pkg/errors"
	"github.com/medora-health/emr-admin-api/pkg/security"
)

type fakeUserRepo struct {
	repository.UserRepository
	byEmail map[string]*model.User
	byID    map[uuid.UUID]*model.User
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	if u, ok := f.byEmail[email]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (f *fakeUserRepo) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, apperrors.NewNotFound("user", nil)
}

func (f *fakeUserRepo) Update(_ context.Context, _ *model.User) error {
	return nil
}

func newLoginFixture(t *testing.T) (*Service, *model.User) {
	t.Helper()

	hasher := security.NewBcryptHasher(4) // min cost keeps the tests fast
	hash, err := hasher.Hash("correct horse battery")
	require.NoError(t, err)

	user := &model.User{
		Email:        "reception@clinic.example",
		PasswordHash: hash,
		UserType:     model.UserTypeStaff,
		Status:       model.UserStatusActive,
	}
	user.ID = uuid.New()

	repo := &fakeUserRepo{
		byEmail: map[string]*model.User{user.Email: user},
		byID:    map[uuid.UUID]*model.User{user.ID: user},
	}
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	return NewService(repo, jwtSvc, hasher), user
}

func TestLogin(t *testing.T) {
	svc, _ := newLoginFixture(t)

	tokens, err := svc.Login(context.Background(), "reception@clinic.example", "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, user := newLoginFixture(t)

	_, err := svc.Login(context.Background(), user.Email, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Equal(t, 1, user.LoginAttempts)
}

func TestLoginUnknownEmail(t *testing.T) {
	svc, _ := newLoginFixture(t)

	_, err := svc.Login(context.Background(), "nobody@clinic.example", "whatever")
	assert.ErrorIs(t, err, ErrInvalidCredentials, "unknown email and bad password are indistinguishable")
}

func TestLoginLockout(t *testing.T) {
	svc, user := newLoginFixture(t)
	ctx := context.Background()

	for i := 0; i < maxLoginAttempts; i++ {
		_, err := svc.Login(ctx, user.Email, "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, model.UserStatusLocked, user.Status)

	// Even the right password is refused while locked.
	_, err := svc.Login(ctx, user.Email, "correct horse battery")
	assert.ErrorIs(t, err, ErrAccountLocked)

	// The lockout expires after the cooldown.
	past := time.Now().Add(-lockoutDuration - time.Minute)
	user.LastLoginAttempt = &past
	tokens, err := svc.Login(ctx, user.Email, "correct horse battery")
	require.NoError(t, err)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.Equal(t, model.UserStatusActive, user.Status)
	assert.Equal(t, 0, user.LoginAttempts)
}

func TestLoginInactiveAccount(t *testing.T) {
	svc, user := newLoginFixture(t)
	user.Status = model.UserStatusInactive

	_, err := svc.Login(context.Background(), user.Email, "correct horse battery")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefresh(t *testing.T) {
	svc, user := newLoginFixture(t)
	ctx := context.Background()

	tokens, err := svc.Login(ctx, user.Email, "correct horse battery")
	require.NoError(t, err)

	refreshed, err := svc.Refresh(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.Error(t, err)

	user.Status = model.UserStatusInactive
	_, err = svc.Refresh(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountInactive)
}
