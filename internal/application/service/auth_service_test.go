package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/smartbill/smartbill-api/internal/domain/entity"
	"github.com/smartbill/smartbill-api/pkg/apperror"
	"github.com/smartbill/smartbill-api/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserRepo struct {
	users map[uuid.UUID]*entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*entity.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *entity.User) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Update(_ context.Context, user *entity.User) error {
	r.users[user.ID] = user
	return nil
}

func newAuthFixture() (*AuthService, *fakeUserRepo) {
	users := newFakeUserRepo()
	jwtManager := utils.NewJWTManager("test-secret", time.Hour, 24*time.Hour)
	return NewAuthService(users, jwtManager), users
}

func TestRegisterAndLogin(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Kavya",
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEqual(t, "supersecret", user.Password)

	output, err := svc.Login(context.Background(), &LoginInput{
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, output.AccessToken)
	assert.NotEmpty(t, output.RefreshToken)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Kavya",
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), &LoginInput{
		Email:    "kavya@example.com",
		Password: "wrong",
	})
	require.Error(t, err)
	assert.Equal(t, 401, apperror.GetAppError(err).Code)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Kavya",
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), &RegisterInput{
		Name:     "Other",
		Email:    "kavya@example.com",
		Password: "differentpass",
	})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.GetAppError(err).Code)
}

func TestRegisterShortPassword(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Kavya",
		Email:    "kavya@example.com",
		Password: "short",
	})
	require.Error(t, err)
	assert.Equal(t, 422, apperror.GetAppError(err).Code)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	svc, _ := newAuthFixture()

	user, err := svc.Register(context.Background(), &RegisterInput{
		Name:     "Kavya",
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	login, err := svc.Login(context.Background(), &LoginInput{
		Email:    "kavya@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, refreshed.User.ID)
	assert.NotEmpty(t, refreshed.AccessToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc, _ := newAuthFixture()

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, 401, apperror.GetAppError(err).Code)
}
