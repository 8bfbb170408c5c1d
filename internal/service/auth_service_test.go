package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/irurudev/nexus-pos/internal/config"
	"github.com/irurudev/nexus-pos/internal/dto"
	"github.com/irurudev/nexus-pos/internal/model"
	"github.com/irurudev/nexus-pos/internal/repository"
	"github.com/irurudev/nexus-pos/internal/service"
)

type stubUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newStubUserRepo() *stubUserRepo {
	return &stubUserRepo{users: make(map[uint]*model.User)}
}

func (r *stubUserRepo) Create(_ context.Context, u *model.User) error {
	r.nextID++
	u.ID = r.nextID
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) FindByID(_ context.Context, id uint) (*model.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(_ context.Context, username string) (*model.User, error) {
	for _, u := range r.users {
		if u.Username == username && u.Active {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *stubUserRepo) List(_ context.Context, includeInactive bool) ([]model.User, error) {
	var out []model.User
	for _, u := range r.users {
		if u.Active || includeInactive {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) Update(_ context.Context, u *model.User) error {
	r.users[u.ID] = u
	return nil
}

func (r *stubUserRepo) Deactivate(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		u.Active = false
	}
	return nil
}

func (r *stubUserRepo) Reactivate(_ context.Context, id uint) error {
	if u, ok := r.users[id]; ok {
		u.Active = true
	}
	return nil
}

var _ repository.UserRepository = (*stubUserRepo)(nil)

func buildAuthSvc(t *testing.T) (service.AuthService, *stubUserRepo) {
	t.Helper()
	repo := newStubUserRepo()
	cfg := &config.Config{
		JWTSecret:          "test-secret",
		JWTExpirationHours: 1,
		JWTRefreshHours:    24,
	}
	return service.NewAuthService(repo, cfg), repo
}

func seedUser(t *testing.T, repo *stubUserRepo, username, password, role string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	u := &model.User{Username: username, Name: "Test User", PasswordHash: string(hash), Role: role, Active: true}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestLogin_Success(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	seedUser(t, repo, "cashier1", "secret99", model.RoleCashier)

	resp, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret99"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, 3600, resp.ExpiresIn)
	assert.Equal(t, model.RoleCashier, resp.User.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	seedUser(t, repo, "cashier1", "secret99", model.RoleCashier)

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "nope"})
	assert.Error(t, err)
}

func TestLogin_InactiveUser(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	u := seedUser(t, repo, "cashier1", "secret99", model.RoleCashier)
	require.NoError(t, repo.Deactivate(context.Background(), u.ID))

	_, err := svc.Login(context.Background(), dto.LoginRequest{Username: "cashier1", Password: "secret99"})
	assert.Error(t, err)
}

func TestRefresh_RoundTrip(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	seedUser(t, repo, "admin1", "secret99", model.RoleAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "secret99"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(context.Background(), login.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, "admin1", refreshed.User.Username)
}

func TestRefresh_GarbageToken(t *testing.T) {
	svc, _ := buildAuthSvc(t)
	_, err := svc.Refresh(context.Background(), "not-a-jwt")
	assert.Error(t, err)
}

func TestRefresh_DeactivatedAfterIssue(t *testing.T) {
	svc, repo := buildAuthSvc(t)
	u := seedUser(t, repo, "admin1", "secret99", model.RoleAdmin)

	login, err := svc.Login(context.Background(), dto.LoginRequest{Username: "admin1", Password: "secret99"})
	require.NoError(t, err)

	require.NoError(t, repo.Deactivate(context.Background(), u.ID))
	_, err = svc.Refresh(context.Background(), login.RefreshToken)
	assert.Error(t, err)
}

func TestCreateUser_HashesPassword(t *testing.T) {
	svc, repo := buildAuthSvc(t)

	resp, err := svc.CreateUser(context.Background(), dto.CreateUserRequest{
		Username: "newbie",
		Name:     "New Cashier",
		Password: "secret99",
		Role:     model.RoleCashier,
	})
	require.NoError(t, err)
	assert.True(t, resp.Active)

	stored := repo.users[resp.ID]
	assert.NotEqual(t, "secret99", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("secret99")))
}
