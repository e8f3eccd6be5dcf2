package auth

import (
	"context"
	"testing"
	"time"

	"campaign-app/internal/config"
	"campaign-app/internal/database"
	"campaign-app/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

// fakeUserDB implements only the user methods the auth service touches.
// The embedded interface panics on anything else, which is the point.
type fakeUserDB struct {
	database.Database
	usersByName map[string]*models.User
	usersByID   map[uuid.UUID]*models.User
}

func newFakeUserDB() *fakeUserDB {
	return &fakeUserDB{
		usersByName: map[string]*models.User{},
		usersByID:   map[uuid.UUID]*models.User{},
	}
}

func (f *fakeUserDB) CreateUser(ctx context.Context, req *models.RegisterRequest, passwordHash string, isAdmin bool) (*models.User, error) {
	user := &models.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: passwordHash,
		IsAdmin:      isAdmin,
		CreatedAt:    time.Now(),
	}
	f.usersByName[user.Username] = user
	f.usersByID[user.ID] = user
	return user, nil
}

func (f *fakeUserDB) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	user, ok := f.usersByName[username]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserDB) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, ok := f.usersByID[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserDB) CountUsers(ctx context.Context) (int, error) {
	return len(f.usersByID), nil
}

func testConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{
			Secret:    []byte("test-secret"),
			ExpiresIn: time.Hour,
		},
	}
}

func TestRegister_FirstUserIsAdmin(t *testing.T) {
	db := newFakeUserDB()
	service := NewService(db, testConfig())
	ctx := context.Background()

	first, err := service.Register(ctx, &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.True(t, first.User.IsAdmin)
	assert.NotEmpty(t, first.Token)

	second, err := service.Register(ctx, &models.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)
	assert.False(t, second.User.IsAdmin)
}

func TestRegister_HashesPassword(t *testing.T) {
	db := newFakeUserDB()
	service := NewService(db, testConfig())

	_, err := service.Register(context.Background(), &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	stored := db.usersByName["alice"]
	assert.NotEqual(t, "s3cretpass", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("s3cretpass")))
}

func TestLogin(t *testing.T) {
	db := newFakeUserDB()
	service := NewService(db, testConfig())
	ctx := context.Background()

	_, err := service.Register(ctx, &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	resp, err := service.Login(ctx, &models.LoginRequest{Username: "alice", Password: "s3cretpass"})
	require.NoError(t, err)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotEmpty(t, resp.Token)

	_, err = service.Login(ctx, &models.LoginRequest{Username: "alice", Password: "wrong"})
	assert.Error(t, err)

	_, err = service.Login(ctx, &models.LoginRequest{Username: "nobody", Password: "s3cretpass"})
	assert.Error(t, err)
}

func TestGetUserFromToken_Roundtrip(t *testing.T) {
	db := newFakeUserDB()
	service := NewService(db, testConfig())
	ctx := context.Background()

	registered, err := service.Register(ctx, &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	user, err := service.GetUserFromToken(ctx, registered.Token)
	require.NoError(t, err)
	assert.Equal(t, registered.User.ID, user.ID)
	assert.Equal(t, "alice", user.Username)
}

func TestGetUserFromToken_RejectsBadTokens(t *testing.T) {
	service := NewService(newFakeUserDB(), testConfig())
	ctx := context.Background()

	_, err := service.GetUserFromToken(ctx, "not-a-jwt")
	assert.Error(t, err)

	// Token signed with a different secret.
	other := NewService(newFakeUserDB(), &config.Config{
		JWT: config.JWTConfig{Secret: []byte("other-secret"), ExpiresIn: time.Hour},
	})
	registered, err := other.Register(ctx, &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = service.GetUserFromToken(ctx, registered.Token)
	assert.Error(t, err)
}

func TestGetUserFromToken_RejectsExpired(t *testing.T) {
	db := newFakeUserDB()
	cfg := testConfig()
	cfg.JWT.ExpiresIn = -time.Minute
	service := NewService(db, cfg)
	ctx := context.Background()

	registered, err := service.Register(ctx, &models.RegisterRequest{
		Username: "alice", Email: "alice@example.com", Password: "s3cretpass",
	})
	require.NoError(t, err)

	_, err = service.GetUserFromToken(ctx, registered.Token)
	assert.Error(t, err)
}
