package services

import (
	"context"
	"testing"

	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/config"
	"github.com/princinho/sahomattress/database"
	"github.com/princinho/sahomattress/models"
	"github.com/princinho/sahomattress/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

type memUsers struct {
	byEmail map[string]*models.User
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (m *memUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if u, ok := m.byEmail[email]; ok {
		return u, nil
	}
	return nil, database.ErrUserNotFound
}

func (m *memUsers) FindByID(ctx context.Context, id string) (*models.User, error) {
	for _, u := range m.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return nil, database.ErrUserNotFound
}

func (m *memUsers) Create(ctx context.Context, email, hash string, role models.Role) (*models.User, error) {
	if _, ok := m.byEmail[email]; ok {
		return nil, database.ErrEmailTaken
	}
	u := &models.User{ID: bson.NewObjectID(), Email: email, PasswordHash: hash, Role: role, IsActive: true}
	m.byEmail[email] = u
	return u, nil
}

func (m *memUsers) UpdatePassword(ctx context.Context, id bson.ObjectID, hash string) error {
	for _, u := range m.byEmail {
		if u.ID == id {
			u.PasswordHash = hash
			return nil
		}
	}
	return database.ErrUserNotFound
}

const testSecret = "test-secret"

func newAuth(users *memUsers) *AuthService {
	return NewAuthService(users,
		config.Admin{Email: "boss@saho.test", Password: "env-pass"},
		config.Auth{JWTSecret: testSecret, AccessTTLMinutes: 5},
		zap.NewNop(),
	)
}

func TestLoginEnvAdmin(t *testing.T) {
	svc := newAuth(newMemUsers())

	token, err := svc.Login(context.Background(), " Boss@Saho.test ", "env-pass")
	require.NoError(t, err)

	claims, err := utils.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, EnvAdminID, claims.UserID)
	assert.Equal(t, string(models.RoleAdmin), claims.Role)
}

func TestLoginStoredAdmin(t *testing.T) {
	users := newMemUsers()
	svc := newAuth(users)
	ctx := context.Background()

	u, err := svc.CreateAdmin(ctx, "second@saho.test", "password123")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "second@saho.test", "password123")
	require.NoError(t, err)
	claims, err := utils.ValidateToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, u.ID.Hex(), claims.UserID)

	_, err = svc.Login(ctx, "second@saho.test", "wrong")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	_, err = svc.Login(ctx, "nobody@saho.test", "password123")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	u.IsActive = false
	_, err = svc.Login(ctx, "second@saho.test", "password123")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestCreateAdminDuplicate(t *testing.T) {
	svc := newAuth(newMemUsers())
	ctx := context.Background()
	_, err := svc.CreateAdmin(ctx, "dup@saho.test", "password123")
	require.NoError(t, err)

	_, err = svc.CreateAdmin(ctx, "dup@saho.test", "password123")
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}

func TestChangePassword(t *testing.T) {
	svc := newAuth(newMemUsers())
	ctx := context.Background()
	u, err := svc.CreateAdmin(ctx, "me@saho.test", "password123")
	require.NoError(t, err)

	err = svc.ChangePassword(ctx, u.ID.Hex(), "bad", "newpassword")
	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))

	require.NoError(t, svc.ChangePassword(ctx, u.ID.Hex(), "password123", "newpassword"))
	_, err = svc.Login(ctx, "me@saho.test", "newpassword")
	assert.NoError(t, err)

	err = svc.ChangePassword(ctx, EnvAdminID, "env-pass", "whatever1")
	assert.Equal(t, apperrors.KindBadRequest, apperrors.KindOf(err))
}
