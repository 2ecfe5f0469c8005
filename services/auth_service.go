package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"strings"
	"time"

	"github.com/princinho/sahomattress/apperrors"
	"github.com/princinho/sahomattress/config"
	"github.com/princinho/sahomattress/database"
	"github.com/princinho/sahomattress/models"
	"github.com/princinho/sahomattress/utils"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.uber.org/zap"
)

// EnvAdminID is the subject of tokens issued to the env bootstrap admin.
const EnvAdminID = "env-admin"

type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id string) (*models.User, error)
	Create(ctx context.Context, email, passwordHash string, role models.Role) (*models.User, error)
	UpdatePassword(ctx context.Context, id bson.ObjectID, passwordHash string) error
}

type AuthService struct {
	users     UserRepository
	admin     config.Admin
	jwtSecret string
	accessTTL time.Duration
	log       *zap.Logger
}

func NewAuthService(users UserRepository, admin config.Admin, auth config.Auth, log *zap.Logger) *AuthService {
	return &AuthService{
		users:     users,
		admin:     admin,
		jwtSecret: auth.JWTSecret,
		accessTTL: auth.AccessTTL(),
		log:       log,
	}
}

func (s *AuthService) isEnvAdmin(email, password string) bool {
	emailOK := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password)) == 1
	return emailOK && passOK
}

// Login accepts the env bootstrap admin or any active stored admin and returns
// a signed access token.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	if s.isEnvAdmin(email, password) {
		return s.issue(EnvAdminID, email, models.RoleAdmin)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, database.ErrUserNotFound) {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	if err != nil {
		return "", apperrors.Internal("login failed", err)
	}
	if !user.IsActive || user.Role != models.RoleAdmin {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return "", apperrors.Unauthorized("invalid credentials")
	}
	return s.issue(user.ID.Hex(), user.Email, user.Role)
}

func (s *AuthService) issue(userID, email string, role models.Role) (string, error) {
	token, err := utils.GenerateAccessToken(s.jwtSecret, userID, email, string(role), s.accessTTL)
	if err != nil {
		return "", apperrors.Internal("could not create token", err)
	}
	return token, nil
}

func (s *AuthService) CreateAdmin(ctx context.Context, email, password string) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, apperrors.Internal("could not hash password", err)
	}
	user, err := s.users.Create(ctx, email, hash, models.RoleAdmin)
	if errors.Is(err, database.ErrEmailTaken) {
		return nil, apperrors.BadRequest("email already registered")
	}
	if err != nil {
		return nil, apperrors.Internal("could not create user", err)
	}
	s.log.Info("admin user created", zap.String("email", user.Email))
	return user, nil
}

// ChangePassword applies to stored users only. The env admin's password lives
// in the environment.
func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if userID == EnvAdminID {
		return apperrors.BadRequest("the bootstrap admin password is managed through the environment")
	}
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, database.ErrUserNotFound) {
		return apperrors.NotFound("user not found")
	}
	if err != nil {
		return apperrors.Internal("could not load user", err)
	}
	if err := utils.CheckPassword(user.PasswordHash, current); err != nil {
		return apperrors.Unauthorized("current password is incorrect")
	}
	hash, err := utils.HashPassword(next)
	if err != nil {
		return apperrors.Internal("could not hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return apperrors.Internal("could not update password", err)
	}
	return nil
}
