package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	autherrors "github.com/gwenythashlie/gadc-attendance-system/internal/auth/errors"
	"github.com/gwenythashlie/gadc-attendance-system/internal/shared/apperror"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const tokenTTL = 24 * time.Hour

type AuditRecorder interface {
	Record(ctx context.Context, action, actorType, actorID string, details map[string]any)
}

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, req LoginRequest) (LoginResponse, error)
}

type service struct {
	repo   Repository
	audit  AuditRecorder
	secret []byte
	logger *zap.Logger
}

func NewService(repo Repository, audit AuditRecorder, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth")
	}
	return &service{
		repo:   repo,
		audit:  audit,
		secret: []byte(os.Getenv("JWT_SECRET")),
		logger: l,
	}
}

func (s *service) Login(ctx context.Context, req LoginRequest) (LoginResponse, error) {
	user, err := s.repo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LoginResponse{}, autherrors.ErrInvalidCredentials
		}
		s.logger.Error("find admin user failed", zap.Error(err))
		return LoginResponse{}, apperror.Wrap(err, apperror.CodeServiceUnavailable, "Auth store unavailable", http.StatusServiceUnavailable)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.logger.Warn("failed login attempt", zap.String("username", req.Username))
		return LoginResponse{}, autherrors.ErrInvalidCredentials
	}

	if user.Status != "active" {
		return LoginResponse{}, autherrors.ErrAccountDisabled
	}

	token, err := s.issueToken(user)
	if err != nil {
		s.logger.Error("sign token failed", zap.Error(err))
		return LoginResponse{}, apperror.Wrap(err, apperror.CodeInternalError, "Could not issue token", http.StatusInternalServerError)
	}

	if s.audit != nil {
		s.audit.Record(ctx, "admin_login", "admin", user.ID.String(), map[string]any{
			"username": user.Username,
		})
	}

	return LoginResponse{
		Token: token,
		User: UserInfo{
			ID:       user.ID.String(),
			Username: user.Username,
			Role:     user.Role,
		},
	}, nil
}

func (s *service) issueToken(user *AdminUser) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":  user.ID.String(),
		"username": user.Username,
		"role":     user.Role,
		"iat":      now.Unix(),
		"exp":      now.Add(tokenTTL).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// HashPassword is used by seeding and user-provisioning paths.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
