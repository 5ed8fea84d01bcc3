package service

import (
	"context"
	"time"

	"orderdesk_backend/internal/auth/repository"
	"orderdesk_backend/internal/auth/transport"
	"orderdesk_backend/internal/events"
	"orderdesk_backend/platform/apperr"
	"orderdesk_backend/platform/config"
	"orderdesk_backend/platform/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Service provides login and account management.
type Service struct {
	repo     *repository.Repository
	cfg      config.AuthServiceConfig
	eventBus events.Bus
	log      *logger.Logger
}

func New(repo *repository.Repository, cfg config.AuthServiceConfig, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, cfg: cfg, eventBus: eventBus, log: log}
}

// Login verifies the credentials and returns a signed access token. The
// error is identical for an unknown login and a wrong password.
func (s *Service) Login(ctx context.Context, req transport.LoginRequest) (transport.LoginResponse, error) {
	user, err := s.repo.GetByLogin(ctx, req.Login)
	if err != nil {
		s.log.AuthEvent("login", req.Login, false, "unknown login")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		s.log.AuthEvent("login", req.Login, false, "wrong password")
		return transport.LoginResponse{}, apperr.Unauthorized("invalid credentials")
	}

	expiresAt := time.Now().Add(s.cfg.GetAccessTokenTTL())
	token, err := s.signJWT(user.ID, user.Role, expiresAt)
	if err != nil {
		return transport.LoginResponse{}, apperr.Internal("failed to issue token")
	}

	s.log.AuthEvent("login", req.Login, true, "")
	s.eventBus.Publish(ctx, events.UserLoggedIn{
		BaseEvent: events.NewBaseEvent(),
		UserID:    user.ID,
		Role:      user.Role,
	})

	return transport.LoginResponse{
		AccessToken: token,
		ExpiresAt:   expiresAt,
		User:        toUserResponse(user),
	}, nil
}

// Me returns the authenticated user's profile.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (transport.UserResponse, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return transport.UserResponse{}, err
	}
	return toUserResponse(user), nil
}

// CreateUser registers a new operator account. Admin only, enforced at
// the route level.
func (s *Service) CreateUser(ctx context.Context, req transport.CreateUserRequest) (transport.UserResponse, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return transport.UserResponse{}, apperr.Internal("failed to hash password")
	}

	user := repository.User{
		ID:           uuid.New(),
		Login:        req.Login,
		PasswordHash: string(hash),
		FullName:     req.FullName,
		Role:         req.Role,
	}
	if err := s.repo.Create(ctx, &user); err != nil {
		return transport.UserResponse{}, err
	}

	s.log.AuthEvent("user_created", req.Login, true, "")
	return s.Me(ctx, user.ID)
}

func (s *Service) signJWT(userID uuid.UUID, role string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sub":  userID.String(),
		"role": role,
		"exp":  expiresAt.Unix(),
		"iat":  time.Now().Unix(),
	}

	tokenObj := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tokenObj.SignedString([]byte(s.cfg.GetJWTAccessSecret()))
}

func toUserResponse(u *repository.User) transport.UserResponse {
	return transport.UserResponse{
		ID:       u.ID,
		Login:    u.Login,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
