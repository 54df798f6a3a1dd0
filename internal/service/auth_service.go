package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/mygroup/apphub/internal/auth"
	"github.com/mygroup/apphub/internal/config"
	"github.com/mygroup/apphub/internal/domain"
	"github.com/mygroup/apphub/internal/events"
	"github.com/mygroup/apphub/internal/repository"
	"github.com/mygroup/apphub/internal/roles"
	apperrors "github.com/mygroup/apphub/pkg/util"
)

// ErrInvalidCredentials is returned for any unknown username or wrong password.
var ErrInvalidCredentials = apperrors.NewUnauthorized("invalid credentials")

// AuthService coordinates registration, login and logout flows.
type AuthService struct {
	users      repository.UserRepository
	revoked    auth.RevocationStore
	dispatcher events.Dispatcher
	tokenMgr   *auth.TokenManager
	bcryptCost int
	logger     *zap.Logger
}

// AuthDependencies encapsulates collaborators for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Revocation auth.RevocationStore
	Dispatcher events.Dispatcher
	Logger     *zap.Logger
}

// RegisterInput carries the fields of a self-service registration.
type RegisterInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	dispatcher := deps.Dispatcher
	if dispatcher == nil {
		dispatcher = events.NewInMemoryDispatcher()
	}
	return &AuthService{
		users:      deps.UserRepo,
		revoked:    deps.Revocation,
		dispatcher: dispatcher,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
		logger:     logger,
	}
}

// Login authenticates a username/password pair and issues a token.
func (s *AuthService) Login(ctx context.Context, username, password string) (*domain.User, *domain.Token, error) {
	username = strings.TrimSpace(username)
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publish(ctx, events.Event{Type: events.EventLoginFailed, Username: username,
				Payload: events.LoginFailedPayload{Reason: "unknown_user"}})
			return nil, nil, ErrInvalidCredentials
		}
		return nil, nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publish(ctx, events.Event{Type: events.EventLoginFailed, UserID: user.ID, Username: username,
			Payload: events.LoginFailedPayload{Reason: "bad_password"}})
		return nil, nil, ErrInvalidCredentials
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{Type: events.EventLoginSucceeded, UserID: user.ID, Username: user.Username,
		Payload: events.SessionPayload{TokenID: token.ID, Role: string(user.Role), ExpiresAt: token.ExpiresAt}})
	return user, token, nil
}

// Register creates a default-role account and signs it in.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, *domain.Token, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(strings.ToLower(in.Email))

	if _, err := s.users.GetByUsername(ctx, in.Username); err == nil {
		return nil, nil, apperrors.NewConflict("username already registered", map[string]any{"username": in.Username})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, nil, err
	}

	user, err := s.createUser(ctx, in, roles.User, false)
	if err != nil {
		return nil, nil, err
	}

	token, err := s.tokenMgr.GenerateToken(user)
	if err != nil {
		return nil, nil, apperrors.NewInternalError(err)
	}
	s.publish(ctx, events.Event{Type: events.EventRegistered, UserID: user.ID, Username: user.Username})
	return user, token, nil
}

// Logout revokes the token behind claims until it would have expired.
func (s *AuthService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil {
		return nil
	}
	if s.revoked != nil {
		if err := s.revoked.Revoke(ctx, claims.ID, claims.ExpiresAtTime()); err != nil {
			s.logger.Warn("revoke token", zap.String("token_id", claims.ID), zap.Error(err))
			return apperrors.NewInternalError(err)
		}
	}
	s.publish(ctx, events.Event{Type: events.EventLogout, UserID: claims.UserID(), Username: claims.Username,
		Payload: events.SessionPayload{TokenID: claims.ID, Role: claims.Role, ExpiresAt: claims.ExpiresAtTime()}})
	return nil
}

// ListUsers returns a page of accounts.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]domain.User, error) {
	return s.users.List(ctx, limit, offset)
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if !cfg.BootstrapEnabled() {
		return nil
	}
	_, err := s.users.GetByUsername(ctx, cfg.BootstrapAdminUsername)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}
	user, err := s.createUser(ctx, RegisterInput{
		Username: cfg.BootstrapAdminUsername,
		Email:    cfg.BootstrapAdminEmail,
		Password: cfg.BootstrapAdminPassword,
	}, roles.Admin, true)
	if err != nil {
		return err
	}
	s.logger.Info("bootstrap admin created", zap.String("user_id", user.ID), zap.String("username", user.Username))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) createUser(ctx context.Context, in RegisterInput, role roles.Role, isAdmin bool) (*domain.User, error) {
	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username:     in.Username,
		Email:        in.Email,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		PasswordHash: hash,
		Role:         role,
		IsAdmin:      isAdmin,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return nil, apperrors.NewConflict("username already registered", map[string]any{"username": in.Username})
		}
		return nil, err
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	event.ID = uuid.NewString()
	event.Timestamp = time.Now().UTC()
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("auth event handler failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}
