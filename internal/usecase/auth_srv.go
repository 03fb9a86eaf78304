package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"venue-booking/internal/data/entity"
	"venue-booking/internal/data/repository"
	"venue-booking/internal/dto/request"
	"venue-booking/internal/dto/response"
	"venue-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionMeta is what the transport knows about the client opening a session.
type SessionMeta struct {
	UserAgent string
	IPAddress string
}

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest, meta SessionMeta) (*response.AuthResponse, error)
	Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error)
	Logout(ctx context.Context, token string) error
	Me(ctx context.Context, actor utils.SessionUser) (*response.UserResponse, error)
	ResetPassword(ctx context.Context, actor utils.SessionUser, token string, req *request.ResetPasswordRequest) error
	EnsureSuperAdmin(ctx context.Context) error
}

type authService struct {
	repo   *repository.Repository // user & session
	config *utils.Config
	now    utils.Clock
	log    *zap.Logger
}

func NewAuthService(repo *repository.Repository, config *utils.Config, clock utils.Clock, log *zap.Logger) AuthService {
	return &authService{
		repo:   repo,
		config: config,
		now:    clock,
		log:    log.With(zap.String("service", "auth")),
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest, meta SessionMeta) (*response.AuthResponse, error) {
	// 1. Validasi input
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		s.log.Warn("Signup validation failed", zap.Any("errors", errs))
		return nil, newValidationError(errs)
	}

	email := entity.NewOwnerEmail(req.Email).String()

	// 2. Cek email sudah terdaftar
	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		s.log.Error("Failed to check email", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	// 3. Hash password
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// 4. Simpan user, role selalu admin
	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         req.Name,
		Email:        email,
		PasswordHash: hash,
		Role:         entity.RoleAdmin,
		LastLogin:    &now,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrEmailTaken
		}
		s.log.Error("Failed to create user", zap.Error(err), zap.String("email", email))
		return nil, fmt.Errorf("create user: %w", err)
	}

	// 5. Auto login
	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("Admin signed up", zap.String("user_id", user.ID.String()), zap.String("email", email))
	return s.convertAuthResponse(user, session), nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest, meta SessionMeta) (*response.AuthResponse, error) {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return nil, newValidationError(errs)
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		s.log.Error("Failed to find user", zap.Error(err))
		return nil, fmt.Errorf("find user: %w", err)
	}

	if user == nil || user.PasswordHash == "" || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		s.log.Warn("Invalid login attempt", zap.String("email", entity.NewOwnerEmail(req.Email).String()))
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	user.LastLogin = &now
	user.UpdatedAt = now
	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Warn("Failed to record last login", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	session, err := s.createSession(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()), zap.String("role", string(user.Role)))
	return s.convertAuthResponse(user, session), nil
}

func (s *authService) Logout(ctx context.Context, token string) error {
	if err := s.repo.Session.Revoke(ctx, token); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrUnauthorized
		}
		s.log.Error("Failed to revoke session", zap.Error(err))
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, actor utils.SessionUser) (*response.UserResponse, error) {
	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return nil, ErrUnauthorized
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}

// ResetPassword changes the superadmin's own password and revokes their other sessions.
func (s *authService) ResetPassword(ctx context.Context, actor utils.SessionUser, token string, req *request.ResetPasswordRequest) error {
	if !isSuperAdmin(actor) {
		return ErrForbidden
	}
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return newValidationError(errs)
	}

	user, err := s.repo.User.FindByID(ctx, actor.ID)
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}
	if user == nil {
		return ErrUnauthorized
	}

	if !utils.CheckPasswordHash(req.CurrentPassword, user.PasswordHash) {
		return fieldError("currentPassword", "Current password is incorrect")
	}
	if req.CurrentPassword == req.NewPassword {
		return fieldError("newPassword", "Must differ from the current password")
	}

	hash, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = hash
	user.UpdatedAt = s.now()

	if err := s.repo.User.Update(ctx, user); err != nil {
		s.log.Error("Failed to update password", zap.Error(err), zap.String("user_id", user.ID.String()))
		return fmt.Errorf("update password: %w", err)
	}

	if err := s.repo.Session.RevokeAllUserSessions(ctx, user.ID, token); err != nil {
		s.log.Warn("Failed to revoke other sessions", zap.Error(err), zap.String("user_id", user.ID.String()))
	}

	s.log.Info("Superadmin password changed", zap.String("user_id", user.ID.String()))
	return nil
}

// EnsureSuperAdmin seeds the configured superadmin when the email has no user yet.
func (s *authService) EnsureSuperAdmin(ctx context.Context) error {
	cfg := s.config.SuperAdmin
	if cfg.Email == "" || cfg.Password == "" {
		s.log.Info("Superadmin seed skipped, no credentials configured")
		return nil
	}

	existing, err := s.repo.User.FindByEmail(ctx, cfg.Email)
	if err != nil {
		return fmt.Errorf("check superadmin: %w", err)
	}
	if existing != nil {
		if existing.Role != entity.RoleSuperAdmin {
			s.log.Warn("Superadmin email belongs to a non superadmin user", zap.String("email", existing.Email))
		}
		return nil
	}

	hash, err := utils.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("hash superadmin password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Name:         cfg.Name,
		Email:        entity.NewOwnerEmail(cfg.Email).String(),
		PasswordHash: hash,
		Role:         entity.RoleSuperAdmin,
	}
	if err := s.repo.User.Create(ctx, user); err != nil {
		return fmt.Errorf("create superadmin: %w", err)
	}

	s.log.Info("Superadmin seeded", zap.String("email", user.Email))
	return nil
}

func (s *authService) createSession(ctx context.Context, userID uuid.UUID, meta SessionMeta) (*entity.Session, error) {
	now := s.now()
	session := &entity.Session{
		BaseSimple: entity.BaseSimple{
			ID:        uuid.New(),
			CreatedAt: now,
		},
		UserID:    userID,
		Token:     utils.GenerateSessionToken(),
		ExpiresAt: now.Add(time.Duration(s.config.Session.ExpiryHours) * time.Hour),
	}
	if meta.UserAgent != "" {
		session.UserAgent = &meta.UserAgent
	}
	if meta.IPAddress != "" {
		session.IPAddress = &meta.IPAddress
	}

	if err := s.repo.Session.Create(ctx, session); err != nil {
		s.log.Error("Failed to create session", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, fmt.Errorf("create session: %w", err)
	}
	return session, nil
}

func (s *authService) convertAuthResponse(user *entity.User, session *entity.Session) *response.AuthResponse {
	return &response.AuthResponse{
		Token:     session.Token.String(),
		ExpiresAt: session.ExpiresAt,
		User:      response.UserToResponse(user),
	}
}
