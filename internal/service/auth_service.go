package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"blood-bank-dashboard/internal/models"
	"blood-bank-dashboard/internal/repository"
	"blood-bank-dashboard/internal/session"
	"blood-bank-dashboard/internal/validation"
	"blood-bank-dashboard/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	CreateUserWithDonor(ctx context.Context, user *models.User, donor *models.Donor) error
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshTokenByHash(ctx context.Context, hash string) (*models.RefreshToken, error)
	RevokeRefreshTokenByHash(ctx context.Context, hash string) error
	RevokeAllRefreshTokens(ctx context.Context, userID string) error
}

// TokenStore holds revoked access tokens and pending reset tokens
type TokenStore interface {
	Blacklist(ctx context.Context, tokenID string, ttl time.Duration) error
	SaveResetToken(ctx context.Context, tokenHash, userID string, ttl time.Duration) error
	ConsumeResetToken(ctx context.Context, tokenHash string) (string, error)
}

type ResetMailer interface {
	SendPasswordReset(ctx context.Context, to, token string) error
}

// SessionPublisher announces auth state changes
type SessionPublisher interface {
	Publish(ctx context.Context, evt session.Event) error
}

type AuthService struct {
	users     UserStore
	auditRepo Auditor
	tokens    TokenStore
	mailer    ResetMailer
	sessions  SessionPublisher
	resetTTL  time.Duration
	logger    *zap.Logger
}

func NewAuthService(
	users UserStore,
	auditRepo Auditor,
	tokens TokenStore,
	mailer ResetMailer,
	sessions SessionPublisher,
	resetTTL time.Duration,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		auditRepo: auditRepo,
		tokens:    tokens,
		mailer:    mailer,
		sessions:  sessions,
		resetTTL:  resetTTL,
		logger:    logger,
	}
}

// LoginResponse represents the response structure for login
type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Role     string `json:"role"`
}

func newUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName(),
		Role:     user.Role,
	}
}

// Login authenticates a user by email and returns tokens
func (s *AuthService) Login(ctx context.Context, form validation.LoginForm) (*LoginResponse, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	user, err := s.users.FindUserByEmail(ctx, form.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !utils.ComparePassword(user.PasswordHash, form.Password) {
		return nil, ErrInvalidCredentials
	}
	if utils.NeedsRehash(user.PasswordHash) {
		s.rehash(ctx, user.ID, form.Password)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "user_login", fmt.Sprintf("User %s logged in", user.Email))
	s.publish(ctx, session.EventSignedIn, user)
	return resp, nil
}

// Register creates a donor account: the auth user and its donor profile row
func (s *AuthService) Register(ctx context.Context, form validation.RegisterForm) (*LoginResponse, error) {
	if err := validation.Validate(form); err != nil {
		return nil, err
	}

	existing, err := s.users.FindUserByEmail(ctx, form.Email)
	if err == nil && existing != nil {
		return nil, ErrEmailTaken
	}
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, err := utils.HashPassword(form.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Email:        form.Email,
		PasswordHash: passwordHash,
		Role:         models.RoleDonor,
		Metadata:     map[string]interface{}{"full_name": form.Name},
	}
	donor := &models.Donor{
		Name:              form.Name,
		Email:             form.Email,
		RegistrationDate:  time.Now().UTC(),
		EligibilityStatus: models.EligibilityPending,
	}
	if err := s.users.CreateUserWithDonor(ctx, user, donor); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	resp, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit(ctx, user.ID, "user_registration", fmt.Sprintf("User %s registered", user.Email))
	s.publish(ctx, session.EventSignedIn, user)
	return resp, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *models.User) (*LoginResponse, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	refreshTokenModel := &models.RefreshToken{
		UserID:    user.ID,
		TokenHash: utils.HashToken(refreshToken),
		ExpiresAt: time.Now().Add(utils.GetRefreshTokenExpiry()),
	}
	if err := s.users.CreateRefreshToken(ctx, refreshTokenModel); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         newUserResponse(user),
	}, nil
}

// RefreshAccessToken generates a new access token from a refresh token
func (s *AuthService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	token, err := s.users.FindRefreshTokenByHash(ctx, utils.HashToken(refreshToken))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrInvalidRefreshToken
		}
		return "", fmt.Errorf("failed to find refresh token: %w", err)
	}

	if time.Now().After(token.ExpiresAt) {
		return "", ErrRefreshTokenExpired
	}

	accessToken, err := utils.GenerateAccessToken(token.User.ID, token.User.Email, token.User.Role)
	if err != nil {
		return "", fmt.Errorf("failed to generate access token: %w", err)
	}
	return accessToken, nil
}

// Logout revokes the refresh token and, when the caller is authenticated,
// blacklists its access token until it would have expired.
func (s *AuthService) Logout(ctx context.Context, refreshToken string, current *session.Session) error {
	if refreshToken != "" {
		if err := s.users.RevokeRefreshTokenByHash(ctx, utils.HashToken(refreshToken)); err != nil {
			return fmt.Errorf("failed to revoke refresh token: %w", err)
		}
	}

	if current == nil {
		return nil
	}
	if current.TokenID != "" {
		if err := s.tokens.Blacklist(ctx, current.TokenID, time.Until(current.ExpiresAt)); err != nil {
			return fmt.Errorf("failed to revoke access token: %w", err)
		}
	}
	s.publish(ctx, session.EventSignedOut, &models.User{ID: current.UserID, Email: current.Email, Role: current.Role})
	return nil
}

// GetCurrentUser returns the profile of the authenticated user
func (s *AuthService) GetCurrentUser(ctx context.Context, userID string) (*UserResponse, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get current user: %w", err)
	}
	resp := newUserResponse(user)
	return &resp, nil
}

// ResetPassword mails a one-time reset link. Unknown addresses succeed
// silently so the endpoint cannot reveal which accounts exist.
func (s *AuthService) ResetPassword(ctx context.Context, form validation.ResetForm) error {
	if err := validation.Validate(form); err != nil {
		return err
	}

	user, err := s.users.FindUserByEmail(ctx, form.Email)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to find user: %w", err)
	}

	token := uuid.NewString()
	if err := s.tokens.SaveResetToken(ctx, utils.HashToken(token), user.ID, s.resetTTL); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(ctx, user.Email, token); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	s.publish(ctx, session.EventPasswordRecovery, user)
	return nil
}

// UpdatePassword sets a new password for an authenticated user
func (s *AuthService) UpdatePassword(ctx context.Context, userID string, form validation.UpdatePasswordForm) error {
	if err := validation.Validate(form); err != nil {
		return err
	}
	user, err := s.setPassword(ctx, userID, form.Password)
	if err != nil {
		return err
	}
	s.audit(ctx, userID, "password_update", fmt.Sprintf("User %s changed password", user.Email))
	s.publish(ctx, session.EventUserUpdated, user)
	return nil
}

// ConfirmReset redeems a reset token and signs the user out everywhere
func (s *AuthService) ConfirmReset(ctx context.Context, form validation.ConfirmResetForm) error {
	if err := validation.Validate(form); err != nil {
		return err
	}

	userID, err := s.tokens.ConsumeResetToken(ctx, utils.HashToken(form.Token))
	if err != nil {
		return err
	}
	user, err := s.setPassword(ctx, userID, form.Password)
	if err != nil {
		return err
	}
	if err := s.users.RevokeAllRefreshTokens(ctx, userID); err != nil {
		return fmt.Errorf("failed to revoke sessions: %w", err)
	}

	s.audit(ctx, userID, "password_reset", fmt.Sprintf("User %s reset password", user.Email))
	s.publish(ctx, session.EventUserUpdated, user)
	return nil
}

// rehash upgrades a weak stored hash after a successful login. Failure only
// costs the upgrade, never the login.
func (s *AuthService) rehash(ctx context.Context, userID, password string) {
	hash, err := utils.HashPassword(password)
	if err == nil {
		err = s.users.UpdatePasswordHash(ctx, userID, hash)
	}
	if err != nil {
		s.logger.Warn("failed to upgrade password hash", zap.Error(err), zap.String("user_id", userID))
	}
}

func (s *AuthService) setPassword(ctx context.Context, userID, password string) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to find user: %w", err)
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	if err := s.users.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}
	return user, nil
}

func (s *AuthService) audit(ctx context.Context, userID, action, details string) {
	if err := s.auditRepo.CreateAuditLog(ctx, &userID, action, details); err != nil {
		s.logger.Warn("failed to write audit log", zap.Error(err), zap.String("action", action))
	}
}

func (s *AuthService) publish(ctx context.Context, t session.EventType, user *models.User) {
	evt := session.Event{Type: t, UserID: user.ID, Email: user.Email, Role: user.Role}
	if err := s.sessions.Publish(ctx, evt); err != nil {
		s.logger.Warn("failed to publish session event", zap.Error(err), zap.String("type", string(t)))
	}
}
