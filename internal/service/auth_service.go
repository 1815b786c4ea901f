package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

// LoginRequest accepts the address under either key
type LoginRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token               string `json:"token"`
	Message             string `json:"message"`
	ForcePasswordChange bool   `json:"forcePasswordChange"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

// AuthService authenticates users and serves the caller's own profile
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*LoginResponse, error)
	Me(ctx context.Context, actorID string) (*UserResponse, error)
	ChangePassword(ctx context.Context, actorID string, req ChangePasswordRequest) error
}

type authService struct {
	users    repository.UserRepository
	tokens   TokenService
	hasher   PasswordHasher
	activity ActivityRecorder
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(users repository.UserRepository, tokens TokenService, hasher PasswordHasher, activity ActivityRecorder) AuthService {
	return &authService{users: users, tokens: tokens, hasher: hasher, activity: activity}
}

// Login returns the same error for an unknown address and a wrong password
func (s *authService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	email := req.Email
	if email == "" {
		email = req.Username
	}
	email = normalizeEmail(email)
	if email == "" || req.Password == "" {
		return nil, validationError("email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("failed to load user: %w", err)
		}
		s.hasher.CompareDummy(req.Password)
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}
	if !s.hasher.Compare(user.Password, req.Password) {
		return nil, newError(ErrInvalidCredentials, "Invalid credentials")
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}
	return &LoginResponse{
		Token:               token,
		Message:             "Login successful",
		ForcePasswordChange: user.ForcePasswordChange,
	}, nil
}

func (s *authService) Me(ctx context.Context, actorID string) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return mapToResponse(user), nil
}

func (s *authService) ChangePassword(ctx context.Context, actorID string, req ChangePasswordRequest) error {
	if strings.TrimSpace(req.NewPassword) == "" {
		return validationError("newPassword is required")
	}

	user, err := s.users.GetByID(ctx, actorID)
	if err != nil {
		return storeError(err, "User")
	}
	if !s.hasher.Compare(user.Password, req.CurrentPassword) {
		return newError(ErrInvalidCredentials, "Current password is incorrect")
	}

	hashed, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return err
	}
	user.Password = hashed
	user.ForcePasswordChange = false
	if err := s.users.Update(ctx, user); err != nil {
		return storeError(err, "User")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  user.ID,
		Action:   model.ActionChangePassword,
		Target:   user.Name(),
		TargetID: user.ID,
	})
	return nil
}
