package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

// DTOs for Request validation
type CreateUserRequest struct {
	FirstName           string                  `json:"firstName" binding:"required"`
	LastName            string                  `json:"lastName" binding:"required"`
	Email               string                  `json:"email" binding:"required,email"`
	TempPassword        string                  `json:"tempPassword" binding:"required"`
	Photo               string                  `json:"photo"`
	Role                string                  `json:"role"`
	Cargo               string                  `json:"cargo"`
	ForcePasswordChange *bool                   `json:"forcePasswordChange"`
	Permissions         *model.PermissionsPatch `json:"permissions"`
}

type UpdateUserRequest struct {
	FirstName           *string                 `json:"firstName"`
	LastName            *string                 `json:"lastName"`
	Email               *string                 `json:"email" binding:"omitempty,email"`
	Photo               *string                 `json:"photo"`
	Cargo               *string                 `json:"cargo"`
	Role                *string                 `json:"role"`
	ForcePasswordChange *bool                   `json:"forcePasswordChange"`
	Permissions         *model.PermissionsPatch `json:"permissions"`
	Password            *string                 `json:"password"`
}

type UpdateSettingsRequest struct {
	DarkMode *bool   `json:"darkMode"`
	Language *string `json:"language"`
	Timezone *string `json:"timezone"`
}

// UserResponse never carries the password hash
type UserResponse struct {
	ID                  string             `json:"id"`
	Name                string             `json:"name"`
	FirstName           string             `json:"firstName"`
	LastName            string             `json:"lastName"`
	Email               string             `json:"email"`
	Cargo               string             `json:"cargo"`
	Photo               string             `json:"photo"`
	Role                string             `json:"role"`
	ForcePasswordChange bool               `json:"forcePasswordChange"`
	Permissions         model.Permissions  `json:"permissions"`
	Settings            model.UserSettings `json:"settings"`
	CreatedAt           time.Time          `json:"createdAt"`
	UpdatedAt           time.Time          `json:"updatedAt"`
}

// UserSummary is the list projection
type UserSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreatedUserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Message   string `json:"message"`
}

var userSearchColumns = []string{"first_name", "last_name", "email", "role"}

// UserService defines the interface for business logic related to User
type UserService interface {
	ListUsers(ctx context.Context, actorID, search string, page, limit int) ([]UserSummary, int64, error)
	GetUser(ctx context.Context, actorID, id string) (*UserResponse, error)
	CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*CreatedUserResponse, error)
	UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error)
	DeleteUser(ctx context.Context, actorID, id string) error
	GetSettings(ctx context.Context, actorID string) (*model.UserSettings, error)
	UpdateSettings(ctx context.Context, actorID string, req UpdateSettingsRequest) (*model.UserSettings, error)
	// NeedsBootstrap reports whether the store holds no users yet
	NeedsBootstrap(ctx context.Context) (bool, error)
}

type userService struct {
	repo     repository.UserRepository
	tx       repository.TransactionManager
	access   access
	hasher   PasswordHasher
	activity ActivityRecorder
}

// NewUserService returns a new instance of UserService. With a nil tx, account
// provisioning runs without the store-wide lock.
func NewUserService(repo repository.UserRepository, tx repository.TransactionManager, hasher PasswordHasher, activity ActivityRecorder) UserService {
	return &userService{
		repo:     repo,
		tx:       tx,
		access:   access{users: repo},
		hasher:   hasher,
		activity: activity,
	}
}

// Helper: parse model to standard json API response
func mapToResponse(user *model.User) *UserResponse {
	return &UserResponse{
		ID:                  user.ID,
		Name:                user.Name(),
		FirstName:           user.FirstName,
		LastName:            user.LastName,
		Email:               user.Email,
		Cargo:               user.Cargo,
		Photo:               user.Photo,
		Role:                user.Role,
		ForcePasswordChange: user.ForcePasswordChange,
		Permissions:         user.Permissions,
		Settings:            user.Settings,
		CreatedAt:           user.CreatedAt,
		UpdatedAt:           user.UpdatedAt,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *userService) NeedsBootstrap(ctx context.Context) (bool, error) {
	n, err := s.repo.Count(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to count users: %w", err)
	}
	return n == 0, nil
}

func (s *userService) ListUsers(ctx context.Context, actorID, search string, page, limit int) ([]UserSummary, int64, error) {
	if _, err := s.access.require(ctx, actorID, model.CapManageUsers); err != nil {
		return nil, 0, err
	}

	filter := repository.Filter{repository.Search(search, userSearchColumns...)}
	users, total, err := s.repo.List(ctx, filter, page, limit)
	if err != nil {
		return nil, 0, storeError(err, "user")
	}

	res := make([]UserSummary, 0, len(users))
	for i := range users {
		u := &users[i]
		res = append(res, UserSummary{
			ID:        u.ID,
			Name:      u.Name(),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      u.Role,
			Photo:     u.Photo,
			CreatedAt: u.CreatedAt,
		})
	}
	return res, total, nil
}

func (s *userService) GetUser(ctx context.Context, actorID, id string) (*UserResponse, error) {
	if _, err := s.access.require(ctx, actorID, model.CapManageUsers); err != nil {
		return nil, err
	}
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return mapToResponse(user), nil
}

// CreateUser provisions an account. While the store is empty the request needs
// no actor and the account becomes an Administrator holding every capability.
func (s *userService) CreateUser(ctx context.Context, actorID string, req CreateUserRequest) (*CreatedUserResponse, error) {
	var (
		user  *model.User
		actor *model.User
	)
	// provisioning is serialised so two concurrent requests cannot both see an empty store
	err := s.runLocked(ctx, func(txCtx context.Context) error {
		var err error
		user, actor, err = s.provision(txCtx, actorID, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	// the bootstrap account records its own creation
	actingID := user.ID
	if actor != nil {
		actingID = actor.ID
	}
	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actingID,
		Action:   model.ActionCreateUser,
		Target:   user.Name(),
		TargetID: user.ID,
		Details:  map[string]interface{}{"email": user.Email, "role": user.Role},
	})

	return &CreatedUserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
		Message:   "User created successfully",
	}, nil
}

func (s *userService) runLocked(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.tx == nil {
		return fn(ctx)
	}
	return s.tx.RunLocked(ctx, repository.LockUserProvisioning, fn)
}

// provision validates req and stores the new account. It returns the acting user, nil for bootstrap.
func (s *userService) provision(ctx context.Context, actorID string, req CreateUserRequest) (*model.User, *model.User, error) {
	bootstrap, err := s.NeedsBootstrap(ctx)
	if err != nil {
		return nil, nil, err
	}

	var actor *model.User
	if !bootstrap {
		if actor, err = s.access.require(ctx, actorID, model.CapManageUsers); err != nil {
			return nil, nil, err
		}
	}

	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" ||
		strings.TrimSpace(req.Email) == "" || req.TempPassword == "" {
		return nil, nil, validationError("First name, last name, email, and password are required")
	}

	role := req.Role
	if role == "" {
		role = model.RoleViewer
	}
	if !model.ValidRole(role) {
		return nil, nil, validationError("invalid role: must be %s, %s or %s", model.RoleAdministrator, model.RoleManager, model.RoleViewer)
	}

	email := normalizeEmail(req.Email)
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return nil, nil, newError(ErrConflict, "User with this email already exists")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, nil, err
	}

	hashed, err := s.hasher.Hash(req.TempPassword)
	if err != nil {
		return nil, nil, err
	}

	user := &model.User{
		FirstName:           strings.TrimSpace(req.FirstName),
		LastName:            strings.TrimSpace(req.LastName),
		Email:               email,
		Photo:               req.Photo,
		Cargo:               req.Cargo,
		Role:                role,
		ForcePasswordChange: true,
		Permissions:         req.Permissions.ApplyTo(model.DefaultPermissions()),
		Settings:            model.DefaultSettings(),
		Password:            hashed,
	}
	if req.ForcePasswordChange != nil {
		user.ForcePasswordChange = *req.ForcePasswordChange
	}
	if bootstrap {
		user.Role = model.RoleAdministrator
		user.Permissions = model.FullPermissions()
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, nil, storeError(err, "User")
	}
	return user, actor, nil
}

func (s *userService) UpdateUser(ctx context.Context, actorID, id string, req UpdateUserRequest) (*UserResponse, error) {
	actor, err := s.access.require(ctx, actorID, model.CapManageUsers)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "User")
	}

	changed := map[string]interface{}{}
	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			return nil, validationError("firstName cannot be empty")
		}
		user.FirstName = strings.TrimSpace(*req.FirstName)
		changed["firstName"] = user.FirstName
	}
	if req.LastName != nil {
		if strings.TrimSpace(*req.LastName) == "" {
			return nil, validationError("lastName cannot be empty")
		}
		user.LastName = strings.TrimSpace(*req.LastName)
		changed["lastName"] = user.LastName
	}
	if req.Email != nil {
		email := normalizeEmail(*req.Email)
		if email == "" {
			return nil, validationError("email cannot be empty")
		}
		if email != user.Email {
			existing, err := s.repo.GetByEmail(ctx, email)
			switch {
			case err == nil && existing.ID != user.ID:
				return nil, newError(ErrConflict, "User with this email already exists")
			case err != nil && !errors.Is(err, repository.ErrNotFound):
				return nil, err
			}
			user.Email = email
			changed["email"] = email
		}
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
		changed["photo"] = *req.Photo
	}
	if req.Cargo != nil {
		user.Cargo = *req.Cargo
		changed["cargo"] = *req.Cargo
	}
	if req.Role != nil {
		if !model.ValidRole(*req.Role) {
			return nil, validationError("invalid role: must be %s, %s or %s", model.RoleAdministrator, model.RoleManager, model.RoleViewer)
		}
		user.Role = *req.Role
		changed["role"] = *req.Role
	}
	if req.ForcePasswordChange != nil {
		user.ForcePasswordChange = *req.ForcePasswordChange
		changed["forcePasswordChange"] = *req.ForcePasswordChange
	}
	if req.Permissions != nil {
		user.Permissions = req.Permissions.ApplyTo(user.Permissions)
		changed["permissions"] = user.Permissions
	}
	if req.Password != nil && *req.Password != "" {
		hashed, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hashed
		changed["password"] = "changed"
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeError(err, "User")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionUpdateUser,
		Target:   user.Name(),
		TargetID: user.ID,
		Details:  changed,
	})
	return mapToResponse(user), nil
}

func (s *userService) DeleteUser(ctx context.Context, actorID, id string) error {
	actor, err := s.access.require(ctx, actorID, model.CapManageUsers)
	if err != nil {
		return err
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError(err, "User")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError(err, "User")
	}

	s.activity.Record(ctx, ActivityEntry{
		ActorID:  actor.ID,
		Action:   model.ActionDeleteUser,
		Target:   user.Name(),
		TargetID: user.ID,
		Details:  map[string]interface{}{"email": user.Email},
	})
	return nil
}

func (s *userService) GetSettings(ctx context.Context, actorID string) (*model.UserSettings, error) {
	user, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, storeError(err, "User")
	}
	return &user.Settings, nil
}

func (s *userService) UpdateSettings(ctx context.Context, actorID string, req UpdateSettingsRequest) (*model.UserSettings, error) {
	user, err := s.repo.GetByID(ctx, actorID)
	if err != nil {
		return nil, storeError(err, "User")
	}

	if req.DarkMode != nil {
		user.Settings.DarkMode = *req.DarkMode
	}
	if req.Language != nil {
		user.Settings.Language = *req.Language
	}
	if req.Timezone != nil {
		user.Settings.Timezone = *req.Timezone
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, storeError(err, "User")
	}
	return &user.Settings, nil
}
