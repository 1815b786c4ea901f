package service

import (
	"context"
	"errors"
	"fmt"

	"smartpass/internal/model"
	"smartpass/internal/repository"
)

// access resolves the acting user and checks capability flags against the
// stored record, so a revoked flag takes effect on the next request
type access struct {
	users repository.UserRepository
}

type actorKey struct{}

// WithActor binds a user already loaded for this request, so access checks
// further down reuse it instead of reading the store again
func WithActor(ctx context.Context, user *model.User) context.Context {
	return context.WithValue(ctx, actorKey{}, user)
}

func actorFromContext(ctx context.Context, actorID string) *model.User {
	user, _ := ctx.Value(actorKey{}).(*model.User)
	if user == nil || user.ID != actorID {
		return nil
	}
	return user
}

func (a access) actor(ctx context.Context, actorID string) (*model.User, error) {
	if actorID == "" {
		return nil, newError(ErrUnauthorized, "authentication required")
	}
	if user := actorFromContext(ctx, actorID); user != nil {
		return user, nil
	}
	user, err := a.users.GetByID(ctx, actorID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, newError(ErrUnauthorized, "user no longer exists")
		}
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	return user, nil
}

func (a access) require(ctx context.Context, actorID string, capability model.Capability) (*model.User, error) {
	user, err := a.actor(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if !model.Authorize(user, capability) {
		return nil, newError(ErrForbidden, "Forbidden")
	}
	return user, nil
}
