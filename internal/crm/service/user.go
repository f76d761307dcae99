package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// UserService covers member management inside a company: listing, role
// changes and removal. Creation happens only through signup or invitation
// acceptance.
type UserService struct {
	Store store.Store
}

// List returns the actor's company members.
func (s *UserService) List(ctx context.Context, actor Actor) ([]domain.User, error) {
	if !actor.Role.CanPerform(domain.PermManageUsers) {
		return nil, ErrUnauthorized
	}
	return s.Store.Users().ListUsersByCompany(ctx, actor.CompanyID)
}

// UpdateRole changes a member's role. Both ends of the change are guarded:
// the actor must outrank the target's current role AND the new role, so
// nobody promotes a peer into their own level or reaches above themselves.
func (s *UserService) UpdateRole(ctx context.Context, actor Actor, userID string, newRole domain.Role) (domain.User, error) {
	log := slogx.FromContext(ctx)

	if !newRole.Valid() {
		return domain.User{}, ErrValidation
	}
	if !actor.Role.CanPerform(domain.PermManageUsers) {
		return domain.User{}, ErrUnauthorized
	}

	target, err := s.getScoped(ctx, actor, userID)
	if err != nil {
		return domain.User{}, err
	}

	// Self role changes are always rejected: CanManage is a strict
	// inequality, and actor.Role == target.Role here.
	if !actor.Role.CanManage(target.Role) {
		return domain.User{}, ErrUnauthorized
	}
	if !actor.Role.CanManage(newRole) {
		return domain.User{}, ErrRoleEscalation
	}

	if err := s.Store.Users().UpdateUserRole(ctx, target.ID, newRole); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}

	log.Info("user role updated",
		slog.String("user_id", target.ID),
		slog.String("old_role", string(target.Role)),
		slog.String("new_role", string(newRole)),
		slog.String("updated_by", actor.UserID),
	)

	target.Role = newRole
	return target, nil
}

// Delete removes a member. Requires the delete permission plus strict rank
// over the target, which also rules out self-deletion.
func (s *UserService) Delete(ctx context.Context, actor Actor, userID string) error {
	log := slogx.FromContext(ctx)

	if !actor.Role.CanPerform(domain.PermDeleteUsers) {
		return ErrUnauthorized
	}

	target, err := s.getScoped(ctx, actor, userID)
	if err != nil {
		return err
	}

	if !actor.Role.CanManage(target.Role) {
		return ErrUnauthorized
	}

	if err := s.Store.Users().DeleteUser(ctx, target.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	log.Info("user deleted",
		slog.String("user_id", target.ID),
		slog.String("deleted_by", actor.UserID),
	)
	return nil
}

// getScoped loads a user and hides other companies' members behind
// ErrNotFound.
func (s *UserService) getScoped(ctx context.Context, actor Actor, userID string) (domain.User, error) {
	u, err := s.Store.Users().GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	if u.CompanyID != actor.CompanyID {
		return domain.User{}, ErrNotFound
	}
	return u, nil
}
