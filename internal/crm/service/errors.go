package service

import (
	"errors"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

// Core error taxonomy. Every service returns these as typed failures; the
// HTTP layer maps them to status codes and never invents its own.
var (
	// ErrUnauthorized: the actor lacks the permission or management rights
	// for the attempted action.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrRoleEscalation: attempted grant or assignment at or above the
	// actor's own level.
	ErrRoleEscalation = errors.New("cannot assign a role equal to or higher than your own")

	// ErrPlanLimitExceeded: the company's user-count ceiling is reached.
	ErrPlanLimitExceeded = errors.New("user limit reached for plan")

	// ErrNotFound: missing user, invitation, lead, vehicle or token.
	ErrNotFound = errors.New("not found")

	// ErrInvitationExpired: the token is past its expires_at deadline.
	ErrInvitationExpired = errors.New("invitation has expired")

	// ErrInvitationConsumed: the token was already accepted. Distinct from
	// ErrNotFound so a double-accept is an idempotent rejection, not a
	// confusing lookup failure.
	ErrInvitationConsumed = errors.New("invitation has already been used")

	// ErrEmailTaken: a user with that email already exists.
	ErrEmailTaken = errors.New("email is already registered")

	// ErrValidation: malformed input (bad email, password mismatch, ...).
	ErrValidation = errors.New("validation failed")

	// ErrInvalidCredentials: login failure. Deliberately does not reveal
	// whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// Actor identifies the caller of a service operation, as established by the
// authentication middleware. Authorization is evaluated against it at call
// time; nothing about the actor's rights is ever cached on stored records.
// Role strings coming off the wire are carried as domain.Role unchecked:
// unknown roles hold no permissions and manage nobody, so they deny
// everything without a separate validation pass.
type Actor struct {
	UserID    string
	Role      domain.Role
	CompanyID string
}
