package store

import (
	"context"
	"errors"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers implement it.
// Sub-repositories keep concerns tidy and testable; multi-step operations
// that must be atomic (invitation acceptance, company signup) go through
// WithTx so the per-record tables never see a partial write.
type Store interface {
	Companies() Companies
	Users() Users
	Invitations() Invitations
	Leads() Leads
	Vehicles() Vehicles

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, rolling back when fn
	// returns an error and committing otherwise. This is the recommended
	// way to handle transactions.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It exposes the same repositories plus
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Companies interface {
	// GetCompanyByID returns a company by id.
	GetCompanyByID(ctx context.Context, id string) (domain.Company, error)

	// CreateCompany inserts a new company (id provided by the app via ULID).
	CreateCompany(ctx context.Context, c domain.Company) error

	// UpdateCompany mutates name/plan/address/phone and bumps updated_at.
	UpdateCompany(ctx context.Context, c domain.Company) error
}

type Users interface {
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByEmail is used during login and duplicate checks. Emails are
	// unique across the whole store.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// ListUsersByCompany returns a company's users ordered by creation.
	ListUsersByCompany(ctx context.Context, companyID string) ([]domain.User, error)

	// CountUsersByCompany returns the active user count used for plan
	// ceiling checks.
	CountUsersByCompany(ctx context.Context, companyID string) (int, error)

	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUserRole sets the role and bumps updated_at.
	UpdateUserRole(ctx context.Context, userID string, role domain.Role) error

	DeleteUser(ctx context.Context, userID string) error
}

type Invitations interface {
	// CreateInvitation writes a new pending invitation. The token column
	// carries a unique index; a collision surfaces as ErrAlreadyExists.
	CreateInvitation(ctx context.Context, inv domain.Invitation) error

	// GetInvitationByID fetches an invitation regardless of state.
	GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error)

	// GetInvitationByToken fetches an invitation by its bearer token
	// regardless of state; callers decide how expired or consumed rows
	// behave. Expiry is never evaluated in SQL so reads stay pure.
	GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error)

	// ListInvitationsByCompany returns all invitations for a company,
	// newest first.
	ListInvitationsByCompany(ctx context.Context, companyID string) ([]domain.Invitation, error)

	// MarkInvitationAccepted flips status to accepted and records the
	// created user (transaction-friendly).
	MarkInvitationAccepted(ctx context.Context, invitationID, acceptedByUserID string) error

	// TouchInvitationResent records a resend timestamp without changing
	// expires_at.
	TouchInvitationResent(ctx context.Context, invitationID string, at time.Time) error

	// DeleteInvitation removes an invitation (revocation).
	DeleteInvitation(ctx context.Context, invitationID string) error

	// DeleteExpiredInvitations purges pending invitations that expired
	// before the cutoff. Housekeeping only; accepted rows are kept.
	DeleteExpiredInvitations(ctx context.Context, cutoff time.Time) error
}

type Leads interface {
	GetLeadByID(ctx context.Context, id string) (domain.Lead, error)
	ListLeadsByCompany(ctx context.Context, companyID string) ([]domain.Lead, error)
	CreateLead(ctx context.Context, l domain.Lead) error
	UpdateLead(ctx context.Context, l domain.Lead) error
	DeleteLead(ctx context.Context, id string) error
}

type Vehicles interface {
	GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error)

	// GetVehicleByVIN enforces the per-company VIN uniqueness check.
	GetVehicleByVIN(ctx context.Context, companyID, vin string) (domain.Vehicle, error)

	ListVehiclesByCompany(ctx context.Context, companyID string) ([]domain.Vehicle, error)
	CreateVehicle(ctx context.Context, v domain.Vehicle) error
	UpdateVehicle(ctx context.Context, v domain.Vehicle) error
	DeleteVehicle(ctx context.Context, id string) error
}
