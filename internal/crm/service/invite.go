package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	crmmail "github.com/carisma-crm/carisma/internal/crm/mail"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/cryptox"
	"github.com/carisma-crm/carisma/pkg/idx"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// InvitationTTL is how long an invitation stays acceptable. Resending does
// not extend it.
const InvitationTTL = 7 * 24 * time.Hour

// InviteService owns the invitation lifecycle: pending on creation, then
// exactly one of accepted or revoked. Expiry is a view derived from
// expires_at on every read, never a stored transition.
type InviteService struct {
	Store  store.Store
	Mailer crmmail.Mailer

	// AppBaseURL is the frontend origin used in invitation links.
	AppBaseURL string

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *InviteService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// AcceptProfile is the profile a new user supplies when accepting an
// invitation. Email and role come from the invitation itself.
type AcceptProfile struct {
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// Create mints a pending invitation. Preconditions are checked in order and
// the first failure wins: permission, role hierarchy, plan ceiling. On
// success the invitation is persisted first and the email sent after;
// delivery failure is reported in the log but never rolls the invitation
// back (at-least-once delivery, Resend covers the gap).
func (s *InviteService) Create(
	ctx context.Context,
	actor Actor,
	email string,
	targetRole domain.Role,
) (domain.Invitation, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate input.
	email = strings.TrimSpace(strings.ToLower(email))
	if _, err := mail.ParseAddress(email); err != nil {
		return domain.Invitation{}, ErrValidation
	}
	if !targetRole.Valid() {
		return domain.Invitation{}, ErrValidation
	}

	// 2. The actor must be allowed to invite at all.
	if !actor.Role.CanPerform(domain.PermInviteUsers) {
		log.Warn("invite denied: missing permission",
			slog.String("actor_role", string(actor.Role)),
		)
		return domain.Invitation{}, ErrUnauthorized
	}

	// 3. The granted role must sit strictly below the actor's own. This is
	// what blocks lateral invites (admin inviting admin).
	if !actor.Role.CanManage(targetRole) {
		log.Warn("invite denied: role escalation",
			slog.String("actor_role", string(actor.Role)),
			slog.String("target_role", string(targetRole)),
		)
		return domain.Invitation{}, ErrRoleEscalation
	}

	// 4. Enforce the plan ceiling on active users.
	company, err := s.Store.Companies().GetCompanyByID(ctx, actor.CompanyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		log.Error("failed to fetch company", slog.Any("error", err))
		return domain.Invitation{}, err
	}
	if err := s.checkPlanCeiling(ctx, company); err != nil {
		return domain.Invitation{}, err
	}

	// 5. Generate the bearer token. 256 bits from crypto/rand; nothing
	// about it is derivable from time or sequence.
	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		log.Error("failed to generate invitation token", slog.Any("error", err))
		return domain.Invitation{}, err
	}

	now := s.now()
	inv := domain.Invitation{
		ID:        idx.New().String(),
		Email:     email,
		Role:      targetRole,
		Token:     token,
		CompanyID: company.ID,
		InvitedBy: actor.UserID,
		Status:    domain.InvitationPending,
		ExpiresAt: now.Add(InvitationTTL),
		CreatedAt: now,
		UpdatedAt: now,
	}

	// 6. Persist before any delivery attempt.
	if err := s.Store.Invitations().CreateInvitation(ctx, inv); err != nil {
		log.Error("failed to create invitation",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return domain.Invitation{}, err
	}

	log.Info("invitation created",
		slog.String("invitation_id", inv.ID),
		slog.String("company_id", company.ID),
		slog.String("role", string(targetRole)),
		slog.Time("expires_at", inv.ExpiresAt),
	)

	// 7. Deliver. Failure does not undo the write.
	s.deliver(ctx, company.Name, inv)

	return inv, nil
}

// deliver sends the invitation email and logs the outcome.
func (s *InviteService) deliver(ctx context.Context, companyName string, inv domain.Invitation) {
	log := slogx.FromContext(ctx)

	subject, body := crmmail.InvitationEmail(s.AppBaseURL, companyName, string(inv.Role), inv.Token)
	msgID, err := s.Mailer.Send(ctx, inv.Email, subject, body)
	if err != nil {
		log.Warn("invitation email delivery failed; invitation remains pending",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return
	}
	log.Debug("invitation email sent",
		slog.String("invitation_id", inv.ID),
		slog.String("message_id", msgID),
	)
}

// checkPlanCeiling fails with ErrPlanLimitExceeded when the company's
// active user count has reached its plan ceiling.
func (s *InviteService) checkPlanCeiling(ctx context.Context, company domain.Company) error {
	ceiling := company.Plan.UserCeiling()
	if ceiling == domain.UserCeilingUnlimited {
		return nil
	}
	count, err := s.Store.Users().CountUsersByCompany(ctx, company.ID)
	if err != nil {
		return err
	}
	if count >= ceiling {
		return ErrPlanLimitExceeded
	}
	return nil
}

// Resolve looks an invitation up by token. It returns ErrNotFound for
// unknown tokens, ErrInvitationConsumed for accepted ones and
// ErrInvitationExpired for pending rows past their deadline; the expired
// record stays in storage for audit but can never be accepted.
func (s *InviteService) Resolve(ctx context.Context, token string) (domain.Invitation, error) {
	if token == "" {
		return domain.Invitation{}, ErrNotFound
	}

	inv, err := s.Store.Invitations().GetInvitationByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}

	if inv.Consumed() {
		return domain.Invitation{}, ErrInvitationConsumed
	}
	if inv.Expired(s.now()) {
		return domain.Invitation{}, ErrInvitationExpired
	}

	return inv, nil
}

// Accept exchanges a pending, unexpired token for a new user account. It is
// at-most-once: the user insert and the pending→accepted flip happen in one
// transaction, and the flip is guarded on the row still being pending, so a
// concurrent or repeated accept rolls back without creating a second user.
func (s *InviteService) Accept(
	ctx context.Context,
	token string,
	profile AcceptProfile,
) (domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Resolve; propagates NotFound / Expired / Consumed.
	inv, err := s.Resolve(ctx, token)
	if err != nil {
		return domain.User{}, err
	}

	// 2. Validate the profile.
	if profile.FirstName == "" || profile.Password == "" {
		return domain.User{}, ErrValidation
	}
	if len(profile.Password) < 8 {
		return domain.User{}, ErrValidation
	}
	if profile.Password != profile.ConfirmPassword {
		return domain.User{}, ErrValidation
	}

	// 3. The email must not already belong to a user.
	if _, err := s.Store.Users().GetUserByEmail(ctx, inv.Email); err == nil {
		return domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.User{}, err
	}

	// 4. Hash the password.
	passwordHash, err := cryptox.HashPassword(profile.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.User{}, err
	}

	// 5. Create the user and consume the invitation atomically. The plan
	// ceiling is re-checked here: acceptance, not creation, is what grows
	// the active user count.
	now := s.now()
	newUser := domain.User{
		ID:           idx.New().String(),
		Email:        inv.Email,
		FirstName:    profile.FirstName,
		LastName:     profile.LastName,
		PasswordHash: passwordHash,
		Role:         inv.Role,
		CompanyID:    inv.CompanyID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		company, err := tx.Companies().GetCompanyByID(ctx, inv.CompanyID)
		if err != nil {
			return err
		}
		if ceiling := company.Plan.UserCeiling(); ceiling != domain.UserCeilingUnlimited {
			count, err := tx.Users().CountUsersByCompany(ctx, company.ID)
			if err != nil {
				return err
			}
			if count >= ceiling {
				return ErrPlanLimitExceeded
			}
		}

		if err := tx.Users().CreateUser(ctx, newUser); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}

		// Guarded on status=pending; zero rows means somebody consumed
		// the token between resolve and here.
		if err := tx.Invitations().MarkInvitationAccepted(ctx, inv.ID, newUser.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrInvitationConsumed
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.User{}, err
	}

	log.Info("invitation accepted",
		slog.String("invitation_id", inv.ID),
		slog.String("user_id", newUser.ID),
		slog.String("company_id", inv.CompanyID),
		slog.String("role", string(inv.Role)),
	)

	return newUser, nil
}

// Revoke removes an invitation. The actor must outrank the invitation's
// granted role; expiry state is irrelevant, revocation always removes.
func (s *InviteService) Revoke(ctx context.Context, actor Actor, invitationID string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.getScoped(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	if !actor.Role.CanManage(inv.Role) {
		log.Warn("revoke denied",
			slog.String("actor_role", string(actor.Role)),
			slog.String("invitation_role", string(inv.Role)),
		)
		return ErrUnauthorized
	}

	if err := s.Store.Invitations().DeleteInvitation(ctx, inv.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}

	log.Info("invitation revoked",
		slog.String("invitation_id", inv.ID),
		slog.String("revoked_by", actor.UserID),
	)
	return nil
}

// Resend re-delivers a pending invitation with its original token and
// records last_resent_at. It deliberately does NOT extend expires_at: an
// invitation nearing its deadline is revoked and re-created, not silently
// refreshed.
func (s *InviteService) Resend(ctx context.Context, actor Actor, invitationID string) error {
	log := slogx.FromContext(ctx)

	inv, err := s.getScoped(ctx, actor, invitationID)
	if err != nil {
		return err
	}

	if !actor.Role.CanPerform(domain.PermInviteUsers) || !actor.Role.CanManage(inv.Role) {
		return ErrUnauthorized
	}
	if inv.Consumed() {
		return ErrInvitationConsumed
	}
	if inv.Expired(s.now()) {
		return ErrInvitationExpired
	}

	company, err := s.Store.Companies().GetCompanyByID(ctx, inv.CompanyID)
	if err != nil {
		return err
	}

	subject, body := crmmail.InvitationEmail(s.AppBaseURL, company.Name, string(inv.Role), inv.Token)
	if _, err := s.Mailer.Send(ctx, inv.Email, subject, body); err != nil {
		// Resend is an explicit user action; unlike Create, the caller
		// gets the delivery failure.
		log.Warn("invitation resend failed",
			slog.String("invitation_id", inv.ID),
			slog.Any("error", err),
		)
		return err
	}

	if err := s.Store.Invitations().TouchInvitationResent(ctx, inv.ID, s.now()); err != nil {
		return err
	}

	log.Info("invitation resent", slog.String("invitation_id", inv.ID))
	return nil
}

// List returns the actor's company invitations, newest first.
func (s *InviteService) List(ctx context.Context, actor Actor) ([]domain.Invitation, error) {
	if !actor.Role.CanPerform(domain.PermInviteUsers) {
		return nil, ErrUnauthorized
	}
	return s.Store.Invitations().ListInvitationsByCompany(ctx, actor.CompanyID)
}

// getScoped loads an invitation and hides other companies' invitations
// behind ErrNotFound.
func (s *InviteService) getScoped(ctx context.Context, actor Actor, invitationID string) (domain.Invitation, error) {
	inv, err := s.Store.Invitations().GetInvitationByID(ctx, invitationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Invitation{}, ErrNotFound
		}
		return domain.Invitation{}, err
	}
	if inv.CompanyID != actor.CompanyID {
		return domain.Invitation{}, ErrNotFound
	}
	return inv, nil
}
