package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/cryptox"
	"github.com/carisma-crm/carisma/pkg/idx"
	"github.com/carisma-crm/carisma/pkg/jwtx"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// AccountService handles company signup and credential-based login.
type AccountService struct {
	Store  store.Store
	Signer *jwtx.Signer

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// RegisterCompanyParams is the signup payload: a new dealership plus its
// founding superadmin.
type RegisterCompanyParams struct {
	CompanyName string
	Plan        domain.Plan
	Address     string
	Phone       string

	Email           string
	FirstName       string
	LastName        string
	Password        string
	ConfirmPassword string
}

// RegisterCompany creates a company and its first user atomically. The
// founding user is always a superadmin; every other account enters through
// an invitation.
func (s *AccountService) RegisterCompany(
	ctx context.Context,
	p RegisterCompanyParams,
) (domain.Company, domain.User, error) {
	log := slogx.FromContext(ctx)

	// 1. Validate.
	p.Email = strings.TrimSpace(strings.ToLower(p.Email))
	if p.CompanyName == "" || p.FirstName == "" {
		return domain.Company{}, domain.User{}, ErrValidation
	}
	if _, err := mail.ParseAddress(p.Email); err != nil {
		return domain.Company{}, domain.User{}, ErrValidation
	}
	if !p.Plan.Valid() {
		return domain.Company{}, domain.User{}, ErrValidation
	}
	if len(p.Password) < 8 || p.Password != p.ConfirmPassword {
		return domain.Company{}, domain.User{}, ErrValidation
	}

	// 2. Duplicate email check up front for a clean error; the unique index
	// still backstops races.
	if _, err := s.Store.Users().GetUserByEmail(ctx, p.Email); err == nil {
		return domain.Company{}, domain.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return domain.Company{}, domain.User{}, err
	}

	passwordHash, err := cryptox.HashPassword(p.Password)
	if err != nil {
		log.Error("failed to hash password", slog.Any("error", err))
		return domain.Company{}, domain.User{}, err
	}

	now := s.now()
	company := domain.Company{
		ID:        idx.New().String(),
		Name:      p.CompanyName,
		Plan:      p.Plan,
		Address:   p.Address,
		Phone:     p.Phone,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := domain.User{
		ID:           idx.New().String(),
		Email:        p.Email,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: passwordHash,
		Role:         domain.RoleSuperAdmin,
		CompanyID:    company.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	// 3. Company and founding user land together or not at all.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Companies().CreateCompany(ctx, company); err != nil {
			return err
		}
		if err := tx.Users().CreateUser(ctx, owner); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrEmailTaken
			}
			return err
		}
		return nil
	})
	if err != nil {
		return domain.Company{}, domain.User{}, err
	}

	log.Info("company registered",
		slog.String("company_id", company.ID),
		slog.String("plan", string(company.Plan)),
		slog.String("owner_id", owner.ID),
	)

	return company, owner, nil
}

// Login verifies credentials and issues an access token. The failure mode is
// uniform: unknown email and wrong password both come back as
// ErrInvalidCredentials.
func (s *AccountService) Login(ctx context.Context, email, password string) (string, domain.User, error) {
	log := slogx.FromContext(ctx)

	email = strings.TrimSpace(strings.ToLower(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Burn comparable time so the response doesn't reveal whether
			// the email exists.
			_ = cryptox.VerifyPassword(password, cryptox.DummyHash)
			return "", domain.User{}, ErrInvalidCredentials
		}
		return "", domain.User{}, err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		log.Warn("login failed", slog.String("user_id", user.ID))
		return "", domain.User{}, ErrInvalidCredentials
	}

	token, err := s.Signer.Sign(user.ID, string(user.Role), user.CompanyID)
	if err != nil {
		log.Error("failed to sign access token", slog.Any("error", err))
		return "", domain.User{}, err
	}

	log.Info("login succeeded", slog.String("user_id", user.ID))
	return token, user, nil
}

// Me returns the authenticated user's own record.
func (s *AccountService) Me(ctx context.Context, actor Actor) (domain.User, error) {
	user, err := s.Store.Users().GetUserByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.User{}, ErrNotFound
		}
		return domain.User{}, err
	}
	return user, nil
}
