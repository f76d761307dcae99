package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/idx"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// LeadService is the company-scoped sales pipeline. Every role can work
// leads; the guard is company scoping, not rank.
type LeadService struct {
	Store store.Store

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *LeadService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// LeadParams is the mutable surface of a lead.
type LeadParams struct {
	Name             string
	Email            string
	Phone            string
	Source           string
	Status           domain.LeadStatus
	Priority         string
	Budget           string
	VehicleInterest  string
	AssignedTo       string
	PreferredContact string
	Timeframe        string
	FollowUpDate     *time.Time
	Notes            string
}

// List returns the actor's company leads, newest first.
func (s *LeadService) List(ctx context.Context, actor Actor) ([]domain.Lead, error) {
	if !actor.Role.CanPerform(domain.PermManageLeads) {
		return nil, ErrUnauthorized
	}
	return s.Store.Leads().ListLeadsByCompany(ctx, actor.CompanyID)
}

// Get returns one lead, scoped to the actor's company.
func (s *LeadService) Get(ctx context.Context, actor Actor, id string) (domain.Lead, error) {
	if !actor.Role.CanPerform(domain.PermManageLeads) {
		return domain.Lead{}, ErrUnauthorized
	}
	return s.getScoped(ctx, actor, id)
}

// Create adds a lead to the pipeline. A missing status starts the lead at
// the first stage.
func (s *LeadService) Create(ctx context.Context, actor Actor, p LeadParams) (domain.Lead, error) {
	log := slogx.FromContext(ctx)

	if !actor.Role.CanPerform(domain.PermManageLeads) {
		return domain.Lead{}, ErrUnauthorized
	}
	if p.Name == "" {
		return domain.Lead{}, ErrValidation
	}
	if p.Status == "" {
		p.Status = domain.LeadNew
	}
	if !p.Status.Valid() {
		return domain.Lead{}, ErrValidation
	}

	now := s.now()
	lead := domain.Lead{
		ID:               idx.New().String(),
		CompanyID:        actor.CompanyID,
		Name:             p.Name,
		Email:            p.Email,
		Phone:            p.Phone,
		Source:           p.Source,
		Status:           p.Status,
		Priority:         p.Priority,
		Budget:           p.Budget,
		VehicleInterest:  p.VehicleInterest,
		AssignedTo:       p.AssignedTo,
		PreferredContact: p.PreferredContact,
		Timeframe:        p.Timeframe,
		FollowUpDate:     p.FollowUpDate,
		Notes:            p.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.Store.Leads().CreateLead(ctx, lead); err != nil {
		return domain.Lead{}, err
	}

	log.Info("lead created",
		slog.String("lead_id", lead.ID),
		slog.String("company_id", lead.CompanyID),
	)
	return lead, nil
}

// Update replaces a lead's mutable fields.
func (s *LeadService) Update(ctx context.Context, actor Actor, id string, p LeadParams) (domain.Lead, error) {
	if !actor.Role.CanPerform(domain.PermManageLeads) {
		return domain.Lead{}, ErrUnauthorized
	}
	if p.Name == "" || !p.Status.Valid() {
		return domain.Lead{}, ErrValidation
	}

	lead, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return domain.Lead{}, err
	}

	lead.Name = p.Name
	lead.Email = p.Email
	lead.Phone = p.Phone
	lead.Source = p.Source
	lead.Status = p.Status
	lead.Priority = p.Priority
	lead.Budget = p.Budget
	lead.VehicleInterest = p.VehicleInterest
	lead.AssignedTo = p.AssignedTo
	lead.PreferredContact = p.PreferredContact
	lead.Timeframe = p.Timeframe
	lead.FollowUpDate = p.FollowUpDate
	lead.Notes = p.Notes
	lead.UpdatedAt = s.now()

	if err := s.Store.Leads().UpdateLead(ctx, lead); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lead{}, ErrNotFound
		}
		return domain.Lead{}, err
	}
	return lead, nil
}

// Delete removes a lead from the pipeline.
func (s *LeadService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Role.CanPerform(domain.PermManageLeads) {
		return ErrUnauthorized
	}

	lead, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.Store.Leads().DeleteLead(ctx, lead.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *LeadService) getScoped(ctx context.Context, actor Actor, id string) (domain.Lead, error) {
	lead, err := s.Store.Leads().GetLeadByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Lead{}, ErrNotFound
		}
		return domain.Lead{}, err
	}
	if lead.CompanyID != actor.CompanyID {
		return domain.Lead{}, ErrNotFound
	}
	return lead, nil
}
