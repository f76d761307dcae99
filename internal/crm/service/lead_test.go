package service

import (
	"context"
	"testing"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/stretchr/testify/require"
)

func TestLeadPipeline(t *testing.T) {
	ctx := context.Background()

	st := newTestStore(t)
	company := seedCompany(t, st, domain.PlanPremium)
	emp := seedUser(t, st, company.ID, domain.RoleEmployee, "emp@apex.test")
	svc := &LeadService{Store: st}

	t.Run("create defaults to the first stage", func(t *testing.T) {
		lead, err := svc.Create(ctx, actorFor(emp), LeadParams{
			Name:   "Walk-in Wanda",
			Email:  "wanda@prospect.test",
			Source: "showroom",
		})
		require.NoError(t, err)
		require.Equal(t, domain.LeadNew, lead.Status)
		require.Equal(t, company.ID, lead.CompanyID)
	})

	t.Run("update moves a lead through the pipeline", func(t *testing.T) {
		lead, err := svc.Create(ctx, actorFor(emp), LeadParams{Name: "Callback Carl"})
		require.NoError(t, err)

		updated, err := svc.Update(ctx, actorFor(emp), lead.ID, LeadParams{
			Name:   "Callback Carl",
			Status: domain.LeadQualified,
			Notes:  "ready for a test drive",
		})
		require.NoError(t, err)
		require.Equal(t, domain.LeadQualified, updated.Status)

		stored, err := svc.Get(ctx, actorFor(emp), lead.ID)
		require.NoError(t, err)
		require.Equal(t, "ready for a test drive", stored.Notes)
	})

	t.Run("unknown status is rejected", func(t *testing.T) {
		_, err := svc.Create(ctx, actorFor(emp), LeadParams{
			Name:   "Bad Status",
			Status: domain.LeadStatus("Lost"),
		})
		require.ErrorIs(t, err, ErrValidation)
	})

	t.Run("other companies' leads look missing", func(t *testing.T) {
		other := seedCompany(t, st, domain.PlanBasic)
		stranger := seedUser(t, st, other.ID, domain.RoleEmployee, "stranger@other.test")

		lead, err := svc.Create(ctx, actorFor(emp), LeadParams{Name: "Private Pat"})
		require.NoError(t, err)

		_, err = svc.Get(ctx, actorFor(stranger), lead.ID)
		require.ErrorIs(t, err, ErrNotFound)

		err = svc.Delete(ctx, actorFor(stranger), lead.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete removes the lead", func(t *testing.T) {
		lead, err := svc.Create(ctx, actorFor(emp), LeadParams{Name: "Gone Gary"})
		require.NoError(t, err)

		require.NoError(t, svc.Delete(ctx, actorFor(emp), lead.ID))

		_, err = svc.Get(ctx, actorFor(emp), lead.ID)
		require.ErrorIs(t, err, ErrNotFound)
	})
}
