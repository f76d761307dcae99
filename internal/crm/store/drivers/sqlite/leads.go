package sqlite

import (
	"context"
	"database/sql"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

type leadsRepo struct {
	q queryer
}

const leadColumns = `id, company_id, name, email, phone, source, status, priority, budget,
	vehicle_interest, assigned_to, preferred_contact, timeframe, follow_up_date, notes,
	created_at, updated_at`

func (r *leadsRepo) GetLeadByID(ctx context.Context, id string) (domain.Lead, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = ?`, id)
	return scanLead(row)
}

func (r *leadsRepo) ListLeadsByCompany(ctx context.Context, companyID string) ([]domain.Lead, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE company_id = ? ORDER BY created_at DESC`,
		companyID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		l, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

func (r *leadsRepo) CreateLead(ctx context.Context, l domain.Lead) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO leads (id, company_id, name, email, phone, source, status, priority, budget,
			vehicle_interest, assigned_to, preferred_contact, timeframe, follow_up_date, notes,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID, l.CompanyID, l.Name, l.Email, l.Phone, l.Source, string(l.Status),
		l.Priority, l.Budget, l.VehicleInterest, l.AssignedTo, l.PreferredContact,
		l.Timeframe, mapOptionalTime(l.FollowUpDate), l.Notes, l.CreatedAt, l.UpdatedAt,
	)
	return mapErr(err)
}

func (r *leadsRepo) UpdateLead(ctx context.Context, l domain.Lead) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE leads
		SET name = ?, email = ?, phone = ?, source = ?, status = ?, priority = ?, budget = ?,
			vehicle_interest = ?, assigned_to = ?, preferred_contact = ?, timeframe = ?,
			follow_up_date = ?, notes = ?, updated_at = ?
		WHERE id = ?`,
		l.Name, l.Email, l.Phone, l.Source, string(l.Status), l.Priority, l.Budget,
		l.VehicleInterest, l.AssignedTo, l.PreferredContact, l.Timeframe,
		mapOptionalTime(l.FollowUpDate), l.Notes, l.UpdatedAt, l.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *leadsRepo) DeleteLead(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM leads WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func scanLead(row rowScanner) (domain.Lead, error) {
	var l domain.Lead
	var status string
	var followUp sql.NullTime
	err := row.Scan(&l.ID, &l.CompanyID, &l.Name, &l.Email, &l.Phone, &l.Source,
		&status, &l.Priority, &l.Budget, &l.VehicleInterest, &l.AssignedTo,
		&l.PreferredContact, &l.Timeframe, &followUp, &l.Notes,
		&l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return domain.Lead{}, mapErr(err)
	}
	l.Status = domain.LeadStatus(status)
	l.FollowUpDate = mapNullTimePtr(followUp)
	return l, nil
}
