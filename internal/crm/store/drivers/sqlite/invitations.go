package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

type invitationsRepo struct {
	q queryer
}

const invitationColumns = `id, email, role, token, company_id, invited_by, status, accepted_by, last_resent_at, expires_at, created_at, updated_at`

func (r *invitationsRepo) CreateInvitation(ctx context.Context, inv domain.Invitation) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invitations (id, email, role, token, company_id, invited_by, status, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Email, string(inv.Role), inv.Token, inv.CompanyID,
		inv.InvitedBy, string(inv.Status), inv.ExpiresAt, inv.CreatedAt, inv.UpdatedAt,
	)
	return mapErr(err)
}

func (r *invitationsRepo) GetInvitationByID(ctx context.Context, id string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE id = ?`, id)
	return scanInvitation(row)
}

func (r *invitationsRepo) GetInvitationByToken(ctx context.Context, token string) (domain.Invitation, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE token = ?`, token)
	return scanInvitation(row)
}

func (r *invitationsRepo) ListInvitationsByCompany(ctx context.Context, companyID string) ([]domain.Invitation, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+invitationColumns+` FROM invitations WHERE company_id = ? ORDER BY created_at DESC`,
		companyID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var invitations []domain.Invitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, err
		}
		invitations = append(invitations, inv)
	}
	return invitations, rows.Err()
}

func (r *invitationsRepo) MarkInvitationAccepted(ctx context.Context, invitationID, acceptedByUserID string) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET status = ?, accepted_by = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = ?`,
		string(domain.InvitationAccepted), acceptedByUserID,
		invitationID, string(domain.InvitationPending),
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) TouchInvitationResent(ctx context.Context, invitationID string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invitations
		SET last_resent_at = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		at, invitationID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) DeleteInvitation(ctx context.Context, invitationID string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM invitations WHERE id = ?`, invitationID)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *invitationsRepo) DeleteExpiredInvitations(ctx context.Context, cutoff time.Time) error {
	_, err := r.q.ExecContext(ctx,
		`DELETE FROM invitations WHERE status = ? AND expires_at < ?`,
		string(domain.InvitationPending), cutoff)
	return mapErr(err)
}

func scanInvitation(row rowScanner) (domain.Invitation, error) {
	var inv domain.Invitation
	var role, status string
	var acceptedBy sql.NullString
	var lastResent sql.NullTime
	err := row.Scan(&inv.ID, &inv.Email, &role, &inv.Token, &inv.CompanyID,
		&inv.InvitedBy, &status, &acceptedBy, &lastResent,
		&inv.ExpiresAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return domain.Invitation{}, mapErr(err)
	}
	inv.Role = domain.Role(role)
	inv.Status = domain.InvitationStatus(status)
	inv.AcceptedBy = mapNullString(acceptedBy)
	inv.LastResent = mapNullTimePtr(lastResent)
	return inv, nil
}
