package sqlite

import (
	"context"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

type companiesRepo struct {
	q queryer
}

const companyColumns = `id, name, plan, address, phone, created_at, updated_at`

func (r *companiesRepo) GetCompanyByID(ctx context.Context, id string) (domain.Company, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+companyColumns+` FROM companies WHERE id = ?`, id)
	return scanCompany(row)
}

func (r *companiesRepo) CreateCompany(ctx context.Context, c domain.Company) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO companies (id, name, plan, address, phone, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.ID, c.Name, string(c.Plan), c.Address, c.Phone, c.CreatedAt, c.UpdatedAt,
	)
	return mapErr(err)
}

func (r *companiesRepo) UpdateCompany(ctx context.Context, c domain.Company) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE companies
		SET name = ?, plan = ?, address = ?, phone = ?, updated_at = ?
		WHERE id = ?`,
		c.Name, string(c.Plan), c.Address, c.Phone, c.UpdatedAt, c.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCompany(row rowScanner) (domain.Company, error) {
	var c domain.Company
	var plan string
	err := row.Scan(&c.ID, &c.Name, &plan, &c.Address, &c.Phone, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Company{}, mapErr(err)
	}
	c.Plan = domain.Plan(plan)
	return c, nil
}
