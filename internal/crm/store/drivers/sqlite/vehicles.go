package sqlite

import (
	"context"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

type vehiclesRepo struct {
	q queryer
}

const vehicleColumns = `id, company_id, make, model, year, price, mileage, vin,
	exterior_color, interior_color, transmission, fuel_type, description, status,
	created_at, updated_at`

func (r *vehiclesRepo) GetVehicleByID(ctx context.Context, id string) (domain.Vehicle, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE id = ?`, id)
	return scanVehicle(row)
}

func (r *vehiclesRepo) GetVehicleByVIN(ctx context.Context, companyID, vin string) (domain.Vehicle, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE company_id = ? AND vin = ?`,
		companyID, vin)
	return scanVehicle(row)
}

func (r *vehiclesRepo) ListVehiclesByCompany(ctx context.Context, companyID string) ([]domain.Vehicle, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+vehicleColumns+` FROM vehicles WHERE company_id = ? ORDER BY created_at DESC`,
		companyID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()

	var vehicles []domain.Vehicle
	for rows.Next() {
		v, err := scanVehicle(rows)
		if err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *vehiclesRepo) CreateVehicle(ctx context.Context, v domain.Vehicle) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO vehicles (id, company_id, make, model, year, price, mileage, vin,
			exterior_color, interior_color, transmission, fuel_type, description, status,
			created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.ID, v.CompanyID, v.Make, v.Model, v.Year, v.Price, v.Mileage, v.VIN,
		v.ExteriorColor, v.InteriorColor, v.Transmission, v.FuelType, v.Description,
		string(v.Status), v.CreatedAt, v.UpdatedAt,
	)
	return mapErr(err)
}

func (r *vehiclesRepo) UpdateVehicle(ctx context.Context, v domain.Vehicle) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE vehicles
		SET make = ?, model = ?, year = ?, price = ?, mileage = ?, vin = ?,
			exterior_color = ?, interior_color = ?, transmission = ?, fuel_type = ?,
			description = ?, status = ?, updated_at = ?
		WHERE id = ?`,
		v.Make, v.Model, v.Year, v.Price, v.Mileage, v.VIN,
		v.ExteriorColor, v.InteriorColor, v.Transmission, v.FuelType,
		v.Description, string(v.Status), v.UpdatedAt, v.ID,
	)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func (r *vehiclesRepo) DeleteVehicle(ctx context.Context, id string) error {
	res, err := r.q.ExecContext(ctx, `DELETE FROM vehicles WHERE id = ?`, id)
	if err != nil {
		return mapErr(err)
	}
	return requireRowAffected(res)
}

func scanVehicle(row rowScanner) (domain.Vehicle, error) {
	var v domain.Vehicle
	var status string
	err := row.Scan(&v.ID, &v.CompanyID, &v.Make, &v.Model, &v.Year, &v.Price,
		&v.Mileage, &v.VIN, &v.ExteriorColor, &v.InteriorColor, &v.Transmission,
		&v.FuelType, &v.Description, &status, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.Vehicle{}, mapErr(err)
	}
	v.Status = domain.VehicleStatus(status)
	return v, nil
}
