package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
	"github.com/carisma-crm/carisma/internal/crm/store"
	"github.com/carisma-crm/carisma/pkg/idx"
	"github.com/carisma-crm/carisma/pkg/slogx"
)

// VehicleService is the company-scoped inventory. Writes need the inventory
// management permission; reads only need view access, so employees can
// browse stock they cannot edit.
type VehicleService struct {
	Store store.Store

	// Now is the clock, overridable in tests. Nil means time.Now.
	Now func() time.Time
}

func (s *VehicleService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// VehicleParams is the mutable surface of an inventory vehicle.
type VehicleParams struct {
	Make          string
	Model         string
	Year          int
	Price         int64
	Mileage       int
	VIN           string
	ExteriorColor string
	InteriorColor string
	Transmission  string
	FuelType      string
	Description   string
	Status        domain.VehicleStatus
}

func (s *VehicleService) canView(actor Actor) bool {
	return actor.Role.CanPerform(domain.PermManageInventory) ||
		actor.Role.CanPerform(domain.PermViewInventory)
}

// List returns the actor's company inventory, newest first.
func (s *VehicleService) List(ctx context.Context, actor Actor) ([]domain.Vehicle, error) {
	if !s.canView(actor) {
		return nil, ErrUnauthorized
	}
	return s.Store.Vehicles().ListVehiclesByCompany(ctx, actor.CompanyID)
}

// Get returns one vehicle, scoped to the actor's company.
func (s *VehicleService) Get(ctx context.Context, actor Actor, id string) (domain.Vehicle, error) {
	if !s.canView(actor) {
		return domain.Vehicle{}, ErrUnauthorized
	}
	return s.getScoped(ctx, actor, id)
}

// Create adds a vehicle to inventory. VINs are unique within the company.
func (s *VehicleService) Create(ctx context.Context, actor Actor, p VehicleParams) (domain.Vehicle, error) {
	log := slogx.FromContext(ctx)

	if !actor.Role.CanPerform(domain.PermManageInventory) {
		return domain.Vehicle{}, ErrUnauthorized
	}

	p.VIN = strings.ToUpper(strings.TrimSpace(p.VIN))
	if p.Make == "" || p.Model == "" || p.VIN == "" {
		return domain.Vehicle{}, ErrValidation
	}
	if p.Status == "" {
		p.Status = domain.VehicleAvailable
	}
	if !p.Status.Valid() {
		return domain.Vehicle{}, ErrValidation
	}

	now := s.now()
	v := domain.Vehicle{
		ID:            idx.New().String(),
		CompanyID:     actor.CompanyID,
		Make:          p.Make,
		Model:         p.Model,
		Year:          p.Year,
		Price:         p.Price,
		Mileage:       p.Mileage,
		VIN:           p.VIN,
		ExteriorColor: p.ExteriorColor,
		InteriorColor: p.InteriorColor,
		Transmission:  p.Transmission,
		FuelType:      p.FuelType,
		Description:   p.Description,
		Status:        p.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.Store.Vehicles().CreateVehicle(ctx, v); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Vehicle{}, ErrValidation
		}
		return domain.Vehicle{}, err
	}

	log.Info("vehicle created",
		slog.String("vehicle_id", v.ID),
		slog.String("company_id", v.CompanyID),
		slog.String("vin", v.VIN),
	)
	return v, nil
}

// Update replaces a vehicle's mutable fields.
func (s *VehicleService) Update(ctx context.Context, actor Actor, id string, p VehicleParams) (domain.Vehicle, error) {
	if !actor.Role.CanPerform(domain.PermManageInventory) {
		return domain.Vehicle{}, ErrUnauthorized
	}

	p.VIN = strings.ToUpper(strings.TrimSpace(p.VIN))
	if p.Make == "" || p.Model == "" || p.VIN == "" || !p.Status.Valid() {
		return domain.Vehicle{}, ErrValidation
	}

	v, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return domain.Vehicle{}, err
	}

	v.Make = p.Make
	v.Model = p.Model
	v.Year = p.Year
	v.Price = p.Price
	v.Mileage = p.Mileage
	v.VIN = p.VIN
	v.ExteriorColor = p.ExteriorColor
	v.InteriorColor = p.InteriorColor
	v.Transmission = p.Transmission
	v.FuelType = p.FuelType
	v.Description = p.Description
	v.Status = p.Status
	v.UpdatedAt = s.now()

	if err := s.Store.Vehicles().UpdateVehicle(ctx, v); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return domain.Vehicle{}, ErrValidation
		}
		if errors.Is(err, store.ErrNotFound) {
			return domain.Vehicle{}, ErrNotFound
		}
		return domain.Vehicle{}, err
	}
	return v, nil
}

// Delete removes a vehicle from inventory.
func (s *VehicleService) Delete(ctx context.Context, actor Actor, id string) error {
	if !actor.Role.CanPerform(domain.PermManageInventory) {
		return ErrUnauthorized
	}

	v, err := s.getScoped(ctx, actor, id)
	if err != nil {
		return err
	}

	if err := s.Store.Vehicles().DeleteVehicle(ctx, v.ID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return nil
}

func (s *VehicleService) getScoped(ctx context.Context, actor Actor, id string) (domain.Vehicle, error) {
	v, err := s.Store.Vehicles().GetVehicleByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return domain.Vehicle{}, ErrNotFound
		}
		return domain.Vehicle{}, err
	}
	if v.CompanyID != actor.CompanyID {
		return domain.Vehicle{}, ErrNotFound
	}
	return v, nil
}
