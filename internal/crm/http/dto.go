package http

import (
	"time"

	"github.com/carisma-crm/carisma/internal/crm/domain"
)

// Wire representations. The invitation token is deliberately absent from
// every response except the create response: staff listing invitations must
// not be able to lift a colleague's bearer token.

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Plan      string    `json:"plan"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func toCompanyResponse(c domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Plan:      string(c.Plan),
		Address:   c.Address,
		Phone:     c.Phone,
		CreatedAt: c.CreatedAt,
	}
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	CompanyID string    `json:"company_id"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserResponse(u domain.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CompanyID: u.CompanyID,
		CreatedAt: u.CreatedAt,
	}
}

func toUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	return out
}

type InvitationResponse struct {
	ID         string     `json:"id"`
	Email      string     `json:"email"`
	Role       string     `json:"role"`
	Status     string     `json:"status"`
	InvitedBy  string     `json:"invited_by"`
	LastResent *time.Time `json:"last_resent,omitempty"`
	ExpiresAt  time.Time  `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func toInvitationResponse(inv domain.Invitation, now time.Time) InvitationResponse {
	status := string(inv.Status)
	if inv.Status == domain.InvitationPending && inv.Expired(now) {
		status = "expired"
	}
	return InvitationResponse{
		ID:         inv.ID,
		Email:      inv.Email,
		Role:       string(inv.Role),
		Status:     status,
		InvitedBy:  inv.InvitedBy,
		LastResent: inv.LastResent,
		ExpiresAt:  inv.ExpiresAt,
		CreatedAt:  inv.CreatedAt,
	}
}

type LeadResponse struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Email            string     `json:"email,omitempty"`
	Phone            string     `json:"phone,omitempty"`
	Source           string     `json:"source,omitempty"`
	Status           string     `json:"status"`
	Priority         string     `json:"priority,omitempty"`
	Budget           string     `json:"budget,omitempty"`
	VehicleInterest  string     `json:"vehicle_interest,omitempty"`
	AssignedTo       string     `json:"assigned_to,omitempty"`
	PreferredContact string     `json:"preferred_contact,omitempty"`
	Timeframe        string     `json:"timeframe,omitempty"`
	FollowUpDate     *time.Time `json:"follow_up_date,omitempty"`
	Notes            string     `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toLeadResponse(l domain.Lead) LeadResponse {
	return LeadResponse{
		ID:               l.ID,
		Name:             l.Name,
		Email:            l.Email,
		Phone:            l.Phone,
		Source:           l.Source,
		Status:           string(l.Status),
		Priority:         l.Priority,
		Budget:           l.Budget,
		VehicleInterest:  l.VehicleInterest,
		AssignedTo:       l.AssignedTo,
		PreferredContact: l.PreferredContact,
		Timeframe:        l.Timeframe,
		FollowUpDate:     l.FollowUpDate,
		Notes:            l.Notes,
		CreatedAt:        l.CreatedAt,
		UpdatedAt:        l.UpdatedAt,
	}
}

type VehicleResponse struct {
	ID            string    `json:"id"`
	Make          string    `json:"make"`
	Model         string    `json:"model"`
	Year          int       `json:"year"`
	Price         int64     `json:"price_cents"`
	Mileage       int       `json:"mileage"`
	VIN           string    `json:"vin"`
	ExteriorColor string    `json:"exterior_color,omitempty"`
	InteriorColor string    `json:"interior_color,omitempty"`
	Transmission  string    `json:"transmission,omitempty"`
	FuelType      string    `json:"fuel_type,omitempty"`
	Description   string    `json:"description,omitempty"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toVehicleResponse(v domain.Vehicle) VehicleResponse {
	return VehicleResponse{
		ID:            v.ID,
		Make:          v.Make,
		Model:         v.Model,
		Year:          v.Year,
		Price:         v.Price,
		Mileage:       v.Mileage,
		VIN:           v.VIN,
		ExteriorColor: v.ExteriorColor,
		InteriorColor: v.InteriorColor,
		Transmission:  v.Transmission,
		FuelType:      v.FuelType,
		Description:   v.Description,
		Status:        string(v.Status),
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}
