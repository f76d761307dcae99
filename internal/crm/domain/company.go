package domain

import "time"

// Plan is a company's subscription tier. The tier determines how many active
// users the company may have.
type Plan string

const (
	PlanBasic      Plan = "basic"
	PlanPremium    Plan = "premium"
	PlanEnterprise Plan = "enterprise"
)

// UserCeilingUnlimited marks plans without a user-count ceiling.
const UserCeilingUnlimited = -1

// Valid reports whether p is a known plan.
func (p Plan) Valid() bool {
	switch p {
	case PlanBasic, PlanPremium, PlanEnterprise:
		return true
	}
	return false
}

// UserCeiling returns the maximum active user count for the plan, or
// UserCeilingUnlimited. Unknown plans get a ceiling of zero so a corrupted
// plan value can never admit users.
func (p Plan) UserCeiling() int {
	switch p {
	case PlanBasic:
		return 5
	case PlanPremium:
		return 15
	case PlanEnterprise:
		return UserCeilingUnlimited
	}
	return 0
}

// Company is a dealership tenant. Users and invitations belong to exactly
// one company.
type Company struct {
	ID        string
	Name      string
	Plan      Plan
	Address   string
	Phone     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
