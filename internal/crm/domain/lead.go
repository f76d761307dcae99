package domain

import "time"

// LeadStatus tracks a sales lead through the pipeline. The values mirror
// the pipeline stages shown on the leads board.
type LeadStatus string

const (
	LeadNew         LeadStatus = "Newly Created"
	LeadContacted   LeadStatus = "Contacted"
	LeadProcessing  LeadStatus = "Processing"
	LeadQualified   LeadStatus = "Qualified"
	LeadUnqualified LeadStatus = "Unqualified"
	LeadCompleted   LeadStatus = "Completed"
)

// Valid reports whether s is a known pipeline stage.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadProcessing, LeadQualified,
		LeadUnqualified, LeadCompleted:
		return true
	}
	return false
}

// Lead is a prospective customer, owned by a company and optionally
// assigned to one of its users.
type Lead struct {
	ID               string
	CompanyID        string
	Name             string
	Email            string
	Phone            string
	Source           string
	Status           LeadStatus
	Priority         string
	Budget           string
	VehicleInterest  string // free-text pointer at an inventory vehicle
	AssignedTo       string // user id, empty when unassigned
	PreferredContact string
	Timeframe        string
	FollowUpDate     *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
