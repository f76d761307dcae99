package domain

import "time"

// InvitationStatus is the stored state of an invitation. Expiry is never a
// stored status: it is derived from ExpiresAt on every read, so a pending
// row past its deadline behaves as expired without any extra write.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "pending"
	InvitationAccepted InvitationStatus = "accepted"
)

// Invitation is a pending offer to join a company with a given role. The
// token is an unguessable bearer credential: anyone holding it can accept
// the invitation while it is pending and unexpired. Tokens must never be
// logged above debug level.
type Invitation struct {
	ID          string
	Email       string
	Role        Role // role granted on acceptance
	Token       string
	CompanyID   string
	InvitedBy   string // user id of the inviter
	Status      InvitationStatus
	AcceptedBy  string // user id created on acceptance, empty until then
	LastResent  *time.Time
	ExpiresAt   time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Expired reports whether the invitation's deadline has passed at now.
func (i Invitation) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}

// Consumed reports whether the invitation has already been accepted.
func (i Invitation) Consumed() bool {
	return i.Status == InvitationAccepted
}
