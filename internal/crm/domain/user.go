package domain

import "time"

// User is a member of a company. Role changes only happen through the
// authorized role-change operation in the user service.
type User struct {
	ID           string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string // argon2id encoded
	Role         Role
	CompanyID    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
