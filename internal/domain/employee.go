package domain

import "time"

// Employee is the persisted record for a member of the organization.
// The same row acts as the credential record: email is the login handle and
// is unique across all employees.
type Employee struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	JoiningDate  string
	Position     string
	Address      string
	DateOfBirth  string
	GithubID     string
	LinkedIn     string
	Phone        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity projects the employee into its authenticated-subject form.
func (e *Employee) Identity() Identity {
	return Identity{UserID: e.ID, Name: e.Name, Role: e.Role}
}
