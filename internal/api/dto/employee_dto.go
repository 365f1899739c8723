package dto

import (
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/service"
)

// CreateEmployeeRequest mirrors the signup form fields.
type CreateEmployeeRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
	IsSuperUser bool   `json:"isSuperUser"`
	JoiningDate string `json:"joiningDate"`
	Position    string `json:"position"`
	Address     string `json:"address"`
	DateOfBirth string `json:"dateOfBirth"`
	GithubID    string `json:"githubId"`
	LinkedIn    string `json:"linkedIn"`
	Phone       string `json:"phone"`
}

// Input converts the request into the service-layer form.
func (r CreateEmployeeRequest) Input() service.CreateEmployeeInput {
	return service.CreateEmployeeInput{
		Name:        r.Name,
		Email:       r.Email,
		Password:    r.Password,
		SuperUser:   r.IsSuperUser,
		JoiningDate: r.JoiningDate,
		Position:    r.Position,
		Address:     r.Address,
		DateOfBirth: r.DateOfBirth,
		GithubID:    r.GithubID,
		LinkedIn:    r.LinkedIn,
		Phone:       r.Phone,
	}
}

// EmployeeResponse is the public projection of an employee record. The
// password hash never leaves the service.
type EmployeeResponse struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Role        domain.Role `json:"role"`
	JoiningDate string      `json:"joiningDate,omitempty"`
	Position    string      `json:"position,omitempty"`
	Address     string      `json:"address,omitempty"`
	DateOfBirth string      `json:"dateOfBirth,omitempty"`
	GithubID    string      `json:"githubId,omitempty"`
	LinkedIn    string      `json:"linkedIn,omitempty"`
	Phone       string      `json:"phone,omitempty"`
}

// NewEmployeeResponse builds the projection.
func NewEmployeeResponse(e *domain.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		Role:        e.Role,
		JoiningDate: e.JoiningDate,
		Position:    e.Position,
		Address:     e.Address,
		DateOfBirth: e.DateOfBirth,
		GithubID:    e.GithubID,
		LinkedIn:    e.LinkedIn,
		Phone:       e.Phone,
	}
}
