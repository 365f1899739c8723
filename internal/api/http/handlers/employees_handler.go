package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/service"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// EmployeesHandler exposes employee record endpoints.
type EmployeesHandler struct {
	auth *service.AuthService
}

// NewEmployeesHandler constructs handler.
func NewEmployeesHandler(authService *service.AuthService) *EmployeesHandler {
	return &EmployeesHandler{auth: authService}
}

// Create handles POST /api/superuser/signup. The route is guarded by
// RequireRole(SUPERUSER); the service re-checks the actor's role as well.
func (h *EmployeesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.CreateEmployeeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if _, err := h.auth.CreateEmployee(c.UserContext(), principal.Identity, req.Input()); err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "employee created"})
}

// Get handles GET /api/users/:id.
func (h *EmployeesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	employee, err := h.auth.GetProfile(c.UserContext(), principal.Identity, c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(dto.NewEmployeeResponse(employee))
}

// List handles GET /api/users.
func (h *EmployeesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	employees, err := h.auth.ListEmployees(c.UserContext(), principal.Identity)
	if err != nil {
		return err
	}

	responses := make([]dto.EmployeeResponse, 0, len(employees))
	for _, employee := range employees {
		responses = append(responses, dto.NewEmployeeResponse(employee))
	}
	return c.JSON(responses)
}
