package service

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/employee-service/internal/auth"
	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

var (
	emailPattern = regexp.MustCompile(`^[\w\-.]+@([\w-]+\.)+[\w-]{2,}$`)
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// AuthService coordinates login, employee creation and profile reads.
type AuthService struct {
	employees   repository.EmployeeRepository
	attempts    repository.LoginAttemptRepository
	dispatcher  events.Dispatcher
	tokenMgr    *auth.TokenManager
	logger      *zap.Logger
	bcryptCost  int
	maxAttempts int
}

// AuthDependencies encapsulates collaborator requirements for the service.
type AuthDependencies struct {
	EmployeeRepo repository.EmployeeRepository
	AttemptRepo  repository.LoginAttemptRepository
	Dispatcher   events.Dispatcher
	Logger       *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		employees:   deps.EmployeeRepo,
		attempts:    deps.AttemptRepo,
		dispatcher:  deps.Dispatcher,
		tokenMgr:    auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL()),
		logger:      logger,
		bcryptCost:  cfg.Auth.BcryptCost,
		maxAttempts: cfg.Auth.LoginMaxAttempts,
	}
}

// Login verifies credentials and issues a token bound to the identity.
func (s *AuthService) Login(ctx context.Context, email, password string) (domain.Identity, string, time.Time, error) {
	employee, err := s.employees.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// unknown emails count toward the same threshold as wrong
			// passwords
			if s.recordFailure(ctx, email) > int64(s.maxAttempts) && s.maxAttempts > 0 {
				return domain.Identity{}, "", time.Time{}, apperrors.NewTooManyAttempts()
			}
			return domain.Identity{}, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return domain.Identity{}, "", time.Time{}, mapTimeout(err, "login")
	}

	if err := auth.ComparePassword(employee.PasswordHash, password); err != nil {
		if s.recordFailure(ctx, email) > int64(s.maxAttempts) && s.maxAttempts > 0 {
			return domain.Identity{}, "", time.Time{}, apperrors.NewTooManyAttempts()
		}
		return domain.Identity{}, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	if s.attempts != nil {
		if err := s.attempts.Reset(ctx, email); err != nil {
			s.logger.Warn("reset login attempts", zap.Error(err))
		}
	}

	identity := employee.Identity()
	token, exp, err := s.tokenMgr.Issue(identity)
	if err != nil {
		return domain.Identity{}, "", time.Time{}, err
	}
	return identity, token, exp, nil
}

// CreateEmployeeInput carries the fields of the signup form.
type CreateEmployeeInput struct {
	Name        string
	Email       string
	Password    string
	SuperUser   bool
	JoiningDate string
	Position    string
	Address     string
	DateOfBirth string
	GithubID    string
	LinkedIn    string
	Phone       string
}

// CreateEmployee creates a new employee record. Only a SuperUser identity may
// create records; the role check runs here as well as in the transport guard.
func (s *AuthService) CreateEmployee(ctx context.Context, actor domain.Identity, input CreateEmployeeInput) (*domain.Employee, error) {
	if !actor.Role.Satisfies(domain.RoleSuperUser) {
		return nil, apperrors.NewForbidden("superuser role required")
	}
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	if _, err := s.employees.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewDuplicateEmail(input.Email)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, mapTimeout(err, "create employee")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	role := domain.RoleEmployee
	if input.SuperUser {
		role = domain.RoleSuperUser
	}

	employee := &domain.Employee{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hash,
		Role:         role,
		JoiningDate:  input.JoiningDate,
		Position:     input.Position,
		Address:      input.Address,
		DateOfBirth:  input.DateOfBirth,
		GithubID:     input.GithubID,
		LinkedIn:     input.LinkedIn,
		Phone:        input.Phone,
	}
	if err := s.employees.Create(ctx, employee); err != nil {
		// concurrent create with the same email loses the race here
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperrors.NewDuplicateEmail(input.Email)
		}
		return nil, mapTimeout(err, "create employee")
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventEmployeeCreated,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload: events.EmployeeCreatedPayload{
			EmployeeID: employee.ID,
			Email:      employee.Email,
			Name:       employee.Name,
			Role:       employee.Role,
			Position:   employee.Position,
		},
	})

	return employee, nil
}

// GetProfile returns an employee record, readable by the record's owner or by
// any superuser.
func (s *AuthService) GetProfile(ctx context.Context, actor domain.Identity, employeeID string) (*domain.Employee, error) {
	if actor.UserID != employeeID && !actor.Role.Satisfies(domain.RoleSuperUser) {
		return nil, apperrors.NewForbidden("cannot read another employee's profile")
	}

	employee, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("employee", map[string]any{"id": employeeID})
		}
		return nil, mapTimeout(err, "get profile")
	}
	return employee, nil
}

// ListEmployees returns all records. Superuser only.
func (s *AuthService) ListEmployees(ctx context.Context, actor domain.Identity) ([]*domain.Employee, error) {
	if !actor.Role.Satisfies(domain.RoleSuperUser) {
		return nil, apperrors.NewForbidden("superuser role required")
	}
	employees, err := s.employees.List(ctx)
	if err != nil {
		return nil, mapTimeout(err, "list employees")
	}
	return employees, nil
}

// ChangePassword verifies the current password before storing a new hash.
func (s *AuthService) ChangePassword(ctx context.Context, actor domain.Identity, currentPassword, newPassword string) error {
	if len(newPassword) < 6 {
		return apperrors.NewValidationError("password must be at least 6 characters", nil)
	}

	employee, err := s.employees.GetByID(ctx, actor.UserID)
	if err != nil {
		return mapTimeout(err, "change password")
	}
	if err := auth.ComparePassword(employee.PasswordHash, currentPassword); err != nil {
		return apperrors.NewInvalidCredentials()
	}

	hash, err := auth.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	if err := s.employees.UpdatePassword(ctx, employee.ID, hash); err != nil {
		return mapTimeout(err, "change password")
	}

	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventPasswordChanged,
		Actor:     events.Actor{UserID: actor.UserID, Role: actor.Role},
		Timestamp: time.Now(),
		Payload:   events.PasswordChangedPayload{EmployeeID: employee.ID},
	})
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}

func (s *AuthService) recordFailure(ctx context.Context, email string) int64 {
	var count int64
	if s.attempts != nil {
		var err error
		count, err = s.attempts.Record(ctx, email)
		if err != nil {
			s.logger.Warn("record login attempt", zap.Error(err))
		}
	}
	s.publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventLoginFailed,
		Timestamp: time.Now(),
		Payload:   events.LoginFailedPayload{Email: email, Attempts: count},
	})
	return count
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateCreateInput(input CreateEmployeeInput) error {
	details := map[string]any{}
	if input.Name == "" {
		details["name"] = "required"
	}
	switch {
	case input.Email == "":
		details["email"] = "required"
	case !emailPattern.MatchString(input.Email):
		details["email"] = "invalid format"
	}
	if len(input.Password) < 6 {
		details["password"] = "must be at least 6 characters"
	}
	if input.JoiningDate != "" && !datePattern.MatchString(input.JoiningDate) {
		details["joiningDate"] = "expected YYYY-MM-DD"
	}
	if input.DateOfBirth != "" && !datePattern.MatchString(input.DateOfBirth) {
		details["dateOfBirth"] = "expected YYYY-MM-DD"
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("invalid employee fields", details)
	}
	return nil
}

func mapTimeout(err error, operation string) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewTimeout(operation)
	}
	return err
}
