package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/employee-service/internal/config"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/events"
	"github.com/spec-kit/employee-service/internal/repository"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

type memRepo struct {
	mu      sync.Mutex
	byID    map[string]*domain.Employee
	byEmail map[string]string
}

func newMemRepo() *memRepo {
	return &memRepo{byID: map[string]*domain.Employee{}, byEmail: map[string]string{}}
}

func (r *memRepo) Create(_ context.Context, employee *domain.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.byEmail[employee.Email]; exists {
		return repository.ErrDuplicateEmail
	}
	if employee.ID == "" {
		employee.ID = uuid.NewString()
	}
	copied := *employee
	r.byID[employee.ID] = &copied
	r.byEmail[employee.Email] = employee.ID
	return nil
}

func (r *memRepo) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee, ok := r.byID[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *employee
	return &copied, nil
}

func (r *memRepo) GetByEmail(_ context.Context, email string) (*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	id, ok := r.byEmail[email]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *r.byID[id]
	return &copied, nil
}

func (r *memRepo) List(_ context.Context) ([]*domain.Employee, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	employees := make([]*domain.Employee, 0, len(r.byID))
	for _, employee := range r.byID {
		copied := *employee
		employees = append(employees, &copied)
	}
	return employees, nil
}

func (r *memRepo) UpdatePassword(_ context.Context, id, passwordHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	employee, ok := r.byID[id]
	if !ok {
		return pgx.ErrNoRows
	}
	employee.PasswordHash = passwordHash
	return nil
}

type memAttempts struct {
	mu     sync.Mutex
	counts map[string]int64
}

func newMemAttempts() *memAttempts {
	return &memAttempts{counts: map[string]int64{}}
}

func (a *memAttempts) Record(_ context.Context, email string) (int64, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.counts[email]++
	return a.counts[email], nil
}

func (a *memAttempts) Reset(_ context.Context, email string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	delete(a.counts, email)
	return nil
}

func serviceConfig(maxAttempts int) config.Config {
	return config.Config{
		Auth: config.AuthConfig{
			JWTSecret:           "test-secret",
			AccessTokenTTLHours: 24,
			BcryptCost:          bcrypt.MinCost,
			LoginMaxAttempts:    maxAttempts,
		},
	}
}

func seedEmployee(t *testing.T, repo *memRepo, email, password string, role domain.Role) *domain.Employee {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	employee := &domain.Employee{Name: "Seeded", Email: email, PasswordHash: string(hash), Role: role}
	require.NoError(t, repo.Create(context.Background(), employee))
	return employee
}

var superActor = domain.Identity{UserID: "actor-1", Name: "Ada", Role: domain.RoleSuperUser}

func validInput(email string) CreateEmployeeInput {
	return CreateEmployeeInput{
		Name:        "New Person",
		Email:       email,
		Password:    "hunter22",
		JoiningDate: "2026-01-15",
		Position:    "Engineer",
		DateOfBirth: "1990-04-02",
	}
}

func TestLogin_IssuesTokenWithinTTL(t *testing.T) {
	repo := newMemRepo()
	seedEmployee(t, repo, "admin@x.com", "correctpw", domain.RoleSuperUser)
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})

	identity, token, exp, err := svc.Login(context.Background(), "admin@x.com", "correctpw")
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperUser, identity.Role)
	require.InDelta(t, 24*time.Hour, time.Until(exp), float64(time.Minute))

	validated, err := svc.TokenManager().Validate(token)
	require.NoError(t, err)
	require.Equal(t, identity, validated)
}

func TestLogin_WrongPassword(t *testing.T) {
	repo := newMemRepo()
	seedEmployee(t, repo, "admin@x.com", "correctpw", domain.RoleSuperUser)
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})

	_, _, _, err := svc.Login(context.Background(), "admin@x.com", "wrong")
	require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
}

func TestLogin_ThrottledAfterRepeatedFailures(t *testing.T) {
	repo := newMemRepo()
	seedEmployee(t, repo, "admin@x.com", "correctpw", domain.RoleSuperUser)
	attempts := newMemAttempts()
	svc := NewAuthService(serviceConfig(3), AuthDependencies{EmployeeRepo: repo, AttemptRepo: attempts})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, _, err := svc.Login(ctx, "admin@x.com", "wrong")
		require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
	}
	_, _, _, err := svc.Login(ctx, "admin@x.com", "wrong")
	require.True(t, apperrors.IsCode(err, "TOO_MANY_ATTEMPTS"))

	// a successful login resets the counter
	_, _, _, err = svc.Login(ctx, "admin@x.com", "correctpw")
	require.NoError(t, err)
	_, _, _, err = svc.Login(ctx, "admin@x.com", "wrong")
	require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
}

func TestLogin_UnknownEmailThrottled(t *testing.T) {
	svc := NewAuthService(serviceConfig(3), AuthDependencies{EmployeeRepo: newMemRepo(), AttemptRepo: newMemAttempts()})

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, _, _, err := svc.Login(ctx, "ghost@x.com", "guess")
		require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
	}
	_, _, _, err := svc.Login(ctx, "ghost@x.com", "guess")
	require.True(t, apperrors.IsCode(err, "TOO_MANY_ATTEMPTS"))
}

func TestCreateEmployee_RequiresSuperUser(t *testing.T) {
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: newMemRepo()})
	employeeActor := domain.Identity{UserID: "actor-2", Name: "Bob", Role: domain.RoleEmployee}

	_, err := svc.CreateEmployee(context.Background(), employeeActor, validInput("new@x.com"))
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestCreateEmployee_Validation(t *testing.T) {
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: newMemRepo()})

	cases := []struct {
		name   string
		mutate func(*CreateEmployeeInput)
	}{
		{"missing name", func(in *CreateEmployeeInput) { in.Name = "" }},
		{"missing email", func(in *CreateEmployeeInput) { in.Email = "" }},
		{"bad email", func(in *CreateEmployeeInput) { in.Email = "not-an-email" }},
		{"short password", func(in *CreateEmployeeInput) { in.Password = "tiny" }},
		{"bad joining date", func(in *CreateEmployeeInput) { in.JoiningDate = "15/01/2026" }},
		{"bad birth date", func(in *CreateEmployeeInput) { in.DateOfBirth = "April 2 1990" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput("new@x.com")
			tc.mutate(&input)
			_, err := svc.CreateEmployee(context.Background(), superActor, input)
			require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
		})
	}
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	repo := newMemRepo()
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})

	_, err := svc.CreateEmployee(context.Background(), superActor, validInput("new@x.com"))
	require.NoError(t, err)

	_, err = svc.CreateEmployee(context.Background(), superActor, validInput("new@x.com"))
	require.True(t, apperrors.IsCode(err, "DUPLICATE_EMAIL"))

	all, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestCreateEmployee_PublishesEvent(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	var published []events.Event
	dispatcher.Subscribe(events.EventEmployeeCreated, func(_ context.Context, event events.Event) error {
		published = append(published, event)
		return nil
	})

	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: newMemRepo(), Dispatcher: dispatcher})

	input := validInput("new@x.com")
	input.SuperUser = true
	created, err := svc.CreateEmployee(context.Background(), superActor, input)
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperUser, created.Role)

	require.Len(t, published, 1)
	payload, ok := published[0].Payload.(events.EmployeeCreatedPayload)
	require.True(t, ok)
	require.Equal(t, created.ID, payload.EmployeeID)
}

func TestGetProfile_Scoping(t *testing.T) {
	repo := newMemRepo()
	owner := seedEmployee(t, repo, "bob@x.com", "bobpw123", domain.RoleEmployee)
	other := seedEmployee(t, repo, "carol@x.com", "carolpw1", domain.RoleEmployee)
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})

	ownerActor := owner.Identity()

	got, err := svc.GetProfile(context.Background(), ownerActor, owner.ID)
	require.NoError(t, err)
	require.Equal(t, owner.ID, got.ID)

	_, err = svc.GetProfile(context.Background(), ownerActor, other.ID)
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	got, err = svc.GetProfile(context.Background(), superActor, other.ID)
	require.NoError(t, err)
	require.Equal(t, other.ID, got.ID)

	_, err = svc.GetProfile(context.Background(), superActor, "missing-id")
	require.True(t, apperrors.IsCode(err, "NOT_FOUND"))
}

func TestChangePassword(t *testing.T) {
	repo := newMemRepo()
	employee := seedEmployee(t, repo, "bob@x.com", "oldpw123", domain.RoleEmployee)
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})
	actor := employee.Identity()

	err := svc.ChangePassword(context.Background(), actor, "wrongpw", "newpw123")
	require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))

	err = svc.ChangePassword(context.Background(), actor, "oldpw123", "short")
	require.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))

	require.NoError(t, svc.ChangePassword(context.Background(), actor, "oldpw123", "newpw123"))

	_, _, _, err = svc.Login(context.Background(), "bob@x.com", "oldpw123")
	require.True(t, apperrors.IsCode(err, "INVALID_CREDENTIALS"))
	_, _, _, err = svc.Login(context.Background(), "bob@x.com", "newpw123")
	require.NoError(t, err)
}

func TestListEmployees_SuperUserOnly(t *testing.T) {
	repo := newMemRepo()
	seedEmployee(t, repo, "bob@x.com", "bobpw123", domain.RoleEmployee)
	svc := NewAuthService(serviceConfig(0), AuthDependencies{EmployeeRepo: repo})

	_, err := svc.ListEmployees(context.Background(), domain.Identity{UserID: "x", Role: domain.RoleEmployee})
	require.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	all, err := svc.ListEmployees(context.Background(), superActor)
	require.NoError(t, err)
	require.Len(t, all, 1)
}
