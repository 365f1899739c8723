package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/client"
	"github.com/spec-kit/employee-service/internal/domain"
	"github.com/spec-kit/employee-service/internal/session"
)

const usage = `emsctl — employee service client

Commands:
  login   -email <email> -password <password>
  logout
  whoami
  list
  get     -id <employee-id>
  add     -name ... -email ... -password ... [-superuser] [-joining-date ...]
          [-position ...] [-address ...] [-dob ...] [-github ...]
          [-linkedin ...] [-phone ...]

Environment:
  EMS_API_URL   service base URL (default http://127.0.0.1:8080)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	baseURL := os.Getenv("EMS_API_URL")
	if baseURL == "" {
		baseURL = "http://127.0.0.1:8080"
	}

	api := client.New(baseURL, 10*time.Second)
	mgr := session.NewManager(api, newTokenStore())
	guard := session.NewGuard(mgr)

	ctx := context.Background()
	// restore a persisted session; an invalid stored token silently falls
	// back to the logged-out state
	mgr.Refresh(ctx)

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, mgr, os.Args[2:])
	case "logout":
		mgr.Logout()
		fmt.Println("logged out")
	case "whoami":
		err = runWhoami(guard, mgr)
	case "list":
		err = runList(ctx, api, guard, mgr)
	case "get":
		err = runGet(ctx, api, guard, mgr, os.Args[2:])
	case "add":
		err = runAdd(ctx, api, guard, mgr, os.Args[2:])
	default:
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newTokenStore() session.TokenStore {
	dir, err := os.UserConfigDir()
	if err != nil {
		return session.NewMemoryStore()
	}
	return session.NewFileStore(filepath.Join(dir, "emsctl", "session.json"))
}

func runLogin(ctx context.Context, mgr *session.Manager, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	_ = fs.Parse(args)

	if *email == "" || *password == "" {
		return fmt.Errorf("email and password required")
	}
	if err := mgr.Login(ctx, *email, *password); err != nil {
		return err
	}
	identity, _ := mgr.Identity()
	fmt.Printf("logged in as %s (%s)\n", identity.Name, identity.Role)
	return nil
}

func runWhoami(guard *session.Guard, mgr *session.Manager) error {
	if decision := guard.RequireAuthenticated(); !decision.Allowed {
		return fmt.Errorf("%s", decision.Reason)
	}
	identity, _ := mgr.Identity()
	fmt.Printf("%s\t%s\t%s\n", identity.UserID, identity.Name, identity.Role)
	return nil
}

func runList(ctx context.Context, api *client.Client, guard *session.Guard, mgr *session.Manager) error {
	if decision := guard.RequireRole(domain.RoleSuperUser); !decision.Allowed {
		return fmt.Errorf("%s", deniedReason(decision))
	}

	employees, err := api.ListEmployees(ctx, guard)
	if err != nil {
		mgr.ObserveAuthFailure(err)
		return err
	}
	for _, e := range employees {
		fmt.Printf("%s\t%s\t%s\t%s\n", e.ID, e.Name, e.Email, e.Role)
	}
	return nil
}

func runGet(ctx context.Context, api *client.Client, guard *session.Guard, mgr *session.Manager, args []string) error {
	fs := flag.NewFlagSet("get", flag.ExitOnError)
	id := fs.String("id", "", "employee id")
	_ = fs.Parse(args)

	if decision := guard.RequireAuthenticated(); !decision.Allowed {
		return fmt.Errorf("%s", decision.Reason)
	}
	if *id == "" {
		return fmt.Errorf("id required")
	}

	employee, err := api.GetEmployee(ctx, guard, *id)
	if err != nil {
		mgr.ObserveAuthFailure(err)
		return err
	}
	fmt.Printf("%s\t%s\t%s\t%s\t%s\n", employee.ID, employee.Name, employee.Email, employee.Role, employee.Position)
	return nil
}

func runAdd(ctx context.Context, api *client.Client, guard *session.Guard, mgr *session.Manager, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	req := dto.CreateEmployeeRequest{}
	fs.StringVar(&req.Name, "name", "", "full name")
	fs.StringVar(&req.Email, "email", "", "email address")
	fs.StringVar(&req.Password, "password", "", "initial password")
	fs.BoolVar(&req.IsSuperUser, "superuser", false, "grant admin rights")
	fs.StringVar(&req.JoiningDate, "joining-date", "", "joining date (YYYY-MM-DD)")
	fs.StringVar(&req.Position, "position", "", "position")
	fs.StringVar(&req.Address, "address", "", "address")
	fs.StringVar(&req.DateOfBirth, "dob", "", "date of birth (YYYY-MM-DD)")
	fs.StringVar(&req.GithubID, "github", "", "github id")
	fs.StringVar(&req.LinkedIn, "linkedin", "", "linkedin id")
	fs.StringVar(&req.Phone, "phone", "", "phone number")
	_ = fs.Parse(args)

	if decision := guard.RequireRole(domain.RoleSuperUser); !decision.Allowed {
		return fmt.Errorf("%s", deniedReason(decision))
	}

	message, err := api.CreateEmployee(ctx, guard, req)
	if err != nil {
		mgr.ObserveAuthFailure(err)
		return err
	}
	fmt.Println(message)
	return nil
}

func deniedReason(decision session.Decision) string {
	if decision.Reason != "" {
		return decision.Reason
	}
	return "access denied"
}
