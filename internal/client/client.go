package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spec-kit/employee-service/internal/api/dto"
	"github.com/spec-kit/employee-service/internal/domain"
	apperrors "github.com/spec-kit/employee-service/pkg/util"
)

// RequestAuthorizer attaches credentials to an outgoing request, or refuses
// it when no session is established. session.Guard implements it.
type RequestAuthorizer interface {
	AuthorizeRequest(req *http.Request) error
}

// bearerToken authorizes a request with a raw token, bypassing session state.
type bearerToken string

func (t bearerToken) AuthorizeRequest(req *http.Request) error {
	req.Header.Set("Authorization", "Bearer "+string(t))
	return nil
}

// Client calls the employee service HTTP API. It implements session.AuthAPI.
type Client struct {
	baseURL string
	http    *http.Client
}

// New builds a client with a bounded request timeout.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// Login exchanges credentials for a token and identity.
func (c *Client) Login(ctx context.Context, email, password string) (domain.Identity, string, error) {
	var resp dto.LoginResponse
	err := c.do(ctx, http.MethodPost, "/api/login", dto.LoginRequest{Email: email, Password: password}, nil, &resp)
	if err != nil {
		return domain.Identity{}, "", err
	}
	return resp.Identity, resp.Token, nil
}

// CurrentUser re-validates a token against the backend and returns the
// identity it is bound to.
func (c *Client) CurrentUser(ctx context.Context, token string) (domain.Identity, error) {
	var resp dto.EmployeeResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/me", nil, bearerToken(token), &resp); err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{UserID: resp.ID, Name: resp.Name, Role: resp.Role}, nil
}

// CreateEmployee submits a new employee record. Superuser session required.
func (c *Client) CreateEmployee(ctx context.Context, authorize RequestAuthorizer, req dto.CreateEmployeeRequest) (string, error) {
	var resp dto.MessageResponse
	if err := c.do(ctx, http.MethodPost, "/api/superuser/signup", req, authorize, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// ListEmployees returns all records. Superuser session required.
func (c *Client) ListEmployees(ctx context.Context, authorize RequestAuthorizer) ([]dto.EmployeeResponse, error) {
	var resp []dto.EmployeeResponse
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, authorize, &resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// GetEmployee returns one record by id.
func (c *Client) GetEmployee(ctx context.Context, authorize RequestAuthorizer, id string) (*dto.EmployeeResponse, error) {
	var resp dto.EmployeeResponse
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, authorize, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, authorize RequestAuthorizer, out any) error {
	var payload *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = bytes.NewReader(data)
	} else {
		payload = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if authorize != nil {
		// a guard refuses here when the session is not LoggedIn, before
		// anything goes over the wire
		if err := authorize.AuthorizeRequest(req); err != nil {
			return err
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return apperrors.NewTimeout(method + " " + path)
		}
		var netErr interface{ Timeout() bool }
		if errors.As(err, &netErr) && netErr.Timeout() {
			return apperrors.NewTimeout(method + " " + path)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var eb errorBody
		if decErr := json.NewDecoder(resp.Body).Decode(&eb); decErr != nil || eb.Message == "" {
			eb.Message = http.StatusText(resp.StatusCode)
		}
		if eb.Code == "" {
			eb.Code = fmt.Sprintf("HTTP_%d", resp.StatusCode)
		}
		return apperrors.NewDomainError(eb.Code, eb.Message, resp.StatusCode, nil)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
