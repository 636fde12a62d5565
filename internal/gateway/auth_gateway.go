package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// The auth backend reports "could not send the reset email" with this exact
// body. It is deliberately treated as success so that requesting a reset
// never reveals whether the address is registered.
const resetEmailSoftError = "Error sending reset email"

type SignInResult struct {
	Success     bool   `json:"success"`
	DisplayName string `json:"name"`
}

type IAuthGateway interface {
	SignIn(ctx context.Context, username, passwordHash string) (*SignInResult, error)
	CreateAccount(ctx context.Context, username, passwordHash, email, name string) (bool, error)
	RequestPasswordReset(ctx context.Context, email string) (bool, error)
}

type authGateway struct {
	baseURL string
	client  *http.Client
}

var _ IAuthGateway = &authGateway{}

// NewAuthGateway talks to the login backend at addr (host:port).
func NewAuthGateway(addr string) IAuthGateway {
	return &authGateway{
		baseURL: "http://" + addr,
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

type createAccountRequest struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email"`
	Name         string `json:"name"`
}

type successResponse struct {
	Success bool `json:"success"`
}

func (g *authGateway) SignIn(ctx context.Context, username, passwordHash string) (*SignInResult, error) {
	q := url.Values{}
	q.Set("username", username)
	q.Set("password_hash", passwordHash)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		g.baseURL+"/api/v1/signin?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, connErr("auth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}

	var result SignInResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}
	return &result, nil
}

func (g *authGateway) CreateAccount(ctx context.Context, username, passwordHash, email, name string) (bool, error) {
	payload, err := json.Marshal(createAccountRequest{
		Username:     username,
		PasswordHash: passwordHash,
		Email:        email,
		Name:         name,
	})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/v1/create-account", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, connErr("auth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}

	var result successResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}
	return result.Success, nil
}

func (g *authGateway) RequestPasswordReset(ctx context.Context, email string) (bool, error) {
	payload, err := json.Marshal(map[string]string{"email": email})
	if err != nil {
		return false, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		g.baseURL+"/api/v1/password-change-email", bytes.NewReader(payload))
	if err != nil {
		return false, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return false, connErr("auth", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Enumeration masking: the "could not email you" failure is reported
		// to the caller as success.
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		if strings.Contains(string(body), resetEmailSoftError) {
			return true, nil
		}
		return false, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}

	var result successResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return false, &ServiceError{Service: "auth", Status: resp.StatusCode}
	}
	return result.Success, nil
}
