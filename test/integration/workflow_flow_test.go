package integration

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"dermoscan-be/internal/bootstrap"
	"dermoscan-be/internal/config"
	"dermoscan-be/internal/dto"
	"dermoscan-be/internal/gateway"
	"dermoscan-be/internal/server"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Code    int             `json:"code"`
	Warning bool            `json:"warning"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	os.Setenv("JWT_SECRET", "integration-test-secret")

	cfg := &config.Config{
		App: config.AppConfig{
			Port:               "0",
			Environment:        "test",
			LogLevel:           "ERROR",
			LogFilePath:        filepath.Join(t.TempDir(), "log.txt"),
			CorsAllowedOrigins: "http://localhost:5173",
		},
		Backends: config.BackendConfig{
			Auth:       gateway.BypassAddress,
			Directory:  gateway.BypassAddress,
			Classifier: gateway.BypassAddress,
		},
	}

	container := bootstrap.NewContainer(cfg)
	return server.New(cfg, container).GetApp()
}

func call(t *testing.T, app *fiber.App, token, path string, body interface{}) (int, *envelope) {
	t.Helper()
	var reqBody bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(body))
	}

	req := httptest.NewRequest("POST", path, &reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	return resp.StatusCode, &env
}

func openSession(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, env := call(t, app, "", "/api/session", nil)
	require.Equal(t, 200, status)

	var opened dto.OpenSessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &opened))
	require.NotEmpty(t, opened.Token)
	require.Equal(t, "login", opened.View)
	return opened.Token
}

func decodeView(t *testing.T, env *envelope) *dto.ViewResponse {
	t.Helper()
	var view dto.ViewResponse
	require.NoError(t, json.Unmarshal(env.Data, &view))
	return &view
}

func TestSessionRequired(t *testing.T) {
	app := newTestApp(t)

	status, _ := call(t, app, "", "/api/auth/login", map[string]string{"username": "a", "password": "b"})
	assert.Equal(t, 401, status)

	status, _ = call(t, app, "not-a-jwt", "/api/patients/refresh", nil)
	assert.Equal(t, 401, status)
}

func TestLoginValidationAndSuccess(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	t.Run("empty username rejected locally", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/login", map[string]string{"username": "", "password": "pw"})
		assert.Equal(t, 400, status)
		assert.False(t, env.Success)
	})

	t.Run("empty password rejected locally", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/login", map[string]string{"username": "doc1", "password": ""})
		assert.Equal(t, 400, status)
		assert.False(t, env.Success)
	})

	t.Run("valid credentials reach the patient list", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/login", map[string]string{"username": "doc1", "password": "secret"})
		require.Equal(t, 200, status)
		require.True(t, env.Success)

		view := decodeView(t, env)
		assert.Equal(t, "patient_list", view.View)
		assert.NotEmpty(t, view.DisplayName)
		assert.Len(t, view.Patients, 19)
	})
}

func TestAccountCreationFlow(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	status, env := call(t, app, token, "/api/auth/account/begin", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "account_creation", decodeView(t, env).View)

	t.Run("password mismatch stays on the form", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/account", dto.CreateAccountRequest{
			Username: "new", Password: "a", ConfirmPassword: "b",
			Email: "new@clinic.org", Name: "New Doc",
		})
		assert.Equal(t, 400, status)
		assert.False(t, env.Success)
	})

	t.Run("bad email domain stays on the form", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/auth/account", dto.CreateAccountRequest{
			Username: "new", Password: "a", ConfirmPassword: "a",
			Email: "new@clinic.dev", Name: "New Doc",
		})
		assert.Equal(t, 400, status)
	})

	t.Run("valid form returns to login", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/account", dto.CreateAccountRequest{
			Username: "new", Password: "a", ConfirmPassword: "a",
			Email: "new@clinic.org", Name: "New Doc",
		})
		require.Equal(t, 200, status)
		assert.Equal(t, "login", decodeView(t, env).View)
	})
}

func TestPasswordRecoveryFlow(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	status, env := call(t, app, token, "/api/auth/forgot-password/begin", nil)
	require.Equal(t, 200, status)
	assert.Equal(t, "forgot_password_request", decodeView(t, env).View)

	status, env = call(t, app, token, "/api/auth/forgot-password", dto.ForgotPasswordRequest{Email: "doc@clinic.com"})
	require.Equal(t, 200, status)
	assert.Equal(t, "forgot_password_verify", decodeView(t, env).View)

	t.Run("incomplete code stays on verify", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/auth/forgot-password/verify",
			dto.VerifyCodeRequest{Digits: []string{"1", "", "3", "4"}})
		assert.Equal(t, 400, status)
	})

	status, env = call(t, app, token, "/api/auth/forgot-password/verify",
		dto.VerifyCodeRequest{Digits: []string{"1", "2", "3", "4"}})
	require.Equal(t, 200, status)
	assert.Equal(t, "forgot_password_reset", decodeView(t, env).View)

	status, env = call(t, app, token, "/api/auth/forgot-password/reset",
		dto.ResetPasswordRequest{Password: "newpw", ConfirmPassword: "newpw"})
	require.Equal(t, 200, status)
	assert.Equal(t, "login", decodeView(t, env).View)
}

func TestDirectoryAndClassification(t *testing.T) {
	app := newTestApp(t)
	token := openSession(t, app)

	_, env := call(t, app, token, "/api/auth/login", map[string]string{"username": "doc1", "password": "pw"})
	require.True(t, env.Success)

	t.Run("classification endpoints out of step before selection", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/classification/submit", nil)
		assert.Equal(t, 409, status)
	})

	status, env := call(t, app, token, "/api/patients/search", dto.SearchRequest{Column: "Name", Query: "Doe"})
	require.Equal(t, 200, status)
	matches := decodeView(t, env).Patients
	require.Len(t, matches, 2)

	t.Run("unknown column rejected", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/patients/search", dto.SearchRequest{Column: "Diagnosis", Query: "x"})
		assert.Equal(t, 400, status)
	})

	t.Run("no-match search keeps the previous table", func(t *testing.T) {
		status, env := call(t, app, token, "/api/patients/search", dto.SearchRequest{Column: "Name", Query: "zzzz"})
		require.Equal(t, 200, status)
		assert.True(t, env.Warning)
		assert.Len(t, decodeView(t, env).Patients, 2)
	})

	t.Run("refresh restores the full table", func(t *testing.T) {
		status, env := call(t, app, token, "/api/patients/refresh", nil)
		require.Equal(t, 200, status)
		assert.Len(t, decodeView(t, env).Patients, 19)
	})

	status, env = call(t, app, token, "/api/patients/select",
		dto.SelectPatientRequest{RefID: matches[0].RefID, PatientID: matches[0].PatientID})
	require.Equal(t, 200, status)
	view := decodeView(t, env)
	require.Equal(t, "classification", view.View)
	require.NotNil(t, view.Patient)
	assert.Equal(t, matches[0].PatientID, view.Patient.PatientID)
	assert.NotEmpty(t, view.Patient.Images)
	assert.Equal(t, -1, view.SelectedImage)

	t.Run("classify without an image is rejected", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/classification/submit", nil)
		assert.Equal(t, 400, status)
	})

	t.Run("image index out of range is rejected", func(t *testing.T) {
		status, _ := call(t, app, token, "/api/classification/select-image", dto.SelectImageRequest{Index: intp(99)})
		assert.Equal(t, 400, status)
	})

	status, env = call(t, app, token, "/api/classification/select-image", dto.SelectImageRequest{Index: intp(0)})
	require.Equal(t, 200, status)
	assert.Equal(t, 0, decodeView(t, env).SelectedImage)

	status, env = call(t, app, token, "/api/classification/submit", nil)
	require.Equal(t, 200, status)
	view = decodeView(t, env)
	require.NotNil(t, view.Result)
	require.NotEmpty(t, view.Result.Labels)
	for i := 1; i < len(view.Result.Labels); i++ {
		assert.GreaterOrEqual(t, view.Result.Labels[i-1].Score, view.Result.Labels[i].Score)
	}

	t.Run("cancel returns to the list and drops the result", func(t *testing.T) {
		status, env := call(t, app, token, "/api/classification/cancel", nil)
		require.Equal(t, 200, status)
		view := decodeView(t, env)
		assert.Equal(t, "patient_list", view.View)
		assert.Nil(t, view.Result)
	})

	t.Run("logout clears the session back to login", func(t *testing.T) {
		status, env := call(t, app, token, "/api/auth/logout", nil)
		require.Equal(t, 200, status)
		view := decodeView(t, env)
		assert.Equal(t, "login", view.View)
		assert.Empty(t, view.DisplayName)
	})
}

func intp(v int) *int { return &v }
