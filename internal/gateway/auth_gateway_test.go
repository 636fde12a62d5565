package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAddr(srv *httptest.Server) string {
	return strings.TrimPrefix(srv.URL, "http://")
}

func TestSignInSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/signin", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "doc1", r.URL.Query().Get("username"))
		assert.NotEmpty(t, r.URL.Query().Get("password_hash"))
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "name": "Dr A"})
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	res, err := g.SignIn(context.Background(), "doc1", "deadbeef")
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "Dr A", res.DisplayName)
}

func TestSignInSoftFailureIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	res, err := g.SignIn(context.Background(), "doc1", "deadbeef")
	require.NoError(t, err)
	assert.False(t, res.Success)
}

func TestSignInServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	_, err := g.SignIn(context.Background(), "doc1", "deadbeef")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusInternalServerError, svcErr.Status)
	assert.Equal(t, "auth", svcErr.Service)
}

func TestSignInConnectionError(t *testing.T) {
	// Nothing listens here.
	g := NewAuthGateway("127.0.0.1:1")
	_, err := g.SignIn(context.Background(), "doc1", "deadbeef")
	assert.True(t, errors.Is(err, ErrConnection))
}

func TestCreateAccountTakenName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/create-account", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)

		var body createAccountRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "doc1", body.Username)
		assert.Equal(t, "doc1@hosp.org", body.Email)
		json.NewEncoder(w).Encode(map[string]interface{}{"success": false})
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	ok, err := g.CreateAccount(context.Background(), "doc1", "deadbeef", "doc1@hosp.org", "Dr A")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRequestPasswordResetMasksUnknownAddress(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("Error sending reset email"))
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	ok, err := g.RequestPasswordReset(context.Background(), "notfound@x.com")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRequestPasswordResetOtherFailuresSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream exploded"))
	}))
	defer srv.Close()

	g := NewAuthGateway(testAddr(srv))
	_, err := g.RequestPasswordReset(context.Background(), "doc1@hosp.org")
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, http.StatusBadGateway, svcErr.Status)
}
