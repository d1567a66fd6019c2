package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/diewo77/go-crm/api"
	"github.com/diewo77/go-crm/httpx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in api.LoginInput
		_ = httpx.DecodeJSON(r, &in)
		if in.Password != "admin123" {
			httpx.JSONError(w, http.StatusUnauthorized, "Email ou mot de passe incorrect", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, api.AuthResponse{User: api.User{ID: 1, Email: in.Email}, Token: "tok"})
	})
	mux.HandleFunc("GET /api/companies", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			httpx.JSONError(w, http.StatusUnauthorized, "Token invalide ou expiré", nil)
			return
		}
		httpx.JSON(w, http.StatusOK, []api.Company{{ID: 7, Name: "Acme"}})
	})
	mux.HandleFunc("POST /api/companies", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSONError(w, http.StatusBadRequest, "Données invalides", map[string]string{"name": "required"})
	})
	mux.HandleFunc("DELETE /api/companies/{id}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, httpx.MessageResponse{Message: "ok", ID: 7})
	})
	mux.HandleFunc("GET /api/companies/search/{term}", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, []api.Company{{ID: 1, Name: r.PathValue("term")}})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginStoresToken(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL)
	ctx := context.Background()

	res, err := c.Login(ctx, "admin@closer-crm.fr", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, "tok", c.Token())

	list, err := c.Companies(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Acme", list[0].Name)

	require.NoError(t, c.DeleteCompany(ctx, 7))
}

func TestUnauthorizedClearsToken(t *testing.T) {
	srv := fakeServer(t)
	called := 0
	c := New(srv.URL, WithToken("stale"))
	c.OnUnauthorized(func() { called++ })

	_, err := c.Companies(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnauthorized))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Empty(t, c.Token())
	assert.Equal(t, 1, called)
}

func TestAPIErrorDetails(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL, WithToken("tok"))

	_, err := c.CreateCompany(context.Background(), api.CompanyInput{})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "required", apiErr.Details["name"])
	assert.False(t, errors.Is(err, ErrUnauthorized))
	assert.Equal(t, "tok", c.Token())
}

func TestSearchEscapesTerm(t *testing.T) {
	srv := fakeServer(t)
	c := New(srv.URL, WithToken("tok"))
	got, err := c.SearchCompanies(context.Background(), "green energy")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "green energy", got[0].Name)
}
